package domain

import (
	"fmt"
	"slices"
	"talk-gate/errors"
	"time"

	"github.com/samber/lo"
)

// Conversation is a private exchange between exactly two identities.
// Messages is append-only and ordered by creation time. Pending holds bodies
// sent before permission was granted, when the deliver policy is active.
type Conversation struct {
	ID           string
	Participants []Actor
	Status       Status
	CreatedBy    Actor
	Messages     []Message
	Pending      []Message
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPrivateConversation returns a conversation in the requested state.
func NewPrivateConversation(id string, creator Actor, participants []Actor, at time.Time) (Conversation, error) {
	if _, err := NewPairKey(lo.Map(participants, func(a Actor, _ int) string { return a.ID })...); err != nil {
		return Conversation{}, err
	}
	if !lo.ContainsBy(participants, func(a Actor) bool { return a.ID == creator.ID }) {
		return Conversation{}, fmt.Errorf("%w: creator %s is not a participant", errors.ErrValidation, creator.ID)
	}
	return Conversation{
		ID:           id,
		Participants: participants,
		Status:       StatusRequested,
		CreatedBy:    creator,
		CreatedAt:    at,
		UpdatedAt:    at,
	}, nil
}

func (c Conversation) ParticipantIDs() []string {
	return lo.Map(c.Participants, func(a Actor, _ int) string { return a.ID })
}

// PairKey is only meaningful for conversations built by NewPrivateConversation.
func (c Conversation) PairKey() PairKey {
	key, _ := NewPairKey(c.ParticipantIDs()...)
	return key
}

func (c Conversation) HasParticipant(id string) bool {
	return lo.Contains(c.ParticipantIDs(), id)
}

// Participant returns the cached actor of participant id.
func (c Conversation) Participant(id string) (Actor, bool) {
	return lo.Find(c.Participants, func(a Actor) bool { return a.ID == id })
}

// ParticipantNamesWithout lists the display names of everyone but id.
func (c Conversation) ParticipantNamesWithout(id string) []string {
	return lo.FilterMap(c.Participants, func(a Actor, _ int) (string, bool) {
		return a.Name, a.ID != id
	})
}

// LatestMessage returns the last message, whoever sent it.
func (c Conversation) LatestMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// TransitionTo moves the conversation to target when the state machine allows it.
func (c *Conversation) TransitionTo(target Status, at time.Time) error {
	if !c.Status.CanTransitionTo(target) {
		return &errors.InvalidTransitionError{
			ConversationID: c.ID,
			From:           c.Status.String(),
			To:             target.String(),
		}
	}
	c.Status = target
	c.UpdatedAt = at
	return nil
}

// Append adds a message from one of the two participants.
// A message never goes before the current latest one: an earlier CreatedAt
// is raised to the latest timestamp.
func (c *Conversation) Append(m Message) error {
	sender, ok := c.Participant(m.Sender.ID)
	if !ok {
		return fmt.Errorf("%w: identity %s is not a participant of conversation %s",
			errors.ErrPermission, m.Sender.ID, c.ID)
	}
	if m.Sender.Name == "" {
		m.Sender.Name = sender.Name
	}
	c.push(m)
	return nil
}

func (c *Conversation) push(m Message) {
	if last, ok := c.LatestMessage(); ok && m.CreatedAt.Before(last.CreatedAt) {
		m.CreatedAt = last.CreatedAt
	}
	c.Messages = append(c.Messages, m)
	if m.CreatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = m.CreatedAt
	}
}

// Hold keeps a message aside until DeliverPending is called.
func (c *Conversation) Hold(m Message) error {
	if !c.HasParticipant(m.Sender.ID) {
		return fmt.Errorf("%w: identity %s is not a participant of conversation %s",
			errors.ErrPermission, m.Sender.ID, c.ID)
	}
	c.Pending = append(c.Pending, m)
	return nil
}

// DeliverPending moves held messages into the message sequence, keeping it
// ordered by creation time. It returns the delivered messages.
func (c *Conversation) DeliverPending(at time.Time) []Message {
	if len(c.Pending) == 0 {
		return nil
	}
	from := len(c.Messages)
	for _, m := range c.Pending {
		c.push(m)
	}
	c.Pending = nil
	if at.After(c.UpdatedAt) {
		c.UpdatedAt = at
	}
	return slices.Clone(c.Messages[from:])
}
