//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_conversation_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"talk-gate/domain"
	"talk-gate/errors"
	"talk-gate/moderation"
	"talk-gate/repositories"
	"talk-gate/search"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const defaultSearchLimit = 20

type IConversationService interface {
	FindOrCreate(ctx context.Context, creatorID string, participantIDs []string) (domain.Conversation, error)
	FindPrivateConversation(ctx context.Context, participantIDs []string) (domain.Conversation, error)
	AddMessage(ctx context.Context, conversationID, senderID, body string) (domain.Conversation, error)
	Transition(ctx context.Context, conversationID string, target domain.Status) (domain.Conversation, error)
	Start(ctx context.Context, conversationID string) (domain.Conversation, error)
	Deny(ctx context.Context, conversationID string) (domain.Conversation, error)
	End(ctx context.Context, conversationID string) (domain.Conversation, error)
	GetInbox(ctx context.Context, identityID string) ([]domain.Conversation, error)
	FindRequested(ctx context.Context, identityID string) ([]domain.Conversation, error)
	QueuePending(ctx context.Context, conversationID, senderID, body string) (domain.Conversation, error)
	DeliverPending(ctx context.Context, conversationID string) (domain.Conversation, error)
	SearchMessages(ctx context.Context, identityID, text string, limit int) ([]search.Hit, error)
}

// ConversationService is the only writer of conversation records.
type ConversationService struct {
	conversations repositories.IConversationRepository
	identities    repositories.IIdentityRepository
	moderator     *moderation.Moderator
	index         search.IMessageIndex
	log           *slog.Logger
	now           func() time.Time
}

type ConversationOption func(*ConversationService)

// WithModerator censors bodies before they are appended.
func WithModerator(m *moderation.Moderator) ConversationOption {
	return func(s *ConversationService) { s.moderator = m }
}

// WithMessageIndex indexes every appended message for SearchMessages.
func WithMessageIndex(index search.IMessageIndex) ConversationOption {
	return func(s *ConversationService) { s.index = index }
}

// WithClock overrides the time source, tests use it to order messages.
func WithClock(now func() time.Time) ConversationOption {
	return func(s *ConversationService) { s.now = now }
}

func NewConversationService(
	conversations repositories.IConversationRepository,
	identities repositories.IIdentityRepository,
	log *slog.Logger,
	opts ...ConversationOption,
) *ConversationService {
	s := &ConversationService{
		conversations: conversations,
		identities:    identities,
		log:           log,
		now:           utcNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// utcNow drops the monotonic reading so stored and in-memory values compare equal.
func utcNow() time.Time {
	return time.Now().UTC().Round(0)
}

// FindOrCreate returns the private conversation of the participants, creating
// it in the requested state when the pair has none. An existing conversation
// is returned unchanged whoever the creator is.
func (s *ConversationService) FindOrCreate(ctx context.Context, creatorID string, participantIDs []string) (domain.Conversation, error) {
	ids := lo.Uniq(participantIDs)
	if len(ids) > 2 {
		return domain.Conversation{}, fmt.Errorf("%w: private conversations accept 2 participants, got %d",
			errors.ErrValidation, len(ids))
	}

	existing, err := s.identities.FindByIDs(ctx, ids)
	if err != nil {
		return domain.Conversation{}, err
	}
	if len(existing) < len(ids) {
		return domain.Conversation{}, fmt.Errorf("%w: tried adding invalid or non-existent identities %v",
			errors.ErrValidation, lo.Without(ids, lo.Map(existing, func(i domain.Identity, _ int) string { return i.ID })...))
	}
	if len(existing) < 2 {
		return domain.Conversation{}, fmt.Errorf("%w: not enough valid participants", errors.ErrValidation)
	}

	creator, ok := lo.Find(existing, func(i domain.Identity) bool { return i.ID == creatorID })
	if !ok {
		return domain.Conversation{}, fmt.Errorf("%w: creator %s must be a participant", errors.ErrValidation, creatorID)
	}

	conversation, err := domain.NewPrivateConversation(
		uuid.New().String(),
		creator.Actor(),
		lo.Map(existing, func(i domain.Identity, _ int) domain.Actor { return i.Actor() }),
		s.now(),
	)
	if err != nil {
		return domain.Conversation{}, err
	}

	conversation, created, err := s.conversations.CreateIfAbsent(ctx, conversation)
	if err != nil {
		return domain.Conversation{}, err
	}
	if created {
		s.log.Info("Conversation requested", "conversation_id", conversation.ID, "created_by", creatorID)
	}
	return conversation, nil
}

// FindPrivateConversation matches the conversation whose participant set is exactly participantIDs.
func (s *ConversationService) FindPrivateConversation(ctx context.Context, participantIDs []string) (domain.Conversation, error) {
	key, err := domain.NewPairKey(participantIDs...)
	if err != nil {
		return domain.Conversation{}, err
	}
	return s.conversations.FindOne(ctx, repositories.ByPair(key))
}

// AddMessage appends a message from one of the participants. The timestamp is
// taken inside the store transaction. The conversation status is not checked
// here, see PermissionService.SendPrivateMessage.
func (s *ConversationService) AddMessage(ctx context.Context, conversationID, senderID, body string) (domain.Conversation, error) {
	message, err := s.newMessage(senderID, body)
	if err != nil {
		return domain.Conversation{}, err
	}
	conversation, err := s.conversations.Update(ctx, conversationID, func(c *domain.Conversation) error {
		// Stamped on every attempt so commit order and timestamps agree.
		message.CreatedAt = s.now()
		return c.Append(message)
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	appended, _ := conversation.LatestMessage()
	s.indexMessages(ctx, conversation, appended)
	return conversation, nil
}

// Transition moves the conversation along the state machine. The status check
// and the write happen in one transaction.
func (s *ConversationService) Transition(ctx context.Context, conversationID string, target domain.Status) (domain.Conversation, error) {
	if !target.Valid() {
		return domain.Conversation{}, fmt.Errorf("%w: unknown status %q", errors.ErrValidation, target)
	}
	conversation, err := s.conversations.Update(ctx, conversationID, func(c *domain.Conversation) error {
		return c.TransitionTo(target, s.now())
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	s.log.Info("Conversation status changed", "conversation_id", conversationID, "status", target)
	return conversation, nil
}

func (s *ConversationService) Start(ctx context.Context, conversationID string) (domain.Conversation, error) {
	return s.Transition(ctx, conversationID, domain.StatusStarted)
}

func (s *ConversationService) Deny(ctx context.Context, conversationID string) (domain.Conversation, error) {
	return s.Transition(ctx, conversationID, domain.StatusDenied)
}

func (s *ConversationService) End(ctx context.Context, conversationID string) (domain.Conversation, error) {
	return s.Transition(ctx, conversationID, domain.StatusEnded)
}

// GetInbox lists the started, non-empty conversations of identityID, most recently updated first.
func (s *ConversationService) GetInbox(ctx context.Context, identityID string) ([]domain.Conversation, error) {
	return s.conversations.Find(ctx, repositories.Matcher{
		Participant:  identityID,
		Status:       domain.StatusStarted,
		WithMessages: true,
	}, repositories.SortByUpdatedDesc)
}

// FindRequested lists the requested conversations identityID takes part in
// but did not create.
func (s *ConversationService) FindRequested(ctx context.Context, identityID string) ([]domain.Conversation, error) {
	return s.conversations.Find(ctx, repositories.Matcher{
		Participant:  identityID,
		Status:       domain.StatusRequested,
		NotCreatedBy: identityID,
	}, repositories.SortByUpdatedDesc)
}

// QueuePending holds a message on the conversation until DeliverPending.
func (s *ConversationService) QueuePending(ctx context.Context, conversationID, senderID, body string) (domain.Conversation, error) {
	message, err := s.newMessage(senderID, body)
	if err != nil {
		return domain.Conversation{}, err
	}
	return s.conversations.Update(ctx, conversationID, func(c *domain.Conversation) error {
		message.CreatedAt = s.now()
		return c.Hold(message)
	})
}

// DeliverPending appends the held messages. Delivering twice is a no-op.
func (s *ConversationService) DeliverPending(ctx context.Context, conversationID string) (domain.Conversation, error) {
	var delivered []domain.Message
	conversation, err := s.conversations.Update(ctx, conversationID, func(c *domain.Conversation) error {
		delivered = c.DeliverPending(s.now())
		return nil
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	if len(delivered) > 0 {
		s.log.Info("Pending messages delivered", "conversation_id", conversationID, "count", len(delivered))
		s.indexMessages(ctx, conversation, delivered...)
	}
	return conversation, nil
}

// SearchMessages runs a full-text search over the messages identityID can read.
func (s *ConversationService) SearchMessages(ctx context.Context, identityID, text string, limit int) ([]search.Hit, error) {
	if s.index == nil {
		return nil, fmt.Errorf("%w: message search is not enabled", errors.ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty search", errors.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return s.index.Search(ctx, identityID, text, limit)
}

func (s *ConversationService) newMessage(senderID, body string) (domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return domain.Message{}, fmt.Errorf("%w: you can't send an empty message", errors.ErrValidation)
	}
	message := domain.Message{
		Body:   body,
		Sender: domain.Actor{ID: senderID},
	}
	if s.moderator != nil {
		review := s.moderator.Review(body)
		message.Body = review.Body
		message.Lang = review.Lang
	}
	return message, nil
}

// indexMessages is best effort: the conversation record is the source of truth.
func (s *ConversationService) indexMessages(ctx context.Context, conversation domain.Conversation, messages ...domain.Message) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, conversation, messages...); err != nil {
		s.log.Warn("Message indexing failed", "conversation_id", conversation.ID, "error", err)
	}
}
