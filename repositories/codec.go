package repositories

import (
	"talk-gate/domain"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/samber/lo"
)

// Records are stored as CBOR. Timestamps are kept as unix nanoseconds so the
// round trip is exact.

type diskActor struct {
	ID   string `cbor:"id"`
	Name string `cbor:"name"`
}

type diskMessage struct {
	Body   string    `cbor:"body"`
	Sender diskActor `cbor:"sender"`
	Lang   string    `cbor:"lang,omitempty"`
	At     int64     `cbor:"at"`
}

type diskConversation struct {
	ID           string        `cbor:"id"`
	Participants []diskActor   `cbor:"participants"`
	Status       string        `cbor:"status"`
	CreatedBy    diskActor     `cbor:"created_by"`
	Messages     []diskMessage `cbor:"messages"`
	Pending      []diskMessage `cbor:"pending,omitempty"`
	CreatedAt    int64         `cbor:"created_at"`
	UpdatedAt    int64         `cbor:"updated_at"`
}

type diskIdentity struct {
	ID        string   `cbor:"id"`
	Name      string   `cbor:"name"`
	Requests  []string `cbor:"requests"`
	Allowed   []string `cbor:"allowed"`
	Ignored   []string `cbor:"ignored"`
	CreatedAt int64    `cbor:"created_at"`
}

// EncodeConversation serializes a conversation the way it is stored.
func EncodeConversation(c domain.Conversation) ([]byte, error) {
	return cbor.Marshal(fromConversation(c))
}

// DecodeConversation reads a stored conversation value.
func DecodeConversation(data []byte) (domain.Conversation, error) {
	var d diskConversation
	if err := cbor.Unmarshal(data, &d); err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(d), nil
}

func encodeIdentity(i domain.Identity) ([]byte, error) {
	return cbor.Marshal(diskIdentity{
		ID:        i.ID,
		Name:      i.Name,
		Requests:  i.Permissions.Requests,
		Allowed:   i.Permissions.Allowed,
		Ignored:   i.Permissions.Ignored,
		CreatedAt: unixNano(i.CreatedAt),
	})
}

func decodeIdentity(data []byte) (domain.Identity, error) {
	var d diskIdentity
	if err := cbor.Unmarshal(data, &d); err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		ID:   d.ID,
		Name: d.Name,
		Permissions: domain.Ledger{
			Requests: d.Requests,
			Allowed:  d.Allowed,
			Ignored:  d.Ignored,
		},
		CreatedAt: fromUnixNano(d.CreatedAt),
	}, nil
}

func fromConversation(c domain.Conversation) diskConversation {
	return diskConversation{
		ID:           c.ID,
		Participants: lo.Map(c.Participants, func(a domain.Actor, _ int) diskActor { return fromActor(a) }),
		Status:       c.Status.String(),
		CreatedBy:    fromActor(c.CreatedBy),
		Messages:     lo.Map(c.Messages, func(m domain.Message, _ int) diskMessage { return fromMessage(m) }),
		Pending:      lo.Map(c.Pending, func(m domain.Message, _ int) diskMessage { return fromMessage(m) }),
		CreatedAt:    unixNano(c.CreatedAt),
		UpdatedAt:    unixNano(c.UpdatedAt),
	}
}

func toConversation(d diskConversation) domain.Conversation {
	c := domain.Conversation{
		ID:           d.ID,
		Participants: lo.Map(d.Participants, func(a diskActor, _ int) domain.Actor { return toActor(a) }),
		Status:       domain.Status(d.Status),
		CreatedBy:    toActor(d.CreatedBy),
		CreatedAt:    fromUnixNano(d.CreatedAt),
		UpdatedAt:    fromUnixNano(d.UpdatedAt),
	}
	if len(d.Messages) > 0 {
		c.Messages = lo.Map(d.Messages, func(m diskMessage, _ int) domain.Message { return toMessage(m) })
	}
	if len(d.Pending) > 0 {
		c.Pending = lo.Map(d.Pending, func(m diskMessage, _ int) domain.Message { return toMessage(m) })
	}
	return c
}

func fromActor(a domain.Actor) diskActor {
	return diskActor{ID: a.ID, Name: a.Name}
}

func toActor(a diskActor) domain.Actor {
	return domain.Actor{ID: a.ID, Name: a.Name}
}

func fromMessage(m domain.Message) diskMessage {
	return diskMessage{Body: m.Body, Sender: fromActor(m.Sender), Lang: m.Lang, At: unixNano(m.CreatedAt)}
}

func toMessage(m diskMessage) domain.Message {
	return domain.Message{Body: m.Body, Sender: toActor(m.Sender), Lang: m.Lang, CreatedAt: fromUnixNano(m.At)}
}

// The zero time has no unix representation, it is stored as 0.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
