//go:generate go run go.uber.org/mock/mockgen -source=message_index.go -destination=../mocks/mock_message_index.go -package=mocks
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"talk-gate/domain"
	"time"

	"github.com/blugelabs/bluge"
)

const (
	fieldConversation = "conversation"
	fieldParticipant  = "participant"
	fieldSender       = "sender"
	fieldBody         = "body"
	fieldAt           = "at"
)

// Hit is one message matching a search.
type Hit struct {
	ConversationID string
	SenderID       string
	Body           string
	At             time.Time
	Score          float64
}

type IMessageIndex interface {
	Index(ctx context.Context, conversation domain.Conversation, messages ...domain.Message) error
	Search(ctx context.Context, identityID, text string, limit int) ([]Hit, error)
	Close() error
}

// MessageIndex keeps a full-text index of private messages. Every document is
// tagged with both participants so a search never leaves the conversations of
// the identity asking.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// NewMessageIndex opens an index stored under path, or in memory when path is empty.
func NewMessageIndex(path string, log *slog.Logger) (*MessageIndex, error) {
	config := bluge.InMemoryOnlyConfig()
	if path != "" {
		config = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(config)
	if err != nil {
		return nil, fmt.Errorf("bluge opening failed: %w", err)
	}
	return &MessageIndex{writer: writer, log: log}, nil
}

// documentID is stable for a given message, so indexing twice only updates.
func documentID(conversationID string, m domain.Message) string {
	return conversationID + ":" + strconv.FormatInt(m.CreatedAt.UnixNano(), 10) + ":" + m.Sender.ID
}

func (i *MessageIndex) Index(ctx context.Context, conversation domain.Conversation, messages ...domain.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := bluge.NewBatch()
	for _, m := range messages {
		doc := bluge.NewDocument(documentID(conversation.ID, m)).
			AddField(bluge.NewKeywordField(fieldConversation, conversation.ID).StoreValue()).
			AddField(bluge.NewKeywordField(fieldSender, m.Sender.ID).StoreValue()).
			AddField(bluge.NewTextField(fieldBody, m.Body).StoreValue()).
			AddField(bluge.NewKeywordField(fieldAt, strconv.FormatInt(m.CreatedAt.UnixNano(), 10)).StoreValue())
		for _, id := range conversation.ParticipantIDs() {
			doc.AddField(bluge.NewKeywordField(fieldParticipant, id))
		}
		batch.Update(doc.ID(), doc)
	}
	if err := i.writer.Batch(batch); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	i.log.Debug("Messages indexed", "conversation_id", conversation.ID, "count", len(messages))
	return nil
}

// Search returns the best matching messages of conversations identityID takes part in.
func (i *MessageIndex) Search(ctx context.Context, identityID, text string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("index reader failed: %w", err)
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(text).SetField(fieldBody)).
		AddMust(bluge.NewTermQuery(identityID).SetField(fieldParticipant))
	request := bluge.NewTopNSearch(limit, query)

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var hits []Hit
	match, err := matches.Next()
	for err == nil && match != nil {
		hit := Hit{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case fieldConversation:
				hit.ConversationID = string(value)
			case fieldSender:
				hit.SenderID = string(value)
			case fieldBody:
				hit.Body = string(value)
			case fieldAt:
				if nanos, parseErr := strconv.ParseInt(string(value), 10, 64); parseErr == nil {
					hit.At = time.Unix(0, nanos).UTC()
				}
			}
			return true
		})
		if err != nil {
			break
		}
		hits = append(hits, hit)
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("reading search results failed: %w", err)
	}
	return hits, nil
}

func (i *MessageIndex) Close() error {
	return i.writer.Close()
}
