//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"talk-gate/domain"
	"talk-gate/errors"

	"github.com/dgraph-io/badger/v4"
)

// Key layout:
//
//	conv:{id}                    -> CBOR conversation
//	pair:{lowID}:{highID}        -> conversation id (one conversation per pair)
//	part:{identityID}:{convID}   -> empty, participant index
const (
	ConversationPrefix = "conv:"
	PairPrefix         = "pair:"
	ParticipantPrefix  = "part:"
)

type IConversationRepository interface {
	Get(ctx context.Context, id string) (domain.Conversation, error)
	FindOne(ctx context.Context, matcher Matcher) (domain.Conversation, error)
	Find(ctx context.Context, matcher Matcher, order SortOrder) ([]domain.Conversation, error)
	CreateIfAbsent(ctx context.Context, conversation domain.Conversation) (domain.Conversation, bool, error)
	Save(ctx context.Context, conversation domain.Conversation) error
	Update(ctx context.Context, id string, patch func(c *domain.Conversation) error) (domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) *ConversationRepository {
	return &ConversationRepository{db: db, log: log}
}

func conversationKey(id string) []byte {
	return []byte(ConversationPrefix + id)
}

func pairKey(key domain.PairKey) []byte {
	return []byte(PairPrefix + key.String())
}

func participantKey(identityID, conversationID string) []byte {
	return []byte(ParticipantPrefix + identityID + ":" + conversationID)
}

func (r *ConversationRepository) Get(ctx context.Context, id string) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		var err error
		conversation, err = getConversation(txn, id)
		return err
	})
	return conversation, err
}

// FindOne returns the first conversation satisfying matcher, or ErrNotFound.
// A pair matcher is answered from the pair index.
func (r *ConversationRepository) FindOne(ctx context.Context, matcher Matcher) (domain.Conversation, error) {
	if matcher.Pair == nil {
		conversations, err := r.Find(ctx, matcher, SortNone)
		if err != nil {
			return domain.Conversation{}, err
		}
		if len(conversations) == 0 {
			return domain.Conversation{}, fmt.Errorf("%w: no conversation matches", errors.ErrNotFound)
		}
		return conversations[0], nil
	}

	var conversation domain.Conversation
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		id, err := getPairConversationID(txn, *matcher.Pair)
		if err != nil {
			return err
		}
		conversation, err = getConversation(txn, id)
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	if !matcher.Matches(conversation) {
		return domain.Conversation{}, fmt.Errorf("%w: no conversation matches for pair %s", errors.ErrNotFound, matcher.Pair)
	}
	return conversation, nil
}

// Find returns every conversation satisfying matcher. With a participant
// criterion only that identity's index entries are scanned.
func (r *ConversationRepository) Find(ctx context.Context, matcher Matcher, order SortOrder) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		conversations = nil
		collect := func(c domain.Conversation) {
			if matcher.Matches(c) {
				conversations = append(conversations, c)
			}
		}
		if matcher.Participant != "" {
			return scanParticipant(ctx, txn, matcher.Participant, collect)
		}
		return scanAll(ctx, txn, collect)
	})
	if err != nil {
		return nil, err
	}
	sortConversations(conversations, order)
	return conversations, nil
}

// CreateIfAbsent stores conversation unless its pair already has one, in
// which case the existing conversation is returned with created=false.
// The pair index read and the writes share one transaction: two concurrent
// creators conflict, the loser is replayed and reads the winner's record.
func (r *ConversationRepository) CreateIfAbsent(ctx context.Context, conversation domain.Conversation) (domain.Conversation, bool, error) {
	key := conversation.PairKey()
	if key == (domain.PairKey{}) {
		return domain.Conversation{}, false, fmt.Errorf("%w: conversation %s is not private", errors.ErrValidation, conversation.ID)
	}
	data, err := EncodeConversation(conversation)
	if err != nil {
		return domain.Conversation{}, false, fmt.Errorf("marshal failed: %w", err)
	}

	var (
		result  domain.Conversation
		created bool
	)
	err = updateWithRetry(ctx, r.db, func(txn *badger.Txn) error {
		existingID, err := getPairConversationID(txn, key)
		switch {
		case err == nil:
			result, err = getConversation(txn, existingID)
			created = false
			return err
		case !stderrors.Is(err, errors.ErrNotFound):
			return err
		}
		if err = writeConversation(txn, conversation, data); err != nil {
			return err
		}
		if err = txn.Set(pairKey(key), []byte(conversation.ID)); err != nil {
			return err
		}
		result, created = conversation, true
		return nil
	})
	if err != nil {
		return domain.Conversation{}, false, err
	}
	if created {
		r.log.Debug("Conversation created", "conversation_id", result.ID, "pair", key.String())
	}
	return result, created, nil
}

// Save creates or replaces a conversation. It fails with ErrDuplicatePair when
// the pair already belongs to another conversation.
func (r *ConversationRepository) Save(ctx context.Context, conversation domain.Conversation) error {
	key := conversation.PairKey()
	if key == (domain.PairKey{}) {
		return fmt.Errorf("%w: conversation %s is not private", errors.ErrValidation, conversation.ID)
	}
	data, err := EncodeConversation(conversation)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return updateWithRetry(ctx, r.db, func(txn *badger.Txn) error {
		existingID, err := getPairConversationID(txn, key)
		switch {
		case err == nil && existingID != conversation.ID:
			return fmt.Errorf("%w: pair %s belongs to %s", errors.ErrDuplicatePair, key, existingID)
		case err != nil && !stderrors.Is(err, errors.ErrNotFound):
			return err
		}
		if err = writeConversation(txn, conversation, data); err != nil {
			return err
		}
		return txn.Set(pairKey(key), []byte(conversation.ID))
	})
}

// Update runs patch on the stored conversation and persists the result in the
// same transaction. A patch error aborts without writing. Participants are
// immutable.
func (r *ConversationRepository) Update(ctx context.Context, id string, patch func(c *domain.Conversation) error) (domain.Conversation, error) {
	var updated domain.Conversation
	err := updateWithRetry(ctx, r.db, func(txn *badger.Txn) error {
		conversation, err := getConversation(txn, id)
		if err != nil {
			return err
		}
		participants := conversation.ParticipantIDs()
		if err = patch(&conversation); err != nil {
			return err
		}
		if !slices.Equal(participants, conversation.ParticipantIDs()) {
			return fmt.Errorf("%w: participants of conversation %s cannot change", errors.ErrValidation, id)
		}
		data, err := EncodeConversation(conversation)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		if err = txn.Set(conversationKey(id), data); err != nil {
			return err
		}
		updated = conversation
		return nil
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return updated, nil
}

func writeConversation(txn *badger.Txn, conversation domain.Conversation, data []byte) error {
	if err := txn.Set(conversationKey(conversation.ID), data); err != nil {
		return err
	}
	for _, id := range conversation.ParticipantIDs() {
		if err := txn.Set(participantKey(id, conversation.ID), nil); err != nil {
			return err
		}
	}
	return nil
}

func getPairConversationID(txn *badger.Txn, key domain.PairKey) (string, error) {
	item, err := txn.Get(pairKey(key))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: no conversation for pair %s", errors.ErrNotFound, key)
	}
	if err != nil {
		return "", err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func getConversation(txn *badger.Txn, id string) (domain.Conversation, error) {
	item, err := txn.Get(conversationKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, fmt.Errorf("%w: conversation %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	var conversation domain.Conversation
	err = item.Value(func(val []byte) error {
		conversation, err = DecodeConversation(val)
		return err
	})
	return conversation, err
}

func scanParticipant(ctx context.Context, txn *badger.Txn, identityID string, collect func(domain.Conversation)) error {
	prefix := []byte(ParticipantPrefix + identityID + ":")
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		conversationID := string(it.Item().Key()[len(prefix):])
		conversation, err := getConversation(txn, conversationID)
		if err != nil {
			return err
		}
		collect(conversation)
	}
	return nil
}

func scanAll(ctx context.Context, txn *badger.Txn, collect func(domain.Conversation)) error {
	prefix := []byte(ConversationPrefix)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := it.Item().Value(func(val []byte) error {
			conversation, err := DecodeConversation(val)
			if err != nil {
				return err
			}
			collect(conversation)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
