//go:generate go run go.uber.org/mock/mockgen -source=identity.go -destination=../mocks/mock_identity_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"talk-gate/domain"
	"talk-gate/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const identityPrefix = "identity:"

// IIdentityRepository is the identity store the conversation core reads from.
// Only UpdateLedger writes, and only the ledger fields.
type IIdentityRepository interface {
	Save(ctx context.Context, identity domain.Identity) error
	FindByID(ctx context.Context, id string) (domain.Identity, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Identity, error)
	UpdateLedger(ctx context.Context, id string, mutate func(ledger *domain.Ledger)) (domain.Identity, error)
}

type IdentityRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewIdentityRepository(db *badger.DB, log *slog.Logger) *IdentityRepository {
	return &IdentityRepository{db: db, log: log}
}

func identityKey(id string) []byte {
	return []byte(identityPrefix + id)
}

// Save creates or replaces an identity record.
// Ids are used inside composite keys, so they may not contain ':'.
func (r *IdentityRepository) Save(ctx context.Context, identity domain.Identity) error {
	if identity.ID == "" || strings.Contains(identity.ID, ":") {
		return fmt.Errorf("%w: invalid identity id %q", errors.ErrValidation, identity.ID)
	}
	data, err := encodeIdentity(identity)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return updateWithRetry(ctx, r.db, func(txn *badger.Txn) error {
		return txn.Set(identityKey(identity.ID), data)
	})
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (domain.Identity, error) {
	var identity domain.Identity
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		var err error
		identity, err = getIdentity(txn, id)
		return err
	})
	return identity, err
}

// FindByIDs returns the identities that exist among ids, in the order of
// their first occurrence. Missing ids are skipped.
func (r *IdentityRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Identity, error) {
	var identities []domain.Identity
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		identities = nil
		for _, id := range lo.Uniq(ids) {
			identity, err := getIdentity(txn, id)
			if stderrors.Is(err, errors.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			identities = append(identities, identity)
		}
		return nil
	})
	return identities, err
}

// UpdateLedger applies mutate to the ledger of one identity atomically.
// Concurrent updates of the same record are serialized through conflict retries.
func (r *IdentityRepository) UpdateLedger(ctx context.Context, id string, mutate func(ledger *domain.Ledger)) (domain.Identity, error) {
	var updated domain.Identity
	err := updateWithRetry(ctx, r.db, func(txn *badger.Txn) error {
		identity, err := getIdentity(txn, id)
		if err != nil {
			return err
		}
		mutate(identity.PermissionLedger())
		data, err := encodeIdentity(identity)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		if err = txn.Set(identityKey(id), data); err != nil {
			return err
		}
		updated = identity
		return nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	r.log.Debug("Ledger updated", "identity_id", id,
		"requests", len(updated.Permissions.Requests), "allowed", len(updated.Permissions.Allowed))
	return updated, nil
}

func getIdentity(txn *badger.Txn, id string) (domain.Identity, error) {
	item, err := txn.Get(identityKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Identity{}, fmt.Errorf("%w: identity %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Identity{}, err
	}
	var identity domain.Identity
	err = item.Value(func(val []byte) error {
		identity, err = decodeIdentity(val)
		return err
	})
	return identity, err
}
