package repositories

import (
	"context"
	"log/slog"
	"talk-gate/domain"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func newConversation(t *testing.T, id string, creator domain.Actor, other domain.Actor, at time.Time) domain.Conversation {
	t.Helper()
	c, err := domain.NewPrivateConversation(id, creator, []domain.Actor{creator, other}, at)
	require.NoError(t, err)
	return c
}

func seedIdentities(t *testing.T, repo *IdentityRepository, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, repo.Save(context.Background(), domain.Identity{ID: id, Name: id}))
	}
}
