package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"talk-gate/domain"
	"talk-gate/domain/event"
	"talk-gate/repositories"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// stepClock returns a strictly increasing time on every call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

// recordingSink keeps every notification it receives.
type recordingSink struct {
	mu            sync.Mutex
	notifications []event.Notification
}

func (r *recordingSink) Notify(_ context.Context, n event.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recordingSink) received(recipientID string) []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []event.Type
	for _, n := range r.notifications {
		if n.Recipient.ID == recipientID {
			types = append(types, n.Type)
		}
	}
	return types
}

func seedIdentities(t *testing.T, repo repositories.IIdentityRepository, names map[string]string) {
	t.Helper()
	for id, name := range names {
		require.NoError(t, repo.Save(context.Background(), domain.Identity{ID: id, Name: name}))
	}
}

// flakyIdentities fails the next UpdateLedger on failID, then behaves.
type flakyIdentities struct {
	repositories.IIdentityRepository
	mu     sync.Mutex
	failID string
	err    error
}

func (f *flakyIdentities) UpdateLedger(ctx context.Context, id string, mutate func(ledger *domain.Ledger)) (domain.Identity, error) {
	f.mu.Lock()
	if id == f.failID {
		f.failID = ""
		f.mu.Unlock()
		return domain.Identity{}, f.err
	}
	f.mu.Unlock()
	return f.IIdentityRepository.UpdateLedger(ctx, id, mutate)
}

// gatedConversations holds the next Update, once armed, until release is closed.
type gatedConversations struct {
	repositories.IConversationRepository
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedConversations(next repositories.IConversationRepository) *gatedConversations {
	return &gatedConversations{
		IConversationRepository: next,
		entered:                 make(chan struct{}),
		release:                 make(chan struct{}),
	}
}

func (g *gatedConversations) Update(ctx context.Context, id string, patch func(c *domain.Conversation) error) (domain.Conversation, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.IConversationRepository.Update(ctx, id, patch)
}
