package search

import (
	"context"
	"log/slog"
	"talk-gate/domain"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestMessageIndex_Search(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index, err := NewMessageIndex("", logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)
	defer func() { _ = index.Close() }()

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	alice := domain.Actor{ID: "alice", Name: "Alice"}
	bob := domain.Actor{ID: "bob", Name: "Bob"}
	carol := domain.Actor{ID: "carol", Name: "Carol"}
	ab := domain.Conversation{ID: "ab", Participants: []domain.Actor{alice, bob}}
	bc := domain.Conversation{ID: "bc", Participants: []domain.Actor{bob, carol}}

	req.NoError(index.Index(ctx, ab,
		domain.Message{Body: "the parcel arrived this morning", Sender: alice, CreatedAt: at},
		domain.Message{Body: "great, thanks", Sender: bob, CreatedAt: at.Add(time.Minute)},
	))
	req.NoError(index.Index(ctx, bc,
		domain.Message{Body: "where is my parcel?", Sender: carol, CreatedAt: at},
	))
	// Indexing nothing is a no-op
	req.NoError(index.Index(ctx, bc))

	// Then bob sees both conversations
	var hits []Hit
	req.Eventually(func() bool {
		hits, err = index.Search(ctx, "bob", "parcel", 10)
		return err == nil && len(hits) == 2
	}, 2*time.Second, 20*time.Millisecond)

	// Then alice only sees her own
	hits, err = index.Search(ctx, "alice", "parcel", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("ab", hits[0].ConversationID)
	req.Equal("alice", hits[0].SenderID)
	req.Equal("the parcel arrived this morning", hits[0].Body)
	req.Equal(at, hits[0].At)

	hits, err = index.Search(ctx, "carol", "thanks", 10)
	req.NoError(err)
	req.Empty(hits)
}

func TestMessageIndex_ReindexIsIdempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index, err := NewMessageIndex("", logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)
	defer func() { _ = index.Close() }()

	alice := domain.Actor{ID: "alice"}
	c := domain.Conversation{ID: "ab", Participants: []domain.Actor{alice, {ID: "bob"}}}
	m := domain.Message{Body: "same message twice", Sender: alice, CreatedAt: time.Now().UTC()}
	req.NoError(index.Index(ctx, c, m))
	req.NoError(index.Index(ctx, c, m))

	req.Eventually(func() bool {
		hits, err := index.Search(ctx, "bob", "message", 10)
		return err == nil && len(hits) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestMessageIndex_ContextCanceled(t *testing.T) {
	index, err := NewMessageIndex("", logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	defer func() { _ = index.Close() }()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = index.Index(ctx, domain.Conversation{ID: "ab"}, domain.Message{Body: "x"})
	require.ErrorIs(t, err, context.Canceled)
}
