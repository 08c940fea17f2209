package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"talk-gate/domain"
	"talk-gate/errors"
	"talk-gate/moderation"
	"talk-gate/repositories"
	"talk-gate/search"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newConversationService(t *testing.T, opts ...ConversationOption) (*ConversationService, *repositories.IdentityRepository) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	identities := repositories.NewIdentityRepository(db, log)
	seedIdentities(t, identities, map[string]string{"1": "Alice", "2": "Bob", "3": "Carol"})
	opts = append([]ConversationOption{WithClock(stepClock())}, opts...)
	return NewConversationService(repositories.NewConversationRepository(db, log), identities, log, opts...), identities
}

func startedConversation(t *testing.T, svc *ConversationService, a, b string) domain.Conversation {
	t.Helper()
	ctx := context.Background()
	c, err := svc.FindOrCreate(ctx, a, []string{a, b})
	require.NoError(t, err)
	c, err = svc.Start(ctx, c.ID)
	require.NoError(t, err)
	return c
}

func TestConversationService_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the same conversation whatever the creator order", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newConversationService(t)

		first, err := svc.FindOrCreate(ctx, "1", []string{"1", "2"})
		req.NoError(err)
		second, err := svc.FindOrCreate(ctx, "2", []string{"2", "1"})
		req.NoError(err)

		req.Equal(first.ID, second.ID)
		req.Equal(domain.StatusRequested, second.Status)
		req.Equal("1", second.CreatedBy.ID)
		req.ElementsMatch([]string{"1", "2"}, second.ParticipantIDs())
	})

	t.Run("should cache participant names", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newConversationService(t)

		c, err := svc.FindOrCreate(ctx, "1", []string{"1", "3"})
		req.NoError(err)
		req.Equal([]string{"Carol"}, c.ParticipantNamesWithout("1"))
		req.Equal("Alice", c.CreatedBy.Name)
	})

	tests := []struct {
		name         string
		creator      string
		participants []string
	}{
		{name: "an unknown participant", creator: "1", participants: []string{"1", "42"}},
		{name: "a single participant", creator: "1", participants: []string{"1", "1"}},
		{name: "three participants", creator: "1", participants: []string{"1", "2", "3"}},
		{name: "a creator outside the pair", creator: "3", participants: []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			svc, _ := newConversationService(t)
			_, err := svc.FindOrCreate(ctx, tt.creator, tt.participants)
			require.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func TestConversationService_FindPrivateConversation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newConversationService(t)

	created, err := svc.FindOrCreate(ctx, "1", []string{"1", "2"})
	req.NoError(err)

	found, err := svc.FindPrivateConversation(ctx, []string{"2", "1"})
	req.NoError(err)
	req.Equal(created.ID, found.ID)

	_, err = svc.FindPrivateConversation(ctx, []string{"1", "3"})
	req.ErrorIs(err, errors.ErrNotFound)

	_, err = svc.FindPrivateConversation(ctx, []string{"1"})
	req.ErrorIs(err, errors.ErrValidation)
}

func TestConversationService_AddMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("should append in order", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newConversationService(t)
		c := startedConversation(t, svc, "1", "2")

		_, err := svc.AddMessage(ctx, c.ID, "1", "hello")
		req.NoError(err)
		c, err = svc.AddMessage(ctx, c.ID, "2", "hi Alice")
		req.NoError(err)

		req.Len(c.Messages, 2)
		req.Equal("1", c.Messages[0].Sender.ID)
		req.Equal("Alice", c.Messages[0].Sender.Name)
		req.True(c.Messages[0].CreatedAt.Before(c.Messages[1].CreatedAt))
		req.Equal(c.Messages[1].CreatedAt, c.UpdatedAt)
	})

	t.Run("should reject a sender outside the conversation", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newConversationService(t)
		c := startedConversation(t, svc, "1", "2")

		_, err := svc.AddMessage(ctx, c.ID, "3", "let me in")
		req.ErrorIs(err, errors.ErrPermission)
	})

	t.Run("should reject an empty body", func(t *testing.T) {
		svc, _ := newConversationService(t)
		c := startedConversation(t, svc, "1", "2")
		_, err := svc.AddMessage(ctx, c.ID, "1", "  \n")
		require.ErrorIs(t, err, errors.ErrValidation)
	})

	t.Run("should fail on an unknown conversation", func(t *testing.T) {
		svc, _ := newConversationService(t)
		_, err := svc.AddMessage(ctx, "nope", "1", "hello")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("should censor the body", func(t *testing.T) {
		req := require.New(t)
		moderator, err := moderation.NewModerator([]string{"badger"}, '*', testLogger())
		req.NoError(err)
		svc, _ := newConversationService(t, WithModerator(moderator))
		c := startedConversation(t, svc, "1", "2")

		c, err = svc.AddMessage(ctx, c.ID, "1", "the badger is back")
		req.NoError(err)
		req.Equal("the ****** is back", c.Messages[0].Body)
	})
}

func TestConversationService_AddMessage_Ordering(t *testing.T) {
	ctx := context.Background()

	t.Run("should stamp messages in commit order when a sender is delayed", func(t *testing.T) {
		req := require.New(t)
		db := openTestDB(t)
		log := testLogger()
		identities := repositories.NewIdentityRepository(db, log)
		seedIdentities(t, identities, map[string]string{"1": "Alice", "2": "Bob"})
		gated := newGatedConversations(repositories.NewConversationRepository(db, log))
		svc := NewConversationService(gated, identities, log, WithClock(stepClock()))
		c := startedConversation(t, svc, "1", "2")

		// Given Alice's append held before it reaches the store
		gated.armed.Store(true)
		done := make(chan error, 1)
		go func() {
			_, err := svc.AddMessage(ctx, c.ID, "1", "sent first")
			done <- err
		}()
		<-gated.entered

		// When Bob's append commits in between
		_, err := svc.AddMessage(ctx, c.ID, "2", "sent second")
		req.NoError(err)
		close(gated.release)
		req.NoError(<-done)

		// Then the stored sequence follows the timestamps
		stored, err := svc.FindPrivateConversation(ctx, []string{"1", "2"})
		req.NoError(err)
		req.Len(stored.Messages, 2)
		req.Equal("sent second", stored.Messages[0].Body)
		req.True(stored.Messages[0].CreatedAt.Before(stored.Messages[1].CreatedAt))
		req.Equal(stored.Messages[1].CreatedAt, stored.UpdatedAt)
	})

	t.Run("should keep concurrent appends ordered by creation time", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newConversationService(t)
		c := startedConversation(t, svc, "1", "2")

		const senders = 8
		errs := make(chan error, senders)
		var wg sync.WaitGroup
		for i := 0; i < senders; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sender := []string{"1", "2"}[i%2]
				_, err := svc.AddMessage(ctx, c.ID, sender, fmt.Sprintf("message %d", i))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			req.NoError(err)
		}

		stored, err := svc.FindPrivateConversation(ctx, []string{"1", "2"})
		req.NoError(err)
		req.Len(stored.Messages, senders)
		req.True(slices.IsSortedFunc(stored.Messages, func(a, b domain.Message) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}))
		last, _ := stored.LatestMessage()
		req.Equal(last.CreatedAt, stored.UpdatedAt)
	})
}

func TestConversationService_Transition(t *testing.T) {
	ctx := context.Background()
	// path reaches a source state from requested
	paths := map[domain.Status][]domain.Status{
		domain.StatusRequested: nil,
		domain.StatusStarted:   {domain.StatusStarted},
		domain.StatusEnded:     {domain.StatusStarted, domain.StatusEnded},
		domain.StatusDenied:    {domain.StatusDenied},
	}

	for _, from := range domain.Statuses() {
		for _, to := range domain.Statuses() {
			t.Run(from.String()+" to "+to.String(), func(t *testing.T) {
				req := require.New(t)
				svc, _ := newConversationService(t)
				c, err := svc.FindOrCreate(ctx, "1", []string{"1", "2"})
				req.NoError(err)
				for _, step := range paths[from] {
					_, err = svc.Transition(ctx, c.ID, step)
					req.NoError(err)
				}

				updated, err := svc.Transition(ctx, c.ID, to)

				if from.CanTransitionTo(to) {
					req.NoError(err)
					req.Equal(to, updated.Status)
					return
				}
				req.ErrorIs(err, errors.ErrInvalidTransition)
			})
		}
	}

	t.Run("should reject an unknown status", func(t *testing.T) {
		svc, _ := newConversationService(t)
		c, err := svc.FindOrCreate(ctx, "1", []string{"1", "2"})
		require.NoError(t, err)
		_, err = svc.Transition(ctx, c.ID, domain.Status("archived"))
		require.ErrorIs(t, err, errors.ErrValidation)
	})
}

func TestConversationService_GetInbox(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newConversationService(t)

	// Given a started conversation with messages, one without and a pending request
	withMessages := startedConversation(t, svc, "1", "2")
	_, err := svc.AddMessage(ctx, withMessages.ID, "1", "hello")
	req.NoError(err)
	startedConversation(t, svc, "2", "3")
	requested, err := svc.FindOrCreate(ctx, "3", []string{"3", "1"})
	req.NoError(err)
	_, err = svc.AddMessage(ctx, requested.ID, "3", "sneaky")
	req.NoError(err)

	inbox, err := svc.GetInbox(ctx, "2")
	req.NoError(err)
	req.Len(inbox, 1)
	req.Equal(withMessages.ID, inbox[0].ID)

	inbox, err = svc.GetInbox(ctx, "1")
	req.NoError(err)
	req.Len(inbox, 1)

	// Then the most recently updated conversation comes first
	other := startedConversation(t, svc, "1", "3")
	_, err = svc.AddMessage(ctx, other.ID, "3", "newer")
	req.NoError(err)
	inbox, err = svc.GetInbox(ctx, "1")
	req.NoError(err)
	req.Len(inbox, 2)
	req.Equal(other.ID, inbox[0].ID)
}

func TestConversationService_FindRequested(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newConversationService(t)

	received, err := svc.FindOrCreate(ctx, "2", []string{"2", "1"})
	req.NoError(err)
	_, err = svc.FindOrCreate(ctx, "1", []string{"1", "3"})
	req.NoError(err)

	requests, err := svc.FindRequested(ctx, "1")
	req.NoError(err)
	req.Len(requests, 1)
	req.Equal(received.ID, requests[0].ID)
}

func TestConversationService_Pending(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newConversationService(t)

	c, err := svc.FindOrCreate(ctx, "1", []string{"1", "2"})
	req.NoError(err)
	c, err = svc.QueuePending(ctx, c.ID, "1", "are you there?")
	req.NoError(err)
	req.Len(c.Pending, 1)
	req.Empty(c.Messages)

	c, err = svc.DeliverPending(ctx, c.ID)
	req.NoError(err)
	req.Empty(c.Pending)
	req.Len(c.Messages, 1)
	req.Equal("Alice", c.Messages[0].Sender.Name)

	// Delivering twice does not duplicate
	c, err = svc.DeliverPending(ctx, c.ID)
	req.NoError(err)
	req.Len(c.Messages, 1)

	_, err = svc.QueuePending(ctx, c.ID, "3", "spam")
	req.ErrorIs(err, errors.ErrPermission)
}

func TestConversationService_SearchMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("should only find messages of the asking identity", func(t *testing.T) {
		req := require.New(t)
		index, err := search.NewMessageIndex("", testLogger())
		req.NoError(err)
		t.Cleanup(func() { _ = index.Close() })
		svc, _ := newConversationService(t, WithMessageIndex(index))

		ab := startedConversation(t, svc, "1", "2")
		_, err = svc.AddMessage(ctx, ab.ID, "1", "meet me at the harbour tonight")
		req.NoError(err)
		bc := startedConversation(t, svc, "2", "3")
		_, err = svc.AddMessage(ctx, bc.ID, "3", "the harbour is closed")
		req.NoError(err)

		req.Eventually(func() bool {
			hits, err := svc.SearchMessages(ctx, "2", "harbour", 0)
			return err == nil && len(hits) == 2
		}, 2*time.Second, 20*time.Millisecond)

		hits, err := svc.SearchMessages(ctx, "1", "harbour", 10)
		req.NoError(err)
		req.Len(hits, 1)
		req.Equal(ab.ID, hits[0].ConversationID)
		req.Equal("1", hits[0].SenderID)
	})

	t.Run("should reject an empty search", func(t *testing.T) {
		index, err := search.NewMessageIndex("", testLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = index.Close() })
		svc, _ := newConversationService(t, WithMessageIndex(index))

		_, err = svc.SearchMessages(ctx, "1", " ", 0)
		require.ErrorIs(t, err, errors.ErrValidation)
	})

	t.Run("should fail without an index", func(t *testing.T) {
		svc, _ := newConversationService(t)
		_, err := svc.SearchMessages(ctx, "1", "harbour", 0)
		require.ErrorIs(t, err, errors.ErrValidation)
	})
}
