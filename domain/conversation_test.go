package domain

import (
	stderrors "errors"
	"talk-gate/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	alice = Actor{ID: "alice", Name: "Alice"}
	bob   = Actor{ID: "bob", Name: "Bob"}
	carol = Actor{ID: "carol", Name: "Carol"}
)

func newTestConversation(t *testing.T) Conversation {
	t.Helper()
	c, err := NewPrivateConversation("c1", alice, []Actor{alice, bob}, time.Unix(0, 0).UTC())
	require.NoError(t, err)
	return c
}

func TestNewPrivateConversation(t *testing.T) {
	t.Run("should start in requested state", func(t *testing.T) {
		req := require.New(t)
		c := newTestConversation(t)

		req.Equal(StatusRequested, c.Status)
		req.Equal(alice, c.CreatedBy)
		req.Equal([]string{"alice", "bob"}, c.ParticipantIDs())
		req.Equal(PairKey{"alice", "bob"}, c.PairKey())
		req.Empty(c.Messages)
	})

	t.Run("should reject a creator outside the pair", func(t *testing.T) {
		_, err := NewPrivateConversation("c1", carol, []Actor{alice, bob}, time.Now())
		require.ErrorIs(t, err, errors.ErrValidation)
	})

	t.Run("should reject a conversation with oneself", func(t *testing.T) {
		_, err := NewPrivateConversation("c1", alice, []Actor{alice, alice}, time.Now())
		require.ErrorIs(t, err, errors.ErrValidation)
	})
}

func TestConversation_TransitionTo(t *testing.T) {
	t.Run("should follow requested -> started -> ended", func(t *testing.T) {
		req := require.New(t)
		c := newTestConversation(t)
		at := time.Unix(10, 0).UTC()

		req.NoError(c.TransitionTo(StatusStarted, at))
		req.Equal(StatusStarted, c.Status)
		req.Equal(at, c.UpdatedAt)
		req.NoError(c.TransitionTo(StatusEnded, at))
		req.Equal(StatusEnded, c.Status)
	})

	t.Run("should refuse to leave a terminal state", func(t *testing.T) {
		req := require.New(t)
		c := newTestConversation(t)
		req.NoError(c.TransitionTo(StatusDenied, time.Now()))

		err := c.TransitionTo(StatusStarted, time.Now())

		req.ErrorIs(err, errors.ErrInvalidTransition)
		var transition *errors.InvalidTransitionError
		req.True(stderrors.As(err, &transition))
		req.Equal("denied", transition.From)
		req.Equal("started", transition.To)
		req.Equal(StatusDenied, c.Status)
	})

	t.Run("should refuse to end a requested conversation", func(t *testing.T) {
		c := newTestConversation(t)
		require.ErrorIs(t, c.TransitionTo(StatusEnded, time.Now()), errors.ErrInvalidTransition)
	})
}

func TestConversation_Append(t *testing.T) {
	t.Run("should keep messages in order and fill the sender name", func(t *testing.T) {
		req := require.New(t)
		c := newTestConversation(t)
		first := time.Unix(1, 0).UTC()
		second := time.Unix(2, 0).UTC()

		req.NoError(c.Append(Message{Body: "hi", Sender: Actor{ID: "alice"}, CreatedAt: first}))
		req.NoError(c.Append(Message{Body: "hello", Sender: Actor{ID: "bob"}, CreatedAt: second}))

		req.Len(c.Messages, 2)
		req.Equal("Alice", c.Messages[0].Sender.Name)
		last, ok := c.LatestMessage()
		req.True(ok)
		req.Equal("hello", last.Body)
		req.Equal(second, c.UpdatedAt)
	})

	t.Run("should reject a stranger", func(t *testing.T) {
		req := require.New(t)
		c := newTestConversation(t)

		err := c.Append(Message{Body: "hi", Sender: carol, CreatedAt: time.Now()})

		req.ErrorIs(err, errors.ErrPermission)
		req.Empty(c.Messages)
	})

	t.Run("should never order a late append before the latest message", func(t *testing.T) {
		req := require.New(t)
		c := newTestConversation(t)
		later := time.Unix(20, 0).UTC()

		req.NoError(c.Append(Message{Body: "second", Sender: bob, CreatedAt: later}))
		req.NoError(c.Append(Message{Body: "stamped earlier", Sender: alice, CreatedAt: time.Unix(10, 0).UTC()}))

		req.Equal(later, c.Messages[1].CreatedAt)
		req.Equal(later, c.UpdatedAt)
	})
}

func TestConversation_Pending(t *testing.T) {
	req := require.New(t)
	c := newTestConversation(t)

	req.NoError(c.Hold(Message{Body: "are you there?", Sender: alice}))
	req.ErrorIs(c.Hold(Message{Body: "spam", Sender: carol}), errors.ErrPermission)
	req.Len(c.Pending, 1)

	at := time.Unix(5, 0).UTC()
	delivered := c.DeliverPending(at)
	req.Len(delivered, 1)
	req.Equal("are you there?", c.Messages[0].Body)
	req.Empty(c.Pending)
	req.Equal(at, c.UpdatedAt)

	// Delivering again is a no-op
	req.Nil(c.DeliverPending(time.Now()))
	req.Len(c.Messages, 1)
}

func TestConversation_ParticipantNamesWithout(t *testing.T) {
	c := newTestConversation(t)
	require.Equal(t, []string{"Bob"}, c.ParticipantNamesWithout("alice"))
}
