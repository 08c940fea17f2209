package sink_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"talk-gate/domain"
	"talk-gate/domain/event"
	"talk-gate/errors"
	"talk-gate/mocks"
	"talk-gate/sink"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func notification(recipientID string) event.Notification {
	return event.Notification{
		Type:           event.ConversationPermissionAsked,
		Recipient:      domain.Actor{ID: recipientID},
		From:           domain.Actor{ID: "alice", Name: "Alice"},
		ConversationID: "c1",
		At:             time.Now().UTC(),
	}
}

func TestAsyncSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	// Silencing logs for clean test output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("should deliver from the worker", func(t *testing.T) {
		req := require.New(t)
		next := mocks.NewMockNotificationSink(ctrl)
		s := sink.NewAsyncSink(next, 4, time.Second, logger)

		n := notification("bob")
		var delivered, withDeadline atomic.Int32
		next.EXPECT().
			Notify(gomock.Any(), n).
			DoAndReturn(func(ctx context.Context, n event.Notification) error {
				if _, ok := ctx.Deadline(); ok {
					withDeadline.Add(1)
				}
				delivered.Add(1)
				return nil
			}).Times(2)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		req.NoError(s.Notify(context.Background(), n))
		req.NoError(s.Notify(context.Background(), n))
		req.Eventually(func() bool { return delivered.Load() == 2 }, time.Second, 10*time.Millisecond)
		req.Equal(int32(2), withDeadline.Load())

		cancel()
		req.ErrorIs(<-done, context.Canceled)
	})

	t.Run("should drop when the queue is full", func(t *testing.T) {
		req := require.New(t)
		next := mocks.NewMockNotificationSink(ctrl)
		s := sink.NewAsyncSink(next, 1, time.Second, logger)

		req.NoError(s.Notify(context.Background(), notification("bob")))
		err := s.Notify(context.Background(), notification("carol"))
		req.ErrorIs(err, errors.ErrNotificationQueueFull)
		req.Equal(1, s.Pending())
	})

	t.Run("should flush the queue on stop", func(t *testing.T) {
		req := require.New(t)
		next := mocks.NewMockNotificationSink(ctrl)
		s := sink.NewAsyncSink(next, 4, time.Second, logger)
		next.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(3)

		for _, id := range []string{"bob", "carol", "dave"} {
			req.NoError(s.Notify(context.Background(), notification(id)))
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req.ErrorIs(s.Run(ctx), context.Canceled)
		req.Zero(s.Pending())
	})

	t.Run("should survive a failing sink", func(t *testing.T) {
		req := require.New(t)
		next := mocks.NewMockNotificationSink(ctrl)
		s := sink.NewAsyncSink(next, 4, time.Second, logger)
		next.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded).Times(2)

		req.NoError(s.Notify(context.Background(), notification("bob")))
		req.NoError(s.Notify(context.Background(), notification("carol")))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req.ErrorIs(s.Run(ctx), context.Canceled)
	})
}
