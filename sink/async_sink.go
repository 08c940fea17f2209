package sink

import (
	"context"
	"fmt"
	"log/slog"
	"talk-gate/contract"
	"talk-gate/domain/event"
	"talk-gate/errors"
	"time"
)

// AsyncSink queues notifications and hands them to the next sink from its own
// worker, so the handshake never waits on delivery. Run it under a Supervisor.
type AsyncSink struct {
	next    contract.NotificationSink
	queue   chan event.Notification
	timeout time.Duration
	log     *slog.Logger
}

func NewAsyncSink(next contract.NotificationSink, bufferSize int, timeout time.Duration, log *slog.Logger) *AsyncSink {
	return &AsyncSink{
		next:    next,
		queue:   make(chan event.Notification, bufferSize),
		timeout: timeout,
		log:     log,
	}
}

// Notify never blocks: a full queue drops the notification.
func (a *AsyncSink) Notify(_ context.Context, n event.Notification) error {
	select {
	case a.queue <- n:
		return nil
	default:
		return fmt.Errorf("%w: dropping %s for %s", errors.ErrNotificationQueueFull, n.Type, n.Recipient.ID)
	}
}

// Run delivers queued notifications until ctx is done, then flushes what is
// left in the queue, each delivery bounded by the sink timeout.
func (a *AsyncSink) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.log.Debug("Stopping notification dispatcher", "pending", len(a.queue))
			a.flush()
			return ctx.Err()
		case n := <-a.queue:
			a.deliver(ctx, n)
		}
	}
}

func (a *AsyncSink) flush() {
	for {
		select {
		case n := <-a.queue:
			a.deliver(context.Background(), n)
		default:
			return
		}
	}
}

func (a *AsyncSink) deliver(ctx context.Context, n event.Notification) {
	deliverCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.next.Notify(deliverCtx, n); err != nil {
		a.log.Warn("Notification delivery failed", "type", n.Type, "recipient", n.Recipient.ID, "error", err)
	}
}

// Pending is the number of queued notifications.
func (a *AsyncSink) Pending() int {
	return len(a.queue)
}
