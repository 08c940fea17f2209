package sink

import (
	"context"
	"log/slog"
	"talk-gate/domain/event"
)

// LogSink writes notifications to the logger. Used when no broker is configured.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (l LogSink) Notify(_ context.Context, n event.Notification) error {
	l.log.Info("Notification",
		"type", n.Type,
		"recipient", n.Recipient.ID,
		"from", n.From.ID,
		"conversation_id", n.ConversationID)
	return nil
}
