package errors

import (
	"fmt"
	"strings"
)

var (
	ErrWorkerPanic           = fmt.Errorf("worker panic")
	ErrValidation            = fmt.Errorf("validation failed")
	ErrNotFound              = fmt.Errorf("not found")
	ErrPermission            = fmt.Errorf("permission denied")
	ErrInvalidTransition     = fmt.Errorf("invalid status transition")
	ErrPartialFailure        = fmt.Errorf("partial failure")
	ErrNotificationQueueFull = fmt.Errorf("notification queue is full")
	ErrInvalidConfig         = fmt.Errorf("invalid configuration")
	ErrDuplicatePair         = fmt.Errorf("pair already has a conversation")
)

// InvalidTransitionError is returned when a conversation cannot move from its
// current status to the requested one.
type InvalidTransitionError struct {
	ConversationID string
	From           string
	To             string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: conversation %s cannot go from %q to %q",
		ErrInvalidTransition, e.ConversationID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PartialFailureError reports a multi-record operation that stopped at Step
// after the Completed steps were already applied. Every step is idempotent,
// so the whole operation can be retried.
type PartialFailureError struct {
	Operation string
	Step      string
	Completed []string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %s failed at step %q after [%s]: %v",
		ErrPartialFailure, e.Operation, e.Step, strings.Join(e.Completed, ", "), e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}
