package services

import (
	"fmt"
	"slices"
	"talk-gate/errors"
)

// steps runs the sub-updates of a multi-record operation in order and tracks
// which ones were applied, so a failure can name where to resume.
type steps struct {
	operation string
	completed []string
}

func newSteps(operation string) *steps {
	return &steps{operation: operation}
}

func (s *steps) run(name string, fn func() error) error {
	if err := fn(); err != nil {
		if len(s.completed) == 0 {
			return fmt.Errorf("%s: %s: %w", s.operation, name, err)
		}
		return &errors.PartialFailureError{
			Operation: s.operation,
			Step:      name,
			Completed: slices.Clone(s.completed),
			Err:       err,
		}
	}
	s.completed = append(s.completed, name)
	return nil
}
