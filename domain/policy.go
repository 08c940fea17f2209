package domain

import (
	"fmt"
	"strings"
	"talk-gate/errors"
)

// PendingPolicy decides what happens to a message sent to someone who has not
// granted permission yet.
type PendingPolicy string

const (
	// PendingDiscard keeps only the permission request, the body is dropped.
	PendingDiscard PendingPolicy = "discard"
	// PendingDeliver holds the body on the conversation and appends it on grant.
	PendingDeliver PendingPolicy = "deliver"
)

func ParsePendingPolicy(s string) (PendingPolicy, error) {
	switch p := PendingPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PendingDiscard:
		return PendingDiscard, nil
	case PendingDeliver:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown pending message policy %q", errors.ErrInvalidConfig, s)
	}
}
