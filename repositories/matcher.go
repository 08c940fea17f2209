package repositories

import (
	"sort"
	"talk-gate/domain"

	"github.com/samber/lo"
)

// Matcher selects conversations. Every non-zero field must hold (conjunction).
type Matcher struct {
	// Pair: participant set contains exactly these two ids.
	Pair *domain.PairKey
	// Participant: participant set contains this id.
	Participant string
	Status      domain.Status
	// NotCreatedBy: creator id differs from this id.
	NotCreatedBy string
	// WithMessages: message sequence is non-empty.
	WithMessages bool
}

func ByPair(key domain.PairKey) Matcher {
	return Matcher{Pair: &key}
}

func (m Matcher) Matches(c domain.Conversation) bool {
	if m.Pair != nil && !containsExactly(c.ParticipantIDs(), *m.Pair) {
		return false
	}
	if m.Participant != "" && !lo.Contains(c.ParticipantIDs(), m.Participant) {
		return false
	}
	if m.Status != "" && c.Status != m.Status {
		return false
	}
	if m.NotCreatedBy != "" && c.CreatedBy.ID == m.NotCreatedBy {
		return false
	}
	if m.WithMessages && len(c.Messages) == 0 {
		return false
	}
	return true
}

// containsExactly is a set equality: exactly two members, both of the pair.
func containsExactly(ids []string, pair domain.PairKey) bool {
	unique := lo.Uniq(ids)
	return len(unique) == 2 && lo.Every(unique, pair[:])
}

type SortOrder int

const (
	SortNone SortOrder = iota
	// SortByUpdatedDesc puts the most recently updated conversation first.
	SortByUpdatedDesc
)

func sortConversations(conversations []domain.Conversation, order SortOrder) {
	switch order {
	case SortByUpdatedDesc:
		sort.SliceStable(conversations, func(i, j int) bool {
			return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
		})
	}
}
