package domain

import (
	"fmt"
	"talk-gate/errors"

	"github.com/samber/lo"
)

// PairKey identifies an unordered pair of participants.
// The two ids are kept sorted so {a,b} and {b,a} produce the same key.
type PairKey [2]string

// NewPairKey builds the key of a private conversation. It fails when ids does
// not hold exactly two distinct, non-empty identifiers.
func NewPairKey(ids ...string) (PairKey, error) {
	unique := lo.Uniq(ids)
	if len(unique) != 2 || lo.Contains(unique, "") {
		return PairKey{}, fmt.Errorf("%w: a private conversation needs exactly 2 distinct participants, got %v",
			errors.ErrValidation, ids)
	}
	if unique[0] > unique[1] {
		unique[0], unique[1] = unique[1], unique[0]
	}
	return PairKey{unique[0], unique[1]}, nil
}

func (p PairKey) String() string {
	return p[0] + ":" + p[1]
}

// Contains reports whether id is one of the two members.
func (p PairKey) Contains(id string) bool {
	return p[0] == id || p[1] == id
}

// Other returns the member that is not id.
func (p PairKey) Other(id string) string {
	if p[0] == id {
		return p[1]
	}
	return p[0]
}
