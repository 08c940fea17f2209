package domain

import "github.com/samber/lo"

// Ledger is the permission state attached to an identity.
// Requests holds the ids that asked this identity for permission,
// Allowed the ids it may converse with. Ignored is stored only.
type Ledger struct {
	Requests []string
	Allowed  []string
	Ignored  []string
}

// Permissionable is implemented by any identity type carrying a Ledger.
type Permissionable interface {
	PermissionLedger() *Ledger
}

// AddRequest records a pending request from requesterID.
// It returns false when the request was already present.
func (l *Ledger) AddRequest(requesterID string) bool {
	return addToSet(&l.Requests, requesterID)
}

// RemoveRequest drops the pending request from requesterID, if any.
func (l *Ledger) RemoveRequest(requesterID string) bool {
	return removeFromSet(&l.Requests, requesterID)
}

// AddAllowed lets the owner converse with peerID.
func (l *Ledger) AddAllowed(peerID string) bool {
	return addToSet(&l.Allowed, peerID)
}

func (l *Ledger) HasRequestFrom(requesterID string) bool {
	return lo.Contains(l.Requests, requesterID)
}

func (l *Ledger) CanConverseWith(peerID string) bool {
	return lo.Contains(l.Allowed, peerID)
}

func (l *Ledger) IsIgnoring(id string) bool {
	return lo.Contains(l.Ignored, id)
}

func addToSet(set *[]string, id string) bool {
	if lo.Contains(*set, id) {
		return false
	}
	*set = append(*set, id)
	return true
}

func removeFromSet(set *[]string, id string) bool {
	if !lo.Contains(*set, id) {
		return false
	}
	*set = lo.Without(*set, id)
	return true
}
