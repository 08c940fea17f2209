// Package domain contains core concepts of the private conversation system.
// No storage, network, or UI logic should be added here.
package domain

import "time"

// Actor is an identity reference with its display name cached for reads.
type Actor struct {
	ID   string
	Name string
}

// Identity is a user-like entity able to take part in conversations.
type Identity struct {
	ID          string
	Name        string
	Permissions Ledger
	CreatedAt   time.Time
}

func (i *Identity) PermissionLedger() *Ledger {
	return &i.Permissions
}

func (i Identity) Actor() Actor {
	return Actor{ID: i.ID, Name: i.Name}
}
