// internal/application/syncstore/state.go
package syncstore

import "storefront/internal/domain/identity"

// State says which backend is authoritative.
type State int

const (
	StateUninitialized State = iota
	StateGuestLocal
	StateIdentifiedRemote
)

func (s State) String() string {
	switch s {
	case StateGuestLocal:
		return "guest_local"
	case StateIdentifiedRemote:
		return "identified_remote"
	default:
		return "uninitialized"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// EventKind tells observers why they are being called.
type EventKind int

const (
	// EventChanged follows a local mutation.
	EventChanged EventKind = iota
	// EventRemote follows an accepted push from the remote document.
	EventRemote
	// EventReset follows an identity transition (load, merge, logout).
	EventReset
	// EventPersisted follows a successful guest write to the local store.
	EventPersisted
)

// Snapshot is an immutable view of a collection.
type Snapshot[T any] struct {
	Items    []T
	Loaded   bool
	State    State
	Identity identity.Identity
}

// Event is delivered to observers after every state change.
type Event[T any] struct {
	Kind     EventKind
	Snapshot Snapshot[T]
}
