package store

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no entry exists for a well-formed identifier.
	ErrNotFound = errors.New("entry not found")

	// ErrBadID is returned when an identifier does not parse as a UUID.
	ErrBadID = errors.New("malformed entry id")
)

// Entry is a single anonymous unit of clipboard content held by [RingStore].
type Entry struct {
	// Data is the pasted text.
	Data string `json:"data"`
}

// KeyedEntry is a unit of clipboard content held by [KeyedStore].
type KeyedEntry struct {
	// ID is assigned by the store when the entry is added.
	ID uuid.UUID `json:"id"`

	// Data is the pasted text.
	Data string `json:"data"`
}

// RingStats is a point-in-time view of a [RingStore].
type RingStats struct {
	Len      int
	Capacity int

	// Added counts every call to Add, including entries dropped by a
	// zero-capacity store.
	Added uint64

	// Evicted counts entries removed to make room or by a shrinking Resize.
	Evicted uint64
}

// Clipboard defines the bounded clipboard operations consumed by the server.
//
// Implementations must be safe for concurrent access.
type Clipboard interface {
	// Add appends an entry, evicting the oldest one when the store is full.
	Add(entry Entry)

	// Snapshot returns all current entries, oldest first.
	// The returned slice is a copy; modifications do not affect the store.
	Snapshot() []Entry

	// Stats returns current length, capacity and counters.
	Stats() RingStats

	// Subscribe returns a channel that receives newly added entries.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Entry

	// Unsubscribe removes a subscription and closes the channel.
	Unsubscribe(ch <-chan Entry)
}

// Pastes defines the keyed clipboard operations consumed by the server.
//
// Implementations must be safe for concurrent access.
type Pastes interface {
	// Add stores data under a new identifier and returns that identifier.
	Add(data string) uuid.UUID

	// Get returns the entry for id, [ErrBadID] if id is malformed, or
	// [ErrNotFound] if no such entry exists.
	Get(id string) (KeyedEntry, error)

	// Len returns the number of stored entries.
	Len() int
}
