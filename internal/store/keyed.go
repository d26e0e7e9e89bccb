package store

import (
	"sync"

	"github.com/google/uuid"
)

// Compile-time check to ensure KeyedStore implements Pastes.
var _ Pastes = (*KeyedStore)(nil)

// KeyedStore is an unbounded clipboard addressed by generated identifiers.
//
// Each Add mints a random (version 4) UUID. Entries are never mutated or
// deleted; they live as long as the store.
type KeyedStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]KeyedEntry
	newID   func() uuid.UUID
}

// NewKeyedStore creates an empty [KeyedStore].
func NewKeyedStore() *KeyedStore {
	return &KeyedStore{
		entries: make(map[uuid.UUID]KeyedEntry),
		newID:   uuid.New,
	}
}

// Add stores data under a freshly generated identifier and returns it.
//
// Identical data added twice yields two entries with distinct identifiers.
func (k *KeyedStore) Add(data string) uuid.UUID {
	k.mu.Lock()
	defer k.mu.Unlock()

	id := k.newID()
	for {
		if _, taken := k.entries[id]; !taken {
			break
		}
		id = k.newID()
	}

	k.entries[id] = KeyedEntry{ID: id, Data: data}
	return id
}

// Get returns the entry stored under id.
//
// Returns [ErrBadID] if id is not a valid UUID and [ErrNotFound] if no
// entry exists for it.
func (k *KeyedStore) Get(id string) (KeyedEntry, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return KeyedEntry{}, ErrBadID
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	entry, ok := k.entries[parsed]
	if !ok {
		return KeyedEntry{}, ErrNotFound
	}
	return entry, nil
}

// Len returns the number of stored entries.
func (k *KeyedStore) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.entries)
}
