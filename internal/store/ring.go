package store

import (
	"sync"
)

// subscriberBuffer is the channel buffer handed to each subscriber.
const subscriberBuffer = 100

// Compile-time check to ensure RingStore implements Clipboard.
var _ Clipboard = (*RingStore)(nil)

// RingStore is a fixed-capacity FIFO clipboard.
//
// RingStore holds at most Capacity entries. Adding to a full store removes
// the oldest entry first, so the length never exceeds the capacity. A
// capacity of zero is valid and yields a store that is always empty.
//
// Newly stored entries are published to subscribers via buffered channels
// (buffer size 100). Sends are non-blocking; a full subscriber buffer drops
// the update for that subscriber only.
type RingStore struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	added    uint64
	evicted  uint64

	subscribers map[chan Entry]struct{}
	subMu       sync.RWMutex
}

// NewRingStore creates a [RingStore] holding at most capacity entries.
// Negative capacities are treated as zero.
func NewRingStore(capacity int) *RingStore {
	if capacity < 0 {
		capacity = 0
	}
	return &RingStore{
		entries:     make([]Entry, 0, capacity),
		capacity:    capacity,
		subscribers: make(map[chan Entry]struct{}),
	}
}

// Add appends entry to the tail of the queue.
//
// If the store is full the head is removed before the append. Add never
// fails. Subscribers are notified after the lock is released, and only if
// the entry was actually stored.
func (r *RingStore) Add(entry Entry) {
	stored := r.add(entry)
	if stored {
		r.notifySubscribers(entry)
	}
}

func (r *RingStore) add(entry Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.added++
	if r.capacity == 0 {
		r.evicted++
		return false
	}
	if len(r.entries) == r.capacity {
		// shift in place so the backing array does not creep forward
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
		r.evicted++
	}
	r.entries = append(r.entries, entry)
	return true
}

// Snapshot returns a copy of all current entries, oldest first.
//
// The result is never nil; an empty store yields an empty slice.
func (r *RingStore) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Stats returns the current length, capacity and lifetime counters.
func (r *RingStore) Stats() RingStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RingStats{
		Len:      len(r.entries),
		Capacity: r.capacity,
		Added:    r.added,
		Evicted:  r.evicted,
	}
}

// Resize changes the capacity of the store.
//
// Shrinking evicts the oldest entries until the length fits the new
// capacity. Negative capacities are treated as zero.
func (r *RingStore) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if over := len(r.entries) - capacity; over > 0 {
		kept := make([]Entry, capacity)
		copy(kept, r.entries[over:])
		r.entries = kept
		r.evicted += uint64(over)
	}
	r.capacity = capacity
}

// Subscribe creates a new subscription and returns a channel for receiving
// newly added entries.
//
// Caller must call [RingStore.Unsubscribe] when done to prevent resource leaks.
func (r *RingStore) Subscribe() <-chan Entry {
	ch := make(chan Entry, subscriberBuffer)

	r.subMu.Lock()
	r.subscribers[ch] = struct{}{}
	r.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (r *RingStore) Unsubscribe(ch <-chan Entry) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	for subCh := range r.subscribers {
		if subCh == ch {
			delete(r.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the entry to all active subscribers without blocking.
func (r *RingStore) notifySubscribers(entry Entry) {
	r.subMu.RLock()
	defer r.subMu.RUnlock()

	for ch := range r.subscribers {
		select {
		case ch <- entry:
		default:
			// subscriber is slow, drop the message
		}
	}
}
