// Package store provides the shared in-memory clipboard stores.
//
// This package is internal to Pasteboard and holds all clipboard state. Two
// independent designs are provided, each guarding its container with a
// single [sync.RWMutex]:
//
//   - [RingStore]: fixed-capacity FIFO of anonymous [Entry] values; the
//     oldest entry is evicted when a new one arrives at capacity
//   - [KeyedStore]: unbounded map of [KeyedEntry] values addressed by a
//     freshly generated UUID
//
// Every operation is a single atomic transition: readers never observe a
// partially appended, evicted or inserted collection. RingStore also
// implements a publish-subscribe feed of new entries. Subscribers receive
// updates via channels with non-blocking sends (slow subscribers miss
// updates rather than block Add).
//
// State is volatile and lives as long as the owning process.
package store
