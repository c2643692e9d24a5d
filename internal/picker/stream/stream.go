// Package stream provides the append-only result stream shared between
// a producer and its consumer.
//
// A Stream is the one structure crossed by the producer/consumer
// concurrency boundary: Append is called from the producer goroutine
// while Snapshot and ranking reads happen on the consumer side. Past
// entries never reorder or mutate; only the derived ranked view changes.
package stream

import (
	"sync"
	"sync/atomic"
)

// Item is one produced result entry. Immutable once appended.
type Item struct {
	// Text is the display/match text.
	Text string

	// Path, Line, and Col are optional structured fields for
	// file-backed results. Line and Col are 1-based when set.
	Path string
	Line int
	Col  int

	// Data is arbitrary payload associated with this item.
	Data any

	// Index is the stable insertion index, assigned on append.
	Index int
}

// Stream is a bounded, ordered, append-only collection of items.
// It is safe for one producer appending concurrently with consumer reads.
type Stream struct {
	id        uint64
	mu        sync.RWMutex
	items     []Item
	max       int
	truncated bool
	version   uint64
	selected  map[int]bool
}

// nextStreamID distinguishes streams in shared caches.
var nextStreamID atomic.Uint64

// New creates a stream. maxResults bounds stored items; 0 means unbounded.
func New(maxResults int) *Stream {
	return &Stream{
		id:       nextStreamID.Add(1),
		items:    make([]Item, 0, 256),
		max:      maxResults,
		selected: make(map[int]bool),
	}
}

// ID returns the stream's unique identity. Two streams never share an
// ID within a process, so cache keys derived from it cannot collide
// across streams.
func (s *Stream) ID() uint64 { return s.id }

// Append adds an item, assigning its insertion index.
// Once the capacity bound is reached further appends are dropped and
// the stream is marked truncated; dropping does not cancel the producer.
// Returns false if the item was dropped.
func (s *Stream) Append(it Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.items) >= s.max {
		s.truncated = true
		return false
	}

	it.Index = len(s.items)
	s.items = append(s.items, it)
	s.version++
	return true
}

// Len returns the number of stored items.
func (s *Stream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Truncated reports whether appends were dropped due to the capacity bound.
func (s *Stream) Truncated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.truncated
}

// Snapshot returns a copy of the current contents in arrival order.
// The returned slice is independent of later appends.
func (s *Stream) Snapshot() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// At returns the item at the given insertion index.
func (s *Stream) At(i int) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.items) {
		return Item{}, false
	}
	return s.items[i], true
}

// Version increments on every successful append. Used as a cache key
// component by the ranker.
func (s *Stream) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ToggleSelect flips the multi-selection state of the item at the
// given insertion index. Selection state is retained with the stream,
// so a resumed instance restores prior selections.
func (s *Stream) ToggleSelect(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.items) {
		return
	}
	if s.selected[i] {
		delete(s.selected, i)
	} else {
		s.selected[i] = true
	}
}

// IsSelected reports whether the item at the given index is selected.
func (s *Stream) IsSelected(i int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[i]
}

// SelectedIndices returns the insertion indices of all selected items
// in arrival order.
func (s *Stream) SelectedIndices() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, 0, len(s.selected))
	for i := range s.items {
		if s.selected[i] {
			out = append(out, i)
		}
	}
	return out
}
