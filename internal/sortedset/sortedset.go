// Package sortedset provides the ordered, duplicate-free integer chain that
// the lock disciplines are benchmarked against.
//
// Nodes live in an index-based arena. Each node owns the link to its
// successor by index, and released slots go onto a free list so later
// inserts reuse them. A Set performs no locking of its own: callers hold
// whatever lock their discipline requires for the whole operation.
package sortedset

import (
	"fmt"
)

// nilIndex marks the end of the chain and an empty free list.
const nilIndex = -1

// InsertResult is the outcome of an Insert call.
type InsertResult int

const (
	// Inserted means a new node was linked into the chain.
	Inserted InsertResult = iota

	// Duplicate means the key was already present; nothing changed.
	Duplicate

	// AllocationFailed means the arena is at capacity; nothing changed.
	AllocationFailed
)

// String returns the result name.
func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	case AllocationFailed:
		return "allocation-failed"
	default:
		return fmt.Sprintf("InsertResult(%d)", int(r))
	}
}

// DeleteResult is the outcome of a Delete call.
type DeleteResult int

const (
	// Deleted means the node was unlinked and its slot released.
	Deleted DeleteResult = iota

	// NotFound means the key was absent; nothing changed.
	NotFound
)

// String returns the result name.
func (r DeleteResult) String() string {
	switch r {
	case Deleted:
		return "deleted"
	case NotFound:
		return "not-found"
	default:
		return fmt.Sprintf("DeleteResult(%d)", int(r))
	}
}

type node struct {
	key  int
	next int
}

// Set is an ascending chain of unique integer keys.
//
// The zero value is an empty, unbounded set ready for use.
type Set struct {
	nodes    []node
	head     int
	free     int
	length   int
	capacity int // 0 means unbounded
	ready    bool
}

// Option configures a Set.
type Option func(*Set)

// WithCapacity bounds the number of live nodes. Inserts beyond the bound
// report AllocationFailed. A capacity of 0 leaves the set unbounded.
func WithCapacity(n int) Option {
	return func(s *Set) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// New creates an empty set.
func New(opts ...Option) *Set {
	s := &Set{}
	s.init()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Set) init() {
	if s.ready {
		return
	}
	s.head = nilIndex
	s.free = nilIndex
	s.ready = true
}

// first returns the index of the first node without initializing the set,
// so read-only operations never write.
func (s *Set) first() int {
	if !s.ready {
		return nilIndex
	}
	return s.head
}

// Member reports whether v is in the set. It never modifies the set.
func (s *Set) Member(v int) bool {
	curr := s.first()
	for curr != nilIndex && s.nodes[curr].key < v {
		curr = s.nodes[curr].next
	}
	return curr != nilIndex && s.nodes[curr].key == v
}

// Insert links v into the chain at its ordered position.
func (s *Set) Insert(v int) InsertResult {
	s.init()

	pred := nilIndex
	curr := s.head
	for curr != nilIndex && s.nodes[curr].key < v {
		pred = curr
		curr = s.nodes[curr].next
	}

	if curr != nilIndex && s.nodes[curr].key == v {
		return Duplicate
	}

	idx, ok := s.alloc()
	if !ok {
		return AllocationFailed
	}

	s.nodes[idx] = node{key: v, next: curr}
	if pred == nilIndex {
		s.head = idx
	} else {
		s.nodes[pred].next = idx
	}
	s.length++
	return Inserted
}

// Delete unlinks v from the chain and releases its slot.
func (s *Set) Delete(v int) DeleteResult {
	s.init()

	pred := nilIndex
	curr := s.head
	for curr != nilIndex && s.nodes[curr].key < v {
		pred = curr
		curr = s.nodes[curr].next
	}

	if curr == nilIndex || s.nodes[curr].key != v {
		return NotFound
	}

	if pred == nilIndex {
		s.head = s.nodes[curr].next
	} else {
		s.nodes[pred].next = s.nodes[curr].next
	}
	s.release(curr)
	s.length--
	return Deleted
}

// Teardown releases every node and resets the set to empty. The capacity
// bound, if any, is kept.
func (s *Set) Teardown() {
	s.nodes = nil
	s.head = nilIndex
	s.free = nilIndex
	s.length = 0
	s.ready = true
}

// Len returns the number of keys in the set.
func (s *Set) Len() int {
	return s.length
}

// Keys returns the keys in traversal order.
func (s *Set) Keys() []int {
	keys := make([]int, 0, s.length)
	for curr := s.first(); curr != nilIndex; curr = s.nodes[curr].next {
		keys = append(keys, s.nodes[curr].key)
	}
	return keys
}

// Validate checks that traversal yields strictly ascending keys and that the
// chain length agrees with Len.
func (s *Set) Validate() error {
	count := 0
	prev := 0
	for curr := s.first(); curr != nilIndex; curr = s.nodes[curr].next {
		key := s.nodes[curr].key
		if count > 0 && key <= prev {
			return fmt.Errorf("order violated at position %d: %d follows %d", count, key, prev)
		}
		prev = key
		count++
		if count > len(s.nodes) {
			return fmt.Errorf("cycle detected after %d nodes", count)
		}
	}

	if count != s.length {
		return fmt.Errorf("chain holds %d nodes but length is %d", count, s.length)
	}
	return nil
}

// alloc hands out a free slot, growing the arena when the free list is empty.
func (s *Set) alloc() (int, bool) {
	if s.capacity > 0 && s.length >= s.capacity {
		return nilIndex, false
	}

	if s.free != nilIndex {
		idx := s.free
		s.free = s.nodes[idx].next
		return idx, true
	}

	s.nodes = append(s.nodes, node{next: nilIndex})
	return len(s.nodes) - 1, true
}

func (s *Set) release(idx int) {
	s.nodes[idx] = node{next: s.free}
	s.free = idx
}
