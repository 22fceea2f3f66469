package board

import (
	"fmt"
	"sync"
)

// Store is the in-memory ordered sequence of widget instances. Every
// mutation replaces the sequence wholesale (copy-on-write) and notifies
// subscribers with a fresh copy; readers never share backing arrays with
// the store.
type Store struct {
	mu      sync.RWMutex
	seq     []Instance
	subs    map[int]func([]Instance)
	nextSub int
}

// NewStore creates a Store seeded with the given sequence. The sequence is
// deep-copied; the caller keeps ownership of its slice.
func NewStore(seq []Instance) *Store {
	return &Store{
		seq:  CloneSequence(seq),
		subs: map[int]func([]Instance){},
	}
}

// Widgets returns a deep copy of the current sequence.
func (s *Store) Widgets() []Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneSequence(s.seq)
}

// Len returns the number of placed widgets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seq)
}

// IndexOf returns the sequence index of the instance with the given id,
// or -1 if absent.
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.seq, id)
}

// Get returns the instance with the given id.
func (s *Store) Get(id string) (Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.seq, id); i >= 0 {
		return s.seq[i].Clone(), nil
	}
	return Instance{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Append adds a new instance at the end of the sequence.
func (s *Store) Append(in Instance) error {
	s.mu.Lock()
	if indexOf(s.seq, in.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, in.ID)
	}
	next := CloneSequence(s.seq)
	next = append(next, in.Clone())
	s.seq = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// Remove deletes the instance with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	i := indexOf(s.seq, id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := CloneSequence(s.seq)
	s.seq = append(next[:i], next[i+1:]...)
	s.mu.Unlock()

	s.notify()
	return nil
}

// UpdateConfig merges a config change into the instance with the given id.
// The apply function receives a copy of the current config and mutates it
// in place; the instance id and kind cannot be changed through it.
func (s *Store) UpdateConfig(id string, apply func(*Config)) error {
	s.mu.Lock()
	i := indexOf(s.seq, id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := CloneSequence(s.seq)
	apply(&next[i].Config)
	s.seq = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// Replace swaps in an entirely new sequence. Used by drag rollback and by
// the initial load.
func (s *Store) Replace(seq []Instance) {
	s.mu.Lock()
	s.seq = CloneSequence(seq)
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a deep copy of the sequence for later restoration via
// Replace. Identical to Widgets; the separate name marks intent at call
// sites taking a pre-drag snapshot.
func (s *Store) Snapshot() []Instance {
	return s.Widgets()
}

// Reorder performs the single-element move that the drag-over loop relies
// on: the instance with activeID is removed and reinserted at overID's
// index. It reports whether the sequence changed.
//
// Dragging over yourself is an idempotent no-op. A missing active or over
// id (a concurrent delete raced the drag) aborts the reorder and leaves
// the sequence untouched.
func (s *Store) Reorder(activeID, overID string) bool {
	s.mu.Lock()
	next, moved := ReorderSequence(s.seq, activeID, overID)
	if !moved {
		s.mu.Unlock()
		return false
	}
	s.seq = next
	s.mu.Unlock()

	s.notify()
	return true
}

// Subscribe registers fn to be called with a fresh copy of the sequence
// after every mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func([]Instance)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify calls every subscriber with its own copy of the sequence.
func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func([]Instance), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	seq := s.seq
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(CloneSequence(seq))
	}
}

func indexOf(seq []Instance, id string) int {
	for i, in := range seq {
		if in.ID == id {
			return i
		}
	}
	return -1
}
