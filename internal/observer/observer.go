// Package observer is the subscription list behind every observable store.
package observer

import (
	"sort"
	"sync"
)

// Set holds callbacks that run after a state change.
// The zero value is ready to use.
type Set struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

// Subscribe registers fn and returns the function that removes it.
func (s *Set) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.fns, id)
		})
	}
}

// Notify calls every subscriber in registration order.
// It must not be called while holding a lock the subscribers take.
func (s *Set) Notify() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
