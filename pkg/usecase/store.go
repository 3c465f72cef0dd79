package usecase

import (
	"slices"
	"sync"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

// State is a snapshot of one resource container
type State[T model.Identifiable] struct {
	Items   []T
	Current T
	Loading bool
	Err     error
}

// Store holds a normalized list, the current item, and the loading and error
// flags of one resource. Lists are replaced wholesale (last write wins), new
// items are prepended, and updates replace in place by ID.
type Store[T model.Identifiable] struct {
	mu      sync.RWMutex
	items   []T
	current T
	loading bool
	err     error
}

func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State[T]{
		Items:   slices.Clone(s.items),
		Current: s.current,
		Loading: s.loading,
		Err:     s.err,
	}
}

func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Find looks up an item by ID in the list and the current item
func (s *Store[T]) Find(id model.ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.GetID() == id {
			return item, true
		}
	}
	if !isZero(s.current) && s.current.GetID() == id {
		return s.current, true
	}

	var zero T
	return zero, false
}

func (s *Store[T]) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = nil
}

func (s *Store[T]) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
}

func (s *Store[T]) replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	s.loading = false
}

func (s *Store[T]) setCurrent(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = item
	s.replaceInPlace(item)
	s.loading = false
}

func (s *Store[T]) prepend(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T{item}, s.items...)
	s.loading = false
}

// upsert replaces an item in place by ID, and the current item when it matches
func (s *Store[T]) upsert(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceInPlace(item)
	if !isZero(s.current) && s.current.GetID() == item.GetID() {
		s.current = item
	}
	s.loading = false
}

func (s *Store[T]) remove(id model.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.DeleteFunc(s.items, func(item T) bool {
		return item.GetID() == id
	})
	s.loading = false
}

// mutate rewrites the item with the given ID, and the current item when it
// matches, under the write lock
func (s *Store[T]) mutate(id model.ID, fn func(T) T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		updated T
		found   bool
	)
	for i := range s.items {
		if s.items[i].GetID() == id {
			s.items[i] = fn(s.items[i])
			updated, found = s.items[i], true
		}
	}
	if !isZero(s.current) && s.current.GetID() == id {
		if found {
			s.current = updated
		} else {
			s.current = fn(s.current)
			updated, found = s.current, true
		}
	}
	return updated, found
}

func (s *Store[T]) replaceInPlace(item T) bool {
	for i := range s.items {
		if s.items[i].GetID() == item.GetID() {
			s.items[i] = item
			return true
		}
	}
	return false
}

func isZero[T model.Identifiable](v T) bool {
	var zero T
	return any(v) == any(zero)
}
