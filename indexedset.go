package canopy

import "sort"

// indexedSet is an ordered set with O(1) membership tests and removal.
// Removal swaps the last element into the hole, so order is insertion order
// only until the first removal.
type indexedSet[T comparable] struct {
	items []T
	index map[T]int
}

func newIndexedSet[T comparable]() *indexedSet[T] {
	return &indexedSet[T]{index: make(map[T]int)}
}

// addUnique appends v unless it is already present. Returns false if present.
func (s *indexedSet[T]) addUnique(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

func (s *indexedSet[T]) contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *indexedSet[T]) remove(v T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	delete(s.index, v)
	return true
}

// removeAll removes every element for which drop returns true, preserving
// the relative order of the rest.
func (s *indexedSet[T]) removeAll(drop func(T) bool) {
	kept := s.items[:0]
	for _, v := range s.items {
		if drop(v) {
			delete(s.index, v)
			continue
		}
		kept = append(kept, v)
	}
	var zero T
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = zero
	}
	s.items = kept
	s.reindex()
}

// sortStable orders the set with less, keeping equal elements in place.
func (s *indexedSet[T]) sortStable(less func(a, b T) bool) {
	sort.SliceStable(s.items, func(i, j int) bool { return less(s.items[i], s.items[j]) })
	s.reindex()
}

func (s *indexedSet[T]) reindex() {
	for i, v := range s.items {
		s.index[v] = i
	}
}

func (s *indexedSet[T]) clear() {
	var zero T
	for i := range s.items {
		s.items[i] = zero
	}
	s.items = s.items[:0]
	clear(s.index)
}

func (s *indexedSet[T]) len() int { return len(s.items) }
