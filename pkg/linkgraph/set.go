package linkgraph

import (
	"iter"
	"maps"
)

// Set is a read-only view of a node's neighbours.
//
// The zero value is an empty set. A Set returned by [Graph.ConnectedNodes]
// is only meaningful while its node is present; use [Set.Slice] to keep a
// copy.
type Set[T comparable] struct {
	m map[T]struct{}
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int { return len(s.m) }

// Contains reports whether v is in the set.
func (s Set[T]) Contains(v T) bool {
	_, ok := s.m[v]
	return ok
}

// All iterates the elements in unspecified order.
func (s Set[T]) All() iter.Seq[T] { return maps.Keys(s.m) }

// Slice returns a copy of the elements in unspecified order.
// The result is never nil.
func (s Set[T]) Slice() []T {
	out := make([]T, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	return out
}
