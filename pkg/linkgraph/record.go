package linkgraph

import (
	"reflect"
	"sync"
)

// record is the adjacency record of a single node.
type record[T comparable] struct {
	node  T
	conns map[T]struct{}
}

// pools holds one *sync.Pool of records per key type.
var pools sync.Map // reflect.Type -> *sync.Pool

func recordPool[T comparable]() *sync.Pool {
	key := reflect.TypeFor[T]()
	if p, ok := pools.Load(key); ok {
		return p.(*sync.Pool)
	}
	p, _ := pools.LoadOrStore(key, &sync.Pool{
		New: func() any {
			return &record[T]{conns: make(map[T]struct{})}
		},
	})
	return p.(*sync.Pool)
}

// acquireRecord returns an empty record owned by node.
func acquireRecord[T comparable](pool *sync.Pool, node T) *record[T] {
	r := pool.Get().(*record[T])
	r.node = node
	return r
}

// releaseRecord clears r and returns it to pool.
func releaseRecord[T comparable](pool *sync.Pool, r *record[T]) {
	clear(r.conns)
	var zero T
	r.node = zero
	pool.Put(r)
}

func (r *record[T]) add(node T) bool {
	if _, ok := r.conns[node]; ok {
		return false
	}
	r.conns[node] = struct{}{}
	return true
}

func (r *record[T]) remove(node T) bool {
	if _, ok := r.conns[node]; !ok {
		return false
	}
	delete(r.conns, node)
	return true
}

func (r *record[T]) contains(node T) bool {
	_, ok := r.conns[node]
	return ok
}

func (r *record[T]) len() int { return len(r.conns) }
