package server

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

// liveGraph is a graph held in memory by the server. The connection graph
// is not safe for concurrent use, so every access goes through mu.
type liveGraph struct {
	mu      sync.Mutex
	id      uuid.UUID
	g       *linkgraph.Graph[string]
	created time.Time
}

// with runs fn while holding the graph's lock.
func (lg *liveGraph) with(fn func(g *linkgraph.Graph[string])) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	fn(lg.g)
}

// registry maps IDs to live graphs.
type registry struct {
	mu     sync.RWMutex
	graphs map[uuid.UUID]*liveGraph
}

func newRegistry() *registry {
	return &registry{graphs: make(map[uuid.UUID]*liveGraph)}
}

func (r *registry) add(g *linkgraph.Graph[string]) *liveGraph {
	lg := &liveGraph{id: uuid.New(), g: g, created: time.Now().UTC()}
	r.mu.Lock()
	r.graphs[lg.id] = lg
	r.mu.Unlock()
	return lg
}

func (r *registry) get(id uuid.UUID) (*liveGraph, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lg, ok := r.graphs[id]
	return lg, ok
}

func (r *registry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.graphs[id]; !ok {
		return false
	}
	delete(r.graphs, id)
	return true
}

// list returns live graphs oldest first.
func (r *registry) list() []*liveGraph {
	r.mu.RLock()
	out := make([]*liveGraph, 0, len(r.graphs))
	for _, lg := range r.graphs {
		out = append(out, lg)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *liveGraph) int {
		if c := a.created.Compare(b.created); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})
	return out
}
