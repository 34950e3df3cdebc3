package linkgraph

import (
	"iter"
	"maps"
	"sync"
)

// Edge is an undirected connection between two distinct nodes.
// The order of A and B carries no meaning.
type Edge[T comparable] struct {
	A, B T
}

// Graph is a sparse undirected simple graph over nodes of type T.
//
// Connections are stored symmetrically: if b is a neighbour of a, then a is a
// neighbour of b. A node is present exactly while it has at least one
// neighbour; its adjacency record is created on the first connection and
// pruned as soon as the last one is removed. Self-connections are ignored.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph[T comparable] struct {
	nodes map[T]*record[T]
	pool  *sync.Pool
}

// New creates an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		nodes: make(map[T]*record[T]),
		pool:  recordPool[T](),
	}
}

func (g *Graph[T]) getOrCreate(node T) *record[T] {
	if r, ok := g.nodes[node]; ok {
		return r
	}
	r := acquireRecord(g.pool, node)
	g.nodes[node] = r
	return r
}

func (g *Graph[T]) releaseIfEmpty(r *record[T]) {
	if r.len() > 0 {
		return
	}
	delete(g.nodes, r.node)
	releaseRecord(g.pool, r)
}

// removeConnectedNode drops other from node's record, pruning it if emptied.
func (g *Graph[T]) removeConnectedNode(node, other T) {
	r, ok := g.nodes[node]
	if !ok {
		return
	}
	r.remove(other)
	g.releaseIfEmpty(r)
}

// AddConnection connects a and b.
// It is a no-op if a == b or the connection already exists.
func (g *Graph[T]) AddConnection(a, b T) {
	if a == b {
		return
	}
	g.getOrCreate(a).add(b)
	g.getOrCreate(b).add(a)
}

// AddConnections connects node to each of others, skipping any element equal
// to node. Duplicates in others are harmless.
func (g *Graph[T]) AddConnections(node T, others ...T) {
	r := g.getOrCreate(node)
	for _, other := range others {
		if other == node {
			continue
		}
		r.add(other)
		g.getOrCreate(other).add(node)
	}
	g.releaseIfEmpty(r)
}

// RemoveConnection disconnects a and b, pruning either node if it is left
// without neighbours. It is a no-op if the connection does not exist.
func (g *Graph[T]) RemoveConnection(a, b T) {
	g.removeConnectedNode(a, b)
	g.removeConnectedNode(b, a)
}

// RemoveConnections disconnects node from each of others.
// Node is pruned if it is left without neighbours.
func (g *Graph[T]) RemoveConnections(node T, others ...T) {
	r, ok := g.nodes[node]
	if !ok {
		return
	}
	for _, other := range others {
		if other == node {
			continue
		}
		r.remove(other)
		g.removeConnectedNode(other, node)
	}
	g.releaseIfEmpty(r)
}

// ClearConnections removes node and all of its connections. Neighbours left
// without connections are pruned. It is a no-op if node is not present.
func (g *Graph[T]) ClearConnections(node T) {
	r, ok := g.nodes[node]
	if !ok {
		return
	}
	delete(g.nodes, node)
	for other := range r.conns {
		g.removeConnectedNode(other, node)
	}
	releaseRecord(g.pool, r)
}

// Collapse removes node and connects every pair of its former neighbours, so
// that reachability through node is preserved. It is a no-op if node is not
// present.
//
// Collapse runs in O(k²) time for a node of degree k.
func (g *Graph[T]) Collapse(node T) {
	r, ok := g.nodes[node]
	if !ok {
		return
	}
	delete(g.nodes, node)

	neighbours := make([]T, 0, r.len())
	for other := range r.conns {
		neighbours = append(neighbours, other)
	}
	releaseRecord(g.pool, r)

	// Clique first, then sever.
	for i, a := range neighbours {
		for _, b := range neighbours[i+1:] {
			g.AddConnection(a, b)
		}
	}
	for _, other := range neighbours {
		g.removeConnectedNode(other, node)
	}
}

// ConnectedNodes returns the neighbours of node.
// The result is an empty set if node is not present.
//
// The set is a live view of node's adjacency record and tracks later
// connections to node. Once node is pruned its record goes back to the pool
// and may be handed to another node, so an old view can then report that
// node's neighbours. Call [Set.Slice] for a copy that outlives node.
func (g *Graph[T]) ConnectedNodes(node T) Set[T] {
	if r, ok := g.nodes[node]; ok {
		return Set[T]{m: r.conns}
	}
	return Set[T]{}
}

// Neighbors iterates the neighbours of node in unspecified order.
func (g *Graph[T]) Neighbors(node T) iter.Seq[T] {
	return g.ConnectedNodes(node).All()
}

// ConnectionCount returns the number of neighbours of node, or 0 if node is
// not present.
func (g *Graph[T]) ConnectionCount(node T) int {
	if r, ok := g.nodes[node]; ok {
		return r.len()
	}
	return 0
}

// ContainsConnection reports whether b is a neighbour of a.
func (g *Graph[T]) ContainsConnection(a, b T) bool {
	r, ok := g.nodes[a]
	return ok && r.contains(b)
}

// Contains reports whether node has at least one connection.
func (g *Graph[T]) Contains(node T) bool {
	_, ok := g.nodes[node]
	return ok
}

// Clear removes all nodes and connections.
func (g *Graph[T]) Clear() {
	for _, r := range g.nodes {
		releaseRecord(g.pool, r)
	}
	clear(g.nodes)
}

// Nodes returns all present nodes in unspecified order.
// The result is a copy and is never nil.
func (g *Graph[T]) Nodes() []T {
	out := make([]T, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// All iterates all present nodes in unspecified order.
func (g *Graph[T]) All() iter.Seq[T] { return maps.Keys(g.nodes) }

// Len returns the number of present nodes.
func (g *Graph[T]) Len() int { return len(g.nodes) }

// EdgeCount returns the number of undirected connections.
func (g *Graph[T]) EdgeCount() int {
	n := 0
	for _, r := range g.nodes {
		n += r.len()
	}
	return n / 2
}

// Edges returns every connection exactly once, in unspecified order.
func (g *Graph[T]) Edges() []Edge[T] {
	out := make([]Edge[T], 0, g.EdgeCount())
	seen := make(map[T]struct{}, len(g.nodes))
	for a, r := range g.nodes {
		for b := range r.conns {
			if _, done := seen[b]; !done {
				out = append(out, Edge[T]{A: a, B: b})
			}
		}
		seen[a] = struct{}{}
	}
	return out
}

// Clone returns a deep copy of g with its own adjacency records.
func (g *Graph[T]) Clone() *Graph[T] {
	c := New[T]()
	for n, r := range g.nodes {
		cr := acquireRecord(c.pool, n)
		for other := range r.conns {
			cr.conns[other] = struct{}{}
		}
		c.nodes[n] = cr
	}
	return c
}
