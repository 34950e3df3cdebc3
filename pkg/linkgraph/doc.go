// Package linkgraph provides a sparse undirected connection graph over any
// comparable key type.
//
// # Overview
//
// A [Graph] records symmetric connections between distinct nodes. Nodes are
// not added explicitly: a node exists exactly while it has at least one
// connection. Adding the first connection creates the node's adjacency
// record, and removing the last one prunes it again. Self-connections are
// ignored.
//
// # Basic Usage
//
//	g := linkgraph.New[string]()
//	g.AddConnection("a", "b")
//	g.AddConnections("b", "c", "d")
//
//	g.ContainsConnection("b", "a") // true
//	g.ConnectionCount("b")         // 3
//
// # Collapse
//
// [Graph.Collapse] removes a node and connects all of its former neighbours
// to each other, so anything that was reachable through the node stays
// reachable. The cost is quadratic in the degree of the collapsed node.
//
// # Adjacency Records
//
// Adjacency records are recycled through a [sync.Pool] shared by all graphs
// with the same key type. A released record is cleared before it is handed
// out again. Because of this, a [Set] returned by [Graph.ConnectedNodes] is a
// live view: read it before the next mutation of the graph and copy it with
// [Set.Slice] if it must outlive one.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers that share a graph
// between goroutines must serialise access, for example with a mutex around
// the whole graph.
package linkgraph
