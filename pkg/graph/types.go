package graph

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

// =============================================================================
// Graph - Connection Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for string-keyed connection
// graphs. Used for files, API responses, snapshots, and caching.
//
// Output produced by [FromLinkGraph] is canonical: nodes are sorted by ID and
// every undirected edge appears once with A < B, edges sorted by (A, B).
// Equal graphs therefore serialize to identical bytes.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a serialized node.
type Node struct {
	ID     string `json:"id" bson:"id"`
	Degree int    `json:"degree,omitempty" bson:"degree,omitempty"` // Informational; ignored on read
}

// Edge is a serialized undirected connection.
type Edge struct {
	A string `json:"a" bson:"a"`
	B string `json:"b" bson:"b"`
}

// =============================================================================
// linkgraph ↔ Graph Conversion
// =============================================================================

// FromLinkGraph converts a connection graph to its canonical serialization.
func FromLinkGraph(g *linkgraph.Graph[string]) Graph {
	ids := g.Nodes()
	slices.Sort(ids)

	out := Graph{
		Nodes: make([]Node, len(ids)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for i, id := range ids {
		out.Nodes[i] = Node{ID: id, Degree: g.ConnectionCount(id)}
	}

	for _, e := range g.Edges() {
		a, b := e.A, e.B
		if b < a {
			a, b = b, a
		}
		out.Edges = append(out.Edges, Edge{A: a, B: b})
	}
	slices.SortFunc(out.Edges, func(x, y Edge) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})

	return out
}

// ToLinkGraph builds a connection graph from its serialization.
//
// Node IDs and edge endpoints are validated with [errors.ValidateNodeID].
// Edges may name nodes missing from Nodes; such nodes are implied. Nodes
// without edges are accepted but not present in the result, since a
// connection graph holds no isolated nodes. Self-edges are ignored.
func ToLinkGraph(gj Graph) (*linkgraph.Graph[string], error) {
	for _, n := range gj.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
	}

	g := linkgraph.New[string]()
	for i, e := range gj.Edges {
		if err := errors.ValidateNodeID(e.A); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %d endpoint a", i)
		}
		if err := errors.ValidateNodeID(e.B); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %d endpoint b", i)
		}
		g.AddConnection(e.A, e.B)
	}
	return g, nil
}

// Hash returns the SHA-256 of the canonical JSON encoding of g, as 64 hex
// characters. Use it on output of [FromLinkGraph] for content addressing.
func Hash(g Graph) string {
	data, _ := json.Marshal(struct {
		Nodes []string `json:"nodes"`
		Edges []Edge   `json:"edges"`
	}{Nodes: nodeIDs(g.Nodes), Edges: g.Edges})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func nodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
