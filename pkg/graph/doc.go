// Package graph provides the serialization format for connection graphs.
//
// This package defines the canonical wire format for linkgraph data, used
// for JSON files, API responses, snapshots, and caching.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory
// representation and external formats:
//
//   - [Graph]: Serialization type (this package)
//   - pkg/linkgraph.Graph[string]: In-memory connection graph
//
// Use [FromLinkGraph]/[ToLinkGraph] to convert between them.
//
// # Format
//
// Graphs use a simple node-link JSON format. Each undirected edge appears
// once, with its endpoints in ascending order:
//
//	{
//	  "nodes": [{"id": "api", "degree": 1}, {"id": "db", "degree": 1}],
//	  "edges": [{"a": "api", "b": "db"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("net.json")  // File → linkgraph
//	graph.WriteGraphFile(g, "output.json")   // linkgraph → File
//	data, _ := graph.MarshalGraph(g)         // linkgraph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)  // []byte → Graph
//
// # Isolated Nodes
//
// A connection graph never holds nodes without connections. Nodes listed in
// the "nodes" array without any edge are accepted on read and dropped.
package graph
