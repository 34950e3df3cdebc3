// Package nodelink renders connection graphs as node-link diagrams.
//
// # Overview
//
// Graphs are undirected, so the generated DOT uses the "graph" keyword with
// "--" edges and the neato layout engine, which places nodes by spring
// forces rather than ranks.
//
// # Usage
//
// Convert an interchange graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include the node's degree
//   - Highlight: node IDs drawn with an accent fill
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion is in the parent render package.
package nodelink
