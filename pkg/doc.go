// Package pkg provides the libraries behind linkgraph, a toolkit for sparse
// undirected connection graphs.
//
// # Overview
//
// The core is [linkgraph], a generic graph whose nodes exist only while they
// have at least one connection. Everything else builds on it:
//
//  1. [linkgraph] - The connection graph (connect, disconnect, collapse, query)
//  2. [grid] - Lattice construction over 2D and 3D grids
//  3. [script] - TOML edit scripts applied step by step
//  4. [graph] - Canonical JSON/BSON interchange format and content hashing
//  5. [pipeline] - Orchestration (apply → render) with caching
//  6. [render] - DOT, SVG, PDF and PNG output
//  7. [storage] - Snapshot stores (memory, file, MongoDB)
//  8. [cache] - Result caches (file, Redis, null)
//
// # Architecture
//
// The typical data flow:
//
//	Edit script (TOML) + base graph
//	         ↓
//	    [script] package (apply steps to a linkgraph.Graph)
//	         ↓
//	    [graph] package (canonical interchange form + hash)
//	         ↓
//	    [render] package (DOT → SVG → PDF/PNG)
//
// # Quick Start
//
//	g := linkgraph.New[string]()
//	g.AddConnections("broker", "api", "worker")
//	g.Collapse("broker")
//	fmt.Println(g.ContainsConnection("api", "worker")) // true
//
// # Supporting Packages
//
// [events] - Typed publish/subscribe used to announce graph mutations.
//
// [observability] - Hooks for apply, render, cache and HTTP events, with a
// logging implementation.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [buildinfo] - Version information injected at build time.
//
// [linkgraph]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/linkgraph
// [grid]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/grid
// [script]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/script
// [graph]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/render
// [storage]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/storage
// [cache]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/cache
// [events]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/events
// [observability]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/buildinfo
package pkg
