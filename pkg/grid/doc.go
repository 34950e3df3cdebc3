// Package grid converts between linear cell indices and 2D/3D grid
// coordinates, and builds connection graphs of grid cells.
//
// Cells of a grid with resolution (W, H) are numbered row-major:
//
//	index = x + y*W
//
// and for a 3D grid with resolution (W, H, D):
//
//	index = x + y*W + z*W*H
//
// The Try* variants return false instead of producing out-of-range results.
//
// [Connect2] and [Connect3] add one connection per pair of neighbouring
// cells to a [linkgraph.Graph] keyed by cell index, which can then be
// queried for reachability or collapsed to merge regions.
package grid
