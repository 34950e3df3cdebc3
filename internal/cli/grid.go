package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	lgerrors "github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/grid"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

// maxGridCells bounds generated grids.
const maxGridCells = 1 << 20

// gridOpts holds the flags for the grid command.
type gridOpts struct {
	width, height, depth int
	conn                 string
	output               string
}

// gridCommand creates the grid command.
func (c *CLI) gridCommand() *cobra.Command {
	var opts gridOpts

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Generate a lattice graph over a 2D or 3D grid",
		Long: `Grid connects every cell of a W×H (or W×H×D) grid to its neighbours.
Nodes are named by their cell index in row-major order.

Connectivity is 4 or 8 in 2D and 6 or 26 in 3D.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrid(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 8, "cells along x")
	cmd.Flags().IntVar(&opts.height, "height", 8, "cells along y")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "cells along z (0 for a 2D grid)")
	cmd.Flags().StringVar(&opts.conn, "conn", "", "connectivity: 4 (2D default), 8, 6 (3D default), 26")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runGrid(ctx context.Context, opts gridOpts) error {
	g, err := buildGrid(opts)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("generated grid", "nodes", g.Len(), "edges", g.EdgeCount())

	out, err := c.openOutput(opts.output)
	if err != nil {
		return err
	}
	if err := graph.WriteGraph(g, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess(c.Out, "Generated %s grid", opts.size())
		printFile(c.Out, opts.output)
	}
	return nil
}

// buildGrid generates the lattice and relabels cells as decimal strings.
func buildGrid(opts gridOpts) (*linkgraph.Graph[string], error) {
	if opts.width <= 0 || opts.height <= 0 || opts.depth < 0 {
		return nil, lgerrors.New(lgerrors.ErrCodeInvalidInput, "grid dimensions must be positive")
	}
	if _, ok := gridCells(opts.width, opts.height, max(opts.depth, 1)); !ok {
		return nil, lgerrors.New(lgerrors.ErrCodeInvalidInput, "grid %s exceeds %d cells", opts.size(), maxGridCells)
	}

	conn := opts.conn
	if conn == "" {
		conn = "4"
		if opts.depth > 0 {
			conn = "6"
		}
	}
	connectivity, err := grid.ParseConnectivity(conn)
	if err != nil {
		return nil, lgerrors.Wrap(lgerrors.ErrCodeInvalidInput, err, "grid")
	}
	is3D := connectivity == grid.Six || connectivity == grid.TwentySix
	if is3D != (opts.depth > 0) {
		return nil, lgerrors.New(lgerrors.ErrCodeInvalidInput, "connectivity %s does not match a %s grid", conn, opts.dims())
	}

	cellGraph := linkgraph.New[int]()
	if is3D {
		grid.Connect3(cellGraph, grid.Res3{W: opts.width, H: opts.height, D: opts.depth}, connectivity, nil)
	} else {
		grid.Connect2(cellGraph, grid.Res2{W: opts.width, H: opts.height}, connectivity, nil)
	}

	g := linkgraph.New[string]()
	for _, e := range cellGraph.Edges() {
		g.AddConnection(strconv.Itoa(e.A), strconv.Itoa(e.B))
	}
	return g, nil
}

// gridCells multiplies the dimensions, failing once the product passes
// maxGridCells. Each partial product stays within the limit, so the
// multiplication cannot overflow.
func gridCells(dims ...int) (int, bool) {
	cells := 1
	for _, d := range dims {
		if d > maxGridCells/cells {
			return 0, false
		}
		cells *= d
	}
	return cells, true
}

func (o gridOpts) dims() string {
	if o.depth > 0 {
		return "3D"
	}
	return "2D"
}

func (o gridOpts) size() string {
	if o.depth > 0 {
		return fmt.Sprintf("%d×%d×%d", o.width, o.height, o.depth)
	}
	return fmt.Sprintf("%d×%d", o.width, o.height)
}
