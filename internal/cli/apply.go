package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	lgerrors "github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
	"github.com/matzehuels/linkgraph/pkg/render"
	"github.com/matzehuels/linkgraph/pkg/script"
	"github.com/matzehuels/linkgraph/pkg/storage"
)

// applyOpts holds the flags for the apply command.
type applyOpts struct {
	graphFile string // base graph file
	snapshot  string // base snapshot ID
	save      string // save the result under this snapshot name
	output    string
	formats   string
	detailed  bool
	highlight string
	noCache   bool
	refresh   bool
}

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "apply <script.toml>",
		Short: "Apply an edit script and write the resulting graph",
		Long: `Apply runs the steps of a TOML edit script against an empty graph, a graph
file (--graph) or a saved snapshot (--snapshot), then writes the result.

Example script:

  name = "office"

  [[step]]
  op = "connect-many"
  node = "switch"
  others = ["desk-1", "desk-2", "printer"]

  [[step]]
  op = "collapse"
  node = "switch"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.graphFile, "graph", "", "base graph JSON file")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "base snapshot ID")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the result as a snapshot with this name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with their degree")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "comma-separated nodes to highlight")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.MarkFlagsMutuallyExclusive("graph", "snapshot")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, path string, opts applyOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := script.ParseFile(path)
	if err != nil {
		return err
	}
	formats, err := parseFormats(opts.formats, render.FormatJSON)
	if err != nil {
		return err
	}

	base, err := c.loadBase(ctx, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		Script:    s,
		Base:      base,
		Refresh:   opts.refresh,
		Formats:   formats,
		Detailed:  opts.detailed,
		Highlight: splitList(opts.highlight),
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Applied %d steps", len(s.Steps)))

	paths, err := c.writeArtifacts(result.Artifacts, formats, opts.output, path, textFormat(formats))
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(c.Out, p)
	}
	if len(paths) > 0 {
		printStats(c.Out, result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Components, result.CacheInfo.ApplyHit)
	}

	if opts.save != "" {
		return c.saveSnapshot(ctx, opts.save, result.Interchange)
	}
	return nil
}

// loadBase returns the starting graph for apply, or nil for an empty one.
func (c *CLI) loadBase(ctx context.Context, opts applyOpts) (*graph.Graph, error) {
	switch {
	case opts.graphFile != "":
		g, err := graph.ReadGraphFile(opts.graphFile)
		if err != nil {
			return nil, err
		}
		gj := graph.FromLinkGraph(g)
		return &gj, nil

	case opts.snapshot != "":
		id, err := uuid.Parse(opts.snapshot)
		if err != nil {
			return nil, lgerrors.Wrap(lgerrors.ErrCodeInvalidInput, err, "snapshot ID %q", opts.snapshot)
		}
		store, err := c.newStore(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		snap, err := store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return &snap.Graph, nil
	}
	return nil, nil
}

func (c *CLI) saveSnapshot(ctx context.Context, name string, g graph.Graph) error {
	if err := lgerrors.ValidateSnapshotName(name); err != nil {
		return err
	}
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	snap := storage.NewSnapshot(name, g)
	if err := store.Save(ctx, snap); err != nil {
		return err
	}
	printSuccess(c.Out, "Saved snapshot %s", styleHighlight.Render(name))
	printDetail(c.Out, "ID: %s", snap.ID)
	return nil
}
