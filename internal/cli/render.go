package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
	"github.com/matzehuels/linkgraph/pkg/render"
)

// renderOpts holds the flags for the render command.
type renderOpts struct {
	output    string
	formats   string
	detailed  bool
	highlight string
	scale     float64
	noCache   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a graph file as DOT, SVG, PDF or PNG",
		Long: `Render draws a node-link diagram of a graph file with Graphviz.

PDF and PNG output requires rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with their degree")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "comma-separated nodes to highlight")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultPNGScale, "PNG zoom factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	formats, err := parseFormats(opts.formats, render.FormatSVG)
	if err != nil {
		return err
	}

	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return err
	}
	gj := graph.FromLinkGraph(g)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, c.Out, "Rendering...")
	if opts.output != "" || !textFormat(formats) {
		spinner.Start()
	}

	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, gj, pipeline.Options{
		Formats:   formats,
		Detailed:  opts.detailed,
		Highlight: splitList(opts.highlight),
		PNGScale:  opts.scale,
		Logger:    loggerFromContext(ctx),
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := c.writeArtifacts(artifacts, formats, opts.output, input, textFormat(formats))
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		printSuccess(c.Out, "Rendered %s", styleHighlight.Render(input))
		for _, p := range paths {
			printFile(c.Out, p)
		}
		printStats(c.Out, g.Len(), g.EdgeCount(), len(g.Components()), hit)
	}
	return nil
}
