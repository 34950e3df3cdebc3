package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/observability"
	"github.com/matzehuels/linkgraph/pkg/render"
	"github.com/matzehuels/linkgraph/pkg/render/nodelink"
)

// Render produces every requested format from g without caching.
// SVG is rendered once and shared by the PDF and PNG conversions.
func Render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := renderFormats(ctx, g, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	if slices.Contains(opts.Formats, render.FormatJSON) {
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		artifacts[render.FormatJSON] = append(data, '\n')
	}

	needsDOT := slices.ContainsFunc(opts.Formats, func(f string) bool { return f != render.FormatJSON })
	if !needsDOT {
		return artifacts, nil
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, Highlight: opts.Highlight})
	if slices.Contains(opts.Formats, render.FormatDOT) {
		artifacts[render.FormatDOT] = []byte(dot)
	}

	needsSVG := slices.ContainsFunc(opts.Formats, func(f string) bool {
		return f == render.FormatSVG || render.NeedsRSVG(f)
	})
	if !needsSVG {
		return artifacts, nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	if slices.Contains(opts.Formats, render.FormatSVG) {
		artifacts[render.FormatSVG] = svg
	}
	if slices.Contains(opts.Formats, render.FormatPDF) {
		if artifacts[render.FormatPDF], err = render.ToPDF(ctx, svg); err != nil {
			return nil, err
		}
	}
	if slices.Contains(opts.Formats, render.FormatPNG) {
		if artifacts[render.FormatPNG], err = render.ToPNG(ctx, svg, opts.PNGScale); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}
