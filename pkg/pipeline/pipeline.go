// Package pipeline runs the script → graph → render pipeline with caching.
//
// The CLI and the HTTP API both go through a [Runner] so that applying
// scripts and producing artifacts behave the same everywhere.
//
// # Stages
//
//  1. Apply: run a script against a base graph (or an empty one)
//  2. Render: produce artifacts in the requested formats (json, dot, svg, pdf, png)
//
// Each stage can be run on its own. Results are cached by content: the
// apply stage by the script and base graph hashes, the render stage by the
// graph hash and the options that affect output bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Script:  s,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/cache"
	"github.com/matzehuels/linkgraph/pkg/events"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
	"github.com/matzehuels/linkgraph/pkg/render"
	"github.com/matzehuels/linkgraph/pkg/script"
)

// DefaultPNGScale is the PNG zoom factor used when none is set.
const DefaultPNGScale = 2.0

// Options configures a pipeline run.
type Options struct {
	// Apply options
	Script  *script.Script // Steps to apply; nil skips the apply stage
	Base    *graph.Graph   // Starting graph; nil starts empty
	Refresh bool           // Bypass cached apply results

	// Render options
	Formats   []string
	Detailed  bool
	Highlight []string
	PNGScale  float64

	// Runtime options
	Logger     *log.Logger
	Dispatcher *events.Dispatcher // Receives a Mutation per applied step
	GraphID    string             // Copied into published events

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:    format,
		Detailed:  o.Detailed,
		Highlight: o.Highlight,
	}
	if format == render.FormatPNG {
		opts.Scale = o.PNGScale
	}
	return opts
}

// ValidateFormat checks a single output format.
func ValidateFormat(f string) error {
	if !render.ValidFormat(f) {
		return fmt.Errorf("invalid format: %q", f)
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the graph after the apply stage.
	Graph *linkgraph.Graph[string]

	// Interchange is Graph in serialisable form.
	Interchange graph.Graph

	// GraphHash is the content hash of Interchange.
	GraphHash string

	// Outcome reports the apply stage; zero on cache hits.
	Outcome script.Outcome

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Components int
	ApplyTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ApplyHit  bool
	RenderHit bool
}
