package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/cache"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
	"github.com/matzehuels/linkgraph/pkg/observability"
	"github.com/matzehuels/linkgraph/pkg/script"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Observe(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the apply → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Apply
	applyStart := time.Now()
	g, outcome, applyHit, err := r.ApplyWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	result.Graph = g
	result.Outcome = outcome
	result.Interchange = graph.FromLinkGraph(g)
	result.GraphHash = graph.Hash(result.Interchange)
	result.Stats.ApplyTime = time.Since(applyStart)
	result.Stats.NodeCount = g.Len()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.Components = len(g.Components())
	result.CacheInfo.ApplyHit = applyHit

	r.Logger.Info("graph ready",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"components", result.Stats.Components,
		"duration", result.Stats.ApplyTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Interchange, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ApplyWithCacheInfo builds the base graph, applies the script and reports
// whether the result came from the cache. Runs with a dispatcher always
// apply the script so that listeners see every step.
func (r *Runner) ApplyWithCacheInfo(ctx context.Context, opts Options) (*linkgraph.Graph[string], script.Outcome, bool, error) {
	r.applyLogger(&opts)

	base := linkgraph.New[string]()
	if opts.Base != nil {
		var err error
		if base, err = graph.ToLinkGraph(*opts.Base); err != nil {
			return nil, script.Outcome{}, false, err
		}
	}
	if opts.Script == nil {
		return base, script.Outcome{}, false, nil
	}

	var scriptBuf bytes.Buffer
	if err := opts.Script.Encode(&scriptBuf); err != nil {
		return nil, script.Outcome{}, false, fmt.Errorf("encode script for cache key: %w", err)
	}
	cacheKey := r.Keyer.ScriptKey(cache.Hash(scriptBuf.Bytes()), graph.Hash(graph.FromLinkGraph(base)))
	useCache := !opts.Refresh && opts.Dispatcher == nil

	if useCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := graph.ReadGraph(bytes.NewReader(data)); err == nil {
				return g, script.Outcome{}, true, nil
			}
		}
	}

	source := opts.Script.Source
	if source == "" {
		source = opts.Script.Name
	}
	observability.Pipeline().OnApplyStart(ctx, source)

	applyOpts := []script.ApplyOption{script.WithLogger(opts.Logger)}
	if opts.Dispatcher != nil {
		applyOpts = append(applyOpts, script.WithDispatcher(opts.Dispatcher, opts.GraphID))
	}
	outcome, err := opts.Script.Apply(ctx, base, applyOpts...)
	observability.Pipeline().OnApplyComplete(ctx, source, outcome.Steps, outcome.Nodes, outcome.Duration, err)
	if err != nil {
		return nil, outcome, false, err
	}

	if data, err := graph.MarshalGraph(base); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSnapshot)
	}
	return base, outcome, false, nil
}

// Apply is a convenience wrapper that calls ApplyWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Apply(ctx context.Context, opts Options) (*linkgraph.Graph[string], error) {
	g, _, _, err := r.ApplyWithCacheInfo(ctx, opts)
	return g, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit flag is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	graphHash := graph.Hash(g)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
		} else {
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, g, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
