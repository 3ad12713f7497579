package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/1mgroot/Tracil-sub000/pkg/cache"
	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
	"github.com/1mgroot/Tracil-sub000/pkg/observability"
)

// Analyzer obtains a lineage graph for one variable query.
// [upstream.Client] is the production implementation.
type Analyzer interface {
	AnalyzeVariable(ctx context.Context, dataset, variable string) (lineage.Graph, error)
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze fetches the lineage graph for the query in opts and runs the full
// pipeline on it. The fetched graph is cached; pass opts.Refresh to bypass.
func (r *Runner) Analyze(ctx context.Context, a Analyzer, opts Options) (*Result, error) {
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, opts.Dataset, opts.Variable)

	analyzeStart := time.Now()
	g, graphHit, err := r.fetchGraph(ctx, a, opts)
	analyzeTime := time.Since(analyzeStart)
	hooks.OnAnalyzeComplete(ctx, opts.Dataset, opts.Variable, len(g.Nodes), analyzeTime, err)
	if err != nil {
		// The analyzer's error codes (NOT_FOUND, UPSTREAM_ERROR, ...) drive
		// HTTP status mapping; pass them through unwrapped.
		return nil, err
	}

	r.Logger.Info("fetched lineage",
		"dataset", opts.Dataset,
		"variable", opts.Variable,
		"nodes", len(g.Nodes),
		"cached", graphHit,
		"duration", analyzeTime)

	result, err := r.Execute(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.AnalyzeTime = analyzeTime
	result.CacheInfo.GraphHit = graphHit
	return result, nil
}

// fetchGraph resolves the query through the graph cache.
func (r *Runner) fetchGraph(ctx context.Context, a Analyzer, opts Options) (lineage.Graph, bool, error) {
	cacheKey := r.Keyer.GraphKey(opts.Dataset, opts.Variable, opts.GraphKeyOpts())
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := lineage.UnmarshalGraph(data); err == nil {
				cacheHooks.OnCacheHit(ctx, "graph")
				return g, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, "graph")
	}

	g, err := a.AnalyzeVariable(ctx, opts.Dataset, opts.Variable)
	if err != nil {
		return lineage.Graph{}, false, err
	}

	if data, err := lineage.MarshalGraph(g); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph); err == nil {
			cacheHooks.OnCacheSet(ctx, "graph", len(data))
		}
	}
	return g, false, nil
}

// Execute runs the sanitize → level → layout → render pipeline on a graph
// already in hand (from a file, an HTTP body, or [Runner.Analyze]).
func (r *Runner) Execute(ctx context.Context, g lineage.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: sanitize and level
	clean, levels := r.Prepare(g, opts)
	result.Graph = clean
	result.Levels = levels
	result.Stats.NodeCount = len(clean.Nodes)
	result.Stats.EdgeCount = len(clean.Edges)
	result.Stats.DroppedNodes = len(g.Nodes) - len(clean.Nodes)
	result.Stats.DroppedEdges = len(g.Edges) - len(clean.Edges)
	result.Stats.SelfRooted = countSelfRooted(clean, levels)
	result.Stats.LevelCount = countLevels(levels)

	// Compute graph hash for cache keys and API responses
	if graphData, err := lineage.MarshalGraph(clean); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("sanitized lineage",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"dropped_nodes", result.Stats.DroppedNodes,
		"dropped_edges", result.Stats.DroppedEdges,
		"levels", result.Stats.LevelCount)

	// Stage 2: layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, clean, levels, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"strategy", l.Strategy,
		"nodes", len(l.Nodes),
		"edges", len(l.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, clean, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare sanitizes a raw graph and assigns levels.
// Both passes are pure and cheap; they run on every execution rather than
// through the cache.
func (r *Runner) Prepare(g lineage.Graph, opts Options) (lineage.Graph, map[string]int) {
	clean := g.Sanitize()
	if dropped := len(g.Nodes) - len(clean.Nodes); dropped > 0 {
		r.Logger.Debug("dropped duplicate nodes", "count", dropped)
	}
	if dropped := len(g.Edges) - len(clean.Edges); dropped > 0 {
		r.Logger.Debug("dropped dangling edges", "count", dropped)
	}
	levels := lineage.AssignLevels(clean.Nodes, clean.Edges)
	return clean, levels
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g lineage.Graph, levels map[string]int, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Strategy, len(g.Nodes))
	cacheHooks := observability.Cache()

	// Compute cache key
	graphData, err := lineage.MarshalGraph(g)
	if err != nil {
		return layout.Layout{}, false, errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize graph for cache key")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := layout.UnmarshalLayout(data)
		if err == nil {
			cacheHooks.OnCacheHit(ctx, "layout")
			hooks.OnLayoutComplete(ctx, cached.Strategy, 0, nil)
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	cacheHooks.OnCacheMiss(ctx, "layout")

	// Compute layout
	start := time.Now()
	l, err := r.buildLayout(g, levels, opts)
	hooks.OnLayoutComplete(ctx, opts.Strategy, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	// Cache the result
	if data, err := layout.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g lineage.Graph, levels map[string]int, opts Options) (layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, levels, opts)
	return l, err
}

// buildLayout resolves the strategy and places the graph. A graphviz
// failure degrades to row placement so callers always get a drawable
// layout; the substitution is visible in Layout.Strategy and the log.
func (r *Runner) buildLayout(g lineage.Graph, levels map[string]int, opts Options) (layout.Layout, error) {
	cfg := opts.Config
	strat, err := layout.StrategyByName(opts.Strategy, cfg, len(g.Nodes))
	if err != nil {
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInvalidStrategy, err, "failed to resolve layout strategy")
	}

	l, err := layout.Build(g, levels, layout.WithConfig(cfg), layout.WithStrategy(strat))
	if err != nil && strat.Name() == layout.StrategyDot {
		opts.Logger.Warn("graphviz layout failed, falling back to rows", "err", err)
		l, err = layout.Build(g, levels, layout.WithConfig(cfg), layout.WithStrategy(layout.RowStrategy{Config: cfg}))
	}
	if err != nil {
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "failed to compute layout")
	}
	return l, nil
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit
// info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, g lineage.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	cacheHooks := observability.Cache()

	// The artifact key hashes both inputs: the JSON artifact embeds the
	// graph's summary and gaps, and the DOT artifact renders the raw edge
	// list, so the layout alone does not determine the output.
	layoutData, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	graphData, err := lineage.MarshalGraph(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize graph for cache key")
	}
	graphHash := cache.Hash(graphData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, graphHash))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		cacheHooks.OnCacheHit(ctx, "artifact")
		hooks.OnRenderComplete(ctx, opts.Formats, 0, nil)
		return artifacts, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	// Render all formats
	start := time.Now()
	rendered, err := renderArtifacts(l, g, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, graphHash))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, g lineage.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// countSelfRooted counts level-0 nodes that have an incoming edge: members
// of rootless cycles the level assigner anchored at the top.
func countSelfRooted(g lineage.Graph, levels map[string]int) int {
	natural := len(lineage.Roots(g.Nodes, g.Edges))
	zero := 0
	for _, level := range levels {
		if level == 0 {
			zero++
		}
	}
	return zero - natural
}

// countLevels counts the distinct level values in use.
func countLevels(levels map[string]int) int {
	seen := make(map[int]bool, len(levels))
	for _, l := range levels {
		seen[l] = true
	}
	return len(seen)
}
