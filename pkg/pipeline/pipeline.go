// Package pipeline provides the core lineage pipeline for Tracil.
//
// This package implements the complete sanitize → level → layout → render
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Analyze: Obtain a lineage graph, either from the inference backend or
//     from a caller-supplied document, and restore its structural integrity
//  2. Layout: Assign levels and compute box positions and edge routes
//  3. Render: Generate output in various formats (JSON, SVG, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline on a graph in hand:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Strategy: "rows",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Or let the runner fetch the graph from the inference backend first:
//
//	client, _ := upstream.NewClient("http://localhost:8000")
//	opts.Dataset, opts.Variable = "ADSL", "AGE"
//	result, err := runner.Analyze(ctx, client, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/1mgroot/Tracil-sub000/pkg/cache"
	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
)

// DefaultFormat is the artifact produced when no formats are requested.
const DefaultFormat = FormatJSON

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the lineage pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Analyze options
	Dataset  string `json:"dataset,omitempty"`
	Variable string `json:"variable,omitempty"`
	Backend  string `json:"backend,omitempty"` // Inference base URL, scopes graph cache keys
	Refresh  bool   `json:"refresh,omitempty"` // Bypass the graph cache

	// Layout options
	Strategy string `json:"strategy,omitempty"` // "", "rows", or "dot" ("" = by node count)

	// Render options
	Formats    []string `json:"formats,omitempty"`
	EdgeLabels bool     `json:"edge_labels,omitempty"` // Draw edge labels in SVG output
	Compact    bool     `json:"compact,omitempty"`     // Compact JSON artifact

	// Runtime options (not serialized)
	Logger *log.Logger   `json:"-"`
	Config layout.Config `json:"-"` // Zero value selects layout.DefaultConfig

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the sanitized lineage graph.
	Graph lineage.Graph

	// GraphHash is the content hash of the sanitized graph.
	GraphHash string

	// Levels maps each node id to its assigned depth.
	Levels map[string]int

	// Layout contains the placed nodes and routed edges.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains counts and timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int `json:"node_count"`    // Nodes surviving sanitization
	EdgeCount    int `json:"edge_count"`    // Edges surviving sanitization
	DroppedNodes int `json:"dropped_nodes"` // Duplicate ids removed
	DroppedEdges int `json:"dropped_edges"` // Dangling edges removed
	SelfRooted   int `json:"self_rooted"`   // Nodes forced to level 0 because no root reaches them
	LevelCount   int `json:"level_count"`   // Distinct levels in the layout

	AnalyzeTime time.Duration `json:"analyze_time_ns"`
	LayoutTime  time.Duration `json:"layout_time_ns"`
	RenderTime  time.Duration `json:"render_time_ns"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool `json:"graph_hit"`  // Whether the upstream graph came from cache
	LayoutHit bool `json:"layout_hit"` // Whether the layout came from cache
	RenderHit bool `json:"render_hit"` // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForAnalyze checks and normalizes the analyze query.
// Dataset and variable are uppercased in place.
func (o *Options) ValidateForAnalyze() error {
	o.Dataset = strings.ToUpper(strings.TrimSpace(o.Dataset))
	o.Variable = strings.ToUpper(strings.TrimSpace(o.Variable))
	if err := errors.ValidateDatasetName(o.Dataset); err != nil {
		return err
	}
	if err := errors.ValidateVariableName(o.Variable); err != nil {
		return err
	}
	o.setRuntimeDefaults()
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.setRuntimeDefaults()
	return errors.ValidateStrategy(o.Strategy)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.setRuntimeDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// setRuntimeDefaults fills the non-serialized fields.
func (o *Options) setRuntimeDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Config.NodeWidth == 0 {
		o.Config = layout.DefaultConfig()
	}
}

// GraphKeyOpts returns cache key options for upstream graph caching.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Source: o.Backend,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy: o.Strategy,
		Width:    o.Config.CanvasWidth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// graphHash is the sanitized-graph hash; artifacts render from the graph as
// well as the layout, so the key must cover both.
func (o *Options) ArtifactKeyOpts(format, graphHash string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		GraphHash:  graphHash,
		EdgeLabels: o.EdgeLabels,
		Compact:    o.Compact,
	}
}

// HasQuery reports whether the options name an analyze query.
func (o *Options) HasQuery() bool {
	return o.Dataset != "" && o.Variable != ""
}
