// Package pkg provides the core libraries for Tracil lineage visualization.
//
// # Overview
//
// Tracil renders the lineage of clinical trial variables as layered
// diagrams: where a value was collected, how it moved through SDTM, and how
// the ADaM derivation produced it. The pkg directory is organized into
// three main areas:
//
//  1. Domain ([lineage], [layout], [standards]) - graph model, layered
//     placement and edge routing, CDISC metadata
//  2. Infrastructure ([cache], [store], [httputil], [errors],
//     [observability]) - caching, persistence, HTTP plumbing, error codes
//  3. Orchestration ([pipeline], [upstream]) - the analyze → sanitize →
//     layout → render flow and the inference backend client
//
// # Architecture
//
// The typical data flow through Tracil:
//
//	Inference Backend (LLM-assisted lineage tracing)
//	         ↓
//	    [upstream] package (fetch + degrade + cache)
//	         ↓
//	    [lineage] package (sanitize + assign levels)
//	         ↓
//	    [layout] package (place nodes + route edges)
//	         ↓
//	    SVG/JSON/DOT output
//
// # Quick Start
//
// Trace a variable and render its lineage:
//
//	import (
//	    "context"
//	    "github.com/1mgroot/Tracil-sub000/pkg/pipeline"
//	    "github.com/1mgroot/Tracil-sub000/pkg/upstream"
//	)
//
//	// 1. Build the pieces
//	client, _ := upstream.NewClient("http://localhost:8000")
//	runner := pipeline.NewRunner(nil, nil, nil)
//
//	// 2. Run the pipeline
//	result, _ := runner.Analyze(context.Background(), client, pipeline.Options{
//	    Dataset:  "ADSL",
//	    Variable: "AGE",
//	    Formats:  []string{"svg"},
//	})
//
//	// 3. Use the artifacts
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
// ## Domain
//
// [lineage] - The lineage graph model: nodes grouped by provenance
// (protocol, CRF, SDTM, ADaM, TLF), directed derivation edges, and
// producer-reported gaps. Sanitization deduplicates ids and drops dangling
// edges; level assignment walks the graph breadth-first from its roots.
//
// [layout] - Deterministic layered placement. The rows strategy positions
// nodes on provenance levels and routes edges as cubic curves; the dot
// strategy delegates placement to Graphviz. [layout/sink] renders a
// computed layout to SVG, drawing-ready JSON, or DOT.
//
// [standards] - CDISC study metadata: standards, dataset entities, and
// variables, as exported by the inference backend's define.xml reader.
//
// ## Infrastructure
//
// [cache] - Content-addressed caching with file, Redis, and null backends.
// Each pipeline stage caches under its own key family, so a layout change
// invalidates artifacts without re-running inference.
//
// [store] - Snapshot persistence for analysis results with memory and
// MongoDB backends. The HTTP API serves saved snapshots from here.
//
// [httputil] - Shared HTTP plumbing: a TTL file cache for responses and a
// retry helper with exponential backoff.
//
// [errors] - Coded errors shared by every layer. Codes map to HTTP status
// in the API and to user-facing messages in the CLI.
//
// [observability] - Hook points for pipeline, cache, and HTTP events.
//
// ## Orchestration
//
// [pipeline] - The canonical analyze → sanitize → layout → render flow
// used by the CLI and the API. Ensures the same query always produces the
// same diagram regardless of entry point.
//
// [upstream] - Client for the lineage inference backend. Retries transient
// failures and degrades to a single-node graph when the backend stays
// unavailable, so callers always have something to lay out.
//
// # Common Workflows
//
// Lay out a graph already in hand:
//
//	g, _ := lineage.ReadGraphFile("lineage.json")
//	clean := g.Sanitize()
//	levels := lineage.AssignLevels(clean.Nodes, clean.Edges)
//	l, _ := layout.Build(clean, levels)
//
// Render with edge labels:
//
//	svg := sink.RenderSVG(l, sink.WithEdgeLabels())
//
// Cache layouts across runs:
//
//	c, _ := cache.NewFileCache("/tmp/tracil")
//	runner := pipeline.NewRunner(c, cache.NewDefaultKeyer(), logger)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [lineage]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/lineage
// [layout]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/layout
// [layout/sink]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/layout/sink
// [standards]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/standards
// [cache]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/cache
// [store]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/store
// [httputil]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/errors
// [observability]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/pipeline
// [upstream]: https://pkg.go.dev/github.com/1mgroot/Tracil-sub000/pkg/upstream
package pkg
