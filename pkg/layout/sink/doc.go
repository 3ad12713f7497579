// Package sink provides output format renderers for routed lineage layouts.
//
// # Overview
//
// A sink transforms a computed [layout.Layout] into a final output format:
//
//   - SVG: standalone vector drawing with group-colored boxes
//   - JSON: drawing-ready geometry export for external frontends
//   - DOT: graphviz source, for debugging or external tooling
//
// # SVG Output
//
// [RenderSVG] draws routed edge paths, node boxes colored by group, and
// label text. Target nodes get a heavier stroke. Options:
//
//	svg := sink.RenderSVG(l,
//	    sink.WithPalette(sink.DefaultPalette()),
//	    sink.WithEdgeLabels(),
//	)
//
// # JSON Output
//
// [RenderJSON] flattens the layout into rect-ready boxes (top-left corner
// plus width and height) and precomputed SVG path strings, so a consumer can
// paint the graph without touching the geometry rules. [WithJSONSource]
// carries the source graph's summary and gaps into the same document.
//
// # Determinism
//
// All sinks are pure functions of their inputs. The same layout and options
// produce byte-identical output.
//
// [layout.Layout]: github.com/1mgroot/Tracil-sub000/pkg/layout.Layout
package sink
