// Package layout turns a leveled lineage graph into renderable geometry:
// a center position and box size per node, and boundary connection points
// plus a path descriptor per edge.
//
// # Pipeline Position
//
// The package sits after sanitization and level assignment. Given a
// sanitized [lineage.Graph] and its level map, [Build] runs a placement
// [Strategy] and then routes every edge with [RouteEdge], producing a
// self-contained [Layout] document.
//
// # Strategies
//
// Two placements ship behind the [Strategy] interface:
//
//   - [RowStrategy]: level rows centered in a fixed canvas width,
//     top-to-bottom flow. Deterministic, dependency-free, the default for
//     small graphs.
//   - [DotStrategy]: the graphviz dot engine configured left-to-right,
//     with spacing density tied to node count. Used above the dense-node
//     threshold, or on request.
//
// The edge router only sees positions and box sizes, so strategies are
// interchangeable without touching routing.
//
// # Determinism
//
// Placement preserves the sanitized input order within each level and never
// sorts by content, so identical graphs yield identical layouts. That
// property is what allows layout results to be cached by graph hash.
//
// [lineage.Graph]: github.com/1mgroot/Tracil-sub000/pkg/lineage
package layout
