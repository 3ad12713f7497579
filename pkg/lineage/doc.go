// Package lineage provides the data model and integrity passes for clinical
// data lineage graphs.
//
// # Overview
//
// A lineage graph traces one analysis variable backwards through the CDISC
// pipeline: protocol design, CRF capture, SDTM standardization, ADaM
// derivation, and TLF output. The graph arrives from an AI inference
// backend, which means it is directed but otherwise untrusted: ids may be
// duplicated, edges may dangle, and cycles can occur.
//
// The package owns three concerns:
//
//   - The graph model ([Graph], [Node], [Edge], [Gap]) with insertion order
//     preserved, since order drives deterministic downstream layout.
//   - A tolerant JSON codec that normalizes producer noise on the way in
//     (endpoint aliases, whitespace ids, loose gap shapes) and emits a
//     canonical form on the way out.
//   - The two integrity passes every graph runs through before layout:
//     [Sanitize] (blank-id drop, first-occurrence dedupe, dangling-edge
//     drop) and [AssignLevels] (cycle-safe multi-source BFS leveling).
//
// # Determinism
//
// All operations are pure functions over their inputs. Sanitizing or
// leveling the same graph value twice yields identical results, which is
// what makes layouts reproducible across runs and cacheable by content
// hash.
//
// # Concurrency
//
// Graph values are plain data; concurrent pipelines over different graphs
// need no synchronization. Nothing in this package blocks or performs I/O
// except the explicit file helpers in the codec.
package lineage
