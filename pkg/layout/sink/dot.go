package sink

import (
	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// RenderDOT returns graphviz source for a sanitized graph with its level
// assignment, the same source the dot placement strategy feeds the engine.
// Useful for debugging placement or for external graphviz tooling.
func RenderDOT(g lineage.Graph, levels map[string]int, cfg layout.Config) []byte {
	s := layout.DotStrategy{Config: cfg}
	return []byte(s.DOT(g.Nodes, g.Edges, levels))
}
