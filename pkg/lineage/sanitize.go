package lineage

import "strings"

// Sanitize restores structural integrity on an untrusted node/edge sequence.
//
// It applies two passes, order-preserving and pure:
//  1. Drop nodes whose id is empty or whitespace, then deduplicate the rest
//     by id, keeping the first occurrence in input order.
//  2. Drop every edge whose from or to endpoint is absent from the retained
//     node set.
//
// The returned slices are new; the inputs are never modified. Dropping is
// not an error condition: blank ids, duplicate ids, and dangling edges are
// expected noise from the inference backend. Callers that care about drop
// counts can compare input and output lengths.
//
// Sanitize is idempotent: running it on its own output changes nothing.
func Sanitize(nodes []Node, edges []Edge) ([]Node, []Edge) {
	retained := make(map[string]bool, len(nodes))
	outNodes := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if strings.TrimSpace(n.ID) == "" || retained[n.ID] {
			continue
		}
		retained[n.ID] = true
		outNodes = append(outNodes, n)
	}

	outEdges := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if !retained[e.From] || !retained[e.To] {
			continue
		}
		outEdges = append(outEdges, e)
	}

	return outNodes, outEdges
}

// Sanitize returns a copy of the graph with [Sanitize] applied to its nodes
// and edges. Summary and gaps are carried through unchanged.
func (g Graph) Sanitize() Graph {
	nodes, edges := Sanitize(g.Nodes, g.Edges)
	return Graph{
		Nodes:   nodes,
		Edges:   edges,
		Summary: g.Summary,
		Gaps:    g.Gaps,
	}
}
