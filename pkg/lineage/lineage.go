package lineage

import "strings"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Group classifies where in the clinical data flow a node originates.
// The values follow the CDISC pipeline: protocol design, CRF capture,
// SDTM standardization, ADaM analysis, TLF output.
type Group string

// Provenance groups.
const (
	GroupProtocol Group = "protocol"
	GroupCRF      Group = "crf"
	GroupSDTM     Group = "sdtm"
	GroupADaM     Group = "adam"
	GroupTLF      Group = "tlf"
	GroupUnknown  Group = "unknown"
)

// Kind hints at a node's topological role within a lineage graph.
// It is producer-supplied and not authoritative; the level assigner derives
// actual topology from the edges.
type Kind string

// Node kinds.
const (
	KindSource       Kind = "source"
	KindIntermediate Kind = "intermediate"
	KindTarget       Kind = "target"
)

// ParseGroup maps a producer-supplied category string onto a Group.
// It accepts both the canonical group values and the node type strings the
// inference backend emits ("sdtm variable", "adam variable", "tlf cell").
// Unrecognized values map to GroupUnknown.
func ParseGroup(s string) Group {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "protocol":
		return GroupProtocol
	case "crf", "case-report-form", "case report form":
		return GroupCRF
	case "sdtm", "sdtm variable":
		return GroupSDTM
	case "adam", "adam variable", "target":
		return GroupADaM
	case "tlf", "tlf cell", "output":
		return GroupTLF
	default:
		return GroupUnknown
	}
}

// =============================================================================
// Node - Lineage Graph Vertex
// =============================================================================

// Metadata holds free-form key/value annotations on a node.
type Metadata map[string]any

// Node is a single step in a variable's lineage: a protocol section, a CRF
// item, a standardized or derived variable, or an output cell.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Title    string   `json:"title,omitempty" bson:"title,omitempty"`       // Display label (defaults to ID)
	Dataset  string   `json:"dataset,omitempty" bson:"dataset,omitempty"`   // Owning dataset, e.g. ADSL
	Variable string   `json:"variable,omitempty" bson:"variable,omitempty"` // Variable name, e.g. AGE
	Group    Group    `json:"group,omitempty" bson:"group,omitempty"`
	Kind     Kind     `json:"kind,omitempty" bson:"kind,omitempty"`
	Meta     Metadata `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayTitle returns the title if set, otherwise the ID.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

// IsTarget returns true if the producer marked this node as the queried
// variable.
func (n *Node) IsTarget() bool { return n.Kind == KindTarget }

// =============================================================================
// Edge - Directed Lineage Step
// =============================================================================

// Edge represents a directed derivation step between two lineage nodes.
type Edge struct {
	From        string `json:"from" bson:"from"`
	To          string `json:"to" bson:"to"`
	Label       string `json:"label,omitempty" bson:"label,omitempty"`
	Explanation string `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// =============================================================================
// Graph - Ordered Lineage Graph
// =============================================================================

// Gap is a producer-reported hole in the lineage: a step the inference could
// not trace. Gaps are carried through untouched; they do not participate in
// layout.
type Gap struct {
	Source      string `json:"source,omitempty" bson:"source,omitempty"`
	Target      string `json:"target,omitempty" bson:"target,omitempty"`
	Explanation string `json:"explanation" bson:"explanation"`
}

// Graph is a lineage graph as received from the inference backend.
//
// Node and edge order is significant: the sanitizer keeps the first
// occurrence of a duplicated id, and the layout engine preserves input order
// within a level, so the same graph value always produces the same picture.
// No structural guarantees hold until the graph has passed through
// [Sanitize]; duplicated ids, dangling edges, and cycles are expected noise
// from the upstream producer.
type Graph struct {
	Nodes   []Node `json:"nodes" bson:"nodes"`
	Edges   []Edge `json:"edges" bson:"edges"`
	Summary string `json:"summary,omitempty" bson:"summary,omitempty"` // Opaque producer narrative
	Gaps    []Gap  `json:"gaps,omitempty" bson:"gaps,omitempty"`
}

// NodeIDs returns all node ids in input order.
func (g Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// HasNode reports whether a node with the given id exists in the graph.
func (g Graph) HasNode(id string) bool {
	for _, n := range g.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Target returns the first node marked as the queried variable, or the last
// node if none is marked. Returns false for an empty graph.
func (g Graph) Target() (Node, bool) {
	if len(g.Nodes) == 0 {
		return Node{}, false
	}
	for _, n := range g.Nodes {
		if n.IsTarget() {
			return n, true
		}
	}
	return g.Nodes[len(g.Nodes)-1], true
}
