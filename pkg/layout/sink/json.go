package sink

import (
	"encoding/json"

	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	summary string
	gaps    []lineage.Gap
	compact bool
}

// WithJSONSource carries the source graph's summary and gap annotations into
// the export, so a consumer gets geometry and narrative in one document.
func WithJSONSource(g lineage.Graph) JSONOption {
	return func(r *jsonRenderer) { r.summary = g.Summary; r.gaps = g.Gaps }
}

// WithJSONCompact emits single-line JSON instead of the default indented form.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Strategy string           `json:"strategy"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Summary  string           `json:"summary,omitempty"`
	Levels   map[int][]string `json:"levels,omitempty"`
	Nodes    []jsonNode       `json:"nodes"`
	Edges    []jsonEdge       `json:"edges,omitempty"`
	Gaps     []lineage.Gap    `json:"gaps,omitempty"`
}

// jsonNode is rect-ready: x and y are the box's top-left corner, unlike the
// layout document's center positions.
type jsonNode struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Group  string  `json:"group,omitempty"`
	Kind   string  `json:"kind,omitempty"`
	Level  int     `json:"level"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
	Kind  string `json:"kind"`
	Path  string `json:"path"`
}

// RenderJSON exports a routed layout as a drawing-ready JSON document:
// top-left box rectangles and SVG path strings, so a consumer can paint the
// graph without re-deriving any geometry. This is the interchange format for
// external frontends; the [layout.Layout] serialization is the internal one.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Strategy: l.Strategy,
		Width:    l.Width,
		Height:   l.Height,
		Summary:  r.summary,
		Levels:   l.Levels,
		Nodes:    buildJSONNodes(l),
		Edges:    buildJSONEdges(l),
		Gaps:     r.gaps,
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONNodes(l layout.Layout) []jsonNode {
	nodes := make([]jsonNode, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = jsonNode{
			ID:     n.ID,
			Title:  n.Title,
			Group:  string(n.Group),
			Kind:   string(n.Kind),
			Level:  n.Level,
			X:      n.Position.X - n.Size.Width/2,
			Y:      n.Position.Y - n.Size.Height/2,
			Width:  n.Size.Width,
			Height: n.Size.Height,
		}
	}
	return nodes
}

func buildJSONEdges(l layout.Layout) []jsonEdge {
	if len(l.Edges) == 0 {
		return nil
	}
	edges := make([]jsonEdge, len(l.Edges))
	for i, e := range l.Edges {
		edges[i] = jsonEdge{
			From:  e.From,
			To:    e.To,
			Label: e.Label,
			Kind:  string(e.Kind),
			Path:  e.SVGPath(),
		}
	}
	return edges
}
