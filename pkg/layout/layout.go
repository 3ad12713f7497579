package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// Sentinel errors. These surface bugs, not bad input: malformed graphs are
// normalized upstream and never reach this package.
var (
	// ErrMissingLevel indicates a node with no entry in the level map.
	ErrMissingLevel = errors.New("node has no level assignment")

	// ErrMissingPosition indicates a strategy returned no position for a node.
	ErrMissingPosition = errors.New("strategy returned no position for node")

	// ErrUnknownStrategy indicates an unrecognized strategy name.
	ErrUnknownStrategy = errors.New("unknown layout strategy")
)

// =============================================================================
// Geometry Types
// =============================================================================

// Position is a node's center point in canvas coordinates. The y axis grows
// downward, matching SVG.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is a node's box extent.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Point is a location on an edge path.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// =============================================================================
// Layout - Routed Layout Document
// =============================================================================

// PlacedNode is a node with resolved geometry. Position is the box center;
// the box spans Position ± Size/2.
type PlacedNode struct {
	ID       string        `json:"id" bson:"id"`
	Title    string        `json:"title,omitempty" bson:"title,omitempty"`
	Group    lineage.Group `json:"group,omitempty" bson:"group,omitempty"`
	Kind     lineage.Kind  `json:"kind,omitempty" bson:"kind,omitempty"`
	Level    int           `json:"level" bson:"level"`
	Position Position      `json:"position" bson:"position"`
	Size     Size          `json:"size" bson:"size"`
}

// PathKind discriminates edge path descriptors.
type PathKind string

// Path kinds.
const (
	PathStraight PathKind = "straight"
	PathCurve    PathKind = "curve"
)

// RoutedEdge is an edge with resolved boundary connection points and a path
// descriptor. Control is set only for curved paths.
type RoutedEdge struct {
	From    string   `json:"from" bson:"from"`
	To      string   `json:"to" bson:"to"`
	Label   string   `json:"label,omitempty" bson:"label,omitempty"`
	Start   Point    `json:"start" bson:"start"`
	End     Point    `json:"end" bson:"end"`
	Kind    PathKind `json:"kind" bson:"kind"`
	Control *Point   `json:"control,omitempty" bson:"control,omitempty"`
}

// SVGPath returns the edge geometry as an SVG path description:
// a quadratic curve command for curved edges, a line command otherwise.
func (e RoutedEdge) SVGPath() string {
	if e.Kind == PathCurve && e.Control != nil {
		return fmt.Sprintf("M %.1f %.1f Q %.1f %.1f %.1f %.1f",
			e.Start.X, e.Start.Y, e.Control.X, e.Control.Y, e.End.X, e.End.Y)
	}
	return fmt.Sprintf("M %.1f %.1f L %.1f %.1f", e.Start.X, e.Start.Y, e.End.X, e.End.Y)
}

// Layout is the renderable result of the full pipeline: positioned nodes,
// routed edges, and the level grouping they were derived from.
//
// A Layout is authoritative for its input graph: renderers must not
// re-derive positions. It is also self-contained; drawing it requires no
// access to the originating graph.
type Layout struct {
	Strategy string  `json:"strategy" bson:"strategy"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`

	Nodes []PlacedNode `json:"nodes" bson:"nodes"`
	Edges []RoutedEdge `json:"edges,omitempty" bson:"edges,omitempty"`

	// Levels maps each level to its node ids in placement order.
	Levels map[int][]string `json:"levels,omitempty" bson:"levels,omitempty"`
}

// Node returns the placed node with the given id.
func (l Layout) Node(id string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// =============================================================================
// Build - Strategy Orchestration
// =============================================================================

// Option adjusts layout construction.
type Option func(*builder)

type builder struct {
	cfg      Config
	strategy Strategy
}

// WithConfig overrides the default geometry configuration.
func WithConfig(cfg Config) Option {
	return func(b *builder) { b.cfg = cfg }
}

// WithStrategy selects an explicit placement strategy.
// Without this option Build uses [StrategyFor] on the node count.
func WithStrategy(s Strategy) Option {
	return func(b *builder) { b.strategy = s }
}

// Build places every node of a sanitized graph and routes every edge.
//
// The graph must be sanitized and levels must cover all nodes; a hole in the
// level map or in the strategy's output violates the pipeline postcondition
// and returns an error naming the node. Edges whose endpoints share a
// position are silently omitted from the routed output.
func Build(g lineage.Graph, levels map[string]int, opts ...Option) (Layout, error) {
	b := builder{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&b)
	}
	if b.strategy == nil {
		b.strategy = StrategyFor(b.cfg, len(g.Nodes))
	}

	for _, n := range g.Nodes {
		if _, ok := levels[n.ID]; !ok {
			return Layout{}, fmt.Errorf("%w: %s", ErrMissingLevel, n.ID)
		}
	}

	positions, err := b.strategy.Place(g.Nodes, g.Edges, levels)
	if err != nil {
		return Layout{}, fmt.Errorf("place nodes: %w", err)
	}
	for _, n := range g.Nodes {
		if _, ok := positions[n.ID]; !ok {
			return Layout{}, fmt.Errorf("%w: %s", ErrMissingPosition, n.ID)
		}
	}

	size := b.cfg.NodeSize()
	out := Layout{
		Strategy: b.strategy.Name(),
		Nodes:    make([]PlacedNode, len(g.Nodes)),
		Levels:   make(map[int][]string),
	}

	maxRight, maxBottom := 0.0, 0.0
	for i, n := range g.Nodes {
		pos := positions[n.ID]
		level := levels[n.ID]
		out.Nodes[i] = PlacedNode{
			ID:       n.ID,
			Title:    n.DisplayTitle(),
			Group:    n.Group,
			Kind:     n.Kind,
			Level:    level,
			Position: pos,
			Size:     size,
		}
		out.Levels[level] = append(out.Levels[level], n.ID)
		maxRight = max(maxRight, pos.X+size.Width/2)
		maxBottom = max(maxBottom, pos.Y+size.Height/2)
	}

	for _, e := range g.Edges {
		routed, ok := RouteEdge(e, positions[e.From], positions[e.To], size, size, b.cfg)
		if !ok {
			continue
		}
		out.Edges = append(out.Edges, routed)
	}

	out.Width = max(b.cfg.CanvasWidth, maxRight)
	out.Height = maxBottom + b.cfg.TopPadding
	return out, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
