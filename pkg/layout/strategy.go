package layout

import (
	"fmt"

	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// Strategy names accepted by [StrategyByName].
const (
	StrategyRows = "rows"
	StrategyDot  = "dot"
)

// Strategy places sanitized nodes on the canvas.
//
// Implementations receive the sanitized node and edge sequences plus the
// complete level map, and must return a center position for every node. The
// edge router is strategy-agnostic; any implementation satisfying this
// contract can be swapped in without touching the rest of the pipeline.
type Strategy interface {
	// Name identifies the strategy in layout documents and cache keys.
	Name() string

	// Place computes a center position for every node.
	Place(nodes []lineage.Node, edges []lineage.Edge, levels map[string]int) (map[string]Position, error)
}

// StrategyFor returns the default strategy for a graph of the given size:
// row centering for small graphs, the graphviz layered engine above the
// dense-node threshold.
func StrategyFor(cfg Config, nodeCount int) Strategy {
	if nodeCount > cfg.DenseNodeThreshold {
		return DotStrategy{Config: cfg}
	}
	return RowStrategy{Config: cfg}
}

// StrategyByName resolves an explicit strategy name. The empty name selects
// automatically by node count.
func StrategyByName(name string, cfg Config, nodeCount int) (Strategy, error) {
	switch name {
	case "":
		return StrategyFor(cfg, nodeCount), nil
	case StrategyRows:
		return RowStrategy{Config: cfg}, nil
	case StrategyDot:
		return DotStrategy{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// =============================================================================
// Row Strategy
// =============================================================================

// RowStrategy is the default placement: nodes grouped by level into
// horizontal rows, each row centered within the canvas width, top-to-bottom
// flow.
//
// Within a row the sanitized input order is preserved; there is no
// crossing-minimizing reordering. That refinement is NP-hard in general and
// intentionally skipped for the target graph sizes (tens of nodes).
type RowStrategy struct {
	Config Config
}

// Name implements [Strategy].
func (RowStrategy) Name() string { return StrategyRows }

// Place implements [Strategy]. Levels group the row membership; edges are
// unused.
//
// For a row of k nodes the row width is k·W + (k-1)·Sx. The first box's left
// edge sits at max(W/2, (C-rowWidth)/2): rows that fit are centered in the
// canvas, rows that overflow keep a half-box left margin instead of going
// negative. Row y is level·(H+Sy) + H/2 + topPadding, so the first row's box
// top lands exactly on the top padding.
func (s RowStrategy) Place(nodes []lineage.Node, edges []lineage.Edge, levels map[string]int) (map[string]Position, error) {
	cfg := s.Config
	rows := groupByLevel(nodes, levels)

	positions := make(map[string]Position, len(nodes))
	for level, ids := range rows {
		k := float64(len(ids))
		rowWidth := k*cfg.NodeWidth + (k-1)*cfg.NodeGapX
		left := max(cfg.NodeWidth/2, (cfg.CanvasWidth-rowWidth)/2)
		y := float64(level)*(cfg.NodeHeight+cfg.LevelGapY) + cfg.NodeHeight/2 + cfg.TopPadding

		for i, id := range ids {
			positions[id] = Position{
				X: left + cfg.NodeWidth/2 + float64(i)*(cfg.NodeWidth+cfg.NodeGapX),
				Y: y,
			}
		}
	}
	return positions, nil
}

// groupByLevel collects node ids per level, preserving input order within
// each level. Nodes without a level entry are skipped; [Build] rejects those
// before any strategy runs.
func groupByLevel(nodes []lineage.Node, levels map[string]int) map[int][]string {
	rows := make(map[int][]string)
	for _, n := range nodes {
		level, ok := levels[n.ID]
		if !ok {
			continue
		}
		rows[level] = append(rows[level], n.ID)
	}
	return rows
}
