package layout

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// formatPlain is the graphviz plain text output driver, which emits one
// "node name x y width height ..." line per node.
const formatPlain = graphviz.Format("plain")

// plainScale converts plain output coordinates (inches) to canvas units.
const plainScale = 72.0

// DotStrategy delegates placement to the graphviz dot engine, configured
// left-to-right. Levels become rank=same groups, so the engine keeps the
// BFS hierarchy while choosing within-rank order and spacing itself.
//
// Rank and node separation tighten above the dense-node threshold, trading
// whitespace for fit on larger graphs. The engine runs in-process (wasm);
// an engine failure is returned as an error and callers fall back to
// [RowStrategy].
type DotStrategy struct {
	Config Config
}

// Name implements [Strategy].
func (DotStrategy) Name() string { return StrategyDot }

// Place implements [Strategy]. Node positions come back from the engine's
// plain output, y-flipped into screen coordinates and translated so the
// drawing starts at the configured padding.
func (s DotStrategy) Place(nodes []lineage.Node, edges []lineage.Edge, levels map[string]int) (map[string]Position, error) {
	if len(nodes) == 0 {
		return map[string]Position{}, nil
	}

	plain, err := renderPlain(s.DOT(nodes, edges, levels))
	if err != nil {
		return nil, err
	}

	raw, err := parsePlainPositions(plain)
	if err != nil {
		return nil, err
	}
	return s.positionsFromRaw(nodes, raw), nil
}

// DOT returns the graphviz source for the given graph. Exposed for the
// render layer, which can emit it as a standalone artifact.
func (s DotStrategy) DOT(nodes []lineage.Node, edges []lineage.Edge, levels map[string]int) string {
	cfg := s.Config
	ranksep, nodesep := 0.6, 0.3
	if len(nodes) > cfg.DenseNodeThreshold {
		ranksep, nodesep = 0.35, 0.18
	}

	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  ranksep=%.2f;\n", ranksep)
	fmt.Fprintf(&buf, "  nodesep=%.2f;\n", nodesep)
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, width=%.3f, height=%.3f];\n", cfg.NodeWidth/plainScale, cfg.NodeHeight/plainScale)
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q;\n", n.ID)
	}

	rows := groupByLevel(nodes, levels)
	for level := 0; level <= maxLevel(rows); level++ {
		ids := rows[level]
		if len(ids) == 0 {
			continue
		}
		buf.WriteString("  { rank=same")
		for _, id := range ids {
			fmt.Fprintf(&buf, "; %q", id)
		}
		buf.WriteString("; }\n")
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func maxLevel(rows map[int][]string) int {
	highest := 0
	for level := range rows {
		highest = max(highest, level)
	}
	return highest
}

// renderPlain runs the dot engine over DOT source and returns the plain
// text layout output.
func renderPlain(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, formatPlain, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type rawPosition struct {
	x, y float64
}

// parsePlainPositions extracts node centers from plain output. Coordinates
// are converted to canvas units; the y axis still points up at this stage.
func parsePlainPositions(plain []byte) (map[string]rawPosition, error) {
	out := make(map[string]rawPosition)
	for _, line := range strings.Split(string(plain), "\n") {
		fields := splitPlainFields(line)
		if len(fields) < 4 || fields[0] != "node" {
			continue
		}

		x, errX := strconv.ParseFloat(fields[2], 64)
		y, errY := strconv.ParseFloat(fields[3], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("malformed plain node line: %q", line)
		}
		out[fields[1]] = rawPosition{x: x * plainScale, y: y * plainScale}
	}
	return out, nil
}

// splitPlainFields tokenizes one plain output line. Node names containing
// spaces arrive double-quoted with backslash escapes.
func splitPlainFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote, escaped := false, false

	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			if inQuote {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case (r == ' ' || r == '\t' || r == '\r') && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

// positionsFromRaw flips the y axis and translates the drawing so its
// top-left box corner sits at the configured padding.
func (s DotStrategy) positionsFromRaw(nodes []lineage.Node, raw map[string]rawPosition) map[string]Position {
	cfg := s.Config

	minX, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range raw {
		minX = min(minX, p.x)
		maxY = max(maxY, p.y)
	}

	positions := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		p, ok := raw[n.ID]
		if !ok {
			continue
		}
		positions[n.ID] = Position{
			X: p.x - minX + cfg.TopPadding + cfg.NodeWidth/2,
			Y: (maxY - p.y) + cfg.TopPadding + cfg.NodeHeight/2,
		}
	}
	return positions
}
