package layout

import (
	"strings"
	"testing"

	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

func dotGraph() ([]lineage.Node, []lineage.Edge, map[string]int) {
	nodes := []lineage.Node{{ID: "Protocol"}, {ID: "CRF Page 12"}, {ID: "SDTM.DM.AGE"}}
	edges := []lineage.Edge{
		{From: "Protocol", To: "CRF Page 12"},
		{From: "CRF Page 12", To: "SDTM.DM.AGE"},
	}
	levels := map[string]int{"Protocol": 0, "CRF Page 12": 1, "SDTM.DM.AGE": 2}
	return nodes, edges, levels
}

func TestDotStrategy_DOTStructure(t *testing.T) {
	nodes, edges, levels := dotGraph()
	s := DotStrategy{Config: DefaultConfig()}

	dot := s.DOT(nodes, edges, levels)

	for _, want := range []string{
		"digraph lineage {",
		"rankdir=LR;",
		`"Protocol";`,
		`"CRF Page 12";`,
		`{ rank=same; "Protocol"; }`,
		`{ rank=same; "CRF Page 12"; }`,
		`"Protocol" -> "CRF Page 12";`,
		`"CRF Page 12" -> "SDTM.DM.AGE";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestDotStrategy_DOTGroupsLevelsInRanks(t *testing.T) {
	nodes := []lineage.Node{{ID: "r"}, {ID: "x"}, {ID: "y"}}
	edges := []lineage.Edge{{From: "r", To: "x"}, {From: "r", To: "y"}}
	levels := map[string]int{"r": 0, "x": 1, "y": 1}
	s := DotStrategy{Config: DefaultConfig()}

	dot := s.DOT(nodes, edges, levels)

	if !strings.Contains(dot, `{ rank=same; "x"; "y"; }`) {
		t.Errorf("DOT() did not group level 1 into one rank:\n%s", dot)
	}
}

func TestDotStrategy_DOTFixedNodeSize(t *testing.T) {
	nodes, edges, levels := dotGraph()
	s := DotStrategy{Config: DefaultConfig()}

	dot := s.DOT(nodes, edges, levels)

	// 172x56 canvas units at 72 units per inch.
	if !strings.Contains(dot, "fixedsize=true, width=2.389, height=0.778") {
		t.Errorf("DOT() node defaults wrong:\n%s", dot)
	}
}

func TestDotStrategy_DOTDensitySwitch(t *testing.T) {
	cfg := DefaultConfig()
	s := DotStrategy{Config: cfg}

	sparse := make([]lineage.Node, cfg.DenseNodeThreshold)
	for i := range sparse {
		sparse[i] = lineage.Node{ID: string(rune('a' + i))}
	}
	dense := append(sparse, lineage.Node{ID: "overflow"})

	sparseLevels := make(map[string]int)
	for _, n := range sparse {
		sparseLevels[n.ID] = 0
	}
	denseLevels := make(map[string]int)
	for _, n := range dense {
		denseLevels[n.ID] = 0
	}

	if dot := s.DOT(sparse, nil, sparseLevels); !strings.Contains(dot, "ranksep=0.60") || !strings.Contains(dot, "nodesep=0.30") {
		t.Errorf("sparse DOT() lacks wide separation:\n%s", dot)
	}
	if dot := s.DOT(dense, nil, denseLevels); !strings.Contains(dot, "ranksep=0.35") || !strings.Contains(dot, "nodesep=0.18") {
		t.Errorf("dense DOT() lacks tight separation:\n%s", dot)
	}
}

func TestSplitPlainFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "unquoted",
			line: "node a 1.0 2.0 2.389 0.778",
			want: []string{"node", "a", "1.0", "2.0", "2.389", "0.778"},
		},
		{
			name: "quoted name with spaces",
			line: `node "CRF Page 12" 1.5 2.25 2.389 0.778`,
			want: []string{"node", "CRF Page 12", "1.5", "2.25", "2.389", "0.778"},
		},
		{
			name: "escaped quote inside name",
			line: `node "say \"hi\"" 1 2`,
			want: []string{"node", `say "hi"`, "1", "2"},
		},
		{
			name: "tabs and repeated spaces",
			line: "node\ta   1  2",
			want: []string{"node", "a", "1", "2"},
		},
		{
			name: "empty",
			line: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitPlainFields(tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("splitPlainFields(%q) = %v, want %v", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParsePlainPositions(t *testing.T) {
	plain := []byte(`graph 1 8.5 11
node a 1.0 2.0 2.389 0.778 a solid box black lightgrey
node "b c" 3.5 2.0 2.389 0.778 "b c" solid box black lightgrey
edge a "b c" 4 1.0 2.0 2.0 2.0 3.0 2.0 3.5 2.0 solid black
stop
`)

	raw, err := parsePlainPositions(plain)
	if err != nil {
		t.Fatalf("parsePlainPositions() error = %v", err)
	}

	if len(raw) != 2 {
		t.Fatalf("parsed %d nodes, want 2", len(raw))
	}
	if got := raw["a"]; got.x != 72 || got.y != 144 {
		t.Errorf("a = %+v, want 72,144 (inches scaled by 72)", got)
	}
	if got := raw["b c"]; got.x != 252 || got.y != 144 {
		t.Errorf("b c = %+v, want 252,144", got)
	}
}

func TestParsePlainPositions_Malformed(t *testing.T) {
	_, err := parsePlainPositions([]byte("node a not-a-number 2.0 1 1"))

	if err == nil {
		t.Fatal("parsePlainPositions() error = nil, want malformed line error")
	}
}

func TestPositionsFromRaw_FlipsAndTranslates(t *testing.T) {
	cfg := DefaultConfig()
	s := DotStrategy{Config: cfg}
	nodes := []lineage.Node{{ID: "top"}, {ID: "bottom"}}
	// Graphviz y grows upward: "top" has the larger raw y.
	raw := map[string]rawPosition{
		"top":    {x: 100, y: 200},
		"bottom": {x: 300, y: 50},
	}

	got := s.positionsFromRaw(nodes, raw)

	topPos, bottomPos := got["top"], got["bottom"]
	if topPos.Y >= bottomPos.Y {
		t.Errorf("y axis not flipped: top %v, bottom %v", topPos, bottomPos)
	}
	// Leftmost box edge and topmost box edge both land on the padding.
	if left := topPos.X - cfg.NodeWidth/2; left != cfg.TopPadding {
		t.Errorf("leftmost box edge = %v, want %v", left, cfg.TopPadding)
	}
	if top := topPos.Y - cfg.NodeHeight/2; top != cfg.TopPadding {
		t.Errorf("topmost box edge = %v, want %v", top, cfg.TopPadding)
	}
	// Relative distances survive the transform.
	if dx := bottomPos.X - topPos.X; dx != 200 {
		t.Errorf("horizontal spread = %v, want 200", dx)
	}
	if dy := bottomPos.Y - topPos.Y; dy != 150 {
		t.Errorf("vertical spread = %v, want 150", dy)
	}
}

func TestPositionsFromRaw_SkipsUnplacedNodes(t *testing.T) {
	s := DotStrategy{Config: DefaultConfig()}
	nodes := []lineage.Node{{ID: "a"}, {ID: "ghost"}}

	got := s.positionsFromRaw(nodes, map[string]rawPosition{"a": {x: 10, y: 10}})

	if _, ok := got["ghost"]; ok {
		t.Error("positionsFromRaw() invented a position for an unplaced node")
	}
}
