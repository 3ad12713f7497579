package sink

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

func sampleLayout() layout.Layout {
	control := layout.Point{X: 480, Y: 108.8}
	return layout.Layout{
		Strategy: layout.StrategyRows,
		Width:    960,
		Height:   232,
		Nodes: []layout.PlacedNode{
			{
				ID: "Protocol", Title: "Protocol", Group: lineage.GroupProtocol,
				Level: 0, Position: layout.Position{X: 480, Y: 52},
				Size: layout.Size{Width: 172, Height: 56},
			},
			{
				ID: "ADaM.ADSL.AGE", Title: "ADSL.AGE", Group: lineage.GroupADaM,
				Kind:  lineage.KindTarget,
				Level: 1, Position: layout.Position{X: 480, Y: 156},
				Size: layout.Size{Width: 172, Height: 56},
			},
		},
		Edges: []layout.RoutedEdge{
			{
				From: "Protocol", To: "ADaM.ADSL.AGE", Label: "derived",
				Start: layout.Point{X: 480, Y: 80}, End: layout.Point{X: 480, Y: 128},
				Kind: layout.PathCurve, Control: &control,
			},
		},
		Levels: map[int][]string{0: {"Protocol"}, 1: {"ADaM.ADSL.AGE"}},
	}
}

func TestRenderSVG_Document(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 960.0 232.0"`) {
		t.Errorf("svg header wrong:\n%s", svg[:min(len(svg), 120)])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestRenderSVG_BoxGeometry(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	// Box rect is drawn from the top-left corner: center minus half size.
	if !strings.Contains(svg, `x="394.0" y="24.0" width="172.0" height="56.0"`) {
		t.Errorf("protocol box rect missing:\n%s", svg)
	}
}

func TestRenderSVG_EdgePathString(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	if !strings.Contains(svg, `d="M 480.0 80.0 Q 480.0 108.8 480.0 128.0"`) {
		t.Errorf("quadratic edge path missing:\n%s", svg)
	}
	if !strings.Contains(svg, `marker-end="url(#arrow)"`) {
		t.Error("edge missing arrowhead marker")
	}
}

func TestRenderSVG_GroupColors(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	p := DefaultPalette()
	if !strings.Contains(svg, p[lineage.GroupProtocol].Fill) {
		t.Error("protocol group fill missing")
	}
	if !strings.Contains(svg, p[lineage.GroupADaM].Fill) {
		t.Error("adam group fill missing")
	}
}

func TestRenderSVG_TargetStroke(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	if !strings.Contains(svg, `stroke-width="3.0"`) {
		t.Error("target node should get a heavier stroke")
	}
}

func TestRenderSVG_Labels(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	if !strings.Contains(svg, ">ADSL.AGE</text>") {
		t.Errorf("node label missing:\n%s", svg)
	}

	bare := string(RenderSVG(sampleLayout(), WithoutLabels()))
	if strings.Contains(bare, "<text") {
		t.Error("WithoutLabels() should suppress all text")
	}
}

func TestRenderSVG_EdgeLabels(t *testing.T) {
	svg := string(RenderSVG(sampleLayout(), WithEdgeLabels()))

	if !strings.Contains(svg, ">derived</text>") {
		t.Errorf("edge label missing:\n%s", svg)
	}

	plain := string(RenderSVG(sampleLayout()))
	if strings.Contains(plain, ">derived</text>") {
		t.Error("edge labels should be off by default")
	}
}

func TestRenderSVG_EscapesLabels(t *testing.T) {
	l := sampleLayout()
	l.Nodes[0].Title = "Age <18 & consent"

	svg := string(RenderSVG(l))

	if strings.Contains(svg, "<18 &") {
		t.Error("label not XML-escaped")
	}
	if !strings.Contains(svg, "&lt;18 &amp;") {
		t.Errorf("escaped label missing:\n%s", svg)
	}
}

func TestRenderSVG_Deterministic(t *testing.T) {
	a := RenderSVG(sampleLayout())
	b := RenderSVG(sampleLayout())

	if string(a) != string(b) {
		t.Error("RenderSVG() output differs across runs")
	}
}

func TestTruncateLabel(t *testing.T) {
	long := strings.Repeat("x", 100)

	got := truncateLabel(long, 172)

	if len(got) >= 100 {
		t.Errorf("label not truncated: %d chars", len(got))
	}
	if !strings.HasSuffix(got, "..") {
		t.Errorf("truncated label = %q, want .. suffix", got)
	}
	if short := truncateLabel("AGE", 172); short != "AGE" {
		t.Errorf("truncateLabel(AGE) = %q, want unchanged", short)
	}
}

func TestTruncateLabel_MultiByte(t *testing.T) {
	long := strings.Repeat("年齢", 50)

	got := truncateLabel(long, 172)

	if !utf8.ValidString(got) {
		t.Errorf("truncated label is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "..") {
		t.Errorf("truncated label = %q, want .. suffix", got)
	}
	if n := utf8.RuneCountInString(long); utf8.RuneCountInString(got) >= n {
		t.Errorf("label not truncated: %d runes", n)
	}
}

func TestFontSizeFor(t *testing.T) {
	if size := fontSizeFor(172, 56, 3); size != fontSizeMax {
		t.Errorf("short label size = %v, want max %v", size, fontSizeMax)
	}
	if size := fontSizeFor(172, 56, 200); size != fontSizeMin {
		t.Errorf("long label size = %v, want min %v", size, fontSizeMin)
	}
}
