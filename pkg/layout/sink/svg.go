package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"

	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// Label font sizing. Size shrinks with label length until the floor, after
// which the label is truncated instead.
const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 13.0
)

const (
	edgeStroke      = "#9ca3af"
	labelFill       = "#1f2937"
	edgeLabelFill   = "#6b7280"
	boxCornerRadius = 6.0
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    Palette
	hideLabels bool
	edgeLabels bool
}

// WithPalette overrides the group color palette.
func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithoutLabels suppresses node label text, leaving only colored boxes.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.hideLabels = true } }

// WithEdgeLabels draws edge labels at the midpoint of each routed edge.
func WithEdgeLabels() SVGOption { return func(r *svgRenderer) { r.edgeLabels = true } }

// RenderSVG draws a routed layout as a standalone SVG document: edge paths
// underneath, group-colored node boxes on top, then label text. Target nodes
// get a heavier stroke. The output depends only on the layout and options.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	renderDefs(&buf)

	for _, e := range l.Edges {
		renderEdgePath(&buf, e)
	}
	for _, n := range l.Nodes {
		r.renderBox(&buf, n)
	}
	if !r.hideLabels {
		for _, n := range l.Nodes {
			r.renderLabel(&buf, n)
		}
	}
	if r.edgeLabels {
		for _, e := range l.Edges {
			renderEdgeLabel(&buf, e)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{palette: DefaultPalette()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 8 8" refX="7" refY="4" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`+"\n")
	fmt.Fprintf(buf, `      <path d="M 0 0 L 8 4 L 0 8 z" fill="%s"/>`+"\n", edgeStroke)
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
}

func renderEdgePath(buf *bytes.Buffer, e layout.RoutedEdge) {
	fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
		e.SVGPath(), edgeStroke)
}

func (r svgRenderer) renderBox(buf *bytes.Buffer, n layout.PlacedNode) {
	c := r.palette.colorFor(n.Group)
	strokeWidth := 1.5
	if n.Kind == lineage.KindTarget {
		strokeWidth = 3.0
	}
	x := n.Position.X - n.Size.Width/2
	y := n.Position.Y - n.Size.Height/2
	fmt.Fprintf(buf, `  <rect data-id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		escapeXML(n.ID), x, y, n.Size.Width, n.Size.Height, boxCornerRadius, c.Fill, c.Stroke, strokeWidth)
}

func (r svgRenderer) renderLabel(buf *bytes.Buffer, n layout.PlacedNode) {
	label := truncateLabel(n.Title, n.Size.Width)
	size := fontSizeFor(n.Size.Width, n.Size.Height, utf8.RuneCountInString(label))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="system-ui, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
		n.Position.X, n.Position.Y, size, labelFill, escapeXML(label))
}

func renderEdgeLabel(buf *bytes.Buffer, e layout.RoutedEdge) {
	if e.Label == "" {
		return
	}
	mx := (e.Start.X + e.End.X) / 2
	my := (e.Start.Y+e.End.Y)/2 - 4
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="system-ui, sans-serif" font-size="9" fill="%s">%s</text>`+"\n",
		mx, my, edgeLabelFill, escapeXML(e.Label))
}

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncateLabel shortens a label to what fits at the minimum font size.
// Truncation counts runes, not bytes; CRF and protocol labels are not
// guaranteed to be ASCII.
func truncateLabel(label string, boxWidth float64) string {
	maxChars := int((boxWidth * fontWidthRatio) / (fontSizeMin * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
