package sink

import "github.com/1mgroot/Tracil-sub000/pkg/lineage"

// GroupColor is the fill and stroke pair for one node group.
type GroupColor struct {
	Fill   string
	Stroke string
}

// Palette maps node groups to box colors.
type Palette map[lineage.Group]GroupColor

// DefaultPalette colors the CDISC flow from document sources (warm) through
// standardized data (cool) to outputs (rose).
func DefaultPalette() Palette {
	return Palette{
		lineage.GroupProtocol: {Fill: "#ede9fe", Stroke: "#7c3aed"},
		lineage.GroupCRF:      {Fill: "#fef3c7", Stroke: "#d97706"},
		lineage.GroupSDTM:     {Fill: "#dbeafe", Stroke: "#2563eb"},
		lineage.GroupADaM:     {Fill: "#dcfce7", Stroke: "#16a34a"},
		lineage.GroupTLF:      {Fill: "#ffe4e6", Stroke: "#e11d48"},
		lineage.GroupUnknown:  {Fill: "#f3f4f6", Stroke: "#6b7280"},
	}
}

func (p Palette) colorFor(g lineage.Group) GroupColor {
	if c, ok := p[g]; ok {
		return c
	}
	if c, ok := p[lineage.GroupUnknown]; ok {
		return c
	}
	return GroupColor{Fill: "#f3f4f6", Stroke: "#6b7280"}
}
