package layout

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Geometry defaults. These are code-level constants, not user options; the
// rendering surface relies on every layout using the same box metrics.
const (
	DefaultNodeWidth  = 172.0 // Box width W
	DefaultNodeHeight = 56.0  // Box height H
	DefaultNodeGapX   = 32.0  // Horizontal gap between boxes within a level
	DefaultLevelGapY  = 48.0  // Vertical gap between level rows

	DefaultCanvasWidth = 960.0 // Width used for row centering
	DefaultTopPadding  = 24.0  // Margin above the first row

	DefaultCurveThreshold       = 10.0 // Vertical offset beyond which edges curve
	DefaultCurveControlFraction = 0.6  // Control point offset along the vertical span

	DefaultDenseNodeThreshold = 24 // Node count above which spacing tightens
)

// Config holds the geometry constants for layout and routing.
// The zero value is not usable; start from [DefaultConfig].
type Config struct {
	NodeWidth  float64
	NodeHeight float64
	NodeGapX   float64
	LevelGapY  float64

	CanvasWidth float64
	TopPadding  float64

	CurveThreshold       float64
	CurveControlFraction float64

	DenseNodeThreshold int
}

// DefaultConfig returns the standard geometry configuration.
func DefaultConfig() Config {
	return Config{
		NodeWidth:            DefaultNodeWidth,
		NodeHeight:           DefaultNodeHeight,
		NodeGapX:             DefaultNodeGapX,
		LevelGapY:            DefaultLevelGapY,
		CanvasWidth:          DefaultCanvasWidth,
		TopPadding:           DefaultTopPadding,
		CurveThreshold:       DefaultCurveThreshold,
		CurveControlFraction: DefaultCurveControlFraction,
		DenseNodeThreshold:   DefaultDenseNodeThreshold,
	}
}

// NodeSize returns the uniform box size every node is drawn with.
func (c Config) NodeSize() Size {
	return Size{Width: c.NodeWidth, Height: c.NodeHeight}
}
