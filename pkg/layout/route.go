package layout

import (
	"math"

	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// RouteEdge resolves the boundary connection points and path geometry for
// one edge. Positions are box centers; boxFrom and boxTo give each
// endpoint's extents.
//
// Connection points attach to box boundaries, not centers. The dominant
// axis of the direction vector (posTo - posFrom) picks the boundary pair:
// vertical dominance connects the bottom-center of the upper box to the
// top-center of the lower box, horizontal dominance connects the facing
// left/right edge midpoints.
//
// The path is a quadratic curve when the connection points' vertical offset
// exceeds the curve threshold, with the control point placed at the start
// point's x, 60% of the vertical span toward the end. Both path kinds are
// derivable purely from the two connection points.
//
// The second return value is false when posFrom equals posTo: a zero-length
// direction vector has no dominant axis, so the edge (a self-loop or two
// coincident boxes) is skipped rather than drawn.
func RouteEdge(e lineage.Edge, posFrom, posTo Position, boxFrom, boxTo Size, cfg Config) (RoutedEdge, bool) {
	if posFrom == posTo {
		return RoutedEdge{}, false
	}

	start, end := connectionPoints(posFrom, posTo, boxFrom, boxTo)

	routed := RoutedEdge{
		From:  e.From,
		To:    e.To,
		Label: e.Label,
		Start: start,
		End:   end,
		Kind:  PathStraight,
	}

	if math.Abs(end.Y-start.Y) > cfg.CurveThreshold {
		routed.Kind = PathCurve
		routed.Control = &Point{
			X: start.X,
			Y: start.Y + cfg.CurveControlFraction*(end.Y-start.Y),
		}
	}
	return routed, true
}

// connectionPoints selects the boundary attachment on each box from the
// relative direction between the two centers.
func connectionPoints(posFrom, posTo Position, boxFrom, boxTo Size) (start, end Point) {
	dx := posTo.X - posFrom.X
	dy := posTo.Y - posFrom.Y

	if math.Abs(dy) > math.Abs(dx) {
		if dy > 0 {
			// From box is the upper one.
			start = Point{X: posFrom.X, Y: posFrom.Y + boxFrom.Height/2}
			end = Point{X: posTo.X, Y: posTo.Y - boxTo.Height/2}
		} else {
			start = Point{X: posFrom.X, Y: posFrom.Y - boxFrom.Height/2}
			end = Point{X: posTo.X, Y: posTo.Y + boxTo.Height/2}
		}
		return start, end
	}

	if dx > 0 {
		start = Point{X: posFrom.X + boxFrom.Width/2, Y: posFrom.Y}
		end = Point{X: posTo.X - boxTo.Width/2, Y: posTo.Y}
	} else {
		start = Point{X: posFrom.X - boxFrom.Width/2, Y: posFrom.Y}
		end = Point{X: posTo.X + boxTo.Width/2, Y: posTo.Y}
	}
	return start, end
}
