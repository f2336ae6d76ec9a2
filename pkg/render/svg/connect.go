package svg

import (
	"math"

	"github.com/matzehuels/c4x/pkg/layout"
)

const (
	connectPadding   = 5
	directionPenalty = 150
	selfLoopReach    = 40
)

type side int

const (
	sideTop side = iota
	sideRight
	sideBottom
	sideLeft
	sideNone side = -1
)

type anchor struct {
	layout.Point
	side side
}

// anchors returns the four edge midpoints of r pushed outward by the
// connector padding, in top, right, bottom, left order.
func anchors(r layout.Rect) [4]anchor {
	c := r.Center()
	return [4]anchor{
		{layout.Point{X: c.X, Y: r.Y - connectPadding}, sideTop},
		{layout.Point{X: r.Right() + connectPadding, Y: c.Y}, sideRight},
		{layout.Point{X: c.X, Y: r.Bottom() + connectPadding}, sideBottom},
		{layout.Point{X: r.X - connectPadding, Y: c.Y}, sideLeft},
	}
}

// preferredSides returns the source and target sides favoured for a
// connector from a to b, or sideNone when the boxes overlap on both axes.
func preferredSides(a, b layout.Rect) (side, side) {
	switch {
	case b.Y >= a.Bottom():
		return sideBottom, sideTop
	case a.Y >= b.Bottom():
		return sideTop, sideBottom
	case b.X >= a.Right():
		return sideRight, sideLeft
	case a.X >= b.Right():
		return sideLeft, sideRight
	}
	return sideNone, sideNone
}

// connect picks the connector endpoints between two boxes and returns them
// with the midpoint used for the label.
func connect(from, to layout.Rect) (start, end, mid layout.Point) {
	wantFrom, wantTo := preferredSides(from, to)

	best := math.Inf(1)
	fa, ta := anchors(from), anchors(to)
	for _, f := range fa {
		for _, t := range ta {
			score := math.Hypot(t.X-f.X, t.Y-f.Y)
			if wantFrom != sideNone {
				if f.side != wantFrom {
					score += directionPenalty
				}
				if t.side != wantTo {
					score += directionPenalty
				}
			}
			if score < best {
				best, start, end = score, f.Point, t.Point
			}
		}
	}
	mid = layout.Point{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
	return start, end, mid
}

// selfLoop returns the cubic Bezier control polygon of a connector that
// leaves r on its right edge and re-enters it just below, together with the
// curve's outermost point for the label.
func selfLoop(r layout.Rect) (curve [4]layout.Point, mid layout.Point) {
	c := r.Center()
	x := r.Right() + connectPadding
	dy := math.Min(r.Height/4, 20)
	reach := x + selfLoopReach
	curve = [4]layout.Point{
		{X: x, Y: c.Y - dy},
		{X: reach, Y: c.Y - 2*dy},
		{X: reach, Y: c.Y + 2*dy},
		{X: x, Y: c.Y + dy},
	}
	// A cubic at t=0.5 sits three quarters of the way to its control points.
	mid = layout.Point{X: x + 0.75*selfLoopReach, Y: c.Y}
	return curve, mid
}
