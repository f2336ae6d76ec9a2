package svg

import "github.com/matzehuels/c4x/pkg/layout"

// labelOffsets are tried in order around a label's natural position.
var labelOffsets = []layout.Point{
	{X: 0, Y: 0},
	{X: 0, Y: -25},
	{X: 0, Y: 25},
	{X: -30, Y: 0},
	{X: 30, Y: 0},
	{X: -20, Y: -20},
	{X: 20, Y: -20},
	{X: -20, Y: 20},
	{X: 20, Y: 20},
}

// occupancy is the running list of placed label and box rectangles.
type occupancy struct {
	boxes []layout.Rect
}

func centred(cx, cy, w, h float64) layout.Rect {
	return layout.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

func (o *occupancy) collides(r layout.Rect) bool {
	for _, b := range o.boxes {
		if r.Intersects(b) {
			return true
		}
	}
	return false
}

// place returns the first candidate centre whose w×h box is free, or the
// base position when every candidate collides.
func (o *occupancy) place(base layout.Point, w, h float64) layout.Point {
	for _, off := range labelOffsets {
		p := layout.Point{X: base.X + off.X, Y: base.Y + off.Y}
		if !o.collides(centred(p.X, p.Y, w, h)) {
			return p
		}
	}
	return base
}

func (o *occupancy) add(r layout.Rect) { o.boxes = append(o.boxes, r) }
