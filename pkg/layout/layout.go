package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/c4x/pkg/c4"
)

// Engine lays out views. It holds only options and is safe for concurrent
// use.
type Engine struct {
	opts Options
}

// New returns an engine with opts; zero fields take defaults.
func New(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// LayoutView lays out v with the default options.
func LayoutView(v *c4.View) *Result {
	return New(Options{}).LayoutView(v)
}

// LayoutView computes the geometry of v. It never fails on a built view: a
// relationship whose endpoint cannot be found is returned with no points.
func (e *Engine) LayoutView(v *c4.View) *Result {
	res := &Result{
		Elements:      []PositionedElement{},
		Boundaries:    []PositionedBoundary{},
		Relationships: []RoutedRelationship{},
	}
	if v == nil {
		res.Width, res.Height = 2*e.opts.Margin, 2*e.opts.Margin
		return res
	}
	res.Kind = v.Kind
	res.Direction = v.Direction

	dir := v.Direction
	if dir == "" {
		dir = c4.DirectionTB
	}

	t := buildTree(v)
	e.layoutNode(t, 0, v.Relationships, dir, &res.Stats)
	e.flatten(t, res)
	applyOverrides(res)
	route(v.Relationships, res)
	e.measure(res)
	return res
}

// flatten walks the tree top-down turning relative offsets into absolute
// coordinates.
func (e *Engine) flatten(t *tree, res *Result) {
	boundaryRects := make(map[int]Rect, len(t.bounds))

	var walk func(idx int, ox, oy float64, parent string, depth int)
	walk = func(idx int, ox, oy float64, parent string, depth int) {
		n := &t.nodes[idx]
		x, y := ox+n.x, oy+n.y
		r := Rect{X: x, Y: y, Width: n.w, Height: n.h}
		switch n.kind {
		case kindElement:
			res.Elements = append(res.Elements, PositionedElement{
				Element: n.element,
				Rect:    r,
				Parent:  parent,
				Depth:   depth,
			})
		case kindBoundary:
			boundaryRects[idx] = r
		}
		for _, c := range n.children {
			walk(c, x, y, n.id(), depth+1)
		}
	}

	root := &t.nodes[0]
	for _, c := range root.children {
		walk(c, e.opts.Margin, e.opts.Margin, "", 0)
	}

	for _, bi := range t.bounds {
		res.Boundaries = append(res.Boundaries, PositionedBoundary{
			Boundary: *t.nodes[bi].boundary,
			Rect:     boundaryRects[bi],
		})
	}
}

// applyOverrides moves elements carrying numeric x or y metadata to that
// position. Siblings are not repacked.
func applyOverrides(res *Result) {
	for i := range res.Elements {
		md := res.Elements[i].Element.Metadata
		if v, ok := parseCoord(md["x"]); ok {
			res.Elements[i].X = v
		}
		if v, ok := parseCoord(md["y"]); ok {
			res.Elements[i].Y = v
		}
	}
}

func parseCoord(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// route connects the centres of both endpoint boxes.
func route(rels []c4.Relationship, res *Result) {
	rects := make(map[string]Rect, len(res.Elements))
	for _, pe := range res.Elements {
		rects[pe.Element.ID] = pe.Rect
	}
	for _, r := range rels {
		rr := RoutedRelationship{Relationship: r, Points: []Point{}}
		from, okF := rects[r.From]
		to, okT := rects[r.To]
		if okF && okT {
			rr.Points = append(rr.Points, from.Center(), to.Center())
		}
		res.Relationships = append(res.Relationships, rr)
	}
}

// measure sets the diagram size to the far extent of every box plus the
// margin.
func (e *Engine) measure(res *Result) {
	maxX, maxY := e.opts.Margin, e.opts.Margin
	for _, pe := range res.Elements {
		maxX, maxY = math.Max(maxX, pe.Right()), math.Max(maxY, pe.Bottom())
	}
	for _, pb := range res.Boundaries {
		maxX, maxY = math.Max(maxX, pb.Right()), math.Max(maxY, pb.Bottom())
	}
	res.Width, res.Height = maxX+e.opts.Margin, maxY+e.opts.Margin
}
