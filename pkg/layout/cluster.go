package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/dag"
	"github.com/matzehuels/c4x/pkg/dag/transform"
)

// layoutNode sizes the subtree rooted at idx bottom-up and records the
// relative position of every child.
func (e *Engine) layoutNode(t *tree, idx int, rels []c4.Relationship, dir c4.Direction, stats *transform.Stats) {
	n := &t.nodes[idx]
	if n.kind == kindBoundary && n.boundary.Direction != "" {
		dir = n.boundary.Direction
	}
	for _, c := range n.children {
		e.layoutNode(t, c, rels, dir, stats)
	}

	var floor Size
	switch n.kind {
	case kindElement:
		floor = e.opts.sizeOf(n.element.Type)
	case kindBoundary:
		floor = e.opts.sizeOf(c4.DeploymentNode)
	}
	if len(n.children) == 0 {
		n.w, n.h = floor.Width, floor.Height
		return
	}

	cw, ch := e.layoutCluster(t, idx, rels, dir, stats)

	var pad Padding
	switch n.kind {
	case kindElement:
		pad = e.opts.NodePadding
	case kindBoundary:
		pad = e.opts.BoundaryPadding
	}
	n.w = math.Max(cw+pad.Left+pad.Right, floor.Width)
	n.h = math.Max(ch+pad.Top+pad.Bottom, floor.Height)

	// Centre the content horizontally when the minimum size wins.
	dx := pad.Left + (n.w-pad.Left-pad.Right-cw)/2
	for _, c := range n.children {
		t.nodes[c].x += dx
		t.nodes[c].y += pad.Top
	}
}

// layoutCluster ranks and places the direct children of idx. Positions are
// written relative to the content origin; the content size is returned.
func (e *Engine) layoutCluster(t *tree, idx int, rels []c4.Relationship, dir c4.Direction, stats *transform.Stats) (float64, float64) {
	children := t.nodes[idx].children

	g := dag.New(nil)
	for _, c := range children {
		_ = g.AddNode(dag.Node{ID: strconv.Itoa(c), Width: t.nodes[c].w, Height: t.nodes[c].h})
	}
	for _, r := range rels {
		from, okF := t.byElement[r.From]
		to, okT := t.byElement[r.To]
		if !okF || !okT {
			continue
		}
		a, b := t.childUnder(idx, from), t.childUnder(idx, to)
		if a < 0 || b < 0 || a == b {
			continue
		}
		fa, fb := strconv.Itoa(a), strconv.Itoa(b)
		if !g.HasEdge(fa, fb) {
			_ = g.AddEdge(dag.Edge{From: fa, To: fb})
		}
	}

	stats.Add(transform.Layer(g, e.opts.Sweeps))

	pos := e.place(g, dir)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range children {
		p := pos[strconv.Itoa(c)]
		n := &t.nodes[c]
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X+n.w), math.Max(maxY, p.Y+n.h)
	}
	for _, c := range children {
		p := pos[strconv.Itoa(c)]
		t.nodes[c].x, t.nodes[c].y = p.X-minX, p.Y-minY
	}
	return maxX - minX, maxY - minY
}

// place assigns top-left coordinates to every node of a ranked and ordered
// graph. Ranks advance along the flow axis separated by RankSep; nodes of
// one rank sit side by side separated by NodeSep and centred on the widest
// rank.
func (e *Engine) place(g *dag.DAG, dir c4.Direction) map[string]Point {
	horizontal := dir == c4.DirectionLR || dir == c4.DirectionRL
	reverse := dir == c4.DirectionBT || dir == c4.DirectionRL

	// along is the extent on the flow axis, across the extent on the other.
	extent := func(n *dag.Node) (along, across float64) {
		if horizontal {
			return n.Width, n.Height
		}
		return n.Height, n.Width
	}

	rows := g.RowIDs()
	if reverse {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	thickness := make([]float64, len(rows))
	span := make([]float64, len(rows))
	widest := 0.0
	for i, row := range rows {
		nodes := g.NodesInRow(row)
		for j, n := range nodes {
			along, across := extent(n)
			thickness[i] = math.Max(thickness[i], along)
			span[i] += across
			if j > 0 {
				span[i] += e.opts.NodeSep
			}
		}
		widest = math.Max(widest, span[i])
	}

	pos := make(map[string]Point, g.NodeCount())
	rankStart := 0.0
	for i, row := range rows {
		cursor := (widest - span[i]) / 2
		for _, n := range g.NodesInRow(row) {
			along, across := extent(n)
			a := rankStart + (thickness[i]-along)/2
			if horizontal {
				pos[n.ID] = Point{X: a, Y: cursor}
			} else {
				pos[n.ID] = Point{X: cursor, Y: a}
			}
			cursor += across + e.opts.NodeSep
		}
		rankStart += thickness[i] + e.opts.RankSep
	}
	return pos
}
