package layout

import (
	"slices"

	"github.com/matzehuels/c4x/pkg/c4"
)

type nodeKind int

const (
	kindRoot nodeKind = iota
	kindElement
	kindBoundary
)

// treeNode is one slot in the containment arena. Parent and children are
// arena indices; x and y are relative to the parent's top-left corner.
type treeNode struct {
	kind     nodeKind
	element  *c4.Element
	boundary *c4.Boundary
	parent   int
	children []int

	x, y, w, h float64
}

func (n *treeNode) id() string {
	switch n.kind {
	case kindElement:
		return n.element.ID
	case kindBoundary:
		return n.boundary.ID
	}
	return ""
}

// tree is the containment hierarchy of one view. Index 0 is the root.
type tree struct {
	nodes     []treeNode
	byElement map[string]int
	bounds    []int // boundary arena indices in model order
}

// buildTree unifies the element forest and the boundaries of v under a
// synthetic root. A nested boundary hangs under its parent boundary.
// Boundary membership is an ownership transfer: a claimed element leaves
// its previous parent, and when two boundaries claim the same element the
// later one wins.
func buildTree(v *c4.View) *tree {
	t := &tree{
		nodes:     []treeNode{{kind: kindRoot, parent: -1}},
		byElement: make(map[string]int),
	}

	c4.Walk(v.Elements, func(e, parent *c4.Element) bool {
		p := 0
		if parent != nil {
			p = t.byElement[parent.ID]
		}
		t.byElement[e.ID] = t.add(treeNode{kind: kindElement, element: e}, p)
		return true
	})

	byBoundary := make(map[string]int, len(v.Boundaries))
	for i := range v.Boundaries {
		b := &v.Boundaries[i]
		p := 0
		if pi, ok := byBoundary[b.Parent]; ok && b.Parent != "" {
			p = pi
		}
		bi := t.add(treeNode{kind: kindBoundary, boundary: b}, p)
		byBoundary[b.ID] = bi
		t.bounds = append(t.bounds, bi)
		for _, id := range b.Elements {
			if ei, ok := t.byElement[id]; ok {
				t.move(ei, bi)
			}
		}
	}
	return t
}

func (t *tree) add(n treeNode, parent int) int {
	n.parent = parent
	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	t.nodes[parent].children = append(t.nodes[parent].children, idx)
	return idx
}

func (t *tree) move(idx, newParent int) {
	old := t.nodes[idx].parent
	if old == newParent {
		return
	}
	t.nodes[old].children = slices.DeleteFunc(t.nodes[old].children, func(c int) bool { return c == idx })
	t.nodes[idx].parent = newParent
	t.nodes[newParent].children = append(t.nodes[newParent].children, idx)
}

// childUnder returns the direct child of cluster on the path up from idx,
// or -1 when idx is not a strict descendant of cluster.
func (t *tree) childUnder(cluster, idx int) int {
	for idx >= 0 {
		p := t.nodes[idx].parent
		if p == cluster {
			return idx
		}
		idx = p
	}
	return -1
}
