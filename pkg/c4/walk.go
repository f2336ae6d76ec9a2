package c4

// Walk visits the element forest depth-first in declaration order. parent is
// nil for top-level elements. Returning false from fn skips that element's
// children.
func Walk(elements []*Element, fn func(e, parent *Element) bool) {
	var visit func(elems []*Element, parent *Element)
	visit = func(elems []*Element, parent *Element) {
		for _, e := range elems {
			if fn(e, parent) {
				visit(e.Children, e)
			}
		}
	}
	visit(elements, nil)
}

// Index returns every element of the view keyed by id, nested children
// included.
func (v *View) Index() map[string]*Element {
	idx := make(map[string]*Element)
	Walk(v.Elements, func(e, _ *Element) bool {
		idx[e.ID] = e
		return true
	})
	return idx
}

// Count returns the number of elements in the view, nested children
// included.
func (v *View) Count() int {
	n := 0
	Walk(v.Elements, func(*Element, *Element) bool {
		n++
		return true
	})
	return n
}
