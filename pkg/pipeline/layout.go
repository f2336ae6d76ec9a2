package pipeline

import (
	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/graph"
	"github.com/matzehuels/c4x/pkg/layout"
)

// Layout positions the first view of m and exports it.
func Layout(m *c4.Model, opts layout.Options) graph.Layout {
	return graph.FromResult(layout.New(opts).LayoutView(m.View()))
}

// viewFromResult rebuilds a view from a flat layout result. Elements are
// cloned so the nested Children slices never alias a live model.
func viewFromResult(res *layout.Result) *c4.View {
	v := &c4.View{Kind: res.Kind, Direction: res.Direction}
	clones := make(map[string]*c4.Element, len(res.Elements))
	for _, pe := range res.Elements {
		el := *pe.Element
		el.Children = nil
		clone := &el
		clones[el.ID] = clone
		if parent, ok := clones[pe.Parent]; ok {
			parent.Children = append(parent.Children, clone)
		} else {
			v.Elements = append(v.Elements, clone)
		}
	}
	for _, pb := range res.Boundaries {
		v.Boundaries = append(v.Boundaries, pb.Boundary)
	}
	for _, rr := range res.Relationships {
		v.Relationships = append(v.Relationships, rr.Relationship)
	}
	return v
}
