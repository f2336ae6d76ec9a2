package c4

import (
	"strconv"

	"github.com/matzehuels/c4x/pkg/dsl"
	"github.com/matzehuels/c4x/pkg/errors"
)

// Builder turns a [dsl.ParseResult] into a validated [Model]. It holds no
// state; the zero value is ready to use and may be shared.
type Builder struct{}

// NewBuilder returns a Builder.
func NewBuilder() *Builder { return &Builder{} }

// Build is shorthand for NewBuilder().Build(res, workspace).
func Build(res *dsl.ParseResult, workspace string) (*Model, error) {
	return NewBuilder().Build(res, workspace)
}

// Build normalises and validates res. Errors are *errors.Error values with
// a semantic code and the source position of the offending statement:
//   - UNKNOWN_ELEMENT_TYPE when a type does not normalise
//   - DUPLICATE_ID when two elements anywhere in the tree share an id
//   - UNRESOLVED_REFERENCE when a relationship or boundary names an unknown id
//   - UNSUPPORTED_ARROW when a relationship glyph is not in the arrow table
//   - INVALID_NESTING when an element other than a deployment node has children
func (b *Builder) Build(res *dsl.ParseResult, workspace string) (*Model, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil parse result")
	}

	seen := make(map[string]*Element)
	elements, err := buildElements(res.Elements, seen)
	if err != nil {
		return nil, err
	}

	kind := ViewKind(res.View)
	if kind == "" {
		kind = ViewSystemContext
	}
	rels, err := buildRelationships(res.Relationships, seen, kind)
	if err != nil {
		return nil, err
	}

	boundaries, err := buildBoundaries(res.Boundaries, seen)
	if err != nil {
		return nil, err
	}

	dir := Direction(res.Direction)
	if dir == "" {
		dir = DirectionTB
	}

	view := &View{
		Kind:          kind,
		Direction:     dir,
		Elements:      elements,
		Relationships: rels,
		Boundaries:    boundaries,
	}
	return &Model{Workspace: workspace, Views: []*View{view}}, nil
}

func buildElements(raw []*dsl.RawElement, seen map[string]*Element) ([]*Element, error) {
	out := make([]*Element, 0, len(raw))
	for _, r := range raw {
		typ, ok := NormalizeType(r.Type)
		if !ok {
			return nil, errors.At(errors.ErrCodeUnknownElementType, r.Pos,
				"unsupported element type %q for %q", r.Type, r.ID)
		}
		if first, dup := seen[r.ID]; dup {
			return nil, errors.At(errors.ErrCodeDuplicateID, r.Pos,
				"duplicate element identifier %q (first declared at %s)", r.ID, first.Pos)
		}

		el := &Element{
			ID:          r.ID,
			Label:       r.Label,
			Type:        typ,
			Technology:  r.Technology,
			Description: r.Description,
			Sprite:      r.Sprite,
			Pos:         r.Pos,
		}
		el.Tags = append(el.Tags, r.Tags...)
		for _, t := range derivedTags(r.Type) {
			if !el.HasTag(t) {
				el.Tags = append(el.Tags, t)
			}
		}
		if len(r.Metadata) > 0 {
			el.Metadata = make(map[string]string, len(r.Metadata))
			for k, v := range r.Metadata {
				el.Metadata[k] = v
			}
		}
		seen[r.ID] = el

		if len(r.Children) > 0 {
			if typ != DeploymentNode {
				return nil, errors.At(errors.ErrCodeInvalidNesting, r.Pos,
					"%s %q cannot contain elements; only deployment nodes nest", typ, r.ID)
			}
			children, err := buildElements(r.Children, seen)
			if err != nil {
				return nil, err
			}
			el.Children = children
		}
		out = append(out, el)
	}
	return out, nil
}

func buildRelationships(raw []dsl.RawRelationship, known map[string]*Element, kind ViewKind) ([]Relationship, error) {
	out := make([]Relationship, 0, len(raw))
	for i, r := range raw {
		if _, ok := known[r.From]; !ok {
			return nil, errors.At(errors.ErrCodeUnresolvedRef, r.Pos,
				"relationship references unknown element %q", r.From)
		}
		if _, ok := known[r.To]; !ok {
			return nil, errors.At(errors.ErrCodeUnresolvedRef, r.Pos,
				"relationship references unknown element %q", r.To)
		}
		typ, ok := RelTypeOf(r.Arrow)
		if !ok {
			return nil, errors.At(errors.ErrCodeUnsupportedArrow, r.Pos,
				"unsupported relationship arrow %q", r.Arrow)
		}

		rel := Relationship{
			ID:    "rel-" + strconv.Itoa(i),
			From:  r.From,
			To:    r.To,
			Label: r.Label,
			Type:  typ,
			Pos:   r.Pos,
		}
		if kind == ViewDynamic {
			rel.Order = i + 1
		}
		out = append(out, rel)
	}
	return out, nil
}

func buildBoundaries(raw []*dsl.RawBoundary, known map[string]*Element) ([]Boundary, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Boundary, 0, len(raw))
	index := make(map[*dsl.RawBoundary]int, len(raw))
	for i, r := range raw {
		index[r] = i
		b := Boundary{
			ID:        boundaryID(r.Label, i),
			Label:     r.Label,
			Direction: Direction(r.Direction),
			Elements:  make([]string, 0, len(r.Elements)),
			Pos:       r.Pos,
		}
		if r.Parent != nil {
			if pi, ok := index[r.Parent]; ok {
				b.Parent = out[pi].ID
			}
		}
		for _, e := range r.Elements {
			if _, ok := known[e.ID]; !ok {
				return nil, errors.At(errors.ErrCodeUnresolvedRef, r.Pos,
					"boundary %q references unknown element %q", r.Label, e.ID)
			}
			b.Elements = append(b.Elements, e.ID)
		}
		out = append(out, b)
	}
	return out, nil
}
