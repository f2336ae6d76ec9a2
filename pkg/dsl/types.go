package dsl

import (
	"github.com/matzehuels/c4x/pkg/errors"
)

// ViewKind selects which C4 diagram a document describes.
type ViewKind string

const (
	ViewSystemContext ViewKind = "system-context"
	ViewContainer     ViewKind = "container"
	ViewComponent     ViewKind = "component"
	ViewDeployment    ViewKind = "deployment"
	ViewDynamic       ViewKind = "dynamic"
)

// ViewKinds lists every recognised view kind in directive order.
var ViewKinds = []ViewKind{
	ViewSystemContext,
	ViewContainer,
	ViewComponent,
	ViewDeployment,
	ViewDynamic,
}

// Valid reports whether v is a recognised view kind.
func (v ViewKind) Valid() bool {
	for _, k := range ViewKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Direction is the flow direction of a graph or subgraph.
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionBT Direction = "BT"
	DirectionLR Direction = "LR"
	DirectionRL Direction = "RL"
)

// ParseDirection converts a direction keyword. TD is accepted as an alias of
// TB for Mermaid compatibility.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "TB", "TD":
		return DirectionTB, true
	case "BT":
		return DirectionBT, true
	case "LR":
		return DirectionLR, true
	case "RL":
		return DirectionRL, true
	}
	return "", false
}

// Arrow glyphs recognised in relationship statements.
const (
	ArrowUses  = "-->"
	ArrowAsync = "-.->"
	ArrowSync  = "==>"
)

// RawElement is an element as written in the source. Type is free-form and
// validated later by the model builder.
//
// Elements are shared by pointer between [ParseResult.Elements] and the
// [RawBoundary] that declared them, so tags attached by class statements are
// visible through both.
type RawElement struct {
	ID          string
	Label       string
	Type        string
	Tags        []string
	Technology  string
	Description string
	Sprite      string
	Metadata    map[string]string
	Children    []*RawElement
	Pos         errors.Pos
}

// HasTag reports whether the element already carries tag.
func (e *RawElement) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RawRelationship is a relationship statement in declaration order.
type RawRelationship struct {
	From  string
	To    string
	Arrow string
	Label string
	Pos   errors.Pos
}

// RawBoundary is a subgraph block. ID is the identifier written after the
// subgraph keyword, which may be empty for the quoted-label form. Parent is
// the enclosing subgraph, nil at the top level.
type RawBoundary struct {
	ID            string
	Label         string
	Direction     Direction
	Parent        *RawBoundary
	Elements      []*RawElement
	Relationships []RawRelationship
	Pos           errors.Pos
}

// ClassDef is a classDef statement. Styles is kept verbatim.
type ClassDef struct {
	Name   string
	Styles string
	Pos    errors.Pos
}

// ClassAssignment is a class statement attaching Class to Targets.
type ClassAssignment struct {
	Targets []string
	Class   string
	Pos     errors.Pos
}

// ParseResult is the flat output of [Parse].
//
// Elements holds every element declared at the top level or inside a
// subgraph. Children of deployment nodes are reachable only through
// [RawElement.Children]. Relationships holds every relationship statement in
// source order, including those declared inside subgraphs.
type ParseResult struct {
	View          ViewKind
	Direction     Direction
	Elements      []*RawElement
	Relationships []RawRelationship
	Boundaries    []*RawBoundary
	ClassDefs     []ClassDef
	Classes       []ClassAssignment
}

// Walk visits every element in the result depth-first in declaration order,
// including nested deployment children. Returning false from fn stops the
// walk below that element.
func (r *ParseResult) Walk(fn func(e *RawElement) bool) {
	var visit func(elems []*RawElement)
	visit = func(elems []*RawElement) {
		for _, e := range elems {
			if fn(e) {
				visit(e.Children)
			}
		}
	}
	visit(r.Elements)
}
