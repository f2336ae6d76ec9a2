// Package c4 defines the validated semantic model of a c4x diagram and the
// builder that produces it from a parse result.
//
// # Overview
//
// The model is the single interchange format between front-ends and the
// layout engine. It uses a closed element vocabulary ([ElementType]) and a
// closed relationship vocabulary ([RelType]); the raw strings written by the
// user are normalised once, in [Builder.Build], and never looked at again.
//
// # Invariants
//
// A built [View] guarantees that:
//   - every element id is unique across the whole element tree, including
//     nested deployment children
//   - every relationship endpoint names an element somewhere in the tree
//   - every boundary member names an element somewhere in the tree
//
// Models are never mutated after construction. Each compilation builds a
// fresh model from source text.
package c4

import (
	"github.com/matzehuels/c4x/pkg/errors"
)

// ElementType is the closed C4 element vocabulary.
type ElementType string

const (
	Person         ElementType = "Person"
	SoftwareSystem ElementType = "SoftwareSystem"
	Container      ElementType = "Container"
	Component      ElementType = "Component"
	DeploymentNode ElementType = "DeploymentNode"
)

// ElementTypes lists the vocabulary in C4 abstraction order.
var ElementTypes = []ElementType{Person, SoftwareSystem, Container, Component, DeploymentNode}

// RelType is the semantic kind of a relationship.
type RelType string

const (
	RelUses  RelType = "uses"
	RelAsync RelType = "async"
	RelSync  RelType = "sync"
)

// ViewKind selects which C4 diagram a view describes.
type ViewKind string

const (
	ViewSystemContext ViewKind = "system-context"
	ViewContainer     ViewKind = "container"
	ViewComponent     ViewKind = "component"
	ViewDeployment    ViewKind = "deployment"
	ViewDynamic       ViewKind = "dynamic"
)

// Direction is a layout flow direction.
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionBT Direction = "BT"
	DirectionLR Direction = "LR"
	DirectionRL Direction = "RL"
)

// Well-known tags derived by the builder.
const (
	TagExternal = "External"
	TagDatabase = "Database"
)

// Element is an architectural element. Children is only populated for
// deployment nodes written with a brace block.
type Element struct {
	ID          string            `json:"id" bson:"id"`
	Label       string            `json:"label" bson:"label"`
	Type        ElementType       `json:"type" bson:"type"`
	Tags        []string          `json:"tags,omitempty" bson:"tags,omitempty"`
	Technology  string            `json:"technology,omitempty" bson:"technology,omitempty"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Sprite      string            `json:"sprite,omitempty" bson:"sprite,omitempty"`
	Children    []*Element        `json:"children,omitempty" bson:"children,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Pos         errors.Pos        `json:"-" bson:"-"`
}

// HasTag reports whether the element carries tag.
func (e *Element) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsExternal reports whether the element is outside the system in scope.
func (e *Element) IsExternal() bool { return e.HasTag(TagExternal) }

// Relationship is a directed, typed connection between two elements. Order
// is the 1-based sequence number in dynamic views and 0 otherwise.
type Relationship struct {
	ID         string     `json:"id" bson:"id"`
	From       string     `json:"from" bson:"from"`
	To         string     `json:"to" bson:"to"`
	Label      string     `json:"label,omitempty" bson:"label,omitempty"`
	Technology string     `json:"technology,omitempty" bson:"technology,omitempty"`
	Type       RelType    `json:"relType" bson:"relType"`
	Order      int        `json:"order,omitempty" bson:"order,omitempty"`
	Pos        errors.Pos `json:"-" bson:"-"`
}

// Boundary is a named group of element ids. Boundaries are kept as a flat
// list; Parent names the enclosing boundary of a nested subgraph and always
// refers to an earlier entry.
type Boundary struct {
	ID        string     `json:"id" bson:"id"`
	Label     string     `json:"label" bson:"label"`
	Direction Direction  `json:"direction,omitempty" bson:"direction,omitempty"`
	Parent    string     `json:"parent,omitempty" bson:"parent,omitempty"`
	Elements  []string   `json:"elements" bson:"elements"`
	Pos       errors.Pos `json:"-" bson:"-"`
}

// View is one diagram: an element forest, its relationships and boundaries.
type View struct {
	Kind          ViewKind       `json:"type" bson:"type"`
	Direction     Direction      `json:"direction" bson:"direction"`
	Elements      []*Element     `json:"elements" bson:"elements"`
	Relationships []Relationship `json:"relationships" bson:"relationships"`
	Boundaries    []Boundary     `json:"boundaries,omitempty" bson:"boundaries,omitempty"`
}

// Model owns one or more views of a workspace.
type Model struct {
	Workspace string  `json:"workspace" bson:"workspace"`
	Views     []*View `json:"views" bson:"views"`
}

// View returns the first view, or nil for an empty model.
func (m *Model) View() *View {
	if m == nil || len(m.Views) == 0 {
		return nil
	}
	return m.Views[0]
}
