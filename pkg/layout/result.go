package layout

import (
	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/dag/transform"
)

// Point is an absolute pixel coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the centre point.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// PositionedElement is an element with absolute geometry. Parent is the id
// of the enclosing deployment node or boundary, empty at the top level.
type PositionedElement struct {
	Element *c4.Element `json:"element" bson:"element"`
	Rect    `bson:",inline"`
	Parent  string `json:"parent,omitempty" bson:"parent,omitempty"`
	Depth   int    `json:"depth" bson:"depth"`
}

// IsCluster reports whether the element is drawn as a container of other
// boxes rather than a leaf.
func (p PositionedElement) IsCluster() bool {
	return p.Element.Type == c4.DeploymentNode
}

// PositionedBoundary is a boundary with absolute geometry.
type PositionedBoundary struct {
	Boundary c4.Boundary `json:"boundary" bson:"boundary"`
	Rect     `bson:",inline"`
}

// RoutedRelationship is a relationship with its connector polyline. Points
// is empty when an endpoint could not be resolved.
type RoutedRelationship struct {
	Relationship c4.Relationship `json:"relationship" bson:"relationship"`
	Points       []Point         `json:"points" bson:"points"`
}

// Result is the output of one layout pass. Elements are in tree pre-order,
// so every cluster precedes its children.
type Result struct {
	Kind          c4.ViewKind          `json:"kind" bson:"kind"`
	Direction     c4.Direction         `json:"direction" bson:"direction"`
	Elements      []PositionedElement  `json:"elements" bson:"elements"`
	Boundaries    []PositionedBoundary `json:"boundaries" bson:"boundaries"`
	Relationships []RoutedRelationship `json:"relationships" bson:"relationships"`
	Width         float64              `json:"width" bson:"width"`
	Height        float64              `json:"height" bson:"height"`
	Stats         transform.Stats      `json:"stats" bson:"stats"`
}

// Element returns the positioned element with the given id.
func (r *Result) Element(id string) (PositionedElement, bool) {
	for _, e := range r.Elements {
		if e.Element.ID == id {
			return e, true
		}
	}
	return PositionedElement{}, false
}
