package graph

import (
	"github.com/matzehuels/c4x/pkg/dag/transform"
)

// FormatVersion is the version written into every exported layout.
// Readers reject layouts from a newer format.
const FormatVersion = 1

// Layout is the canonical serialization format for positioned diagrams.
// It is used for `c4x layout` output, API responses and cache entries.
//
// The format is flat: nesting is expressed through [Node.Parent] instead of
// child arrays, so consumers can draw nodes in slice order (parents come
// first) without walking a tree.
type Layout struct {
	Version   int     `json:"version" bson:"version"`
	ViewType  string  `json:"view_type" bson:"view_type"`
	Direction string  `json:"direction" bson:"direction"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`

	Nodes      []Node     `json:"nodes" bson:"nodes"`
	Boundaries []Boundary `json:"boundaries,omitempty" bson:"boundaries,omitempty"`
	Edges      []Edge     `json:"edges" bson:"edges"`

	Stats transform.Stats `json:"stats" bson:"stats"`
}

// Node is a positioned element.
type Node struct {
	ID          string            `json:"id" bson:"id"`
	Label       string            `json:"label" bson:"label"`
	Type        string            `json:"type" bson:"type"`
	Technology  string            `json:"technology,omitempty" bson:"technology,omitempty"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Sprite      string            `json:"sprite,omitempty" bson:"sprite,omitempty"`
	Tags        []string          `json:"tags,omitempty" bson:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Parent  string `json:"parent,omitempty" bson:"parent,omitempty"` // enclosing node or boundary id
	Depth   int    `json:"depth" bson:"depth"`
	Cluster bool   `json:"cluster,omitempty" bson:"cluster,omitempty"`
}

// Boundary is a positioned boundary rectangle.
type Boundary struct {
	ID        string   `json:"id" bson:"id"`
	Label     string   `json:"label" bson:"label"`
	Direction string   `json:"direction,omitempty" bson:"direction,omitempty"`
	Parent    string   `json:"parent,omitempty" bson:"parent,omitempty"`
	Members   []string `json:"members" bson:"members"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Edge is a routed relationship.
type Edge struct {
	ID         string  `json:"id" bson:"id"`
	From       string  `json:"from" bson:"from"`
	To         string  `json:"to" bson:"to"`
	Label      string  `json:"label,omitempty" bson:"label,omitempty"`
	Technology string  `json:"technology,omitempty" bson:"technology,omitempty"`
	Type       string  `json:"type" bson:"type"`
	Order      int     `json:"order,omitempty" bson:"order,omitempty"`
	Points     []Point `json:"points" bson:"points"`
}

// Point is a polyline vertex.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}
