package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/layout"
)

// =============================================================================
// Result ↔ Layout Conversion
// =============================================================================

// FromResult converts a layout result to its serialization format. Slices
// are copied, so the returned Layout does not alias res.
func FromResult(res *layout.Result) Layout {
	out := Layout{
		Version:    FormatVersion,
		ViewType:   string(res.Kind),
		Direction:  string(res.Direction),
		Width:      res.Width,
		Height:     res.Height,
		Nodes:      make([]Node, 0, len(res.Elements)),
		Boundaries: make([]Boundary, 0, len(res.Boundaries)),
		Edges:      make([]Edge, 0, len(res.Relationships)),
		Stats:      res.Stats,
	}

	for _, pe := range res.Elements {
		e := pe.Element
		n := Node{
			ID:          e.ID,
			Label:       e.Label,
			Type:        string(e.Type),
			Technology:  e.Technology,
			Description: e.Description,
			Sprite:      e.Sprite,
			Tags:        slices.Clone(e.Tags),
			X:           pe.X,
			Y:           pe.Y,
			Width:       pe.Width,
			Height:      pe.Height,
			Parent:      pe.Parent,
			Depth:       pe.Depth,
			Cluster:     pe.IsCluster(),
		}
		if len(e.Metadata) > 0 {
			n.Metadata = maps.Clone(e.Metadata)
		}
		out.Nodes = append(out.Nodes, n)
	}

	for _, pb := range res.Boundaries {
		out.Boundaries = append(out.Boundaries, Boundary{
			ID:        pb.Boundary.ID,
			Label:     pb.Boundary.Label,
			Direction: string(pb.Boundary.Direction),
			Parent:    pb.Boundary.Parent,
			Members:   slices.Clone(pb.Boundary.Elements),
			X:         pb.X,
			Y:         pb.Y,
			Width:     pb.Width,
			Height:    pb.Height,
		})
	}

	for _, rr := range res.Relationships {
		r := rr.Relationship
		e := Edge{
			ID:         r.ID,
			From:       r.From,
			To:         r.To,
			Label:      r.Label,
			Technology: r.Technology,
			Type:       string(r.Type),
			Order:      r.Order,
			Points:     make([]Point, len(rr.Points)),
		}
		for i, p := range rr.Points {
			e.Points[i] = Point{X: p.X, Y: p.Y}
		}
		out.Edges = append(out.Edges, e)
	}
	return out
}

// ToResult rebuilds a layout result that the renderers accept. The element
// forest is not reconstructed: every element comes back flat, with its
// containment carried by Parent and Depth.
func (l Layout) ToResult() (*layout.Result, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	res := &layout.Result{
		Kind:          c4.ViewKind(l.ViewType),
		Direction:     c4.Direction(l.Direction),
		Elements:      make([]layout.PositionedElement, 0, len(l.Nodes)),
		Boundaries:    make([]layout.PositionedBoundary, 0, len(l.Boundaries)),
		Relationships: make([]layout.RoutedRelationship, 0, len(l.Edges)),
		Width:         l.Width,
		Height:        l.Height,
		Stats:         l.Stats,
	}

	for _, n := range l.Nodes {
		typ, _ := c4.NormalizeType(n.Type)
		el := &c4.Element{
			ID:          n.ID,
			Label:       n.Label,
			Type:        typ,
			Technology:  n.Technology,
			Description: n.Description,
			Sprite:      n.Sprite,
			Tags:        slices.Clone(n.Tags),
		}
		if len(n.Metadata) > 0 {
			el.Metadata = maps.Clone(n.Metadata)
		}
		res.Elements = append(res.Elements, layout.PositionedElement{
			Element: el,
			Rect:    layout.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height},
			Parent:  n.Parent,
			Depth:   n.Depth,
		})
	}

	for _, b := range l.Boundaries {
		res.Boundaries = append(res.Boundaries, layout.PositionedBoundary{
			Boundary: c4.Boundary{
				ID:        b.ID,
				Label:     b.Label,
				Direction: c4.Direction(b.Direction),
				Parent:    b.Parent,
				Elements:  slices.Clone(b.Members),
			},
			Rect: layout.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height},
		})
	}

	for _, e := range l.Edges {
		rr := layout.RoutedRelationship{
			Relationship: c4.Relationship{
				ID:         e.ID,
				From:       e.From,
				To:         e.To,
				Label:      e.Label,
				Technology: e.Technology,
				Type:       c4.RelType(e.Type),
				Order:      e.Order,
			},
			Points: make([]layout.Point, len(e.Points)),
		}
		for i, p := range e.Points {
			rr.Points[i] = layout.Point{X: p.X, Y: p.Y}
		}
		res.Relationships = append(res.Relationships, rr)
	}
	return res, nil
}

var relTypes = map[string]bool{
	string(c4.RelUses):  true,
	string(c4.RelAsync): true,
	string(c4.RelSync):  true,
}

// Validate checks that a decoded layout is internally consistent: a
// supported version, known element and relationship types, unique node ids
// and parents that precede their children.
func (l Layout) Validate() error {
	if l.Version < 1 || l.Version > FormatVersion {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported layout version %d", l.Version)
	}

	seen := make(map[string]bool, len(l.Nodes)+len(l.Boundaries))
	for _, b := range l.Boundaries {
		if b.Parent != "" && !seen[b.Parent] {
			return errors.New(errors.ErrCodeInvalidFormat, "boundary %q references parent %q before it is declared", b.ID, b.Parent)
		}
		seen[b.ID] = true
	}
	for i, n := range l.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "node %d has no id", i)
		}
		if _, ok := c4.NormalizeType(n.Type); !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "node %q has unknown type %q", n.ID, n.Type)
		}
		if n.Parent != "" && !seen[n.Parent] {
			return errors.New(errors.ErrCodeInvalidFormat, "node %q references parent %q before it is declared", n.ID, n.Parent)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range l.Edges {
		if !relTypes[e.Type] {
			return errors.New(errors.ErrCodeInvalidFormat, "edge %q has unknown type %q", e.ID, e.Type)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayout writes a Layout as indented JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayout decodes and validates a JSON layout from r.
func ReadLayout(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return UnmarshalLayout(data)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
