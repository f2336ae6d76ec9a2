package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/c4x/pkg/c4"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds technology, tags and metadata to node labels.
	// When false, a node shows its label and bracketed type only.
	Detailed bool
}

var rankdirs = map[c4.Direction]string{
	c4.DirectionTB: "TB",
	c4.DirectionBT: "BT",
	c4.DirectionLR: "LR",
	c4.DirectionRL: "RL",
}

// ToDOT converts a view to Graphviz DOT source. The result can be rendered
// with [RenderSVG] or any external Graphviz installation.
//
// Deployment nodes and boundaries become nested clusters. Containment
// follows the layout engine: a boundary takes ownership of its members and
// the last boundary to claim an element wins.
func ToDOT(v *c4.View, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph C4 {\n")
	dir := c4.DirectionTB
	if v != nil {
		if _, ok := rankdirs[v.Direction]; ok {
			dir = v.Direction
		}
	}
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdirs[dir])
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Arial\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Arial\", fontsize=10];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.5;\n")
	if v == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	w := &dotWriter{buf: &buf, opts: opts, kids: containment(v)}
	buf.WriteString("\n")
	w.scope("", 1)

	if len(v.Relationships) > 0 {
		buf.WriteString("\n")
	}
	for _, r := range v.Relationships {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", r.From, r.To, strings.Join(edgeAttrs(r, v.Kind), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// member is one entry of a DOT scope: either an element or a boundary.
type member struct {
	element  *c4.Element
	boundary *c4.Boundary
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	kids map[string][]member // scope key -> members; "" is the top level
}

// containment computes the members of every scope. Scope keys are element
// ids for deployment nodes and "boundary:<id>" for boundaries.
func containment(v *c4.View) map[string][]member {
	parent := make(map[string]string)
	byID := make(map[string]*c4.Element)
	var order []string
	c4.Walk(v.Elements, func(e, p *c4.Element) bool {
		byID[e.ID] = e
		order = append(order, e.ID)
		if p != nil {
			parent[e.ID] = p.ID
		} else {
			parent[e.ID] = ""
		}
		return true
	})

	kids := make(map[string][]member)
	claimed := make(map[string]string)
	for i := range v.Boundaries {
		b := &v.Boundaries[i]
		for _, id := range b.Elements {
			if _, ok := byID[id]; ok {
				claimed[id] = boundaryKey(b.ID)
			}
		}
	}
	for _, id := range order {
		scope := parent[id]
		if c, ok := claimed[id]; ok {
			scope = c
		}
		kids[scope] = append(kids[scope], member{element: byID[id]})
	}
	known := make(map[string]bool, len(v.Boundaries))
	for i := range v.Boundaries {
		b := &v.Boundaries[i]
		scope := ""
		if known[b.Parent] {
			scope = boundaryKey(b.Parent)
		}
		known[b.ID] = true
		kids[scope] = append(kids[scope], member{boundary: b})
	}
	return kids
}

func boundaryKey(id string) string { return "boundary:" + id }

func (w *dotWriter) scope(key string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, m := range w.kids[key] {
		switch {
		case m.boundary != nil:
			b := m.boundary
			fmt.Fprintf(w.buf, "%ssubgraph %q {\n", indent, "cluster_"+b.ID)
			fmt.Fprintf(w.buf, "%s  label=%q;\n", indent, b.Label)
			fmt.Fprintf(w.buf, "%s  style=\"dashed,rounded\";\n", indent)
			if d, ok := rankdirs[b.Direction]; ok {
				fmt.Fprintf(w.buf, "%s  rankdir=%s;\n", indent, d)
			}
			w.scope(boundaryKey(b.ID), depth+1)
			fmt.Fprintf(w.buf, "%s}\n", indent)
		case m.element.Type == c4.DeploymentNode:
			e := m.element
			fmt.Fprintf(w.buf, "%ssubgraph %q {\n", indent, "cluster_"+e.ID)
			fmt.Fprintf(w.buf, "%s  label=%q;\n", indent, fmtLabel(e, w.opts.Detailed))
			fmt.Fprintf(w.buf, "%s  style=\"rounded\";\n", indent)
			fmt.Fprintf(w.buf, "%s  color=\"#666666\";\n", indent)
			// An anchor node keeps empty clusters visible and gives edges
			// to the cluster itself something to attach to.
			fmt.Fprintf(w.buf, "%s  %q [shape=point, style=invis, label=\"\"];\n", indent, e.ID)
			w.scope(e.ID, depth+1)
			fmt.Fprintf(w.buf, "%s}\n", indent)
		default:
			e := m.element
			fmt.Fprintf(w.buf, "%s%q [%s];\n", indent, e.ID, strings.Join(fmtAttrs(e, w.opts.Detailed), ", "))
		}
	}
}

var typeNames = map[c4.ElementType]string{
	c4.Person:         "Person",
	c4.SoftwareSystem: "Software System",
	c4.Container:      "Container",
	c4.Component:      "Component",
	c4.DeploymentNode: "Deployment Node",
}

func fmtLabel(e *c4.Element, detailed bool) string {
	typ := typeNames[e.Type]
	if detailed && e.Technology != "" {
		typ += ": " + e.Technology
	}
	lines := []string{e.Label, "[" + typ + "]"}
	if !detailed {
		return strings.Join(lines, "\n")
	}
	if e.Description != "" {
		lines = append(lines, e.Description)
	}
	if len(e.Tags) > 0 {
		lines = append(lines, strings.Join(e.Tags, ", "))
	}
	for _, k := range slices.Sorted(maps.Keys(e.Metadata)) {
		lines = append(lines, fmt.Sprintf("%s: %s", k, e.Metadata[k]))
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(e *c4.Element, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, detailed))}
	if e.Type == c4.Person {
		attrs = append(attrs, "shape=ellipse")
	}
	if e.HasTag(c4.TagDatabase) {
		attrs = append(attrs, "shape=cylinder")
	}
	if e.IsExternal() {
		attrs = append(attrs, "fillcolor=\"#EEEEEE\"", "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func edgeAttrs(r c4.Relationship, kind c4.ViewKind) []string {
	label := r.Label
	if kind == c4.ViewDynamic {
		label = strconv.Itoa(r.Order) + ": " + label
	}
	var attrs []string
	if label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	switch r.Type {
	case c4.RelAsync:
		attrs = append(attrs, "style=dashed", "arrowhead=vee")
	case c4.RelSync:
		attrs = append(attrs, "style=bold")
	default:
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz build.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so the output scales like the native
// renderer's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
