package svg

import (
	"bytes"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/layout"
	"github.com/matzehuels/c4x/pkg/theme"
)

const (
	edgeFontSize   = 12
	edgeLineHeight = 14
	edgeCharWidth  = 0.6
	edgeLabelLift  = 6
)

// Option configures Render.
type Option func(*renderer)

// WithTheme selects the colour table. The default is [theme.Default].
func WithTheme(t theme.Theme) Option { return func(r *renderer) { r.theme = t } }

// WithIDPrefix prefixes every id in defs, so several diagrams can be
// inlined into one HTML page.
func WithIDPrefix(p string) Option { return func(r *renderer) { r.prefix = p } }

// WithoutBackground omits the background rectangle.
func WithoutBackground() Option { return func(r *renderer) { r.noBackground = true } }

type renderer struct {
	theme        theme.Theme
	prefix       string
	noBackground bool

	occupied occupancy
}

// Render draws res as an SVG document.
func Render(res *layout.Result, opts ...Option) []byte {
	r := &renderer{theme: theme.Default}
	for _, opt := range opts {
		opt(r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" role="img">`+"\n",
		num(res.Width), num(res.Height), num(res.Width), num(res.Height))
	if !r.noBackground {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
			num(res.Width), num(res.Height), r.theme.Background)
	}
	r.renderDefs(&buf)

	buf.WriteString(`  <g class="boundaries">` + "\n")
	for _, b := range res.Boundaries {
		r.renderBoundary(&buf, b)
	}
	buf.WriteString("  </g>\n")

	rects := make(map[string]layout.Rect, len(res.Elements))
	var leaves []layout.PositionedElement
	buf.WriteString(`  <g class="deployment-nodes">` + "\n")
	for _, pe := range res.Elements {
		rects[pe.Element.ID] = pe.Rect
		if pe.IsCluster() {
			r.renderDeploymentNode(&buf, pe)
			continue
		}
		leaves = append(leaves, pe)
	}
	buf.WriteString("  </g>\n")

	for _, pe := range leaves {
		r.occupied.add(pe.Rect)
	}

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, rel := range res.Relationships {
		r.renderEdge(&buf, rel, rects, res.Kind == c4.ViewDynamic)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, pe := range leaves {
		r.renderElement(&buf, pe)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) id(name string) string { return r.prefix + name }

func (r *renderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <filter id="%s" x="-20%%" y="-20%%" width="140%%" height="140%%">`+
		`<feGaussianBlur in="SourceAlpha" stdDeviation="3" result="blur"/>`+
		`<feOffset in="blur" dx="3" dy="3" result="offsetBlur"/>`+
		`<feComponentTransfer><feFuncA type="linear" slope="0.3"/></feComponentTransfer>`+
		`<feMerge><feMergeNode/><feMergeNode in="SourceGraphic"/></feMerge></filter>`+"\n",
		r.id("drop-shadow"))
	for _, m := range []string{"arrow-uses", "arrow-async", "arrow-sync"} {
		fmt.Fprintf(buf, `    <marker id="%s" markerWidth="8" markerHeight="6" refX="8" refY="3" orient="auto" markerUnits="strokeWidth">`+
			`<path d="M0,0 L8,3 L0,6 z" fill="%s"/></marker>`+"\n",
			r.id(m), r.theme.Relationship.Stroke)
	}
	buf.WriteString("  </defs>\n")
}

func (r *renderer) shadowAttr() string {
	if !r.theme.Shadow {
		return ""
	}
	return fmt.Sprintf(` filter="url(#%s)"`, r.id("drop-shadow"))
}

func marker(t c4.RelType) string {
	switch t {
	case c4.RelAsync:
		return "arrow-async"
	case c4.RelSync:
		return "arrow-sync"
	}
	return "arrow-uses"
}

func dashArray(t c4.RelType) string {
	if t == c4.RelSync {
		return ""
	}
	return "8,4"
}

// edgeLabel returns the text drawn on a connector. Dynamic views prefix the
// sequence number.
func edgeLabel(rel c4.Relationship, dynamic bool) string {
	if dynamic && rel.Order > 0 {
		return fmt.Sprintf("%d: %s", rel.Order, rel.Label)
	}
	return rel.Label
}

func (r *renderer) renderEdge(buf *bytes.Buffer, rr layout.RoutedRelationship, rects map[string]layout.Rect, dynamic bool) {
	rel := rr.Relationship

	var (
		d   string
		mid layout.Point
	)
	from, okF := rects[rel.From]
	to, okT := rects[rel.To]
	switch {
	case okF && rel.From == rel.To:
		var curve [4]layout.Point
		curve, mid = selfLoop(from)
		d = fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s",
			num(curve[0].X), num(curve[0].Y), num(curve[1].X), num(curve[1].Y),
			num(curve[2].X), num(curve[2].Y), num(curve[3].X), num(curve[3].Y))
	case okF && okT:
		var start, end layout.Point
		start, end, mid = connect(from, to)
		d = fmt.Sprintf("M%s,%s L%s,%s", num(start.X), num(start.Y), num(end.X), num(end.Y))
	case len(rr.Points) >= 2:
		start, end := rr.Points[0], rr.Points[len(rr.Points)-1]
		if start == end {
			return
		}
		mid = rr.Points[len(rr.Points)/2]
		d = fmt.Sprintf("M%s,%s L%s,%s", num(start.X), num(start.Y), num(end.X), num(end.Y))
	default:
		return
	}

	fmt.Fprintf(buf, `    <g class="edge" data-id="%s">`+"\n", EscapeXML(rel.ID))
	fmt.Fprintf(buf, `      <path d="%s" fill="none" stroke="%s" stroke-width="%s" marker-end="url(#%s)"`,
		d, r.theme.Relationship.Stroke, num(r.theme.BorderWidth), r.id(marker(rel.Type)))
	if d := dashArray(rel.Type); d != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, d)
	}
	buf.WriteString("/>\n")

	if text := edgeLabel(rel, dynamic); text != "" {
		w := float64(runewidth.StringWidth(text)) * edgeFontSize * edgeCharWidth
		p := r.occupied.place(layout.Point{X: mid.X, Y: mid.Y - edgeLabelLift}, w, edgeLineHeight)
		r.occupied.add(centred(p.X, p.Y, w, edgeLineHeight))
		fmt.Fprintf(buf, `      <text x="%s" y="%s" fill="%s" text-anchor="middle" font-size="%d" font-family="%s">%s</text>`+"\n",
			num(p.X), num(p.Y), r.theme.Relationship.Text, edgeFontSize, EscapeXML(r.theme.FontFamily), EscapeXML(text))
	}
	buf.WriteString("    </g>\n")
}
