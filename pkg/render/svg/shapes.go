package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/layout"
	"github.com/matzehuels/c4x/pkg/theme"
)

const (
	personIconHeight = 40
	personHeadRadius = 12
	personBodyWidth  = 32
	personBodyHeight = 18

	iconSize  = 28
	iconInset = 8
)

var typeNames = map[c4.ElementType]string{
	c4.Person:         "Person",
	c4.SoftwareSystem: "Software System",
	c4.Container:      "Container",
	c4.Component:      "Component",
	c4.DeploymentNode: "Deployment Node",
}

// typeLine is the bracketed second text line, e.g. "[Container: Go]".
func typeLine(e *c4.Element) string {
	name := typeNames[e.Type]
	if name == "" {
		name = string(e.Type)
	}
	if e.Technology != "" {
		return "[" + name + ": " + e.Technology + "]"
	}
	return "[" + name + "]"
}

type textLine struct {
	text  string
	size  float64
	attrs string
}

// elementLines returns the title, type and tag lines of a box. Empty lines
// are dropped.
func (r *renderer) elementLines(e *c4.Element, secondary float64) []textLine {
	var lines []textLine
	if e.Label != "" {
		lines = append(lines, textLine{text: e.Label, size: r.theme.FontSize, attrs: ` font-weight="bold"`})
	}
	lines = append(lines, textLine{text: typeLine(e), size: secondary, attrs: ` font-style="italic"`})
	if len(e.Tags) > 0 {
		lines = append(lines, textLine{text: strings.Join(e.Tags, ", "), size: secondary})
	}
	return lines
}

func (r *renderer) writeLines(buf *bytes.Buffer, lines []textLine, cx, y, lineHeight float64, color string) {
	for _, l := range lines {
		fmt.Fprintf(buf, `      <text x="%s" y="%s" fill="%s" text-anchor="middle" font-size="%s" font-family="%s"%s>%s</text>`+"\n",
			num(cx), num(y), color, num(l.size), EscapeXML(r.theme.FontFamily), l.attrs, EscapeXML(l.text))
		y += lineHeight
	}
}

func (r *renderer) rect(buf *bytes.Buffer, b layout.Rect, c theme.Colors) {
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		num(b.X), num(b.Y), num(b.Width), num(b.Height),
		num(r.theme.BorderRadius), num(r.theme.BorderRadius), c.Fill, c.Stroke, num(r.theme.BorderWidth))
}

func (r *renderer) renderElement(buf *bytes.Buffer, pe layout.PositionedElement) {
	e := pe.Element
	c := r.theme.ElementColors(e.Type, e.IsExternal())
	cx := pe.X + pe.Width/2

	class := "node"
	if e.Type == c4.Person {
		class = "node person"
	}
	fmt.Fprintf(buf, `    <g class="%s" data-id="%s"%s>`+"\n", class, EscapeXML(e.ID), r.shadowAttr())
	r.rect(buf, pe.Rect, c)

	if e.Type == c4.Person {
		r.personIcon(buf, cx, pe.Y, c.Stroke)
		const lineHeight = 15
		lines := r.elementLines(e, 11)
		areaY, areaH := pe.Y+personIconHeight, pe.Height-personIconHeight
		start := areaY + (areaH-float64(len(lines)*lineHeight))/2 + lineHeight - 2
		r.writeLines(buf, lines, cx, start, lineHeight, c.Text)
	} else {
		const lineHeight = 16
		lines := r.elementLines(e, 12)
		start := pe.Y + (pe.Height-float64(len(lines)*lineHeight))/2 + lineHeight
		r.writeLines(buf, lines, cx, start, lineHeight, c.Text)
	}

	if e.Sprite != "" {
		r.renderIcon(buf, e.Sprite, pe.X+iconInset, pe.Y+iconInset, c.Stroke)
	}
	buf.WriteString("    </g>\n")
}

// personIcon draws the head and shoulders glyph at the top of a person box.
func (r *renderer) personIcon(buf *bytes.Buffer, cx, top float64, color string) {
	headY := top + personHeadRadius + 8
	bodyTop := headY + personHeadRadius - 2
	bottom := bodyTop + personBodyHeight
	left, right := cx-personBodyWidth/2, cx+personBodyWidth/2

	buf.WriteString(`      <g class="person-icon">`)
	fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%d" fill="%s"/>`, num(cx), num(headY), personHeadRadius, color)
	fmt.Fprintf(buf, `<path d="M %s %s Q %s %s %s %s Q %s %s %s %s Z" fill="%s"/>`,
		num(left), num(bottom), num(left), num(bodyTop), num(cx), num(bodyTop),
		num(right), num(bodyTop), num(right), num(bottom), color)
	buf.WriteString("</g>\n")
}

// renderIcon draws a sprite scaled from its 100×100 box. Unknown sprites
// leave an empty group so the document shape does not depend on the
// sprite library.
func (r *renderer) renderIcon(buf *bytes.Buffer, name string, x, y float64, color string) {
	body, _ := LookupSprite(name)
	fmt.Fprintf(buf, `      <g class="element-icon" data-sprite="%s" transform="translate(%s,%s) scale(%s)" style="color:%s">%s</g>`+"\n",
		EscapeXML(name), num(x), num(y), num(iconSize/100.0), color, body)
}

func (r *renderer) renderDeploymentNode(buf *bytes.Buffer, pe layout.PositionedElement) {
	e := pe.Element
	c := r.theme.DeploymentColors()
	cx := pe.X + pe.Width/2

	fmt.Fprintf(buf, `    <g class="deployment-node" data-id="%s">`+"\n", EscapeXML(e.ID))
	r.rect(buf, pe.Rect, c)
	lines := r.elementLines(e, 12)
	if len(e.Tags) > 0 {
		lines = lines[:len(lines)-1]
	}
	r.writeLines(buf, lines, cx, pe.Y+28, 18, c.Text)
	if e.Sprite != "" {
		r.renderIcon(buf, e.Sprite, pe.X+iconInset, pe.Y+iconInset, c.Stroke)
	}
	buf.WriteString("    </g>\n")
}

func (r *renderer) renderBoundary(buf *bytes.Buffer, pb layout.PositionedBoundary) {
	fmt.Fprintf(buf, `    <g class="boundary" data-id="%s">`+"\n", EscapeXML(pb.Boundary.ID))
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="8" ry="8" fill="none" stroke="%s" stroke-width="2" stroke-dasharray="8,4" opacity="0.7"/>`+"\n",
		num(pb.X), num(pb.Y), num(pb.Width), num(pb.Height), r.theme.Relationship.Stroke)
	fmt.Fprintf(buf, `      <text x="%s" y="%s" fill="%s" font-size="14" font-family="%s" font-weight="bold">%s</text>`+"\n",
		num(pb.X+10), num(pb.Bottom()-10), r.theme.Relationship.Text, EscapeXML(r.theme.FontFamily), EscapeXML(pb.Boundary.Label))
	buf.WriteString("    </g>\n")
}
