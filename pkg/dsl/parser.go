package dsl

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/c4x/pkg/errors"
)

var brRe = regexp.MustCompile(`(?i)<br\s*/?>`)

type scopeKind int

const (
	scopeRoot scopeKind = iota
	scopeSubgraph
	scopeNode
)

// scope is an open brace block.
type scope struct {
	kind     scopeKind
	boundary *RawBoundary
	node     *RawElement
	pos      errors.Pos
}

type parser struct {
	res    *ParseResult
	scopes []scope

	directiveSeen bool
	graphSeen     bool
	bodySeen      bool
}

// Parse parses diagram text. It is a pure function of text and safe to call
// concurrently.
func Parse(text string) (*ParseResult, error) {
	p := &parser{
		res: &ParseResult{
			View:      ViewSystemContext,
			Direction: DirectionTB,
		},
		scopes: []scope{{kind: scopeRoot}},
	}

	for _, l := range preprocess(text) {
		if err := p.statement(l); err != nil {
			return nil, err
		}
	}

	if len(p.scopes) > 1 {
		open := p.scopes[len(p.scopes)-1]
		return nil, errors.At(errors.ErrCodeSyntax, open.pos, "unclosed block: missing '}'")
	}

	if err := p.resolveClasses(); err != nil {
		return nil, err
	}
	return p.res, nil
}

func (p *parser) top() *scope {
	return &p.scopes[len(p.scopes)-1]
}

// =============================================================================
// Statements
// =============================================================================

func (p *parser) statement(l srcLine) error {
	c := newCursor(l)
	c.skipSpace()
	if c.atEOL() {
		return nil
	}
	start := c.i
	pos := c.posAt(start)

	switch {
	case c.hasPrefix("%%{"):
		return p.directive(c, pos)
	case c.hasPrefix("%%"):
		return nil
	case c.peek() == '}':
		c.next()
		if err := expectEOL(c); err != nil {
			return err
		}
		return p.closeScope(pos)
	}

	word := c.ident()
	if word == "" {
		return errors.At(errors.ErrCodeSyntax, pos, "unexpected token %q", c.word())
	}

	if r := c.peek(); r == eol || r == ' ' || r == '\t' {
		switch word {
		case "graph", "flowchart":
			return p.graph(c, pos)
		case "direction":
			return p.direction(c, pos)
		case "subgraph":
			return p.subgraph(c, pos)
		case "classDef":
			return p.classDef(c, pos)
		case "class":
			return p.class(c, pos)
		}
	}

	switch c.peek() {
	case '[':
		return p.node(c, word, pos)
	case '(':
		return p.macro(c, word, pos)
	}

	c.skipSpace()
	switch r := c.peek(); {
	case r == '"':
		return p.anonymous(c, word, pos)
	case isArrowStart(r):
		return p.relationship(c, word, pos)
	case r == eol:
		return errors.At(errors.ErrCodeSyntax, pos, "incomplete statement %q: expected a node definition or a relationship", word)
	default:
		return c.errorf("unexpected token %q", c.word())
	}
}

func expectEOL(c *cursor) error {
	c.skipSpace()
	if !c.atEOL() {
		return c.errorf("unexpected %q at end of statement", c.rest())
	}
	return nil
}

func (p *parser) directive(c *cursor, pos errors.Pos) error {
	body := strings.TrimSpace(c.rest())
	if !strings.HasSuffix(body, "}%%") {
		return errors.At(errors.ErrCodeSyntax, pos, "unterminated directive: missing '}%%%%'")
	}
	key, val, ok := strings.Cut(strings.TrimSuffix(body, "}%%"), ":")
	if !ok || strings.TrimSpace(key) != "c4" {
		// Directives for other tools are comments to us.
		return nil
	}
	if p.directiveSeen {
		return errors.At(errors.ErrCodeSyntax, pos, "duplicate c4 directive")
	}
	if p.bodySeen {
		return errors.At(errors.ErrCodeSyntax, pos, "c4 directive must precede diagram statements")
	}

	view := ViewKind(strings.TrimSpace(val))
	if !view.Valid() {
		return errors.At(errors.ErrCodeSyntax, pos, "unknown view kind %q", string(view))
	}
	p.res.View = view
	p.directiveSeen = true
	return nil
}

func (p *parser) graph(c *cursor, pos errors.Pos) error {
	if p.top().kind != scopeRoot {
		return errors.At(errors.ErrCodeSyntax, pos, "graph statement is only allowed at the top level")
	}
	if p.graphSeen {
		return errors.At(errors.ErrCodeSyntax, pos, "duplicate graph statement")
	}
	if p.bodySeen {
		return errors.At(errors.ErrCodeSyntax, pos, "graph statement must precede diagram statements")
	}

	c.skipSpace()
	dirPos := c.pos()
	word := c.word()
	dir, ok := ParseDirection(word)
	if !ok {
		return errors.At(errors.ErrCodeSyntax, dirPos, "unknown graph direction %q (want TB, BT, LR or RL)", word)
	}
	if err := expectEOL(c); err != nil {
		return err
	}
	p.res.Direction = dir
	p.graphSeen = true
	return nil
}

func (p *parser) direction(c *cursor, pos errors.Pos) error {
	top := p.top()
	if top.kind != scopeSubgraph {
		return errors.At(errors.ErrCodeSyntax, pos, "direction is only allowed inside a subgraph")
	}

	c.skipSpace()
	dirPos := c.pos()
	word := c.word()
	dir, ok := ParseDirection(word)
	if !ok {
		return errors.At(errors.ErrCodeSyntax, dirPos, "unknown direction %q (want TB, BT, LR or RL)", word)
	}
	if err := expectEOL(c); err != nil {
		return err
	}
	top.boundary.Direction = dir
	return nil
}

func (p *parser) subgraph(c *cursor, pos errors.Pos) error {
	if p.top().kind == scopeNode {
		return errors.At(errors.ErrCodeSyntax, pos, "subgraph cannot be declared inside a deployment node")
	}

	b := &RawBoundary{Pos: pos}
	if top := p.top(); top.kind == scopeSubgraph {
		b.Parent = top.boundary
	}
	c.skipSpace()
	if c.peek() == '"' {
		label, err := c.quoted()
		if err != nil {
			return err
		}
		b.Label = label
	} else {
		b.ID = c.ident()
		if b.ID == "" {
			return c.errorf("expected subgraph identifier or quoted label")
		}
		b.Label = b.ID
		if c.peek() == '[' {
			label, err := bracketLabel(c)
			if err != nil {
				return err
			}
			b.Label = label
		}
	}
	if strings.TrimSpace(b.Label) == "" {
		return errors.At(errors.ErrCodeSyntax, pos, "subgraph label cannot be empty")
	}

	c.skipSpace()
	if c.peek() != '{' {
		return c.errorf("expected '{' to open subgraph block")
	}
	c.next()
	if err := expectEOL(c); err != nil {
		return err
	}

	p.bodySeen = true
	p.res.Boundaries = append(p.res.Boundaries, b)
	p.scopes = append(p.scopes, scope{kind: scopeSubgraph, boundary: b, pos: pos})
	return nil
}

// bracketLabel scans ["Label"] or [Label] after a subgraph identifier.
func bracketLabel(c *cursor) (string, error) {
	open := c.pos()
	c.next()
	c.skipSpace()
	if c.peek() == '"' {
		label, err := c.quoted()
		if err != nil {
			return "", err
		}
		c.skipSpace()
		if c.next() != ']' {
			return "", errors.At(errors.ErrCodeSyntax, open, "expected ']' to close subgraph label")
		}
		return label, nil
	}
	rest := c.rest()
	end := strings.IndexRune(rest, ']')
	if end < 0 {
		return "", errors.At(errors.ErrCodeSyntax, open, "expected ']' to close subgraph label")
	}
	c.i += utf8.RuneCountInString(rest[:end]) + 1
	return strings.TrimSpace(rest[:end]), nil
}

func (p *parser) closeScope(pos errors.Pos) error {
	if len(p.scopes) == 1 {
		return errors.At(errors.ErrCodeSyntax, pos, "unexpected '}' with no open block")
	}
	p.scopes = p.scopes[:len(p.scopes)-1]
	return nil
}

func (p *parser) classDef(c *cursor, pos errors.Pos) error {
	c.skipSpace()
	name := c.word()
	if name == "" {
		return c.errorf("classDef requires a class name")
	}
	c.skipSpace()
	p.res.ClassDefs = append(p.res.ClassDefs, ClassDef{
		Name:   name,
		Styles: strings.TrimSpace(c.rest()),
		Pos:    pos,
	})
	return nil
}

func (p *parser) class(c *cursor, pos errors.Pos) error {
	c.skipSpace()
	list := c.word()
	c.skipSpace()
	name := c.word()
	if list == "" || name == "" {
		return errors.At(errors.ErrCodeSyntax, pos, "class statement requires targets and a class name")
	}
	if err := expectEOL(c); err != nil {
		return err
	}

	var targets []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	p.bodySeen = true
	p.res.Classes = append(p.res.Classes, ClassAssignment{Targets: targets, Class: name, Pos: pos})
	return nil
}

// =============================================================================
// Elements
// =============================================================================

// node parses id[Label<br/>Type<br/>extra...].
func (p *parser) node(c *cursor, id string, pos errors.Pos) error {
	open := c.pos()
	c.next()
	rest := c.rest()
	end := strings.LastIndex(rest, "]")
	if end < 0 {
		return errors.At(errors.ErrCodeSyntax, open, "expected ']' to close node definition")
	}
	if trailing := strings.TrimSpace(rest[end+1:]); trailing != "" {
		return errors.At(errors.ErrCodeSyntax, open, "unexpected %q after node definition", trailing)
	}

	segs := brRe.Split(rest[:end], -1)
	label := unquote(strings.TrimSpace(segs[0]))
	if label == "" {
		return errors.At(errors.ErrCodeSyntax, open, "node %q has an empty label", id)
	}
	if len(segs) < 2 || strings.TrimSpace(segs[1]) == "" {
		return errors.At(errors.ErrCodeSyntax, open, "node %q is missing an element type, expected %s[Label<br/>Type]", id, id)
	}

	el := &RawElement{ID: id, Label: label, Type: strings.TrimSpace(segs[1]), Pos: pos}
	for _, s := range segs[2:] {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "$") {
			key, val, ok := splitAttr(s)
			if !ok {
				return errors.At(errors.ErrCodeSyntax, open, "malformed attribute %q, expected $key=\"value\"", s)
			}
			applyAttr(el, key, val)
			continue
		}
		addTag(el, s)
	}
	p.addElement(el, false)
	return nil
}

type macroArg struct {
	text   string
	quoted bool
	pos    errors.Pos
}

// macro parses Kind(id, "Label", "Tech", "Description", $key="value"...),
// optionally followed by '{' to open a deployment block.
func (p *parser) macro(c *cursor, kind string, pos errors.Pos) error {
	c.next()
	args, err := macroArgs(c)
	if err != nil {
		return err
	}
	c.skipSpace()
	opens := false
	if c.peek() == '{' {
		c.next()
		opens = true
	}
	if err := expectEOL(c); err != nil {
		return err
	}

	if len(args) == 0 || args[0].text == "" {
		return errors.At(errors.ErrCodeSyntax, pos, "%s(...) requires an element identifier", kind)
	}
	if args[0].quoted || !isIdent(args[0].text) {
		return errors.At(errors.ErrCodeSyntax, args[0].pos, "invalid element identifier %q", args[0].text)
	}

	el := &RawElement{ID: args[0].text, Type: kind, Pos: pos}
	positional := 0
	for _, a := range args[1:] {
		if !a.quoted && strings.HasPrefix(a.text, "$") {
			key, val, ok := splitAttr(a.text)
			if !ok {
				return errors.At(errors.ErrCodeSyntax, a.pos, "malformed attribute %q, expected $key=\"value\"", a.text)
			}
			applyAttr(el, key, val)
			continue
		}
		switch positional {
		case 0:
			el.Label = a.text
		case 1:
			el.Technology = a.text
		case 2:
			el.Description = a.text
		default:
			return errors.At(errors.ErrCodeSyntax, a.pos, "too many arguments to %s(...)", kind)
		}
		positional++
	}
	if el.Label == "" {
		el.Label = el.ID
	}
	p.addElement(el, opens)
	return nil
}

func macroArgs(c *cursor) ([]macroArg, error) {
	var args []macroArg
	for {
		c.skipSpace()
		if c.peek() == ')' && len(args) == 0 {
			c.next()
			return nil, nil
		}

		arg := macroArg{pos: c.pos()}
		if c.peek() == '"' {
			s, err := c.quoted()
			if err != nil {
				return nil, err
			}
			arg.text, arg.quoted = s, true
		} else {
			start, inQuote := c.i, false
			for !c.atEOL() {
				r := c.peek()
				if r == '"' {
					inQuote = !inQuote
				} else if !inQuote && (r == ',' || r == ')') {
					break
				}
				c.next()
			}
			arg.text = strings.TrimSpace(string(c.runes[start:c.i]))
		}
		args = append(args, arg)

		c.skipSpace()
		switch c.next() {
		case ',':
		case ')':
			return args, nil
		default:
			return nil, c.errorf("expected ',' or ')' in argument list")
		}
	}
}

// anonymous parses Kind "Label" ["Tech"] [$key="value"...] [{].
func (p *parser) anonymous(c *cursor, kind string, pos errors.Pos) error {
	var strs []string
	el := &RawElement{Type: kind, Pos: pos}
	opens := false

loop:
	for {
		c.skipSpace()
		switch r := c.peek(); {
		case r == eol:
			break loop
		case r == '"':
			s, err := c.quoted()
			if err != nil {
				return err
			}
			strs = append(strs, s)
		case r == '$':
			attrPos := c.pos()
			key, val, err := attribute(c)
			if err != nil {
				return errors.At(errors.ErrCodeSyntax, attrPos, "%s", errors.UserMessage(err))
			}
			applyAttr(el, key, val)
		case r == '{':
			c.next()
			opens = true
			if err := expectEOL(c); err != nil {
				return err
			}
			break loop
		default:
			return c.errorf("unexpected token %q", c.word())
		}
	}

	if len(strs) == 0 || strings.TrimSpace(strs[0]) == "" {
		return errors.At(errors.ErrCodeSyntax, pos, "%s requires a quoted label", kind)
	}
	if len(strs) > 3 {
		return errors.At(errors.ErrCodeSyntax, pos, "too many quoted arguments to %s", kind)
	}
	el.Label = strs[0]
	el.ID = strings.Join(strings.Fields(el.Label), "")
	if len(strs) > 1 {
		el.Technology = strs[1]
	}
	if len(strs) > 2 {
		el.Description = strs[2]
	}
	p.addElement(el, opens)
	return nil
}

// attribute scans $key="value" or $key=value at the cursor.
func attribute(c *cursor) (string, string, error) {
	c.next()
	key := c.ident()
	if key == "" || c.next() != '=' {
		return "", "", c.errorf("malformed attribute, expected $key=\"value\"")
	}
	if c.peek() == '"' {
		val, err := c.quoted()
		return key, val, err
	}
	return key, c.word(), nil
}

func (p *parser) addElement(el *RawElement, opens bool) {
	top := p.top()
	switch top.kind {
	case scopeNode:
		top.node.Children = append(top.node.Children, el)
	case scopeSubgraph:
		p.res.Elements = append(p.res.Elements, el)
		top.boundary.Elements = append(top.boundary.Elements, el)
	default:
		p.res.Elements = append(p.res.Elements, el)
	}
	p.bodySeen = true
	if opens {
		p.scopes = append(p.scopes, scope{kind: scopeNode, node: el, pos: el.Pos})
	}
}

// =============================================================================
// Relationships
// =============================================================================

func (p *parser) relationship(c *cursor, from string, pos errors.Pos) error {
	arrowPos := c.pos()
	glyph, ok := c.arrow()
	if !ok {
		return errors.At(errors.ErrCodeSyntax, arrowPos, "unsupported arrow %q (want -->, -.-> or ==>)", glyph)
	}

	rel := RawRelationship{From: from, Arrow: glyph, Pos: pos}
	if c.peek() == '|' {
		c.next()
		rest := c.rest()
		end := strings.IndexRune(rest, '|')
		if end < 0 {
			return c.errorf("unterminated relationship label: missing '|'")
		}
		rel.Label = strings.TrimSpace(rest[:end])
		c.i += utf8.RuneCountInString(rest[:end]) + 1
	}

	c.skipSpace()
	rel.To = c.ident()
	if rel.To == "" {
		return c.errorf("expected relationship target")
	}
	if err := expectEOL(c); err != nil {
		return err
	}

	p.bodySeen = true
	p.res.Relationships = append(p.res.Relationships, rel)
	for i := len(p.scopes) - 1; i > 0; i-- {
		if s := p.scopes[i]; s.kind == scopeSubgraph {
			s.boundary.Relationships = append(s.boundary.Relationships, rel)
			break
		}
	}
	return nil
}

// =============================================================================
// Classes
// =============================================================================

// resolveClasses attaches class tags once the whole document is known, so
// class statements may precede the elements they name and may target
// elements nested anywhere.
func (p *parser) resolveClasses() error {
	if len(p.res.Classes) == 0 {
		return nil
	}

	index := make(map[string][]*RawElement)
	p.res.Walk(func(e *RawElement) bool {
		index[e.ID] = append(index[e.ID], e)
		return true
	})

	for _, ca := range p.res.Classes {
		for _, target := range ca.Targets {
			elems, ok := index[target]
			if !ok {
				return errors.At(errors.ErrCodeUnresolvedRef, ca.Pos, "class %q targets unknown element %q", ca.Class, target)
			}
			for _, e := range elems {
				addTag(e, ca.Class)
			}
		}
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func splitAttr(s string) (string, string, bool) {
	key, val, ok := strings.Cut(strings.TrimPrefix(s, "$"), "=")
	key = strings.TrimSpace(key)
	if !ok || !isIdent(key) {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(val)), true
}

func applyAttr(el *RawElement, key, val string) {
	switch strings.ToLower(key) {
	case "sprite":
		el.Sprite = val
	case "tags":
		for _, t := range strings.Split(val, ",") {
			addTag(el, strings.TrimSpace(t))
		}
	case "techn", "technology":
		el.Technology = val
	case "descr", "description":
		el.Description = val
	default:
		if el.Metadata == nil {
			el.Metadata = make(map[string]string)
		}
		el.Metadata[key] = val
	}
}

func addTag(el *RawElement, tag string) {
	if tag != "" && !el.HasTag(tag) {
		el.Tags = append(el.Tags, tag)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}
