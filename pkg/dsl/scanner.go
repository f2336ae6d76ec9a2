package dsl

import (
	"strings"
	"unicode"

	"github.com/matzehuels/c4x/pkg/errors"
)

const eol = -1

// cursor scans a single source line rune by rune, tracking the 1-based
// column of the current rune.
type cursor struct {
	runes []rune
	i     int
	line  int
}

func newCursor(l srcLine) *cursor {
	return &cursor{runes: []rune(l.Text), line: l.No}
}

func (c *cursor) pos() errors.Pos {
	return errors.Pos{Line: c.line, Column: c.i + 1}
}

func (c *cursor) posAt(i int) errors.Pos {
	return errors.Pos{Line: c.line, Column: i + 1}
}

func (c *cursor) errorf(format string, args ...any) error {
	return errors.At(errors.ErrCodeSyntax, c.pos(), format, args...)
}

func (c *cursor) atEOL() bool { return c.i >= len(c.runes) }

func (c *cursor) peek() rune {
	if c.atEOL() {
		return eol
	}
	return c.runes[c.i]
}

func (c *cursor) peekN(n int) rune {
	if c.i+n >= len(c.runes) {
		return eol
	}
	return c.runes[c.i+n]
}

func (c *cursor) next() rune {
	r := c.peek()
	if r != eol {
		c.i++
	}
	return r
}

func (c *cursor) skipSpace() {
	for !c.atEOL() && unicode.IsSpace(c.runes[c.i]) {
		c.i++
	}
}

// hasPrefix reports whether the remaining input starts with s, consuming it
// when it does.
func (c *cursor) hasPrefix(s string) bool {
	rs := []rune(s)
	if c.i+len(rs) > len(c.runes) {
		return false
	}
	for k, r := range rs {
		if c.runes[c.i+k] != r {
			return false
		}
	}
	c.i += len(rs)
	return true
}

// rest returns the unconsumed remainder of the line.
func (c *cursor) rest() string {
	if c.atEOL() {
		return ""
	}
	return string(c.runes[c.i:])
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ident scans an identifier. It returns "" without consuming anything when
// the cursor is not at one.
func (c *cursor) ident() string {
	start := c.i
	for !c.atEOL() && isIdentRune(c.runes[c.i]) {
		c.i++
	}
	return string(c.runes[start:c.i])
}

// word scans up to the next whitespace.
func (c *cursor) word() string {
	start := c.i
	for !c.atEOL() && !unicode.IsSpace(c.runes[c.i]) {
		c.i++
	}
	return string(c.runes[start:c.i])
}

// quoted scans a double-quoted string. A backslash escapes the next rune.
func (c *cursor) quoted() (string, error) {
	start := c.i
	if c.next() != '"' {
		c.i = start
		return "", c.errorf("expected '\"'")
	}
	var sb strings.Builder
	for {
		r := c.next()
		switch r {
		case eol:
			c.i = start
			return "", c.errorf("unterminated string")
		case '\\':
			if esc := c.next(); esc != eol {
				sb.WriteRune(esc)
			}
		case '"':
			return sb.String(), nil
		default:
			sb.WriteRune(r)
		}
	}
}

// arrow scans a relationship arrow. It returns the glyph and true when a
// recognised arrow is found; for arrow-like garbage it returns the offending
// text and false.
func (c *cursor) arrow() (string, bool) {
	for _, a := range []string{ArrowAsync, ArrowUses, ArrowSync} {
		if c.hasPrefix(a) {
			return a, true
		}
	}
	start := c.i
	for !c.atEOL() && strings.ContainsRune("-=.<>", c.runes[c.i]) {
		c.i++
	}
	return string(c.runes[start:c.i]), false
}

func isArrowStart(r rune) bool {
	return r == '-' || r == '=' || r == '<' || r == '.'
}
