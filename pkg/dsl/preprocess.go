package dsl

import (
	"regexp"
	"strings"
)

var (
	graphStmtRe = regexp.MustCompile(`(?m)^\s*(?:graph|flowchart)(?:[ \t]|$)`)
	directiveRe = regexp.MustCompile(`^\s*%%\{.*\}%%\s*$`)
)

// defaultGraphStmt is injected when a document has no graph statement.
const defaultGraphStmt = "graph TB"

// srcLine is one physical line handed to the parser. No is the 1-based line
// number in the user's text, or 0 for an injected line.
type srcLine struct {
	Text string
	No   int
}

// preprocess splits text into lines and injects the default graph statement
// after the first directive line, or at the top when there is none.
func preprocess(text string) []srcLine {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")

	lines := make([]srcLine, 0, len(raw)+1)
	for i, l := range raw {
		lines = append(lines, srcLine{Text: l, No: i + 1})
	}
	if graphStmtRe.MatchString(text) {
		return lines
	}

	insertAt := 0
	for i, l := range lines {
		if directiveRe.MatchString(l.Text) {
			insertAt = i + 1
			break
		}
	}

	out := make([]srcLine, 0, len(lines)+1)
	out = append(out, lines[:insertAt]...)
	out = append(out, srcLine{Text: defaultGraphStmt})
	out = append(out, lines[insertAt:]...)
	return out
}
