package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/pipeline"
)

// Language is the fence info word that marks a diagram block.
const Language = "c4x"

// ErrorLanguage is the fence info word of a block that replaces a diagram
// which failed to compile.
const ErrorLanguage = "c4x-error"

// CompileFunc compiles one diagram. pipeline.Compile and
// (*pipeline.Runner).Execute both satisfy it.
type CompileFunc func(ctx context.Context, src string, opts pipeline.Options) (*pipeline.Result, error)

// Options configures block rendering.
type Options struct {
	// Theme names the built-in theme used for every block.
	Theme string
	// Compile defaults to pipeline.Compile.
	Compile CompileFunc
}

// Block describes one diagram block found in a document.
type Block struct {
	Index int    // 0-based position among diagram blocks
	Line  int    // 1-based document line of the opening fence
	Err   error  // compile error, nil on success
	SVG   []byte // rendered diagram, nil on failure
}

// Stats summarises a Render call.
type Stats struct {
	Blocks []Block
}

// Failed returns the blocks that did not compile.
func (s Stats) Failed() []Block {
	var out []Block
	for _, b := range s.Blocks {
		if b.Err != nil {
			out = append(out, b)
		}
	}
	return out
}

// fence is the byte range of one diagram block including both fence lines.
type fence struct {
	start, end int // [start, end) in the source
	line       int // 1-based line of the opening fence
	bodyLine   int // 1-based line of the first content line
	body       string
}

// Render rewrites every ```c4x fenced block of src into an inline SVG
// wrapped in <div class="c4x-diagram">. A block that fails to compile is
// replaced by a ```c4x-error block holding "line:column: message", with the
// line counted from the top of the document. All other text is copied
// byte for byte.
func Render(ctx context.Context, src []byte, opts Options) ([]byte, Stats, error) {
	fences := findFences(src)
	var stats Stats
	if len(fences) == 0 {
		return src, stats, nil
	}

	var out bytes.Buffer
	last := 0
	for i, f := range fences {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		out.Write(src[last:f.start])
		last = f.end

		block := Block{Index: i, Line: f.line}
		block.SVG, block.Err = compileBlock(ctx, f.body, i, opts)
		stats.Blocks = append(stats.Blocks, block)

		if block.Err != nil {
			writeErrorBlock(&out, block.Err, f.bodyLine)
		} else {
			out.WriteString(`<div class="c4x-diagram">`)
			out.WriteByte('\n')
			out.Write(bytes.TrimRight(block.SVG, "\n"))
			out.WriteString("\n</div>\n")
		}
	}
	out.Write(src[last:])
	return out.Bytes(), stats, nil
}

func compileBlock(ctx context.Context, body string, index int, opts Options) ([]byte, error) {
	compile := opts.Compile
	if compile == nil {
		compile = pipeline.Compile
	}
	res, err := compile(ctx, body, pipeline.Options{
		Workspace: "markdown-block",
		Formats:   []string{pipeline.FormatSVG},
		Theme:     opts.Theme,
		IDPrefix:  fmt.Sprintf("c4x%d-", index),
	})
	if err != nil {
		return nil, err
	}
	return res.Artifacts[pipeline.FormatSVG], nil
}

// ErrorLine formats err as "line:column: message". bodyLine shifts the
// position from block-relative to document-relative; errors without a
// position are reported at the first line of the block.
func ErrorLine(err error, bodyLine int) string {
	msg := errors.UserMessage(err)
	pos, ok := errors.PosOf(err)
	if !ok {
		pos = errors.Pos{Line: 1, Column: 1}
	}
	return fmt.Sprintf("%d:%d: %s", pos.Line+bodyLine-1, pos.Column, msg)
}

func writeErrorBlock(out *bytes.Buffer, err error, bodyLine int) {
	out.WriteString("```" + ErrorLanguage + "\n")
	out.WriteString(strings.ReplaceAll(ErrorLine(err, bodyLine), "```", "'''"))
	out.WriteString("\n```\n")
}

// findFences locates diagram blocks with goldmark's CommonMark parser, so
// fences inside other code blocks, indented code and HTML are ignored.
func findFences(src []byte) []fence {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var fences []fence
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil || string(fcb.Language(src)) != Language {
			return ast.WalkContinue, nil
		}

		openStart := lineStart(src, fcb.Info.Segment.Start)
		bodyStart := lineEnd(src, fcb.Info.Segment.Start)
		var body strings.Builder
		bodyEnd := bodyStart
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(src))
			bodyEnd = seg.Stop
		}

		fences = append(fences, fence{
			start:    openStart,
			end:      closingFenceEnd(src, bodyEnd),
			line:     lineOf(src, openStart),
			bodyLine: lineOf(src, openStart) + 1,
			body:     body.String(),
		})
		return ast.WalkSkipChildren, nil
	})
	return fences
}

func lineStart(src []byte, i int) int {
	return bytes.LastIndexByte(src[:i], '\n') + 1
}

// lineEnd returns the index just past the newline ending the line that
// contains i, or len(src).
func lineEnd(src []byte, i int) int {
	if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(src)
}

func lineOf(src []byte, i int) int {
	return bytes.Count(src[:i], []byte{'\n'}) + 1
}

// closingFenceEnd returns the end of the closing fence line that follows
// the block body at i. An unclosed block runs to the end of the document.
func closingFenceEnd(src []byte, i int) int {
	if i >= len(src) {
		return len(src)
	}
	end := lineEnd(src, i)
	line := strings.TrimSpace(string(src[i:end]))
	if len(line) >= 3 && (strings.Trim(line, "`") == "" || strings.Trim(line, "~") == "") {
		return end
	}
	return i
}
