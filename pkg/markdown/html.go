package markdown

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ToHTML converts a markdown document to an HTML fragment. Diagram blocks
// become inline SVG; failed blocks become a <div class="c4x-error"> with
// the escaped diagnostic. Other fenced blocks keep goldmark's rendering.
func ToHTML(ctx context.Context, src []byte, w io.Writer, opts Options) (Stats, error) {
	fr := &fenceRenderer{ctx: ctx, opts: opts}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(fr, 100)),
		),
	)
	err := md.Convert(src, w)
	return fr.stats, err
}

// Page wraps an HTML fragment in a minimal standalone document.
func Page(title string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	buf.WriteString(pageStyle)
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

const pageStyle = `<style>
body { max-width: 960px; margin: 2rem auto; padding: 0 1rem; font-family: -apple-system, "Segoe UI", Arial, sans-serif; line-height: 1.5; }
.c4x-diagram { margin: 1.5rem 0; overflow-x: auto; }
.c4x-diagram svg { max-width: 100%; height: auto; }
.c4x-error { border: 1px solid #dc2626; background: #fee; color: #991b1b; padding: 0.5rem 1rem; border-radius: 4px; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; }
</style>
`

type fenceRenderer struct {
	ctx   context.Context
	opts  Options
	stats Stats
	next  int
}

func (r *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFence)
}

func (r *fenceRenderer) renderFence(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	fcb := n.(*ast.FencedCodeBlock)
	lang := string(fcb.Language(source))

	var body bytes.Buffer
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		body.Write(seg.Value(source))
	}

	if lang != Language {
		_, _ = w.WriteString("<pre><code")
		if lang != "" {
			_, _ = w.WriteString(` class="language-` + html.EscapeString(lang) + `"`)
		}
		_, _ = w.WriteString(">")
		_, _ = w.WriteString(html.EscapeString(body.String()))
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkSkipChildren, nil
	}

	index := r.next
	r.next++
	block := Block{Index: index}
	if lines.Len() > 0 {
		block.Line = lineOf(source, lines.At(0).Start) - 1
	}
	block.SVG, block.Err = compileBlock(r.ctx, body.String(), index, r.opts)
	r.stats.Blocks = append(r.stats.Blocks, block)

	if block.Err != nil {
		_, _ = w.WriteString(`<div class="c4x-error" role="alert"><strong>c4x error</strong><pre>`)
		_, _ = w.WriteString(html.EscapeString(ErrorLine(block.Err, block.Line+1)))
		_, _ = w.WriteString("</pre></div>\n")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString(`<div class="c4x-diagram">`)
	_, _ = w.Write(block.SVG)
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}
