// Package pkg holds the libraries behind c4x, a compiler for C4 architecture
// diagrams written in a Mermaid-like notation.
//
// # Overview
//
// A diagram flows through four stages, each in its own package:
//
//	source text
//	     ↓
//	[dsl] package (parse statements, keep line and column)
//	     ↓
//	[c4] package (normalise types, resolve references, build the model)
//	     ↓
//	[layout] package (nesting-aware layered layout on [dag])
//	     ↓
//	[render/svg] or [render/nodelink] (SVG, DOT, Graphviz SVG)
//
// [pipeline] strings the stages together, caches layouts and artifacts
// through [cache], and reports progress through [observability]. The
// serialized form of a layout lives in [graph].
//
// # Quick Start
//
//	res, err := pipeline.Compile(ctx, src, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	    Theme:   "modern",
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("system.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// # Surfaces
//
// The c4x command (internal/cli) wraps the pipeline for files, markdown
// documents and a watch mode. [server] exposes the same operations over
// HTTP. [config] reads c4x.toml and [theme] holds the built-in palettes.
package pkg
