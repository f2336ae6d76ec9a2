package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/c4x/pkg/graph"
	"github.com/matzehuels/c4x/pkg/render/nodelink"
	"github.com/matzehuels/c4x/pkg/render/svg"
)

// Render produces every requested format from a serialized layout.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	res, err := l.ToResult()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(viewFromResult(res), nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			th, err := opts.ResolveTheme()
			if err != nil {
				return nil, err
			}
			svgOpts := []svg.Option{svg.WithTheme(th)}
			if opts.IDPrefix != "" {
				svgOpts = append(svgOpts, svg.WithIDPrefix(opts.IDPrefix))
			}
			if opts.NoBackground {
				svgOpts = append(svgOpts, svg.WithoutBackground())
			}
			artifacts[format] = svg.Render(res, svgOpts...)
		case FormatJSON:
			data, err := graph.MarshalLayout(l)
			if err != nil {
				return nil, fmt.Errorf("marshal layout: %w", err)
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(dotSource())
		case FormatGraphviz:
			data, err := nodelink.RenderSVG(ctx, dotSource())
			if err != nil {
				return nil, fmt.Errorf("graphviz: %w", err)
			}
			artifacts[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}
