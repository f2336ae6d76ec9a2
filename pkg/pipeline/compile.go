package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/c4x/pkg/cache"
)

// Compile runs parse, layout and render with no cache, logging or hooks.
func Compile(ctx context.Context, src string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	out := &Result{SourceHash: cache.Hash([]byte(src))}

	start := time.Now()
	m, err := Parse(src, opts.Workspace)
	if err != nil {
		return nil, err
	}
	out.Model = m
	parseTime := time.Since(start)

	start = time.Now()
	out.Layout = Layout(m, opts.Layout)
	layoutTime := time.Since(start)

	start = time.Now()
	artifacts, err := Render(ctx, out.Layout, opts)
	if err != nil {
		return nil, wrapStage("render", err)
	}
	out.Artifacts = artifacts

	out.Stats = statsFor(out.Layout)
	out.Stats.ParseTime = parseTime
	out.Stats.LayoutTime = layoutTime
	out.Stats.RenderTime = time.Since(start)
	return out, nil
}
