package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/cache"
	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/graph"
	"github.com/matzehuels/c4x/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is applied to every cache write. Zero keeps entries forever.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute compiles src into every requested format, reusing cached layouts
// and artifacts when the source and options are unchanged.
func (r *Runner) Execute(ctx context.Context, src string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{SourceHash: cache.Hash([]byte(src))}

	layoutStart := time.Now()
	l, layoutKey, hit, err := r.layoutWithCacheInfo(ctx, src, result, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.CacheInfo.LayoutHit = hit
	stats := statsFor(l)
	stats.ParseTime, stats.LayoutTime = result.Stats.ParseTime, result.Stats.LayoutTime
	result.Stats = stats
	if hit {
		opts.Logger.Info("layout from cache", "elements", stats.Elements, "duration", time.Since(layoutStart))
	} else {
		opts.Logger.Info("computed layout",
			"elements", stats.Elements,
			"relationships", stats.Relationships,
			"crossings", stats.Crossings,
			"duration", stats.LayoutTime)
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, l, layoutKey, result.SourceHash, opts)
	if err != nil {
		return nil, wrapStage("render", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Validate parses and builds src without laying it out. It never touches
// the cache.
func (r *Runner) Validate(ctx context.Context, src, workspace string) (*c4.Model, error) {
	if workspace == "" {
		workspace = DefaultWorkspace
	}
	return r.parse(ctx, src, workspace)
}

// parse runs Parse between the pipeline hooks.
func (r *Runner) parse(ctx context.Context, src, workspace string) (*c4.Model, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(src))
	start := time.Now()
	m, err := Parse(src, workspace)
	if err != nil {
		hooks.OnParseComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnParseComplete(ctx, m.View().Count(), time.Since(start), nil)
	return m, nil
}

// layoutWithCacheInfo returns the layout for src and its cache key. On a
// miss it parses, lays out and stores the result; timings land in result.
func (r *Runner) layoutWithCacheInfo(ctx context.Context, src string, result *Result, opts Options) (graph.Layout, string, bool, error) {
	key := r.Keyer.LayoutKey(result.SourceHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		var cached graph.Layout
		hit, err := cache.GetJSON(ctx, r.Cache, key, &cached)
		if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		if hit && cached.Validate() == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeLayout)
			return cached, key, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	start := time.Now()
	m, err := r.parse(ctx, src, opts.Workspace)
	result.Stats.ParseTime = time.Since(start)
	if err != nil {
		return graph.Layout{}, "", false, err
	}
	view := m.View()
	result.Model = m
	opts.Logger.Debug("parsed diagram",
		"view", view.Kind,
		"elements", view.Count(),
		"duration", result.Stats.ParseTime)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(view.Kind), view.Count())
	start = time.Now()
	l := Layout(m, opts.Layout)
	result.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, string(view.Kind), l.Stats.Crossings, result.Stats.LayoutTime, nil)

	r.store(ctx, key, keyTypeLayout, l, opts)
	return l, key, false, nil
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, l graph.Layout, layoutKey, sourceHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format, layoutKey))
	}

	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keys[format])
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keys[format], data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return rendered, false, nil
}

func (r *Runner) store(ctx context.Context, key, keyType string, v graph.Layout, opts Options) {
	data, err := graph.MarshalLayout(v)
	if err != nil {
		opts.Logger.Warn("cache encode failed", "key", key, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// IsUserError reports whether err was caused by the diagram source or the
// request rather than by the runner itself.
func IsUserError(err error) bool {
	switch errors.KindOf(err) {
	case errors.KindSyntax, errors.KindSemantic:
		return true
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidTheme:
		return true
	}
	return false
}
