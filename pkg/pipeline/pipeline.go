// Package pipeline wires the c4x compiler stages together.
//
// The four stages are pure functions over immutable inputs:
//
//  1. Parse: grammar parser and model builder (pkg/dsl, pkg/c4)
//  2. Layout: nesting-aware layered layout (pkg/layout)
//  3. Export: serialization to the wire layout (pkg/graph)
//  4. Render: SVG, DOT, Graphviz SVG or JSON artifacts
//
// [Compile] runs them in sequence with no caching and no logging. [Runner]
// adds a cache, structured logging and observability hooks, and is what the
// CLI and HTTP server use.
//
// # Usage
//
//	out, err := pipeline.Compile(ctx, src, pipeline.Options{Formats: []string{"svg"}})
//	svg := out.Artifacts["svg"]
//
// With caching:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	out, err := runner.Execute(ctx, src, opts)
//
// Each compilation builds its own model and layout, so concurrent calls
// share nothing and need no locking.
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/cache"
	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/graph"
	"github.com/matzehuels/c4x/pkg/layout"
	"github.com/matzehuels/c4x/pkg/theme"
)

// DefaultWorkspace names the model when the caller does not.
const DefaultWorkspace = "c4x"

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz" // SVG produced by Graphviz from the DOT export
	FormatJSON     = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
	FormatJSON:     true,
}

// FormatExt maps formats to output file extensions.
var FormatExt = map[string]string{
	FormatSVG:      ".svg",
	FormatDOT:      ".dot",
	FormatGraphviz: ".gv.svg",
	FormatJSON:     ".json",
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, dot, graphviz, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one compilation. It supports JSON for API requests.
type Options struct {
	Workspace string `json:"workspace,omitempty"`

	// Layout tuning. Zero fields take the layout package defaults.
	Layout layout.Options `json:"layout"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Theme        string   `json:"theme,omitempty"`
	Detailed     bool     `json:"detailed,omitempty"` // DOT labels carry technology, tags and metadata
	IDPrefix     string   `json:"id_prefix,omitempty"`
	NoBackground bool     `json:"no_background,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// CustomTheme overrides Theme when set, typically loaded from a file.
	CustomTheme *theme.Theme `json:"-"`
	Logger      *log.Logger  `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workspace == "" {
		o.Workspace = DefaultWorkspace
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.CustomTheme == nil {
		if _, err := theme.Lookup(o.Theme); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolveTheme returns the custom theme if set, otherwise the named
// built-in.
func (o *Options) ResolveTheme() (theme.Theme, error) {
	if o.CustomTheme != nil {
		return *o.CustomTheme, nil
	}
	return theme.Lookup(o.Theme)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Workspace: o.Workspace,
		Tuning:    o.Layout,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format, layoutKey string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Theme:     o.Theme,
		Detailed:  o.Detailed,
		IDPrefix:  o.IDPrefix,
		LayoutKey: layoutKey,
	}
	if o.NoBackground {
		k.IDPrefix += "|nobg"
	}
	if o.CustomTheme != nil {
		data, _ := json.Marshal(o.CustomTheme)
		k.ThemeHash = cache.Hash(data)
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the built model. It is nil when the layout came from cache,
	// because the source was not parsed again.
	Model *c4.Model

	// SourceHash is the SHA-256 of the source text.
	SourceHash string

	// Layout is the serialized layout every artifact was rendered from.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements      int
	Relationships int
	Boundaries    int
	Crossings     int
	ParseTime     time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache, parsing was skipped
	RenderHit bool // every artifact came from cache
}

func statsFor(l graph.Layout) Stats {
	return Stats{
		Elements:      len(l.Nodes),
		Relationships: len(l.Edges),
		Boundaries:    len(l.Boundaries),
		Crossings:     l.Stats.Crossings,
	}
}

func wrapStage(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
