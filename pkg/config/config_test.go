package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/cache"
	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/layout"
)

const fullConfig = `
theme = "modern"
format = "svg,json"

[layout]
node_sep = 120
rank_sep = 140
margin = 40
sweeps = 8

[layout.boundary_padding]
top = 70
bottom = 40
left = 30
right = 30

[layout.sizes.container]
width = 280
height = 150

[layout.sizes."Software System"]
width = 300
height = 160

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
ttl = "24h"

[server]
addr = ":9000"
rate_limit = 5
burst = 10
max_body_bytes = 4096
`

func TestParse(t *testing.T) {
	cfg, err := Parse(fullConfig)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Theme != "modern" {
		t.Errorf("Theme = %q, want modern", cfg.Theme)
	}
	if got := strings.Join(cfg.Formats(), ","); got != "svg,json" {
		t.Errorf("Formats() = %v, want svg,json", got)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.RateLimit != 5 || cfg.Server.Burst != 10 || cfg.Server.MaxBodyBytes != 4096 {
		t.Errorf("Server = %+v", cfg.Server)
	}

	opts := cfg.LayoutOptions()
	if opts.NodeSep != 120 || opts.RankSep != 140 || opts.Margin != 40 || opts.Sweeps != 8 {
		t.Errorf("LayoutOptions() = %+v", opts)
	}
	if want := (layout.Padding{Top: 70, Bottom: 40, Left: 30, Right: 30}); opts.BoundaryPadding != want {
		t.Errorf("BoundaryPadding = %+v, want %+v", opts.BoundaryPadding, want)
	}
	if opts.NodePadding != (layout.Padding{}) {
		t.Errorf("NodePadding = %+v, want zero (engine default)", opts.NodePadding)
	}
	if s := opts.Sizes[c4.Container]; s.Width != 280 || s.Height != 150 {
		t.Errorf("Sizes[Container] = %+v", s)
	}
	if s := opts.Sizes[c4.SoftwareSystem]; s.Width != 300 {
		t.Errorf("Sizes[SoftwareSystem] = %+v", s)
	}

	co := cfg.CacheOptions()
	if co.Backend != cache.BackendRedis || co.RedisAddr != "localhost:6379" || co.RedisDB != 2 {
		t.Errorf("CacheOptions() = %+v", co)
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\") error = %v", err)
	}
	d := Default()
	if cfg.Format != d.Format || cfg.Cache != d.Cache || cfg.Server != d.Server {
		t.Errorf("Parse(\"\") = %+v, want %+v", cfg, d)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if opts := d.LayoutOptions(); opts.Sizes != nil {
		t.Errorf("Default().LayoutOptions().Sizes = %v, want nil", opts.Sizes)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "colour = \"red\"", "colour"},
		{"unknown nested key", "[server]\nport = 80", "server.port"},
		{"bad toml", "theme = ", "decode config"},
		{"unknown theme", "theme = \"neon\"", "neon"},
		{"bad format", "format = \"png\"", "png"},
		{"bad backend", "[cache]\nbackend = \"memcached\"", "memcached"},
		{"negative spacing", "[layout]\nnode_sep = -1", "negative"},
		{"unknown size type", "[layout.sizes.queue]\nwidth = 1\nheight = 1", "queue"},
		{"zero size", "[layout.sizes.person]\nwidth = 0\nheight = 10", "positive"},
		{"negative ttl", "[cache]\nttl = \"-1h\"", "ttl"},
		{"negative burst", "[server]\nburst = -1", "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("theme = \"muted\"\ntheme_file = \"brand.toml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if want := filepath.Join(dir, "brand.toml"); cfg.ThemePath() != want {
		t.Errorf("ThemePath() = %q, want %q", cfg.ThemePath(), want)
	}

	if _, err := cfg.PipelineOptions(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("PipelineOptions() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}

	brand := "name = \"brand\"\n[person]\nfill = \"#112233\"\nstroke = \"#000000\"\ntext = \"#FFFFFF\"\n"
	if err := os.WriteFile(filepath.Join(dir, "brand.toml"), []byte(brand), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := cfg.PipelineOptions()
	if err != nil {
		t.Fatalf("PipelineOptions() error = %v", err)
	}
	if opts.CustomTheme == nil || opts.CustomTheme.Name != "brand" {
		t.Errorf("CustomTheme = %+v, want brand", opts.CustomTheme)
	}
	if opts.Theme != "muted" {
		t.Errorf("Theme = %q, want muted", opts.Theme)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("nope = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(bad) error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") error = %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty without a config file", cfg.Path)
	}

	xdg := filepath.Join(dir, "xdg", "c4x", "config.toml")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, []byte("theme = \"muted\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if cfg, _ := Resolve(""); cfg.Theme != "muted" {
		t.Errorf("Resolve() via XDG Theme = %q, want muted", cfg.Theme)
	}

	if err := os.WriteFile(FileName, []byte("theme = \"modern\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if path, ok := Find(); !ok || path != FileName {
		t.Errorf("Find() = %q, %v, want %q, true", path, ok, FileName)
	}
	if cfg, _ := Resolve(""); cfg.Theme != "modern" {
		t.Errorf("Resolve() Theme = %q, want modern (local file wins)", cfg.Theme)
	}
}
