package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/cache"
	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/layout"
	"github.com/matzehuels/c4x/pkg/pipeline"
	"github.com/matzehuels/c4x/pkg/theme"
)

// FileName is the project-local configuration file looked up by [Find].
const FileName = "c4x.toml"

// Config is the decoded configuration file.
type Config struct {
	Theme     string `toml:"theme"`
	ThemeFile string `toml:"theme_file"`
	Format    string `toml:"format"` // comma-separated output formats

	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// Path is the file the configuration was loaded from, empty for
	// [Default].
	Path string `toml:"-"`
}

// LayoutConfig tunes the layout engine. Zero values keep the engine
// defaults.
type LayoutConfig struct {
	NodeSep         float64                `toml:"node_sep"`
	RankSep         float64                `toml:"rank_sep"`
	Margin          float64                `toml:"margin"`
	Sweeps          int                    `toml:"sweeps"`
	ClusterPadding  layout.Padding         `toml:"cluster_padding"`
	BoundaryPadding layout.Padding         `toml:"boundary_padding"`
	Sizes           map[string]layout.Size `toml:"sizes"` // keyed by element type, any accepted spelling
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"`
	TTL             time.Duration `toml:"ttl"`
	RedisAddr       string        `toml:"redis_addr"`
	RedisDB         int           `toml:"redis_db"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
}

// ServerConfig configures `c4x serve`.
type ServerConfig struct {
	Addr         string  `toml:"addr"`
	RateLimit    float64 `toml:"rate_limit"` // requests per second per client, 0 disables
	Burst        int     `toml:"burst"`
	MaxBodyBytes int64   `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format: pipeline.FormatSVG,
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			RateLimit:    10,
			Burst:        20,
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Load reads path on top of [Default]. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes a TOML document on top of [Default] and validates it.
func Parse(doc string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find returns the first configuration file that exists: ./c4x.toml, then
// c4x/config.toml under the user config directory ($XDG_CONFIG_HOME or
// ~/.config on Linux).
func Find() (string, bool) {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "c4x", "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Resolve loads path when it is set, otherwise the file found by [Find],
// otherwise [Default].
func Resolve(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	if found, ok := Find(); ok {
		return Load(found)
	}
	return Default(), nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	if c.Theme != "" {
		if _, err := theme.Lookup(c.Theme); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormats(c.Formats()); err != nil {
		return err
	}

	l := c.Layout
	if l.NodeSep < 0 || l.RankSep < 0 || l.Margin < 0 || l.Sweeps < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout spacing must not be negative")
	}
	for name, s := range l.Sizes {
		if _, ok := c4.NormalizeType(name); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.sizes: unknown element type %q", name)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.sizes.%s: width and height must be positive", name)
		}
	}

	backends := []string{"", cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (want file, redis, mongo or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if c.Server.RateLimit < 0 || c.Server.Burst < 0 || c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server limits must not be negative")
	}
	return nil
}

// Formats returns the configured output formats.
func (c Config) Formats() []string {
	return pipeline.ParseFormats(c.Format)
}

// LayoutOptions maps the [layout] section onto engine options. Size keys
// that do not normalise are skipped; [Config.Validate] reports them.
func (c Config) LayoutOptions() layout.Options {
	opts := layout.Options{
		NodeSep:         c.Layout.NodeSep,
		RankSep:         c.Layout.RankSep,
		Margin:          c.Layout.Margin,
		Sweeps:          c.Layout.Sweeps,
		NodePadding:     c.Layout.ClusterPadding,
		BoundaryPadding: c.Layout.BoundaryPadding,
	}
	if len(c.Layout.Sizes) > 0 {
		opts.Sizes = make(map[c4.ElementType]layout.Size, len(c.Layout.Sizes))
		for name, s := range c.Layout.Sizes {
			if typ, ok := c4.NormalizeType(name); ok {
				opts.Sizes[typ] = s
			}
		}
	}
	return opts
}

// CacheOptions maps the [cache] section onto backend options.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:         c.Cache.Backend,
		Dir:             c.Cache.Dir,
		RedisAddr:       c.Cache.RedisAddr,
		RedisDB:         c.Cache.RedisDB,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
	}
}

// PipelineOptions builds compile options from the file. A relative
// theme_file is resolved against the directory of the configuration file.
func (c Config) PipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Layout:  c.LayoutOptions(),
		Formats: c.Formats(),
		Theme:   c.Theme,
	}
	if c.ThemeFile != "" {
		t, err := theme.LoadFile(c.ThemePath())
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.CustomTheme = &t
	}
	return opts, nil
}

// ThemePath returns ThemeFile resolved against the configuration file.
func (c Config) ThemePath() string {
	if c.ThemeFile == "" || filepath.IsAbs(c.ThemeFile) || c.Path == "" {
		return c.ThemeFile
	}
	return filepath.Join(filepath.Dir(c.Path), c.ThemeFile)
}
