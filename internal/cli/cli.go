// Package cli implements the c4x command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/buildinfo"
	"github.com/matzehuels/c4x/pkg/cache"
	"github.com/matzehuels/c4x/pkg/config"
	"github.com/matzehuels/c4x/pkg/observability"
	"github.com/matzehuels/c4x/pkg/pipeline"
)

const appName = "c4x"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrReported is returned by commands that already printed their
// diagnostics. main exits non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out io.Writer // command output; diagnostics and logs go to Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a CLI that logs to w at level and prints results to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "c4x compiles C4 architecture diagrams to SVG",
		Long: `c4x compiles a Mermaid-like text notation for C4 architecture diagrams
(system context, container, component, deployment and dynamic views) into
laid-out SVG, Graphviz DOT and JSON layouts.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./c4x.toml or ~/.config/c4x/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.markdownCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, loads the
// configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.Logger.SetLevel(LogDebug)
		observability.SetPipelineHooks(observability.NewLogHooks(c.Logger))
		observability.SetCacheHooks(observability.NewLogHooks(c.Logger))
	}

	cfg, err := config.Resolve(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// newRunner opens the configured cache backend and wraps it in a runner.
// keyer may be nil.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	opts := c.cfg.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.cfg.Cache.TTL
	return r, nil
}
