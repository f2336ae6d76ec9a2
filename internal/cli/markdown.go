package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/markdown"
	"github.com/matzehuels/c4x/pkg/pipeline"
)

type markdownOpts struct {
	output  string
	html    bool
	strict  bool
	noCache bool
	theme   string
}

func (c *CLI) markdownCommand() *cobra.Command {
	opts := markdownOpts{output: stdoutPath}
	cmd := &cobra.Command{
		Use:   "markdown <file.md>",
		Short: "Replace ```c4x blocks in a markdown file with inline SVG",
		Long: `Rewrite every fenced code block tagged c4x into an inline SVG diagram.
Blocks that fail to compile are replaced by a c4x-error block naming the
line and column of the problem. With --html the whole document is
converted to a standalone HTML page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMarkdown(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().BoolVar(&opts.html, "html", false, "emit a standalone HTML page")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when any diagram block does not compile")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "built-in theme for every diagram")
	return cmd
}

func (c *CLI) runMarkdown(ctx context.Context, path string, opts markdownOpts) error {
	logger := loggerFromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	theme := opts.theme
	if theme == "" {
		theme = c.cfg.Theme
	}
	mdOpts := markdown.Options{
		Theme: theme,
		Compile: func(ctx context.Context, src string, o pipeline.Options) (*pipeline.Result, error) {
			o.Layout = c.cfg.LayoutOptions()
			o.Logger = logger
			return runner.Execute(ctx, src, o)
		},
	}

	var (
		out   []byte
		stats markdown.Stats
	)
	sp := startSpinner(ctx, "Rendering "+path)
	if opts.html {
		var body bytes.Buffer
		stats, err = markdown.ToHTML(ctx, src, &body, mdOpts)
		sp.Stop()
		if err != nil {
			return err
		}
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out = markdown.Page(title, body.Bytes())
	} else {
		out, stats, err = markdown.Render(ctx, src, mdOpts)
		sp.Stop()
		if err != nil {
			return err
		}
	}

	failed := stats.Failed()
	for _, b := range failed {
		logger.Warn("diagram block failed", "file", path, "block", b.Index+1, "line", b.Line, "err", b.Err)
	}
	logger.Debug("rendered markdown", "blocks", len(stats.Blocks), "failed", len(failed))

	if opts.strict && len(failed) > 0 {
		return ErrReported
	}
	if opts.output == stdoutPath || opts.output == "" {
		_, err = c.out.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return err
	}
	c.printSuccess("Wrote %s %s", opts.output,
		StyleDim.Render("("+plural(len(stats.Blocks), "diagram")+")"))
	return nil
}
