package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/c4x/pkg/pipeline"
)

// stdoutPath selects standard output as the destination.
const stdoutPath = "-"

type renderOpts struct {
	output  string
	formats string
	jobs    int
	noCache bool
	compileFlags
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Compile diagrams to SVG, DOT or JSON",
		Long: `Compile one or more .c4x diagrams.

With a single input, -o names the output file (or its base name when several
formats are requested). With several inputs, -o names an output directory.
Use -o - to write a single artifact to stdout.`,
		Example: `  c4x render system.c4x
  c4x render system.c4x -f svg,json -o out/system
  c4x render diagrams/*.c4x -o build -j 4 --theme modern`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path, directory, or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, dot, graphviz, json (comma-separated)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "diagrams compiled in parallel")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	opts.compileFlags.register(cmd)

	return cmd
}

// fileResult is the outcome of compiling one input file.
type fileResult struct {
	path    string
	res     *pipeline.Result
	outputs []string
	err     error
}

func (c *CLI) runRender(ctx context.Context, files []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var formats []string
	if opts.formats != "" {
		formats = pipeline.ParseFormats(opts.formats)
	}
	popts, err := c.compileOptions(opts.compileFlags, formats)
	if err != nil {
		return err
	}

	toStdout := opts.output == stdoutPath
	if toStdout && (len(files) > 1 || len(popts.Formats) > 1) {
		return fmt.Errorf("-o - needs exactly one input and one format")
	}

	runner, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(opts.jobs, len(files))))

	for i, path := range files {
		g.Go(func() error {
			r := fileResult{path: path}
			r.res, r.err = c.compileFile(gctx, runner, path, popts)
			if r.err == nil && !toStdout {
				r.outputs, r.err = writeArtifacts(r.res, popts.Formats, outputPaths(path, opts.output, popts.Formats, len(files) > 1))
			}
			results[i] = r
			// Failures are reported per file; only cancellation stops the batch.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if toStdout {
		r := results[0]
		if r.err != nil {
			return r.err
		}
		_, err := c.out.Write(r.res.Artifacts[popts.Formats[0]])
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			c.printDiagnostic(r.path, r.err)
			continue
		}
		c.printSuccess("Rendered %s", r.path)
		c.printStats(r.res.Stats, r.res.CacheInfo.LayoutHit)
		for _, out := range r.outputs {
			c.printFile(out)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d diagrams failed", failed, len(files))
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(len(files), "diagram")))
	return nil
}

func (c *CLI) compileFile(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*pipeline.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts.Workspace = workspaceName(path)
	return runner.Execute(ctx, string(src), opts)
}

// outputPaths maps each format to its destination file.
func outputPaths(input, output string, formats []string, multi bool) map[string]string {
	paths := make(map[string]string, len(formats))
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	for _, f := range formats {
		ext := pipeline.FormatExt[f]
		switch {
		case output == "":
			paths[f] = strings.TrimSuffix(input, filepath.Ext(input)) + ext
		case multi:
			paths[f] = filepath.Join(output, stem+ext)
		case len(formats) == 1:
			paths[f] = output
		default:
			paths[f] = basePath(output) + ext
		}
	}
	return paths
}

// basePath strips a known output extension from path.
func basePath(path string) string {
	for _, ext := range []string{".gv.svg", ".svg", ".dot", ".json"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// writeArtifacts writes the artifact of each format and returns the
// written paths in format order.
func writeArtifacts(res *pipeline.Result, formats []string, paths map[string]string) ([]string, error) {
	var written []string
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, err
			}
		}
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
