package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/pipeline"
)

// singleOpts configures the one-file, one-artifact commands.
type singleOpts struct {
	output  string
	noCache bool
	compileFlags
}

func (c *CLI) layoutCommand() *cobra.Command {
	var opts singleOpts
	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Export the computed layout as JSON",
		Long: `Compute the layout of a diagram and print it as JSON: every element with
its absolute position, size, parent and depth, every boundary rectangle,
and every relationship with its routed points.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSingle(cmd.Context(), args[0], pipeline.FormatJSON, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", stdoutPath, "output file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	return cmd
}

func (c *CLI) dotCommand() *cobra.Command {
	var (
		opts   singleOpts
		viaSVG bool
	)
	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Export a diagram as Graphviz DOT",
		Long: `Print the diagram as a Graphviz digraph. Deployment nodes and boundaries
become nested clusters. With --svg, the DOT is rendered by the embedded
Graphviz instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := pipeline.FormatDOT
			if viaSVG {
				format = pipeline.FormatGraphviz
			}
			return c.runSingle(cmd.Context(), args[0], format, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", stdoutPath, "output file")
	cmd.Flags().BoolVar(&viaSVG, "svg", false, "render the DOT with Graphviz and output SVG")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include technology, tags and metadata in labels")
	return cmd
}

func (c *CLI) runSingle(ctx context.Context, path, format string, opts singleOpts) error {
	popts, err := c.compileOptions(opts.compileFlags, []string{format})
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.compileFile(ctx, runner, path, popts)
	if err != nil {
		c.printDiagnostic(path, err)
		return ErrReported
	}

	data := res.Artifacts[format]
	if opts.output == stdoutPath || opts.output == "" {
		_, err = c.out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	c.printSuccess("Wrote %s", opts.output)
	return nil
}
