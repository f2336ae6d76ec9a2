package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/c4x/pkg/c4"
)

func (c *CLI) validateCommand() *cobra.Command {
	jobs := runtime.NumCPU()

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check diagrams for syntax and reference errors",
		Long: `Parse and build each diagram without laying it out. Every problem is
printed as file:line:column: message, and the command fails if any diagram
is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args, jobs)
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", jobs, "diagrams checked in parallel")
	return cmd
}

type validateResult struct {
	path  string
	model *c4.Model
	err   error
}

func (c *CLI) runValidate(ctx context.Context, files []string, jobs int) error {
	runner, err := c.newRunner(ctx, true, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	results := make([]validateResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))

	for i, path := range files {
		g.Go(func() error {
			r := validateResult{path: path}
			src, err := os.ReadFile(path)
			if err != nil {
				r.err = err
			} else {
				r.model, r.err = runner.Validate(gctx, string(src), workspaceName(path))
			}
			results[i] = r
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			c.printDiagnostic(r.path, r.err)
			continue
		}
		v := r.model.View()
		c.printSuccess("%s %s", r.path, StyleDim.Render(fmt.Sprintf("(%s, %s, %s)",
			v.Kind, plural(v.Count(), "element"), plural(len(v.Relationships), "relationship"))))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d diagrams invalid", failed, len(files))
	}
	return nil
}
