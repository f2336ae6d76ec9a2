package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/cache"
	"github.com/matzehuels/c4x/pkg/observability"
	"github.com/matzehuels/c4x/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Start an HTTP server exposing POST /v1/render, /v1/validate and /v1/layout,
GET /v1/themes and /healthz. Address, rate limit and body limit come from
the [server] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}

			// Left unvalidated so each request's theme and format are checked.
			base, err := c.cfg.PipelineOptions()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, "api:"))
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

			srv := server.New(runner, server.Options{
				Addr:         sc.Addr,
				RateLimit:    sc.RateLimit,
				Burst:        sc.Burst,
				MaxBodyBytes: sc.MaxBodyBytes,
				Compile:      base,
				Logger:       c.Logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
