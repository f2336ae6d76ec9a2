package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached layouts and artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.cfg.CacheOptions()
			switch opts.Backend {
			case "", cache.BackendFile:
			case cache.BackendNone:
				c.printInfo("Caching is disabled")
				return nil
			default:
				return fmt.Errorf("cache clear supports the file backend only; %s entries expire after %s", opts.Backend, c.cfg.Cache.TTL)
			}

			store, err := cache.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer store.Close()

			fc := store.(*cache.FileCache)
			n, err := fc.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				c.printInfo("Cache is empty")
			} else {
				c.printSuccess("Cleared %s", plural(n, "cached entry"))
			}
			c.printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.cfg.CacheOptions()
			switch opts.Backend {
			case "", cache.BackendFile:
				dir := opts.Dir
				if dir == "" {
					dir = cache.DefaultDir()
				}
				fmt.Fprintln(c.out, dir)
			case cache.BackendRedis:
				fmt.Fprintf(c.out, "redis://%s/%d\n", opts.RedisAddr, opts.RedisDB)
			case cache.BackendMongo:
				fmt.Fprintln(c.out, opts.MongoURI)
			default:
				fmt.Fprintln(c.out, opts.Backend)
			}
			return nil
		},
	}
}
