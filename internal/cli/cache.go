package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the apply and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached graphs and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.clearCache(cmd.Context())
		},
	}
}

func (c *CLI) clearCache(ctx context.Context) error {
	if c.config.Cache.Backend != backendFile {
		printWarning(c.Out, "Cache backend %q cannot be cleared from the CLI", c.config.Cache.Backend)
		return nil
	}

	ch, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer ch.Close()

	fc, ok := ch.(*cache.FileCache)
	if !ok {
		printInfo(c.Out, "Cache is disabled")
		return nil
	}
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo(c.Out, "Cache is empty")
		return nil
	}
	printSuccess(c.Out, "Cleared %d cached entries", n)
	printDetail(c.Out, "Directory: %s", fc.Dir())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}
