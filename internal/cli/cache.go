package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyramidr/pkg/cache"
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and atlas cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and atlases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if _, null := cc.(*cache.NullCache); null || !ok {
				printInfo("Caching is disabled; nothing to clear")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return perrors.Wrap(perrors.ErrCodeInternal, err, "clear cache")
			}

			printSuccess("Cache cleared")
			printDetail("%s", cacheLocation(cc))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.Config.CacheDir())
			return nil
		},
	}
}

func cacheLocation(cc cache.Cache) string {
	switch v := cc.(type) {
	case *cache.FileCache:
		return "Directory: " + v.Dir()
	case *cache.RedisCache:
		return "Redis prefix: " + v.Prefix()
	}
	return ""
}
