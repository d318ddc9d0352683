package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpview/internal/config"
	"github.com/matzehuels/bpview/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the blueprint response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return clearCache(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			loc, err := cacheLocation(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// clearCache empties the configured backend, Redis or the file cache.
func clearCache(ctx context.Context, w io.Writer, cfg *config.Config) error {
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()

		n, err := rc.Clear(ctx)
		if err != nil {
			return err
		}
		printSuccess(w, "Cleared %d cached entries", n)
		printDetail(w, "Redis: %s", cfg.Cache.RedisURL)
		return nil
	}

	dir, err := cacheLocation(cfg)
	if err != nil {
		return err
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo(w, "Cache is empty")
		return nil
	}
	printSuccess(w, "Cleared %d cached entries", n)
	printDetail(w, "Directory: %s", dir)
	return nil
}

// cacheLocation returns the Redis URL or the cache directory.
func cacheLocation(cfg *config.Config) (string, error) {
	if cfg.Cache.RedisURL != "" {
		return cfg.Cache.RedisURL, nil
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}
