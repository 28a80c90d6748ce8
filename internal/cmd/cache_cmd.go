package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/cache"
	"github.com/swparks/sw-cli/internal/config"
	"github.com/swparks/sw-cli/internal/outfmt"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the response cache",
		Long:    "Park lists and countries are cached for 30 minutes in the user cache directory, or in Redis when SW_REDIS_URL is set.",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func resolveCacheDir() string {
	if dir := os.Getenv("SW_CACHE_DIR"); dir != "" {
		return dir
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return ""
	}
	return dir
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached responses",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			dir := resolveCacheDir()
			if dir == "" {
				return fmt.Errorf("could not determine cache directory")
			}
			removed := cache.ClearAll(dir)

			redisRemoved := 0
			if cfg, err := config.ResolveClientConfig(flags.Profile, flags.BaseURL); err == nil && cfg.RedisURL != "" {
				store, err := cache.NewRedisStore(cfg.RedisURL, cache.DefaultTTL)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				if redisRemoved, err = store.ClearAll(ctx); err != nil {
					return fmt.Errorf("failed to clear redis cache: %w", err)
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"dir": dir, "removed": removed, "redis_removed": redisRemoved})
			}
			out := outfmt.GetIO(ctx).Out
			_, _ = fmt.Fprintf(out, "Cache cleared: %s (%d files)\n", dir, removed)
			if redisRemoved > 0 {
				_, _ = fmt.Fprintf(out, "Redis entries removed: %d\n", redisRemoved)
			}
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the cache directory and its entries",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir := resolveCacheDir()
			if dir == "" {
				return fmt.Errorf("could not determine cache directory")
			}
			out := outfmt.GetIO(cmdContext(cmd)).Out
			_, _ = fmt.Fprintln(out, dir)

			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil // not created yet
			}
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				_, _ = fmt.Fprintf(out, "  %s (%d bytes)\n", e.Name(), info.Size())
			}
			return nil
		}),
	}
}
