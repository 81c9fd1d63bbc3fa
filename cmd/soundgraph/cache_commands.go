package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"soundgraph/internal/catalogcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the MusicBrainz response cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd.OutOrStdout(), func(store *catalogcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printCacheStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func printCacheStats(out io.Writer, stats catalogcache.Stats) {
	const stampLayout = "2006-01-02 15:04"
	fmt.Fprintf(out, "Path:    %s\n", stats.Path)
	fmt.Fprintf(out, "Entries: %d (%d expired)\n", stats.Entries, stats.Expired)
	fmt.Fprintf(out, "Size:    %s\n", humanBytes(stats.Bytes))
	if stats.Entries == 0 {
		return
	}
	stamp := func(t time.Time) string {
		if t.IsZero() {
			return "unknown"
		}
		return t.Local().Format(stampLayout)
	}
	fmt.Fprintf(out, "Oldest:  %s\n", stamp(stats.Oldest))
	fmt.Fprintf(out, "Newest:  %s\n", stamp(stats.Newest))
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd.OutOrStdout(), func(store *catalogcache.Store) error {
				removed, err := store.Prune(cmd.Context())
				if err != nil {
					return err
				}
				if removed == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cache entries pruned")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired responses\n", removed)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd.OutOrStdout(), func(store *catalogcache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses\n", removed)
				return nil
			})
		},
	}
}

// withCache opens the configured cache for fn, or explains that it is off.
func withCache(ctx *commandContext, out io.Writer, fn func(*catalogcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		fmt.Fprintln(out, "Catalog cache is disabled (set enabled = true under [cache] in config.toml)")
		return nil
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	store, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}
