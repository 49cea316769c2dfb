package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/cache"
	"github.com/matzehuels/glyphorbit/pkg/config"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear cached fonts, glyph sets and renders",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cacheStatsCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached entries",
		Long: `Clear empties the configured cache backend and the font validators kept next to
it. With --expired only entries past their TTL are removed (file backend).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			n, err := clearCache(cmd.Context(), cfg.Cache, expired)
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Removed %d cached entries", n)
			printDetail("Backend: %s", cfg.Cache.Backend)
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	return cmd
}

// clearCache empties the backend cfg selects. Validators live on disk for
// every backend and are cleared with it.
func clearCache(ctx context.Context, cfg config.Cache, expiredOnly bool) (int, error) {
	dir, dirErr := resolveCacheDir(cfg)

	if cfg.Backend == config.BackendFile {
		if dirErr != nil {
			return 0, fmt.Errorf("cache dir: %w", dirErr)
		}
		if expiredOnly {
			fc, err := openCacheDir(dir)
			if fc == nil {
				return 0, err
			}
			return fc.Prune(ctx)
		}
		return clearCacheDir(ctx, dir)
	}
	if expiredOnly {
		printWarning("--expired only applies to the file backend; %s entries expire on their own", cfg.Backend)
		return 0, nil
	}

	total := 0
	if dirErr == nil {
		n, err := clearCacheDir(ctx, filepath.Join(dir, httpCacheDir))
		if err != nil {
			return 0, err
		}
		total += n
	}
	if cfg.Backend == config.BackendNone || cfg.Backend == config.BackendMemory {
		return total, nil
	}

	store, err := newCache(ctx, cfg, false)
	if err != nil {
		return total, err
	}
	defer store.Close()
	clearer, ok := store.(cache.Clearer)
	if !ok {
		return total, nil
	}
	n, err := clearer.Clear(ctx)
	return total + n, err
}

// openCacheDir opens dir without creating it. A missing directory yields
// (nil, nil).
func openCacheDir(dir string) (*cache.FileCache, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

// clearCacheDir removes every file below dir. A missing directory is an
// empty cache.
func clearCacheDir(ctx context.Context, dir string) (int, error) {
	fc, err := openCacheDir(dir)
	if fc == nil {
		return 0, err
	}
	return fc.Clear(ctx)
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the file cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := resolveCacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("cache dir: %w", err)
			}
			fc, err := openCacheDir(dir)
			if err != nil {
				return err
			}
			var st cache.Stats
			if fc != nil {
				if st, err = fc.Stats(cmd.Context()); err != nil {
					return err
				}
			}
			printKeyValue("Directory", dir)
			printKeyValue("Backend", cfg.Cache.Backend)
			printKeyValue("Entries", fmt.Sprint(st.Entries))
			printKeyValue("Expired", fmt.Sprint(st.Expired))
			printKeyValue("Validators", fmt.Sprint(st.Other))
			printKeyValue("Size", formatBytes(st.Bytes))
			if st.Expired > 0 {
				printNewline()
				printNextStep("Remove expired entries", appName+" cache clear --expired")
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := resolveCacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("cache dir: %w", err)
			}
			fmt.Fprintln(out, dir)
			return nil
		},
	}
}

// formatBytes renders n with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
