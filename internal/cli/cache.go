package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/cache"
	"github.com/matzehuels/tscproj/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the transform result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// fileCacheDir returns the directory of the file cache, honoring the
// cache_dir setting.
func (c *CLI) fileCacheDir() (string, error) {
	if dir := c.settings().CacheDir; dir != "" {
		return dir, nil
	}
	return cacheDir()
}

// openFileCache opens the file cache. Other backends are reported and
// skipped since they are managed outside tscproj.
func (c *CLI) openFileCache() (*cache.FileCache, bool, error) {
	if backend := c.settings().Cache; backend != config.CacheFile {
		printInfo("Cache backend is %q; nothing to manage locally", backend)
		return nil, false, nil
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		return nil, false, fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, false, err
	}
	return fc, true, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if err != nil || !ok {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached %s", count, plural(count, "entry", "entries"))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
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
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if err != nil || !ok {
				return err
			}
			entries, size, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprint(entries))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}
