// Package cli implements the tscproj command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tscproj/pkg/cache"
	"github.com/matzehuels/tscproj/pkg/config"
	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/pipeline"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tscproj"

	// cachePrefix scopes CLI cache keys away from other tscproj clients
	// sharing a Redis instance.
	cachePrefix = "cli"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before the first command runs unless preset.
	Config *config.Loaded

	// Confirm asks a yes/no question. Nil uses the interactive prompt.
	Confirm func(prompt string) (bool, error)

	// Store receives analysis reports. Nil connects to MongoDB on demand.
	Store store.Store
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// settings returns the effective configuration.
func (c *CLI) settings() *config.Config {
	if c.Config == nil {
		return config.Default()
	}
	return c.Config.Config
}

// confirm asks prompt through Confirm or the interactive model.
func (c *CLI) confirm(prompt string) (bool, error) {
	if c.Confirm != nil {
		return c.Confirm(prompt)
	}
	return runConfirm(prompt)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cachePrefix)
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.settings()
	if noCache || cfg.Cache == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := cfg.CacheDir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Debug("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Project I/O
// =============================================================================

// loadProject loads path leniently unless strict is set.
func (c *CLI) loadProject(path string, strict bool) (*project.Project, error) {
	l := project.NewLoader(c.Logger)
	l.StrictVersion = strict
	return l.LoadFile(path)
}

// saveProject writes p back to path using the configured layout.
func (c *CLI) saveProject(p *project.Project, path string, backup bool) (string, error) {
	cfg := c.settings()
	s := &project.Saver{
		EnsureASCII: cfg.EnsureASCII,
		Backup:      backup,
		Logger:      c.Logger,
	}
	switch {
	case cfg.Indent < 0:
		s.Compact = true
	case cfg.Indent > 0:
		s.Indent = strings.Repeat(" ", cfg.Indent)
	}
	data, err := s.Encode(p.ToTree())
	if err != nil {
		return "", err
	}
	return s.SaveBytes(data, path)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tscproj/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Errors
// =============================================================================

// ReportError prints err as a single styled line and logs the full chain
// at debug level. Validation errors list each problem underneath.
func (c *CLI) ReportError(err error) {
	c.Logger.Debug("command failed", "code", errors.GetCode(err), "error", err)
	printError("%s", errors.UserMessage(err))
	if ve := validationErrors(err); ve != nil {
		for _, msg := range ve.Errors {
			printDetail("%s", msg)
		}
	}
}
