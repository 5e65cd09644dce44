// Package cli implements the excheck command-line interface.
//
// This package provides commands for scanning the upstream release tables
// into the version catalog, inspecting the catalog as a tree, probing live
// servers, serving the rendered artifacts over HTTP, and managing the
// response cache. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - scan: Fetch the release tables and write the catalog artifacts
//   - tree: Print the version catalog as a tree
//   - check: Probe a live server and judge its build number
//   - serve: Serve the rendered artifacts over HTTP
//   - cache: Manage the upstream response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/exchangekit/excheck/pkg/buildinfo"
	"github.com/exchangekit/excheck/pkg/cache"
	"github.com/exchangekit/excheck/pkg/config"
	"github.com/exchangekit/excheck/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "excheck"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Excheck tracks Exchange Server versions and their support status",
		Long:         `Excheck builds a catalog of Exchange Server build numbers from the official release tables, classifies every version as supported or dead, and checks live servers against it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/excheck/config.toml)")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default
// location. A missing default file is not an error.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.Logger), nil
}

// newCache builds the cache backend the config selects: Redis when an
// address is configured, a file cache otherwise, and the null cache when
// caching is disabled or no usable directory exists.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.config.Cache.RedisAddr; addr != "" {
		return cache.NewRedisCache(ctx, addr)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/excheck/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// pipelineOptions maps the loaded config onto pipeline options.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		ReleasesURL:   c.config.Sources.ReleasesURL,
		SupportedURL:  c.config.Sources.SupportedURL,
		MaxAge:        c.config.Heuristic.MaxAge(),
		CompareWindow: c.config.Heuristic.CompareWindow(),
	}
}
