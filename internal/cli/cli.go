// Package cli implements the algotrace command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algotrace/pkg/buildinfo"
	"github.com/matzehuels/algotrace/pkg/cache"
	"github.com/matzehuels/algotrace/pkg/config"
	"github.com/matzehuels/algotrace/pkg/pipeline"
	"github.com/matzehuels/algotrace/pkg/traceclient"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "algotrace"

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

	configPath string
	cfg        config.Config
	loaded     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
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
		Short:        "Algotrace plays back algorithm traces step by step",
		Long:         `Algotrace validates problem instances, fetches execution traces from the trace service and plays them back frame by frame with a narration of every step.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/algotrace/config.toml)")

	// Register all subcommands
	root.AddCommand(c.playCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.algorithmsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once. A log_level of debug in the file
// raises the logger level; it never lowers a level set by --verbose.
func (c *CLI) loadConfig() error {
	if c.loaded {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.loaded = true

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil && level < c.Logger.GetLevel() {
		c.Logger.SetLevel(level)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the trace service client.
// The returned function releases the cache.
func (c *CLI) newRunner(noCache, refresh bool) (*pipeline.Runner, func(), error) {
	opts := c.cfg.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	store, err := cache.Open(opts)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", opts.Backend, "error", err)
		store = cache.NewNullCache()
	}

	client, err := traceclient.New(traceclient.Options{
		BaseURL: c.cfg.Service.BaseURL,
		Cache:   store,
		TTL:     c.cfg.Cache.TTL,
		Retry:   c.cfg.RetryPolicy(),
		Logger:  c.Logger,
		Refresh: refresh,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	runner := pipeline.NewRunner(client, c.cfg.PlaybackOptions, c.Logger)
	return runner, func() { store.Close() }, nil
}
