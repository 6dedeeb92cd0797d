// Package cli implements the treemap command-line interface.
//
// Trees come from a directory ("scan"), a research-paper CSV dataset
// ("papers") or a saved JSON snapshot. The CLI renders them to files,
// explores them interactively in the terminal, serves them over HTTP and
// keeps edit sessions between runs.
//
// # Commands
//
//   - scan: Render a directory tree as a treemap
//   - papers: Render a citation dataset as a treemap
//   - explore: Browse and edit a tree in the terminal
//   - serve: Expose a tree over the HTTP API
//   - session: List, show and remove saved sessions
//   - cache: Manage the tree and artifact cache
//   - config: Create and inspect the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// turns on the observability hooks of the pipeline, cache and server.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/session"
)

// appName is the application name used for directories and display.
const appName = config.AppName

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
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Treemap explores size-weighted trees as nested rectangles",
		Long:         `Treemap lays out weighted trees (directories, citation datasets) as space-filling rectangles whose areas are proportional to size, and lets you explore and edit them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treemap/config.toml)")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.papersCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration file on first use.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "session", cfg.Session.Backend)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	if ttl := cfg.Cache.TTL.Duration; ttl > 0 {
		r.TreeTTL = ttl
	}
	return r, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newStore opens the configured session store.
func (c *CLI) newStore(ctx context.Context) (session.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Session.Backend == config.SessionMongo {
		return session.NewMongoStore(ctx, cfg.Session.URI, cfg.Session.Database)
	}
	dir, err := cfg.SessionDir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
