// Package cli implements the stackgraph command-line interface.
//
// # Commands
//
//   - render: compile a diagram (or a layout file) to svg, png, jpg, pdf, json or dot
//   - layout: compute a layout and write it as JSON
//   - inspect: browse the computed ranks and positions in a table
//   - serve: run the HTTP API
//   - cache: manage the local layout cache
//   - completion: generate shell completion scripts
//
// All commands accept --verbose (-v) for debug logging and --config to
// point at a TOML configuration file.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgraph/pkg/buildinfo"
	"github.com/matzehuels/stackgraph/pkg/cache"
	"github.com/matzehuels/stackgraph/pkg/compiler"
	"github.com/matzehuels/stackgraph/pkg/config"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	"github.com/matzehuels/stackgraph/pkg/observability"
	"github.com/matzehuels/stackgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stackgraph"

	// stdinPath reads the diagram from standard input.
	stdinPath = "-"
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
	Logger     *log.Logger
	configPath string
	cfg        config.Config
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
		Use:           appName,
		Short:         "Stackgraph compiles text diagrams into layered graph drawings",
		Long:          `Stackgraph reads a small flowchart language and lays the graph out in ranks, producing SVG, raster, PDF, JSON or DOT output.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.SetCacheHooks(cacheLogger{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stackgraph/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default config file when it exists.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
		c.Logger.Debug("loaded config", "path", c.configPath)
		return nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return nil
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newCompiler builds a compiler from the loaded configuration.
func (c *CLI) newCompiler() (*compiler.Compiler, error) {
	m, err := c.cfg.Measurer()
	if err != nil {
		return nil, err
	}
	return &compiler.Compiler{
		Metrics: m,
		Sizing:  c.cfg.SizingOptions(),
		Layout:  c.cfg.LayoutOptions(),
		Theme:   c.cfg.RenderTheme(),
		Logger:  c.Logger,
	}, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	comp, err := c.newCompiler()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, c.newKeyer(noCache), comp, c.Logger)
	if ttl := c.cfg.Cache.TTL.Duration; ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// newKeyer scopes keys for a shared Mongo collection. Redis applies the
// prefix itself.
func (c *CLI) newKeyer(noCache bool) cache.Keyer {
	if noCache || c.cfg.Cache.Backend != cache.BackendMongo || c.cfg.Cache.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, c.cfg.Cache.Prefix)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := c.cfg.CacheOptions()
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackgraph/).
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

// readSource reads diagram text from path, or from stdin for "-".
func readSource(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(io.LimitReader(stdin, apperr.MaxSourceBytes+1))
	} else {
		if err := apperr.ValidatePath(path); err != nil {
			return "", err
		}
		data, err = os.ReadFile(path)
		if os.IsNotExist(err) {
			return "", apperr.New(apperr.ErrCodeFileNotFound, "file not found: %s", path)
		}
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if err := apperr.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
