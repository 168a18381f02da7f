package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgraph/pkg/buildinfo"
	"github.com/matzehuels/stackgraph/pkg/cache"
	"github.com/matzehuels/stackgraph/pkg/server"
)

type serveOpts struct {
	addr     string
	redisURL string
	mongoURI string
	noCache  bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

  POST /graph?format=svg   body is diagram source
  GET  /health

Compile errors answer 406 with a JSON body {"code", "message"}. Results are
cached in the configured backend; --redis or --mongo select a shared one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "cache in Redis at this URL, e.g. redis://localhost:6379/0")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "cache in MongoDB at this URI")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("redis", "mongo", "no-cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	switch {
	case opts.redisURL != "":
		c.cfg.Cache.Backend = cache.BackendRedis
		c.cfg.Cache.RedisURL = opts.redisURL
	case opts.mongoURI != "":
		c.cfg.Cache.Backend = cache.BackendMongo
		c.cfg.Cache.MongoURI = opts.mongoURI
	}
	if opts.addr != "" {
		c.cfg.Server.Addr = opts.addr
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sc := c.cfg.Server
	srv := server.New(runner, server.Options{
		Addr:           sc.Addr,
		MaxBodyBytes:   sc.MaxBodyBytes,
		CompileTimeout: sc.CompileTimeout.Duration,
		ReadTimeout:    sc.ReadTimeout.Duration,
		WriteTimeout:   sc.WriteTimeout.Duration,
		Version:        buildinfo.Version,
		Logger:         c.Logger,
	})
	c.Logger.Info("starting server", append(buildinfo.Fields(), "cache", c.cfg.Cache.Backend)...)
	return srv.ListenAndServe(ctx)
}
