package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyramidr/internal/server"
	"github.com/matzehuels/pyramidr/pkg/config"
	"github.com/matzehuels/pyramidr/pkg/observability"
	"github.com/matzehuels/pyramidr/pkg/pipeline"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	pack      packFlags
	addr      string
	maxUpload int64
	maxPixels int64
	noCache   bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes layout planning and atlas rendering over HTTP.

  POST /v1/layout   JSON {"width","height","ratio","min_dim","padding","alignment"}
  POST /v1/atlas    raw image body, parameters in the query string

Packing flags set the defaults requests start from. The server stops
gracefully on SIGINT or SIGTERM.`,
		Example: `  pyramidr serve --addr :9000
  PYRAMIDR_REDIS_URL=redis://localhost:6379/0 pyramidr serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pack.applyConfig(cmd, c.Config.Pack)
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				opts.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("max-upload") && c.Config.Server.MaxUploadBytes != 0 {
				opts.maxUpload = c.Config.Server.MaxUploadBytes
			}
			if !cmd.Flags().Changed("max-pixels") && c.Config.Server.MaxSourcePixels != 0 {
				opts.maxPixels = c.Config.Server.MaxSourcePixels
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runServe(ctx, opts)
		},
	}

	opts.pack.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Int64Var(&opts.maxUpload, "max-upload", server.DefaultMaxUploadBytes, "largest accepted request body in bytes")
	cmd.Flags().Int64Var(&opts.maxPixels, "max-pixels", server.DefaultMaxSourcePixels, "largest accepted source image in pixels (width × height)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := server.New(runner, logger, serverConfig(opts, c.Config))
	printInfo("Serving on %s", StyleHighlight.Render(opts.addr))
	return srv.ListenAndServe(ctx)
}

// serverConfig merges flags and the [server] and [pack] config sections.
func serverConfig(opts *serveOpts, cfg *config.Config) server.Config {
	defaults := opts.pack.options()
	defaults.Format = pipeline.DefaultFormat
	defaults.Filter = cfg.Pack.Filter
	defaults.Background = cfg.Pack.Background
	defaults.Workers = cfg.Pack.Workers
	defaults.JPEGQuality = cfg.Pack.Quality
	defaults.FastPNG = cfg.Pack.FastPNG
	return server.Config{
		Addr:            opts.addr,
		MaxUploadBytes:  opts.maxUpload,
		MaxSourcePixels: opts.maxPixels,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		Defaults:        defaults,
	}
}
