package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cloudplot/cloudplot/internal/server"
	"github.com/cloudplot/cloudplot/pkg/config"
	"github.com/cloudplot/cloudplot/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cloudplot HTTP API server",
		Long: `Serve starts the HTTP API exposing render, validate, icon and saved
diagram endpoints. Backends (cache, diagram store) are selected via
the TOML config file; flags override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to cloudplot.toml")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	pipelineCache, err := config.OpenCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	st, err := config.OpenStore(ctx, cfg.Store)
	if err != nil {
		_ = pipelineCache.Close()
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	runner := pipeline.NewRunner(pipelineCache, nil, c.Logger)
	defer runner.Close()

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend)

	srv := server.New(runner, st, c.Logger)
	return srv.Start(ctx, cfg.Server.Addr)
}
