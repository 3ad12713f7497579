package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/1mgroot/Tracil-sub000/internal/server"
)

// closeTimeout bounds resource cleanup after the listener stops.
const closeTimeout = 5 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lineage HTTP API",
		Long: `Run the lineage HTTP API.

The server exposes the pipeline over REST: POST /api/v1/analyze traces a
variable through the inference backend, POST /api/v1/layout lays out a
lineage graph supplied in the request body, and /api/v1/snapshots stores
analysis results for later retrieval.

Configuration comes from a TOML file; flags override it.

Examples:
  tracil serve
  tracil serve --config tracil.toml
  tracil serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe loads config, builds the server, and blocks until shutdown.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	srv, err := server.New(ctx, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	defer func() {
		// ctx is already cancelled once Serve returns.
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := srv.Close(closeCtx); err != nil {
			c.Logger.Warn("server close", "err", err)
		}
	}()

	c.Logger.Info("serving lineage API", "addr", cfg.Addr, "upstream", cfg.Upstream.URL)
	return srv.Serve(ctx)
}
