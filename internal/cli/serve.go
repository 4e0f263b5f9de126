package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/armatrix/agent-scratchpad/internal/metrics"
)

const metricsShutdownTimeout = 5 * time.Second

func newServeCmd(flags *rootFlags, info BuildInfo) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scratchpad tools over MCP stdio",
		Long: "Serve reads JSON-RPC requests from stdin and writes responses to stdout until\n" +
			"stdin is closed or the process is interrupted. Logs go to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(flags)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				settings.MetricsAddr = metricsAddr
			}
			logger := newLogger(cmd, settings)

			a, err := newApp(settings, logger, info.Version)
			if err != nil {
				return err
			}
			defer a.store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if settings.MetricsAddr != "" {
				shutdown, err := serveMetrics(settings.MetricsAddr, a.metrics, logger)
				if err != nil {
					return err
				}
				defer shutdown()
			}

			a.store.Start(ctx)
			logger.Info().
				Dur("ttl", a.store.TTL()).
				Str("version", info.Version).
				Msg("scratchpad server starting")

			err = a.server.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			logger.Info().Int("live_sessions", a.store.Count()).Msg("scratchpad server stopped")
			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// serveMetrics binds addr synchronously so a bad address fails serve
// instead of being logged later.
func serveMetrics(addr string, c *metrics.Collector, logger zerolog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	logger.Info().Str("addr", ln.Addr().String()).Msg("metrics endpoint listening")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
