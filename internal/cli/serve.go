package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/logging"
	"github.com/rshade/amlscreen/internal/metrics"
	"github.com/rshade/amlscreen/internal/web"
)

// NewServeCmd creates the command serving the browser form.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the screening form over HTTP",
		Long: `Serves the screening form as an HTML page, plus /healthz and Prometheus
metrics at /metrics. Stops gracefully on SIGINT or SIGTERM.`,
		Example: `  # Listen on the configured address
  amlscreen serve

  # Listen on all interfaces
  amlscreen serve --addr :8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
			}
			cmd.Printf("Serving on http://%s\n", ln.Addr())
			return runServer(ctx, cfg, ln, cmd.Root().Version)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config server.addr)")

	return cmd
}

// runServer serves the web front-end on ln until ctx is cancelled, then
// shuts down within the configured timeout.
func runServer(ctx context.Context, cfg *config.Config, ln net.Listener, ver string) error {
	log := logging.FromContext(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	client, err := newScreeningClient(cfg, m)
	if err != nil {
		return err
	}

	srv, err := web.NewServer(client,
		web.WithLogger(baseLogger),
		web.WithGatherer(reg),
		web.WithVersion(ver),
	)
	if err != nil {
		return fmt.Errorf("building web server: %w", err)
	}

	httpServer := &http.Server{
		Handler:           srv.Routes(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Str("endpoint", client.Endpoint()).Msg("http server starting")
		if serveErr := httpServer.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", serveErr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("http server shutting down")
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("http server shutdown: %w", shutdownErr)
		}
		return nil
	})

	return g.Wait()
}
