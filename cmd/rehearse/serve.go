package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/rehearse"
	httpAdapter "github.com/aretw0/rehearse/internal/adapters/http"
	"github.com/aretw0/rehearse/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes a practice session over a JSON API, with Server-Sent Events for
live updates and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}
		logger := newLogger(cfg)

		metrics := observability.NewMetrics(nil)
		streams := httpAdapter.NewStreamManager()
		app, err := rehearse.New(cfg,
			rehearse.WithLogger(logger),
			rehearse.WithMetrics(metrics),
			rehearse.WithLifecycleHooks(streams.Hooks()),
		)
		if err != nil {
			return err
		}
		defer app.Close()

		srv := &http.Server{
			Addr: cfg.Server.Addr,
			Handler: httpAdapter.NewHandler(app.Engine,
				httpAdapter.WithStreams(streams),
				httpAdapter.WithMetrics(metrics.Handler()),
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMaxInputSize(cfg.MaxInputSize),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting rehearse server", "addr", srv.Addr, "dynamic", app.Engine.DynamicMode())
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			logger.Info("shutting down")

			// Give outstanding requests a deadline for completion. SSE streams end with the request context.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			logger.Info("rehearse server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
