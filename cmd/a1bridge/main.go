// Command a1bridge supervises the configured Near-RT RICs over A1 and
// exports their state as Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcus-qen/a1bridge/internal/bridge"
	"github.com/marcus-qen/a1bridge/internal/config"
	"github.com/marcus-qen/a1bridge/internal/logging"
	"github.com/marcus-qen/a1bridge/internal/supervision"
	"github.com/marcus-qen/a1bridge/internal/telemetry"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "a1bridge",
		Short:         "Supervise Near-RT RICs over the A1 policy interface",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("A1BRIDGE_CONFIG"), "path to the TOML configuration file")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Tracing.Endpoint != "" {
		serviceVersion := cfg.Tracing.ServiceVersion
		if serviceVersion == "" {
			serviceVersion = version
		}
		shutdown, err := telemetry.InitTraceProvider(ctx, cfg.Tracing.Endpoint, cfg.Tracing.Insecure, serviceVersion)
		if err != nil {
			logger.Warn("tracing disabled", zap.String("endpoint", cfg.Tracing.Endpoint), zap.Error(err))
		} else {
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				if err := shutdown(sctx); err != nil {
					logger.Warn("trace provider shutdown", zap.Error(err))
				}
			}()
			logger.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
		}
	}

	rics, err := bridge.NewBuilder(cfg.HTTP, logger).BuildAll(cfg.Rics)
	if err != nil {
		return err
	}
	for _, ric := range rics {
		logger.Info("ric configured",
			zap.String("ric", ric.Config.ID),
			zap.String("url", ric.Config.BaseURL),
			zap.String("adapter", ric.Config.Adapter),
		)
	}

	sup, err := supervision.New(bridge.Targets(rics), supervision.Options{
		Schedule: cfg.Supervision.Schedule,
		Timeout:  cfg.Supervision.Timeout,
	}, logger)
	if err != nil {
		return err
	}
	if cfg.Supervision.Enabled {
		sup.Start(ctx)
		defer sup.Stop()
	} else {
		logger.Info("supervision disabled")
	}

	if !cfg.Metrics.Enabled {
		logger.Info("a1bridge running without http listener", zap.String("version", version))
		<-ctx.Done()
		logger.Info("shutting down...")
		return nil
	}

	srv := &http.Server{
		Addr:              cfg.Metrics.ListenAddr,
		Handler:           newHandler(sup, rics),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("starting a1bridge",
		zap.String("addr", cfg.Metrics.ListenAddr),
		zap.String("version", version),
		zap.Int("rics", len(rics)),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	return nil
}
