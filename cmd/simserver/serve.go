package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/athebyme/text-similarity/internal/business"
	"github.com/athebyme/text-similarity/internal/logging"
	"github.com/athebyme/text-similarity/internal/server"
	"github.com/athebyme/text-similarity/pkg/config"
	"github.com/athebyme/text-similarity/pkg/metrics"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP similarity service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration (default "+config.DefaultPath+")")
	return cmd
}

// newRegistry builds the metric registry described by the similarity section.
func newRegistry(cfg config.SimilarityConfiguration) (*business.Registry, error) {
	scorer, err := business.NewScorer(business.Options{
		Weights:     cfg.Weights,
		EmptyLevels: business.EmptyLevelPolicy(cfg.EmptyLevels),
	})
	if err != nil {
		return nil, fmt.Errorf("invalid similarity configuration: %w", err)
	}
	return business.NewRegistry(scorer, cfg.DefaultMetric)
}

func serve(ctx context.Context, cfg *config.Configuration) error {
	logOutput, closeLog, err := logging.OpenLogFile(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v. Using standard error.\n", err)
	}
	defer closeLog()

	logger := logging.NewLogger(cfg.Log.Level, logOutput)
	slog.SetDefault(logger)

	registry, err := newRegistry(cfg.Similarity)
	if err != nil {
		return err
	}

	srv := server.NewServer(registry, logger, server.Limits{
		MaxTextLength: cfg.Similarity.MaxTextLength,
		MaxBodyBytes:  cfg.Similarity.MaxBodyBytes,
	})

	if cfg.Metrics.Enabled {
		startMetricsServer(logger, cfg.Metrics.Addr)
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.SetupRoutes(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started",
			"addr", cfg.Server.Addr,
			"default_metric", registry.Default(),
			"empty_levels", cfg.Similarity.EmptyLevels,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error stopping server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// startMetricsServer serves Prometheus metrics on a separate listener
func startMetricsServer(logger *slog.Logger, addr string) {
	metricsServer := &http.Server{
		Addr:    addr,
		Handler: metrics.MetricsHandler(),
	}

	go func() {
		logger.Info("Starting metrics server", "addr", addr)
		if err := metricsServer.ListenAndServe(); err != nil {
			logger.Error("Error starting metrics server", "error", err)
		}
	}()
}
