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

	"github.com/aganswers/spotlight/internal/config"
	"github.com/aganswers/spotlight/internal/infrastructure"
)

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := infrastructure.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build infrastructure: %w", err)
	}

	handler := buildHandler(cfg, infra, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	if err := infra.Start(); err != nil {
		return fmt.Errorf("start infrastructure: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", server.Addr,
			"environment", cfg.Environment,
			"version", cfg.Version)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		cfg.ShutdownTimeoutDuration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		return fmt.Errorf("lifecycle shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
