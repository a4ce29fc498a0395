package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"pnlboard/internal/cli"
	apphttp "pnlboard/internal/http"
	"pnlboard/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := cli.SetupLogger(cfg.LogLevel, os.Stdout)
	if err != nil {
		return err
	}

	app, err := cli.NewApp(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	secret, err := cli.ApprovalSecret(cfg)
	if err != nil {
		app.Close()
		return err
	}
	if cfg.ApprovalSecret == "" {
		logger.WithComponent(log.ComponentApproval).Warn("APPROVAL_SECRET not set, approvals reset on restart")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Statements:     app.Statements,
		Remarks:        app.Remarks,
		ApprovalCode:   cfg.ApprovalCode,
		ApprovalSecret: secret,
		Logger:         logger,
	})

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := app.Close(); err != nil {
			logger.Error("Failed to release resources", log.FieldError, err)
		}
	})

	logger.Info("Starting pnlboard server",
		"port", cfg.Port,
		log.FieldSource, app.Statements.Describe(),
		"remarks_backend", cfg.RemarksBackend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.Close()
		return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}
