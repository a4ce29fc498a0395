// Package cli provides common initialization shared by cmd/pnlboard and
// cmd/pnlctl.
package cli

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pnlboard/internal/amqp"
	"pnlboard/internal/cache"
	"pnlboard/internal/config"
	"pnlboard/internal/log"
	"pnlboard/internal/remarks"
	"pnlboard/internal/remarks/memory"
	"pnlboard/internal/services"
	"pnlboard/internal/storage"
	"pnlboard/internal/workbook"
	"pnlboard/internal/workbook/excel"
	"pnlboard/internal/workbook/google"
)

const cacheCleanupInterval = time.Minute

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger at the given level, writing text to
// w, and installs it as the slog default.
func SetupLogger(level string, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}),
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadConfig loads configuration from the environment and validates it for
// the server.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadToolConfig loads configuration for the command line tool. apply may
// override settings from flags before validation.
func LoadToolConfig(apply func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.ValidateTool(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenRemarkStore opens the configured remark store.
func OpenRemarkStore(cfg *config.Config) (remarks.Store, error) {
	switch cfg.RemarksBackend {
	case "memory":
		return memory.NewFromFile(cfg.RemarksSeedFile), nil
	default:
		store, err := storage.NewRemarkStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open remark store: %w", err)
		}
		return store, nil
	}
}

// OpenSource returns the configured statement source.
func OpenSource(ctx context.Context, cfg *config.Config) (workbook.Source, error) {
	switch cfg.SourceBackend {
	case "sheets":
		client, err := google.New(ctx, google.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.SheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
			OAuthClientFile: cfg.GoogleOAuthClientFile,
			OAuthTokenFile:  cfg.GoogleOAuthTokenFile,
		})
		if err != nil {
			return nil, fmt.Errorf("open google sheets source: %w", err)
		}
		return client, nil
	default:
		return excel.NewReader(cfg.WorkbookPath, cfg.SheetName), nil
	}
}

// ConnectAMQP dials the broker when AMQP is configured. It returns nil
// without error when it is not.
func ConnectAMQP(cfg *config.Config) (*amqp.Client, error) {
	if !cfg.AMQPEnabled() {
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect AMQP: %w", err)
	}
	return client, nil
}

// ApprovalSecret returns the configured cookie signing key, or a random one
// when none is set. Approvals then last until the process restarts.
func ApprovalSecret(cfg *config.Config) ([]byte, error) {
	if cfg.ApprovalSecret != "" {
		return []byte(cfg.ApprovalSecret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate approval secret: %w", err)
	}
	return secret, nil
}

// App holds the services built from one configuration.
type App struct {
	Config     *config.Config
	Statements *services.StatementService
	Remarks    *services.RemarkService
	Events     *amqp.Client
	Caches     *cache.Manager
}

// NewApp wires the statement source, remark store and optional event
// publisher. When IMPORT_SHEET_NOTES is set the sheet's own cell comments
// are imported as remarks before it returns.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	source, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := OpenRemarkStore(cfg)
	if err != nil {
		return nil, err
	}

	events, err := ConnectAMQP(cfg)
	if err != nil {
		// Remarks still work without events.
		logger.WithComponent(log.ComponentAMQP).Warn("AMQP unavailable, remark events disabled",
			log.FieldError, err)
		events = nil
	}

	var publisher services.EventPublisher
	if events != nil {
		publisher = events
	}

	app := &App{
		Config:     cfg,
		Statements: services.NewStatementService(source, cfg.StatementCacheTTL),
		Remarks:    services.NewRemarkService(store, publisher),
		Events:     events,
		Caches:     cache.NewManager(),
	}
	app.Caches.Register(app.Statements.Cleaner())
	app.Caches.StartCleanup(cacheCleanupInterval)

	logger.Info("Application initialized",
		log.FieldSource, app.Statements.Describe(),
		"remarks_backend", cfg.RemarksBackend,
		"amqp", events != nil)

	if cfg.ImportSheetNotes {
		if _, err := app.ImportNotes(ctx); err != nil {
			logger.WithComponent(log.ComponentRemarks).Warn("Sheet note import failed",
				log.FieldError, err,
				log.FieldOperation, log.OpImport)
		}
	}
	return app, nil
}

// ImportNotes copies the sheet's cell comments into the remark store
// without overwriting existing remarks.
func (a *App) ImportNotes(ctx context.Context) (int, error) {
	st, err := a.Statements.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load statement: %w", err)
	}
	n, err := a.Remarks.ImportNotes(ctx, st.Notes)
	if err != nil {
		return n, err
	}
	slog.InfoContext(ctx, "Imported sheet notes",
		log.FieldCount, n,
		log.FieldOperation, log.OpImport)
	return n, nil
}

// Close releases the cache janitor, the remark store and the broker
// connection.
func (a *App) Close() error {
	a.Caches.Stop()
	return a.Remarks.Close()
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
