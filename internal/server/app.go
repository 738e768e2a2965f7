// Package server initializes and runs the screen-time budget backend:
// database connection and migrations, the service layer, and the HTTP API
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/screenbudget/backend/internal/logging"
	"github.com/screenbudget/backend/internal/server/config"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
	"github.com/screenbudget/backend/internal/server/rest"
	"github.com/screenbudget/backend/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	srv := rest.NewServer(logger, []byte(cfg.SecretKey), rest.Services{
		Budgets:   services.NewBudgetService(db, m),
		Usage:     services.NewUsageService(db, m),
		Alerts:    services.NewAlertService(db, m),
		Goals:     services.NewGoalService(db, m),
		Insights:  services.NewInsightsService(db, m),
		Reminders: services.NewReminderService(db, m),
		Exports:   services.NewExportService(db, m, cfg),
	})

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until the context is cancelled or a signal
// arrives, then drains in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	httpServer := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting HTTP server", "address", app.config.EndpointAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return app.db.Close()
}
