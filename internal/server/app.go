// Package server initializes and runs the origin server: it opens the
// database, applies migrations, seeds the admin account and serves the
// catalog over HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/logging"
	"github.com/dmitrijs2005/geokeeper/internal/server/config"
	"github.com/dmitrijs2005/geokeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/geokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/geokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/geokeeper/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	repoManager    repomanager.RepositoryManager
	authService    *services.AuthService
	catalogService *services.CatalogService
	recorder       metrics.Recorder
	metricsHandler http.Handler
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()

	as := services.NewAuthService(db, m, c)
	cs := services.NewCatalogService(db, m, c)

	reg := prometheus.NewRegistry()

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		repoManager:    m,
		authService:    as,
		catalogService: cs,
		recorder:       metrics.NewPrometheusRecorder(reg),
		metricsHandler: metrics.HTTPHandler(reg),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// waitForDatabase pings the database with exponential backoff so the server
// survives being started before PostgreSQL is ready to accept connections.
func (app *App) waitForDatabase(ctx context.Context) error {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Warn(ctx, "Database not ready, retrying...", "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
}

// bootstrap brings the storage layer to a usable state before the HTTP
// endpoint starts accepting requests.
func (app *App) bootstrap(ctx context.Context) error {

	if err := app.waitForDatabase(ctx); err != nil {
		return fmt.Errorf("db connection error: %w", err)
	}

	if err := app.repoManager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	admin, err := app.authService.EnsureAdmin(ctx, app.config.AdminUserName, app.config.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin seed error: %w", err)
	}
	app.logger.Info(ctx, "Admin account ready", "username", app.config.AdminUserName, "id", admin.ID)

	// A failed sweep is not a reason to refuse to start.
	if n, err := app.authService.PurgeExpiredTokens(ctx); err != nil {
		app.logger.Warn(ctx, "Failed to purge expired refresh tokens", "error", err.Error())
	} else if n > 0 {
		app.logger.Info(ctx, "Purged expired refresh tokens", "count", n)
	}

	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.authService,
		app.catalogService, app.config.SecretKey, app.recorder, app.metricsHandler)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) closeDB(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.bootstrap(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		app.closeDB(ctx)
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.closeDB(ctx)
}
