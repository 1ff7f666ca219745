// Package server assembles the Chrima application: database, migrations,
// services and the HTTP front end, and runs it until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/chrima/internal/logging"
	"github.com/dmitrijs2005/chrima/internal/server/config"
	"github.com/dmitrijs2005/chrima/internal/server/pairing"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chrima/internal/server/services"
	"github.com/dmitrijs2005/chrima/internal/server/web"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *web.Server
}

// NewApp opens the database, applies migrations and wires the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	engine := pairing.NewEngine(pairing.WithMaxAttempts(c.MaxShuffleAttempts))

	us := services.NewUserService(db, rm, c)
	gs := services.NewGameService(db, rm, engine, logger)
	ts := services.NewTaskService(db, rm)

	srv, err := web.NewServer(c.EndpointAddrHTTP, logger, us, gs, ts, c.CookieSecure)
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// Run serves until SIGINT/SIGTERM or ctx is done, then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrHTTP)

	err := app.server.Run(ctx)

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}
	app.logger.Info(context.Background(), "App stopped")
	return err
}
