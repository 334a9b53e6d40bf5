// Package server initializes and runs the member directory server: it opens
// the database, applies migrations and serves the directory over gRPC until
// a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/dmitrijs2005/memberportal/internal/server/config"
	"github.com/dmitrijs2005/memberportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/memberportal/internal/server/services"

	gs "github.com/dmitrijs2005/memberportal/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	members *services.MemberService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, "json")

	rm := repomanager.NewPostgresRepositoryManager()

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		members: services.NewMemberService(db, rm),
	}, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "closing database", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	s := gs.NewDirectoryServer(app.config.EndpointAddrGRPC, app.config.MetricsAddr, app.logger, app.members, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "Stopped")
	return nil
}
