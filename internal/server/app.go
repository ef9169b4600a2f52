// Package server wires the watch-list store together: database, migrations,
// the seeded account, services, optional snapshot backups and the gRPC
// endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/watchkeeper/internal/dbx"
	"github.com/dmitrijs2005/watchkeeper/internal/logging"
	"github.com/dmitrijs2005/watchkeeper/internal/server/backup"
	"github.com/dmitrijs2005/watchkeeper/internal/server/config"
	"github.com/dmitrijs2005/watchkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/watchkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/watchkeeper/internal/server/grpc"
)

var (
	openDB         = repomanager.OpenDB
	newSnapshotter = func(ctx context.Context, c *config.Config) (backup.Snapshotter, error) {
		return backup.NewS3Snapshotter(ctx, c)
	}
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	userService      *services.UserService
	watchListService *services.WatchListService
}

// NewApp opens and migrates the database, seeds the account and builds the
// services. The logger writes JSON to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, c, logger)
	if c.AccountPassword != "" {
		if err := us.SeedAccount(ctx, c.AccountUsername, []byte(c.AccountPassword)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed account error: %w", err)
		}
	} else {
		logger.Warn(ctx, "no account password configured, the account is not seeded", "username", c.AccountUsername)
	}

	var snaps backup.Snapshotter
	if c.SnapshotsEnabled() {
		snaps, err = newSnapshotter(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("snapshot init error: %w", err)
		}
		logger.Info(ctx, "snapshots enabled", "bucket", c.S3Bucket)
	}

	ws := services.NewWatchListService(db, rm, snaps, logger)

	return &App{config: c, logger: logger, db: db, userService: us, watchListService: ws}, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.watchListService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")

	return runErr
}
