// Package server wires the LogKeeper server together: storage backend,
// services, the REST API and the gRPC health endpoint, and runs them until
// a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/logkeeper/internal/logging"
	"github.com/dmitrijs2005/logkeeper/internal/server/config"
	"github.com/dmitrijs2005/logkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/logkeeper/internal/server/rest"
	"github.com/dmitrijs2005/logkeeper/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/logkeeper/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repos         repomanager.RepositoryManager
	logService    *services.LogService
	exportService *services.ExportService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	repos, err := repomanager.New(ctx, c.StoreDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, err
	}

	ls := services.NewLogService(repos.Logs())
	if c.Seed {
		seeded, err := ls.Seed(ctx)
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		if seeded {
			logger.Info(ctx, "Seeded empty store")
		}
	}

	es, err := services.NewExportService(ctx, c, ls)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("export init error: %w", err)
	}

	return &App{config: c, logger: logger, repos: repos, logService: ls, exportService: es}, nil
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

func (app *App) banner(ctx context.Context) {
	app.logger.Info(ctx, "Server running", "http", app.config.EndpointAddrHTTP, "grpc", app.config.EndpointAddrGRPC,
		"store", app.config.StoreDriver, "export", app.exportService.Enabled())
	app.logger.Info(ctx, "Available endpoints",
		"GET /logs", "Fetch all logs",
		"POST /logs", "Create a new log",
		"PUT /logs/:id", "Update a log",
		"DELETE /logs/:id", "Delete a log",
		"GET /health", "Health check",
		"POST /exports", "Export logs to S3",
	)
}

// Run serves REST and gRPC until ctx is cancelled, a signal arrives or one
// of the servers fails. The store is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	restServer := rest.NewRESTServer(app.config.EndpointAddrHTTP, app.logger, app.logService, app.exportService, app.config.ShutdownTimeout)
	healthServer := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)

	app.banner(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return restServer.Run(gctx) })
	g.Go(func() error { return healthServer.Run(gctx) })

	err := g.Wait()
	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "close store", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
