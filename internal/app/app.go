package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/ecadweather/internal/controllers/restserver"
	"github.com/chrissnell/ecadweather/internal/log"
	"github.com/chrissnell/ecadweather/internal/managers"
	"github.com/chrissnell/ecadweather/internal/stations"
	"github.com/chrissnell/ecadweather/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	repo, err := managers.NewRepository(a.cfg.Storage, a.logger)
	if err != nil {
		return err
	}

	// The station list only feeds the index page and chart titles, so the
	// API keeps serving without it.
	catalog, err := stations.Load(ctx, repo)
	if err != nil {
		log.Warnf("could not load station list from %s storage: %v", repo.Name(), err)
		catalog = stations.NewCatalog(nil)
	}

	rest, err := restserver.NewController(ctx, &wg, a.cfg, repo, catalog, a.logger)
	if err != nil {
		return err
	}
	if err := rest.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	log.Info("waiting for the REST server to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
