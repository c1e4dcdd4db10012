package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/exporters"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs handler until SIGINT or SIGTERM, then shuts down within the
// configured timeout.
func Serve(handler http.Handler, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so nothing writes after the server is gone.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// Run starts the HTTP server with the task queue and backup scheduler
// when they are enabled.
func Run(cfg *config.Config, logger *zap.Logger, version string) error {
	logger.Info("starting bookshelf", zap.String("version", version))

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}()

	background, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, logger.Named("tasks"))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Warn("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewImportGoodreadsQueue(app.Pipeline, app.Progress, logger.Named("tasks")),
			tasks.NewEnrichBookQueue(app.Store, app.Enricher, logger.Named("tasks")),
		)
		go taskClient.Start(background)
	}

	var backups *scheduler.BackupScheduler
	if cfg.Backup.Enabled {
		backups = scheduler.NewBackupScheduler(
			app.Store,
			exporters.NewSpreadsheetFileExporter(cfg.Backup.Dir),
			cfg.Backup.Schedule,
			logger.Named("backup"),
		)
		if err := backups.Start(background); err != nil {
			return err
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Store:          app.Store,
		Importer:       app.Pipeline,
		Database:       app.DB,
		Enricher:       app.Enricher,
		Progress:       app.Progress,
		ImportHistory:  app.Imports,
		ExportFilename: cfg.Export.Filename,
		MaxUploadBytes: cfg.Upload.MaxBytes(),
		ReadOnly:       cfg.Global.ReadOnly,
		Version:        version,
		Logger:         logger.Named("http"),
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}
	if cfg.Covers.CacheDir != "" {
		cache, err := covers.NewCache(cfg.Covers.CacheDir)
		if err != nil {
			return fmt.Errorf("failed to initialize cover cache: %w", err)
		}
		routerCfg.Covers = cache
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if backups != nil {
			backups.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		cancelBackground()
	}

	return Serve(router, cfg, logger, onShutdown)
}
