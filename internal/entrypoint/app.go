package entrypoint

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	syncprogress "github.com/mrlokans/bookshelf/internal/database/sync"
	"github.com/mrlokans/bookshelf/internal/importers"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// App holds the components shared by the server and the CLI commands.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *database.Database
	Store    *library.Store
	Enricher *metadata.Enricher
	Pipeline *importers.Pipeline
	Imports  *imports.Repository
	Progress *syncprogress.Repository
}

// NewApp opens the database, loads the library and wires the import pipeline.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.NewDatabase(cfg.Database.Path, logger.Named("database"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store, err := library.NewStore(books.NewRepository(db.DB))
	if err != nil {
		db.Close()
		return nil, err
	}

	enricher := NewEnricher(cfg.Metadata, logger.Named("metadata"))
	history := imports.NewRepository(db.DB)

	pipeline := importers.NewPipeline(store, enricher,
		importers.WithHistory(history),
		importers.WithLocker(importers.NewFileLock(cfg.Database.Path)),
		importers.WithPipelineLogger(logger.Named("import")),
	)

	logger.Info("library loaded",
		zap.String("database", cfg.Database.Path),
		zap.Int("books", store.Len()),
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Store:    store,
		Enricher: enricher,
		Pipeline: pipeline,
		Imports:  history,
		Progress: syncprogress.NewRepository(db.DB),
	}, nil
}

// NewEnricher builds the Google Books / Open Library enricher from config.
func NewEnricher(cfg config.Metadata, logger *zap.Logger) *metadata.Enricher {
	primary := metadata.NewGoogleBooksClient(
		metadata.WithBaseURL(cfg.GoogleBooksURL),
		metadata.WithAPIKey(cfg.GoogleBooksAPIKey),
		metadata.WithTimeout(cfg.Timeout),
	)
	secondary := metadata.NewOpenLibraryClient(
		metadata.WithBaseURL(cfg.OpenLibraryURL),
		metadata.WithTimeout(cfg.Timeout),
	)
	return metadata.NewEnricher(primary, secondary,
		metadata.WithDelay(cfg.EnrichDelay),
		metadata.WithLogger(logger),
	)
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
