package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional dependencies are left nil.
type RouterConfig struct {
	// Core dependencies
	Store    BookStore
	Importer Importer
	Database *database.Database

	// Optional
	Enricher      BookEnricher
	Progress      ProgressStore
	ImportHistory ImportHistory
	TaskQueue     TaskQueue
	Covers        CoverCache

	ExportFilename string
	MaxUploadBytes int64
	ReadOnly       bool

	// Application info
	Version string

	Logger *zap.Logger
}
