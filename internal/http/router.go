package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(ReadOnly(cfg.ReadOnly))
	if cfg.MaxUploadBytes > 0 {
		// Multipart parsing beyond this spills to temp files.
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	health := NewHealthController(cfg.Database, cfg.Store, cfg.Version)
	books := NewBooksController(cfg.Store, cfg.Enricher, cfg.TaskQueue, logger)
	imports := NewImportController(cfg.Importer, cfg.Progress, cfg.ImportHistory, cfg.TaskQueue, cfg.MaxUploadBytes, logger)
	exports := NewExportController(cfg.Store, cfg.ExportFilename, logger)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/books", books.List)
		api.POST("/books", books.Create)
		api.GET("/books/stats", books.Stats)
		api.GET("/books/genres", books.Genres)
		api.GET("/books/:id", books.Get)
		api.PATCH("/books/:id", books.Update)
		api.POST("/books/:id/enrich", books.Enrich)
		if cfg.Covers != nil {
			covers := NewCoversController(cfg.Store, cfg.Covers, logger)
			api.GET("/books/:id/cover", covers.GetCover)
		}

		api.POST("/import/spreadsheet", imports.ImportSpreadsheet)
		api.POST("/import/goodreads", imports.ImportGoodreads)
		api.GET("/import/progress", imports.Progress)
		api.GET("/imports", imports.History)

		api.GET("/export/spreadsheet", exports.Spreadsheet)
		api.GET("/export/template", exports.Template)
		api.GET("/export/goodreads", exports.Goodreads)

		if cfg.Enricher != nil {
			metadataController := NewMetadataController(cfg.Enricher)
			api.GET("/metadata/cover", metadataController.Cover)
		}
	}

	return router
}
