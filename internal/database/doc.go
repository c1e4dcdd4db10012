// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Book persistence behind library.Store
//	├── imports/         # Import history (one row per import)
//	└── sync/            # Progress of the running Goodreads enrichment
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookshelf.db", logger)
//
//	booksRepo := books.NewRepository(db.DB)
//	importsRepo := imports.NewRepository(db.DB)
//	progressRepo := sync.NewRepository(db.DB)
//
// # Interface Implementations
//
//   - books.Repository: implements library.Repository
//   - imports.Repository: implements importers.History
//   - sync.Repository: feeds metadata.ProgressFunc through Reporter
package database
