package interfaces

// Compile-time checks that the concrete types satisfy the interfaces their
// consumers declare. To verify: go build ./internal/interfaces/...

import (
	"github.com/gofrs/flock"

	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	syncprogress "github.com/mrlokans/bookshelf/internal/database/sync"
	"github.com/mrlokans/bookshelf/internal/exporters"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/importers"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Library
// =============================================================================

var _ library.Repository = (*books.Repository)(nil)

var _ http.BookStore = (*library.Store)(nil)
var _ importers.Store = (*library.Store)(nil)
var _ tasks.BookStore = (*library.Store)(nil)
var _ scheduler.BookSource = (*library.Store)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ http.Importer = (*importers.Pipeline)(nil)
var _ tasks.GoodreadsImporter = (*importers.Pipeline)(nil)

var _ importers.History = (*imports.Repository)(nil)
var _ http.ImportHistory = (*imports.Repository)(nil)

var _ importers.Locker = (*flock.Flock)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ metadata.Provider = (*metadata.GoogleBooksClient)(nil)
var _ metadata.Provider = (*metadata.OpenLibraryClient)(nil)

var _ importers.Enricher = (*metadata.Enricher)(nil)
var _ http.BookEnricher = (*metadata.Enricher)(nil)
var _ tasks.BookEnricher = (*metadata.Enricher)(nil)

var _ http.CoverCache = (*covers.Cache)(nil)

// =============================================================================
// Progress Tracking and Background Work
// =============================================================================

var _ http.ProgressStore = (*syncprogress.Repository)(nil)
var _ tasks.ProgressTracker = (*syncprogress.Repository)(nil)

var _ http.TaskQueue = (*tasks.Client)(nil)

var _ exporters.BookExporter = (*exporters.SpreadsheetFileExporter)(nil)
