package http

import (
	"context"
	"io"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// Each controller depends on the narrowest interface it needs; the concrete
// types are library.Store, importers.Pipeline, the database repositories and
// tasks.Client.

// BookStore is the library as seen by the book and export controllers.
type BookStore interface {
	Books() []entities.Book
	Len() int
	Get(id string) (entities.Book, error)
	Add(book entities.Book) (entities.Book, error)
	Update(id string, update library.BookUpdate) (entities.Book, error)
	Replace(book entities.Book) (entities.Book, error)
	Filter(f library.Filter) []entities.Book
	Genres() []string
	Stats() library.Stats
}

// Importer runs file imports.
type Importer interface {
	ImportSpreadsheet(ctx context.Context, r io.Reader, filename string) (entities.ImportReport, error)
	ImportGoodreadsCSV(ctx context.Context, r io.Reader, filename string, progress metadata.ProgressFunc) (entities.ImportReport, error)
	Busy() bool
}

// ProgressStore exposes the enrichment progress record.
type ProgressStore interface {
	Get() (*entities.EnrichmentProgress, error)
	IsRunning() (bool, error)
	Start(total int) error
	Reporter() metadata.ProgressFunc
	Complete(succeeded bool, message string) error
}

type ImportHistory interface {
	ListImports(limit int) ([]entities.ImportSession, error)
}

// TaskQueue enqueues background work.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
}

// BookEnricher looks up external metadata for one book.
type BookEnricher interface {
	EnrichBook(ctx context.Context, book entities.Book) entities.Book
	LookupCover(ctx context.Context, title, author string) (string, bool)
}
