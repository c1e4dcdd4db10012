package exporters

import (
	"errors"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// ErrNoBooks is returned when asked to export an empty collection.
var ErrNoBooks = errors.New("there are no books to export")

type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

type ExportResult struct {
	BooksExported int    `json:"books_exported"`
	Path          string `json:"path"`
}
