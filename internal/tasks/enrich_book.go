package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const EnrichBookQueue = "enrich_book"

// EnrichBookTask enriches a single stored book's metadata from external sources.
type EnrichBookTask struct {
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for book enrichment tasks.
func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        EnrichBookQueue,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

type BookStore interface {
	Get(id string) (entities.Book, error)
	Replace(book entities.Book) (entities.Book, error)
}

type BookEnricher interface {
	EnrichBook(ctx context.Context, book entities.Book) entities.Book
}

// EnrichStoredBook looks a stored book up again and replaces it with the
// enriched copy.
func EnrichStoredBook(ctx context.Context, store BookStore, enricher BookEnricher, id string) (entities.Book, error) {
	book, err := store.Get(id)
	if err != nil {
		return entities.Book{}, err
	}

	book.NeedsEnrichment = true
	return store.Replace(enricher.EnrichBook(ctx, book))
}

// EnrichBookProcessor creates a processor function for EnrichBookTask.
func EnrichBookProcessor(store BookStore, enricher BookEnricher, logger *zap.Logger) backlite.QueueProcessor[EnrichBookTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task EnrichBookTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		book, err := EnrichStoredBook(ctx, store, enricher, task.BookID)
		if err != nil {
			return fmt.Errorf("enrich book %s: %w", task.BookID, err)
		}

		logger.Info("enriched book",
			zap.String("id", book.ID),
			zap.String("title", book.Title),
			zap.Int("pages", book.Pages),
		)
		return nil
	}
}

// NewEnrichBookQueue creates a backlite queue for book enrichment tasks.
func NewEnrichBookQueue(store BookStore, enricher BookEnricher, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(EnrichBookProcessor(store, enricher, logger))
}
