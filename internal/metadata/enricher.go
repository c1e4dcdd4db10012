package metadata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// DefaultDelay is the minimum spacing between consecutive lookups of a batch.
const DefaultDelay = 100 * time.Millisecond

// Enricher fills in missing book data from a primary provider, falling back
// to a secondary one when the primary has nothing useful.
type Enricher struct {
	primary   Provider
	secondary Provider
	limiter   *rateLimiter
	logger    *zap.Logger
}

type EnricherOption func(*Enricher)

// WithDelay sets the minimum spacing between lookups in EnrichBooks.
func WithDelay(d time.Duration) EnricherOption {
	return func(e *Enricher) { e.limiter = newRateLimiter(d) }
}

func WithLogger(logger *zap.Logger) EnricherOption {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEnricher creates an Enricher. Either provider may be nil.
func NewEnricher(primary, secondary Provider, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		primary:   primary,
		secondary: secondary,
		limiter:   newRateLimiter(DefaultDelay),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lookup asks the primary provider first. When it fails, has no match, or
// reports zero pages, the secondary is asked and its answer wins if it has one.
// Provider errors are logged and treated as "no data".
func (e *Enricher) Lookup(ctx context.Context, title, author string) *BookMetadata {
	result := e.search(ctx, e.primary, title, author)
	if result == nil || result.PageCount == 0 {
		if fallback := e.search(ctx, e.secondary, title, author); fallback != nil {
			result = fallback
		}
	}
	return result
}

func (e *Enricher) search(ctx context.Context, provider Provider, title, author string) *BookMetadata {
	if provider == nil {
		return nil
	}
	result, err := provider.SearchByTitle(ctx, title, author)
	if err != nil {
		e.logger.Warn("metadata lookup failed",
			zap.String("provider", provider.Name()),
			zap.String("title", title),
			zap.Error(err),
		)
		return nil
	}
	if result == nil {
		e.logger.Debug("no metadata match", zap.String("provider", provider.Name()), zap.String("title", title))
	}
	return result
}

// EnrichBook looks the book up and merges the result. Pages and genre the book
// already has are kept; the enrichment fields are replaced by whatever the
// provider returned.
func (e *Enricher) EnrichBook(ctx context.Context, book entities.Book) entities.Book {
	return applyMetadata(book, e.Lookup(ctx, book.Title, book.Author))
}

// EnrichBooks enriches a batch strictly in order, one lookup at a time.
// progress is called before every record, including the ones that need no
// lookup. Records with known pages that are not flagged are returned as-is.
func (e *Enricher) EnrichBooks(ctx context.Context, books []entities.Book, progress ProgressFunc) []entities.Book {
	enriched := make([]entities.Book, 0, len(books))

	for i, book := range books {
		if progress != nil {
			progress(i+1, len(books), book.Title)
		}

		if book.Pages > 0 && !book.NeedsEnrichment {
			enriched = append(enriched, book)
			continue
		}

		e.limiter.wait()
		enriched = append(enriched, e.EnrichBook(ctx, book))
		e.limiter.done()
	}

	e.logger.Debug("batch enrichment finished", zap.Int("records", len(books)))
	return enriched
}

// LookupCover returns the primary provider's cover, else the secondary's.
func (e *Enricher) LookupCover(ctx context.Context, title, author string) (string, bool) {
	if result := e.search(ctx, e.primary, title, author); result != nil && result.Cover != "" {
		return result.Cover, true
	}
	if result := e.search(ctx, e.secondary, title, author); result != nil && result.Cover != "" {
		return result.Cover, true
	}
	return "", false
}

func applyMetadata(book entities.Book, metadata *BookMetadata) entities.Book {
	book.NeedsEnrichment = false

	if metadata == nil {
		if book.Pages <= 0 {
			book.Pages = entities.DefaultPages
		}
		return book
	}

	if book.Pages <= 0 {
		book.Pages = metadata.PageCount
	}
	if book.Pages <= 0 {
		book.Pages = entities.DefaultPages
	}
	if book.Genre == "" && len(metadata.Categories) > 0 {
		book.Genre = metadata.Categories[0]
	}

	book.Cover = metadata.Cover
	book.Thumbnail = metadata.Thumbnail
	book.Description = metadata.Description
	book.PublishedDate = metadata.PublishedDate
	book.Publisher = metadata.Publisher
	book.ISBN = metadata.ISBN
	book.AverageRating = metadata.AverageRating
	book.RatingsCount = metadata.RatingsCount

	return book
}
