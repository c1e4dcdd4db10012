package importers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// MessageNoRecords is reported when a file decodes into an empty batch.
const MessageNoRecords = "No valid books found in the file"

// ErrImportInProgress is returned when another import holds the lock.
var ErrImportInProgress = errors.New("another import is already running")

// Store is the part of the library the pipeline merges into.
type Store interface {
	TitleKeys() map[string]struct{}
	Append(books []entities.Book) ([]entities.Book, error)
}

// Enricher fills in missing metadata for a batch.
type Enricher interface {
	EnrichBooks(ctx context.Context, books []entities.Book, progress metadata.ProgressFunc) []entities.Book
}

// History records one entry per import.
type History interface {
	StartImport(source entities.ImportSource, filename string) (uint, error)
	FinishImport(id uint, report entities.ImportReport, importErr error) error
}

// Pipeline handles the common import workflow:
// decode → drop titles already in the library → enrich (Goodreads only) → append.
type Pipeline struct {
	store    Store
	enricher Enricher
	history  History
	locker   Locker
	logger   *zap.Logger

	mu sync.Mutex
}

type PipelineOption func(*Pipeline)

// WithHistory persists an ImportSession per import.
func WithHistory(h History) PipelineOption {
	return func(p *Pipeline) { p.history = h }
}

// WithLocker adds a cross-process lock on top of the in-process one.
func WithLocker(l Locker) PipelineOption {
	return func(p *Pipeline) { p.locker = l }
}

func WithPipelineLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates an import pipeline. enricher may be nil, in which case
// Goodreads records are merged as decoded.
func NewPipeline(store Store, enricher Enricher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:    store,
		enricher: enricher,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ImportSpreadsheet decodes an xlsx workbook and merges it into the library.
func (p *Pipeline) ImportSpreadsheet(ctx context.Context, r io.Reader, filename string) (entities.ImportReport, error) {
	return p.run(ctx, entities.ImportSourceSpreadsheet, filename, func() ([]entities.Book, []string, error) {
		books, err := DecodeSpreadsheet(r)
		return books, nil, err
	}, nil)
}

// ImportGoodreadsCSV decodes a Goodreads export, enriches the new records and
// merges them into the library. progress receives one call per new record.
func (p *Pipeline) ImportGoodreadsCSV(ctx context.Context, r io.Reader, filename string, progress metadata.ProgressFunc) (entities.ImportReport, error) {
	return p.run(ctx, entities.ImportSourceGoodreads, filename, func() ([]entities.Book, []string, error) {
		return ParseGoodreadsCSV(r)
	}, progress)
}

func (p *Pipeline) run(
	ctx context.Context,
	source entities.ImportSource,
	filename string,
	decode func() ([]entities.Book, []string, error),
	progress metadata.ProgressFunc,
) (report entities.ImportReport, err error) {
	release, err := p.acquire()
	if err != nil {
		return entities.ImportReport{Source: source}, err
	}
	defer release()

	var sessionID uint
	if p.history != nil {
		if sessionID, err = p.history.StartImport(source, filename); err != nil {
			p.logger.Warn("failed to record import start", zap.Error(err))
		}
	}
	defer func() {
		if p.history == nil || sessionID == 0 {
			return
		}
		if herr := p.history.FinishImport(sessionID, report, err); herr != nil {
			p.logger.Warn("failed to record import result", zap.Uint("session_id", sessionID), zap.Error(herr))
		}
	}()

	books, warnings, err := decode()
	if err != nil {
		return entities.ImportReport{Source: source}, err
	}
	for _, w := range warnings {
		p.logger.Debug("import row skipped", zap.String("source", string(source)), zap.String("reason", w))
	}

	report, err = p.Merge(ctx, source, books, progress)
	report.Warnings = warnings
	if err != nil {
		return report, err
	}

	p.logger.Info("import finished",
		zap.String("source", string(source)),
		zap.String("filename", filename),
		zap.Int("parsed", report.Parsed),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("added", report.Added),
	)
	return report, nil
}

// Merge drops records whose title already exists in the library, enriches
// the survivors when the batch came from Goodreads, and appends them.
// Records duplicated within the batch itself are all kept.
func (p *Pipeline) Merge(ctx context.Context, source entities.ImportSource, batch []entities.Book, progress metadata.ProgressFunc) (entities.ImportReport, error) {
	report := entities.ImportReport{Source: source, Parsed: len(batch)}

	if len(batch) == 0 {
		report.Message = MessageNoRecords
		return report, nil
	}

	existing := p.store.TitleKeys()
	fresh := make([]entities.Book, 0, len(batch))
	for _, book := range batch {
		if _, dup := existing[entities.TitleKey(book.Title)]; dup {
			report.Duplicates++
			continue
		}
		fresh = append(fresh, book)
	}

	if len(fresh) == 0 {
		report.Message = fmt.Sprintf("All %d books in the file already exist in your library", len(batch))
		return report, nil
	}

	if source == entities.ImportSourceGoodreads && p.enricher != nil {
		fresh = p.enricher.EnrichBooks(ctx, fresh, progress)
	}

	added, err := p.store.Append(fresh)
	if err != nil {
		return report, fmt.Errorf("failed to append imported books: %w", err)
	}
	report.Added = len(added)

	if source == entities.ImportSourceGoodreads {
		report.Message = fmt.Sprintf("Imported %d books from Goodreads. %d already existed.", report.Added, report.Duplicates)
	} else {
		report.Message = fmt.Sprintf("Imported %d books. %d already existed.", report.Added, report.Duplicates)
	}
	return report, nil
}

// Busy reports whether an import is running in this process.
func (p *Pipeline) Busy() bool {
	if !p.mu.TryLock() {
		return true
	}
	p.mu.Unlock()
	return false
}

func (p *Pipeline) acquire() (func(), error) {
	if !p.mu.TryLock() {
		return nil, ErrImportInProgress
	}
	if p.locker == nil {
		return p.mu.Unlock, nil
	}

	locked, err := p.locker.TryLock()
	if err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("failed to acquire import lock: %w", err)
	}
	if !locked {
		p.mu.Unlock()
		return nil, ErrImportInProgress
	}
	return func() {
		if err := p.locker.Unlock(); err != nil {
			p.logger.Warn("failed to release import lock", zap.Error(err))
		}
		p.mu.Unlock()
	}, nil
}
