package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

const ImportGoodreadsQueue = "import_goodreads"

// ImportGoodreadsTask imports an uploaded Goodreads export in the background.
// The file travels with the task so the upload request can return at once.
type ImportGoodreadsTask struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

// Config returns the queue configuration for Goodreads imports. A failed
// import is not retried: a second run would only report duplicates.
func (t ImportGoodreadsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ImportGoodreadsQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

type GoodreadsImporter interface {
	ImportGoodreadsCSV(ctx context.Context, r io.Reader, filename string, progress metadata.ProgressFunc) (entities.ImportReport, error)
}

// ProgressTracker persists the state of a long-running enrichment.
type ProgressTracker interface {
	Start(total int) error
	Reporter() metadata.ProgressFunc
	Complete(succeeded bool, message string) error
}

// RunGoodreadsImport imports content while recording progress in tracker.
// Used by the queue processor and by callers running without a queue.
func RunGoodreadsImport(ctx context.Context, importer GoodreadsImporter, tracker ProgressTracker, filename string, content []byte) (entities.ImportReport, error) {
	if err := tracker.Start(0); err != nil {
		return entities.ImportReport{}, fmt.Errorf("failed to record import start: %w", err)
	}

	report, err := importer.ImportGoodreadsCSV(ctx, bytes.NewReader(content), filename, tracker.Reporter())
	if err != nil {
		_ = tracker.Complete(false, err.Error())
		return report, err
	}

	if err := tracker.Complete(true, report.Message); err != nil {
		return report, fmt.Errorf("failed to record import completion: %w", err)
	}
	return report, nil
}

// ImportGoodreadsProcessor creates a processor function for ImportGoodreadsTask.
func ImportGoodreadsProcessor(importer GoodreadsImporter, tracker ProgressTracker, logger *zap.Logger) backlite.QueueProcessor[ImportGoodreadsTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task ImportGoodreadsTask) error {
		report, err := RunGoodreadsImport(ctx, importer, tracker, task.Filename, task.Content)
		if err != nil {
			return fmt.Errorf("import %s: %w", task.Filename, err)
		}

		logger.Info("goodreads import finished",
			zap.String("filename", task.Filename),
			zap.Int("added", report.Added),
			zap.Int("duplicates", report.Duplicates),
		)
		return nil
	}
}

// NewImportGoodreadsQueue creates a backlite queue for Goodreads imports.
func NewImportGoodreadsQueue(importer GoodreadsImporter, tracker ProgressTracker, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(ImportGoodreadsProcessor(importer, tracker, logger))
}
