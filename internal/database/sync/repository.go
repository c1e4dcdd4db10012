// Package sync provides database operations for enrichment progress tracking.
//
// A Goodreads import enriches its new records one by one; this package keeps
// a single row describing that run so the API and CLI can poll it.
//
// # Usage
//
//	repo := sync.NewRepository(db)
//	_ = repo.Start(len(books))
//	enricher.EnrichBooks(ctx, books, repo.Reporter())
//	_ = repo.Complete(true, "")
package sync

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

const (
	progressRowID  = 1
	staleAfter     = 10 * time.Minute
	interruptedMsg = "enrichment was interrupted"
)

// Repository handles all enrichment progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sync repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the current (or last) run. gorm.ErrRecordNotFound if none ever ran.
func (r *Repository) Get() (*entities.EnrichmentProgress, error) {
	var progress entities.EnrichmentProgress
	if err := r.db.First(&progress, progressRowID).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// Start creates or resets the progress record.
func (r *Repository) Start(total int) error {
	now := time.Now()
	progress := entities.EnrichmentProgress{
		ID:        progressRowID,
		Status:    entities.SyncStatusRunning,
		Total:     total,
		StartedAt: now,
		UpdatedAt: now,
	}
	return r.db.Save(&progress).Error
}

// Update records the record currently being processed.
func (r *Repository) Update(current, total int, title string) error {
	return r.db.Model(&entities.EnrichmentProgress{}).
		Where("id = ?", progressRowID).
		Updates(map[string]any{
			"current":       current,
			"total":         total,
			"current_title": title,
			"updated_at":    time.Now(),
		}).Error
}

// Complete marks the run as completed or failed.
func (r *Repository) Complete(succeeded bool, message string) error {
	now := time.Now()
	status := entities.SyncStatusCompleted
	if !succeeded {
		status = entities.SyncStatusFailed
	}

	return r.db.Model(&entities.EnrichmentProgress{}).
		Where("id = ?", progressRowID).
		Updates(map[string]any{
			"status":        status,
			"current_title": "",
			"message":       message,
			"updated_at":    now,
			"completed_at":  now,
		}).Error
}

// IsRunning reports whether a run is in progress.
// A run not updated in 10 minutes is considered dead and marked failed.
func (r *Repository) IsRunning() (bool, error) {
	progress, err := r.Get()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if progress.Status != entities.SyncStatusRunning {
		return false, nil
	}

	if progress.UpdatedAt.Before(time.Now().Add(-staleAfter)) {
		_ = r.Complete(false, interruptedMsg)
		return false, nil
	}

	return true, nil
}

// Reporter adapts the repository to the enricher's progress callback.
// Write failures are dropped; progress is advisory.
func (r *Repository) Reporter() metadata.ProgressFunc {
	return func(current, total int, title string) {
		_ = r.Update(current, total, title)
	}
}
