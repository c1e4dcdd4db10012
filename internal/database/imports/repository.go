// Package imports records the history of file imports.
//
// # Interface Implementation
//
//	var _ importers.History = (*Repository)(nil)
package imports

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const defaultListLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StartImport opens a running session and returns its ID.
func (r *Repository) StartImport(source entities.ImportSource, filename string) (uint, error) {
	session := entities.ImportSession{
		Source:    source,
		Filename:  filename,
		Status:    entities.ImportStatusRunning,
		StartedAt: time.Now(),
	}
	if err := r.db.Create(&session).Error; err != nil {
		return 0, err
	}
	return session.ID, nil
}

// FinishImport stores the outcome of a session. A non-nil importErr marks it failed.
func (r *Repository) FinishImport(id uint, report entities.ImportReport, importErr error) error {
	now := time.Now()
	updates := map[string]any{
		"status":       entities.ImportStatusCompleted,
		"parsed":       report.Parsed,
		"duplicates":   report.Duplicates,
		"added":        report.Added,
		"message":      report.Message,
		"completed_at": now,
	}
	if importErr != nil {
		updates["status"] = entities.ImportStatusFailed
		updates["error"] = importErr.Error()
	}
	return r.db.Model(&entities.ImportSession{}).Where("id = ?", id).Updates(updates).Error
}

// ListImports returns the most recent sessions first.
func (r *Repository) ListImports(limit int) ([]entities.ImportSession, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var sessions []entities.ImportSession
	err := r.db.Order("started_at DESC, id DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

func (r *Repository) GetImport(id uint) (*entities.ImportSession, error) {
	var session entities.ImportSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
