package entities

import (
	"time"
)

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// EnrichmentProgress tracks the running (or most recent) batch enrichment.
// There is only ever one row.
type EnrichmentProgress struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	Status       SyncStatus `gorm:"size:20" json:"status"`
	Total        int        `json:"total"`
	Current      int        `json:"current"`
	CurrentTitle string     `gorm:"size:512" json:"current_title,omitempty"`
	Message      string     `gorm:"size:512" json:"message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func (EnrichmentProgress) TableName() string {
	return "enrichment_progress"
}
