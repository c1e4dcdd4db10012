package entities

import "time"

type ImportSource string

const (
	ImportSourceSpreadsheet ImportSource = "spreadsheet"
	ImportSourceGoodreads   ImportSource = "goodreads_csv"
)

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportReport summarises one merge of a batch into the library.
type ImportReport struct {
	Source     ImportSource `json:"source"`
	Parsed     int          `json:"parsed"`
	Duplicates int          `json:"duplicates"`
	Added      int          `json:"added"`
	Message    string       `json:"message"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// ImportSession is the persisted history entry for one import.
type ImportSession struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Source      ImportSource `gorm:"size:32;index" json:"source"`
	Filename    string       `gorm:"size:512" json:"filename,omitempty"`
	Status      ImportStatus `gorm:"size:20" json:"status"`
	Parsed      int          `json:"parsed"`
	Duplicates  int          `json:"duplicates"`
	Added       int          `json:"added"`
	Message     string       `gorm:"size:512" json:"message,omitempty"`
	Error       string       `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
