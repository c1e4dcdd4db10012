package entities

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Status string

const (
	StatusToRead  Status = "toread"
	StatusReading Status = "reading"
	StatusRead    Status = "read"
)

// Defaults applied when a record does not carry a value.
const (
	DefaultPages  = 200
	DefaultAuthor = "Autor desconocido"
	MaxRating     = 5
	DateLayout    = "2006-01-02"
)

// Human-readable labels used by the spreadsheet layouts.
const (
	LabelRead     = "Leido"
	LabelReading  = "Leyendo"
	LabelToRead   = "Por leer"
	LabelPhysical = "Fisico"
	LabelDigital  = "Digital"
)

// Valid reports whether s is one of the known reading states.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

// Label returns the spreadsheet label for the status. Unknown values render as "Por leer".
func (s Status) Label() string {
	switch s {
	case StatusRead:
		return LabelRead
	case StatusReading:
		return LabelReading
	default:
		return LabelToRead
	}
}

// FormatLabel renders the physical flag.
func FormatLabel(physical bool) string {
	if physical {
		return LabelPhysical
	}
	return LabelDigital
}

type Book struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Title     string `gorm:"index;size:512" json:"title"`
	Author    string `gorm:"size:256" json:"author"`
	Pages     int    `json:"pages"`
	Genre     string `gorm:"size:128" json:"genre"`
	Status    Status `gorm:"size:16" json:"status"`
	Rating    int    `json:"rating"`
	Notes     string `gorm:"type:text" json:"notes"`
	DateRead  string `gorm:"size:10" json:"date_read"`
	DateAdded string `gorm:"size:10" json:"date_added"`
	Physical  bool   `json:"physical"`

	// Filled by metadata enrichment
	Cover         string  `gorm:"size:2048" json:"cover,omitempty"`
	Thumbnail     string  `gorm:"size:2048" json:"thumbnail,omitempty"`
	Description   string  `gorm:"type:text" json:"description,omitempty"`
	PublishedDate string  `gorm:"size:32" json:"published_date,omitempty"`
	Publisher     string  `gorm:"size:256" json:"publisher,omitempty"`
	ISBN          string  `gorm:"size:20" json:"isbn,omitempty"`
	AverageRating float64 `json:"average_rating,omitempty"`
	RatingsCount  int     `json:"ratings_count,omitempty"`

	// NeedsEnrichment forces a metadata lookup even when Pages is already known.
	NeedsEnrichment bool `gorm:"-" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// TitleKey is the deduplication key for a title: lowercased, otherwise exact.
func TitleKey(title string) string {
	return cases.Lower(language.Und).String(title)
}

// ClampRating forces a rating into [0, MaxRating].
func ClampRating(rating int) int {
	if rating < 0 {
		return 0
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}

// Today returns the current date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// MatchesSearch reports whether term occurs in the title or author, ignoring case.
func (b Book) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = TitleKey(term)
	return strings.Contains(TitleKey(b.Title), term) || strings.Contains(TitleKey(b.Author), term)
}
