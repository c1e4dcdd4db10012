// Package library holds the in-memory book collection and its persistence hooks.
package library

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrNotFound    = errors.New("book not found")
	ErrInvalidBook = errors.New("invalid book")
)

// Repository persists the collection. Store calls it before publishing any change.
type Repository interface {
	GetAllBooks() ([]entities.Book, error)
	CreateBooks(books []entities.Book) error
	SaveBook(book *entities.Book) error
}

// BookUpdate carries the user-editable fields. Nil fields are left alone.
type BookUpdate struct {
	Status   *entities.Status `json:"status,omitempty"`
	Rating   *int             `json:"rating,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	DateRead *string          `json:"date_read,omitempty"`
}

// Filter narrows Books to the ones matching every non-empty field.
type Filter struct {
	Search string          `form:"q"`
	Status entities.Status `form:"status"`
	Genre  string          `form:"genre"`
}

type Stats struct {
	Total     int `json:"total"`
	Read      int `json:"read"`
	Reading   int `json:"reading"`
	ToRead    int `json:"toread"`
	PagesRead int `json:"pages_read"`
}

// Store owns the ordered book collection. Readers get a snapshot; every
// mutation builds a new slice and swaps it in whole.
type Store struct {
	mu    sync.RWMutex
	books []entities.Book
	repo  Repository
}

// NewStore loads the collection from repo. A nil repo gives a memory-only store.
func NewStore(repo Repository) (*Store, error) {
	s := &Store{repo: repo}
	if repo == nil {
		return s, nil
	}

	books, err := repo.GetAllBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	s.books = books
	return s, nil
}

// Books returns a copy of the collection in insertion order.
func (s *Store) Books() []entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Book, len(s.books))
	copy(out, s.books)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

func (s *Store) Get(id string) (entities.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.books[i], nil
	}
	return entities.Book{}, ErrNotFound
}

// TitleKeys returns the set of lowercased titles currently in the library.
func (s *Store) TitleKeys() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make(map[string]struct{}, len(s.books))
	for _, b := range s.books {
		keys[entities.TitleKey(b.Title)] = struct{}{}
	}
	return keys
}

// Add creates one book from manual entry. Title and author are required;
// titles are not checked against the collection.
func (s *Store) Add(book entities.Book) (entities.Book, error) {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	if book.Title == "" || book.Author == "" {
		return entities.Book{}, fmt.Errorf("%w: title and author are required", ErrInvalidBook)
	}
	if err := validate(book); err != nil {
		return entities.Book{}, err
	}
	if book.Status == "" {
		book.Status = entities.StatusToRead
	}
	if book.Pages <= 0 {
		book.Pages = entities.DefaultPages
	}

	added, err := s.Append([]entities.Book{book})
	if err != nil {
		return entities.Book{}, err
	}
	return added[0], nil
}

// Append assigns IDs and DateAdded (when missing) and appends the books in
// order, persisting them first.
func (s *Store) Append(books []entities.Book) ([]entities.Book, error) {
	if len(books) == 0 {
		return nil, nil
	}

	today := entities.Today()
	prepared := make([]entities.Book, len(books))
	for i, b := range books {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate book id: %w", err)
		}
		b.ID = id.String()
		if b.DateAdded == "" {
			b.DateAdded = today
		}
		b.Rating = entities.ClampRating(b.Rating)
		if !b.Status.Valid() {
			b.Status = entities.StatusToRead
		}
		b.NeedsEnrichment = false
		prepared[i] = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.CreateBooks(prepared); err != nil {
			return nil, fmt.Errorf("failed to save books: %w", err)
		}
	}

	next := make([]entities.Book, 0, len(s.books)+len(prepared))
	next = append(next, s.books...)
	next = append(next, prepared...)
	s.books = next

	out := make([]entities.Book, len(prepared))
	copy(out, prepared)
	return out, nil
}

// Update applies the user-editable fields of one book.
func (s *Store) Update(id string, update BookUpdate) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return entities.Book{}, ErrNotFound
	}

	book := s.books[i]
	if update.Status != nil {
		if !update.Status.Valid() {
			return entities.Book{}, fmt.Errorf("%w: unknown status %q", ErrInvalidBook, *update.Status)
		}
		book.Status = *update.Status
	}
	if update.Rating != nil {
		book.Rating = *update.Rating
	}
	if update.Notes != nil {
		book.Notes = *update.Notes
	}
	if update.DateRead != nil {
		book.DateRead = strings.TrimSpace(*update.DateRead)
	}
	if err := validate(book); err != nil {
		return entities.Book{}, err
	}

	return s.swap(i, book)
}

// Replace overwrites a stored book, keeping its ID and DateAdded.
func (s *Store) Replace(book entities.Book) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(book.ID)
	if i < 0 {
		return entities.Book{}, ErrNotFound
	}

	book.DateAdded = s.books[i].DateAdded
	book.CreatedAt = s.books[i].CreatedAt
	book.NeedsEnrichment = false
	if err := validate(book); err != nil {
		return entities.Book{}, err
	}

	return s.swap(i, book)
}

// swap persists book and publishes a new slice with it at index i.
// Callers hold the write lock.
func (s *Store) swap(i int, book entities.Book) (entities.Book, error) {
	if s.repo != nil {
		if err := s.repo.SaveBook(&book); err != nil {
			return entities.Book{}, fmt.Errorf("failed to save book: %w", err)
		}
	}

	next := make([]entities.Book, len(s.books))
	copy(next, s.books)
	next[i] = book
	s.books = next
	return book, nil
}

// Filter returns the books matching f, in collection order.
func (s *Store) Filter(f Filter) []entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entities.Book
	for _, b := range s.books {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Genre != "" && b.Genre != f.Genre {
			continue
		}
		if !b.MatchesSearch(strings.TrimSpace(f.Search)) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Genres returns the distinct non-empty genres, sorted.
func (s *Store) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	genres := []string{}
	for _, b := range s.books {
		if b.Genre == "" {
			continue
		}
		if _, ok := seen[b.Genre]; ok {
			continue
		}
		seen[b.Genre] = struct{}{}
		genres = append(genres, b.Genre)
	}
	sort.Strings(genres)
	return genres
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.books)}
	for _, b := range s.books {
		switch b.Status {
		case entities.StatusRead:
			stats.Read++
			stats.PagesRead += b.Pages
		case entities.StatusReading:
			stats.Reading++
		default:
			stats.ToRead++
		}
	}
	return stats
}

func (s *Store) indexOf(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func validate(book entities.Book) error {
	if book.Status != "" && !book.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBook, book.Status)
	}
	if book.Rating < 0 || book.Rating > entities.MaxRating {
		return fmt.Errorf("%w: rating must be between 0 and %d", ErrInvalidBook, entities.MaxRating)
	}
	if book.DateRead != "" {
		if _, err := time.Parse(entities.DateLayout, book.DateRead); err != nil {
			return fmt.Errorf("%w: date read must look like %s", ErrInvalidBook, entities.DateLayout)
		}
	}
	return nil
}
