// Package books provides database operations for the book collection.
//
// This package implements the Repository interface defined in internal/library.
//
// # Interface Implementation
//
//	var _ library.Repository = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	store, err := library.NewStore(repo)
package books

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllBooks returns every book in creation order. IDs are UUIDv7, so
// ordering by id is ordering by creation time.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a single book.
func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBooks inserts a batch in one transaction; either every book is
// stored or none is.
func (r *Repository) CreateBooks(books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(books, 100).Error; err != nil {
			return fmt.Errorf("failed to insert books: %w", err)
		}
		return nil
	})
}

// SaveBook writes every column of an existing book.
func (r *Repository) SaveBook(book *entities.Book) error {
	return r.db.Save(book).Error
}

func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
