package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

const enrichTimeout = 30 * time.Second

type BooksController struct {
	store    BookStore
	enricher BookEnricher
	queue    TaskQueue
	logger   *zap.Logger
}

func NewBooksController(store BookStore, enricher BookEnricher, queue TaskQueue, logger *zap.Logger) *BooksController {
	return &BooksController{
		store:    store,
		enricher: enricher,
		queue:    queue,
		logger:   logger,
	}
}

// CreateBookRequest is the manual-entry form.
type CreateBookRequest struct {
	Title    string          `json:"title" binding:"required"`
	Author   string          `json:"author" binding:"required"`
	Pages    int             `json:"pages"`
	Genre    string          `json:"genre"`
	Status   entities.Status `json:"status"`
	Rating   int             `json:"rating"`
	Notes    string          `json:"notes"`
	DateRead string          `json:"date_read"`
	Physical *bool           `json:"physical"`
}

// List handles GET /api/books?q=&status=&genre=
func (bc *BooksController) List(c *gin.Context) {
	var filter library.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondBadRequest(c, "invalid status "+string(filter.Status))
		return
	}

	books := bc.store.Filter(filter)
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// Get handles GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.store.Get(c.Param("id"))
	if err != nil {
		respondDomainError(c, bc.logger, err, "get book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// Create handles POST /api/books. The cover is looked up when an enricher
// is configured; a failed lookup leaves the book without one.
func (bc *BooksController) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	book := entities.Book{
		Title:    req.Title,
		Author:   req.Author,
		Pages:    req.Pages,
		Genre:    req.Genre,
		Status:   req.Status,
		Rating:   req.Rating,
		Notes:    req.Notes,
		DateRead: req.DateRead,
		Physical: true,
	}
	if req.Physical != nil {
		book.Physical = *req.Physical
	}

	if bc.enricher != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), enrichTimeout)
		if cover, ok := bc.enricher.LookupCover(ctx, book.Title, book.Author); ok {
			book.Cover = cover
		}
		cancel()
	}

	created, err := bc.store.Add(book)
	if err != nil {
		respondDomainError(c, bc.logger, err, "create book")
		return
	}
	c.IndentedJSON(http.StatusCreated, created)
}

// Update handles PATCH /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	var update library.BookUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := bc.store.Update(c.Param("id"), update)
	if err != nil {
		respondDomainError(c, bc.logger, err, "update book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// Stats handles GET /api/books/stats
func (bc *BooksController) Stats(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, bc.store.Stats())
}

// Genres handles GET /api/books/genres
func (bc *BooksController) Genres(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"genres": bc.store.Genres()})
}

// Enrich handles POST /api/books/:id/enrich. With a task queue the lookup
// runs in the background and the response is 202; otherwise it runs inline.
func (bc *BooksController) Enrich(c *gin.Context) {
	id := c.Param("id")
	if _, err := bc.store.Get(id); err != nil {
		respondDomainError(c, bc.logger, err, "enrich book")
		return
	}

	if bc.queue != nil {
		taskID, err := bc.queue.Enqueue(tasks.EnrichBookTask{BookID: id})
		if err != nil {
			respondInternalError(c, bc.logger, err, "enqueue enrichment")
			return
		}
		bc.logger.Info("enqueued book enrichment", zap.String("book_id", id), zap.String("task_id", taskID))
		respondAccepted(c, "enrichment started", gin.H{"task_id": taskID})
		return
	}

	if bc.enricher == nil {
		respondError(c, http.StatusServiceUnavailable, "metadata enrichment is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), enrichTimeout)
	defer cancel()

	book, err := tasks.EnrichStoredBook(ctx, bc.store, bc.enricher, id)
	if err != nil {
		respondDomainError(c, bc.logger, err, "enrich book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}
