package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CoverCache serves local copies of remote cover images.
type CoverCache interface {
	GetCover(ctx context.Context, bookID, coverURL string) (string, error)
}

type CoversController struct {
	store  BookStore
	cache  CoverCache
	logger *zap.Logger
}

func NewCoversController(store BookStore, cache CoverCache, logger *zap.Logger) *CoversController {
	return &CoversController{store: store, cache: cache, logger: logger}
}

// GetCover serves a cached book cover image, preferring the full-size cover
// over the thumbnail. When the download fails the client is sent to the
// remote URL instead.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	book, err := cc.store.Get(c.Param("id"))
	if err != nil {
		respondDomainError(c, cc.logger, err, "get book for cover")
		return
	}

	url := book.Cover
	if url == "" {
		url = book.Thumbnail
	}
	if url == "" {
		respondNotFound(c, "cover")
		return
	}

	path, err := cc.cache.GetCover(c.Request.Context(), book.ID, url)
	if err != nil || path == "" {
		cc.logger.Warn("cover fetch failed", zap.String("book_id", book.ID), zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, url)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
