package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetadataController serves direct lookups against the metadata providers.
type MetadataController struct {
	enricher BookEnricher
}

func NewMetadataController(enricher BookEnricher) *MetadataController {
	return &MetadataController{enricher: enricher}
}

// Cover handles GET /api/metadata/cover?title=&author=
func (mc *MetadataController) Cover(c *gin.Context) {
	title := c.Query("title")
	author := c.Query("author")
	if title == "" {
		respondBadRequest(c, "title query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), enrichTimeout)
	defer cancel()

	cover, ok := mc.enricher.LookupCover(ctx, title, author)
	if !ok {
		respondNotFound(c, "cover")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"cover": cover})
}
