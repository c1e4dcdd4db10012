package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/importers"
	"github.com/mrlokans/bookshelf/internal/library"
)

// uploadField is the multipart field carrying import files.
const uploadField = "file"

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, logger *zap.Logger, err error, context string) {
	logger.Error("internal error", zap.String("context", context), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondDomainError maps library and import errors to status codes.
func respondDomainError(c *gin.Context, logger *zap.Logger, err error, context string) {
	var formatErr *importers.FormatError
	switch {
	case errors.As(err, &formatErr):
		respondBadRequest(c, formatErr.Error())
	case errors.Is(err, importers.ErrImportInProgress):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, library.ErrNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, library.ErrInvalidBook):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, logger, err, context)
	}
}

// --- Success Response Helpers ---

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Uploads ---

// readUpload reads the uploaded file, rejecting other extensions and files
// over maxBytes. On failure the response has already been written.
func readUpload(c *gin.Context, maxBytes int64, extensions ...string) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		respondBadRequest(c, "No file uploaded")
		return nil, "", false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, e := range extensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		respondBadRequest(c, fmt.Sprintf("Unsupported file type %q, expected %s", ext, strings.Join(extensions, " or ")))
		return nil, "", false
	}

	if maxBytes > 0 && header.Size > maxBytes {
		respondError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large (max %d MB)", maxBytes>>20))
		return nil, "", false
	}

	reader := io.Reader(file)
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		respondBadRequest(c, "Failed to read uploaded file")
		return nil, "", false
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		respondError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large (max %d MB)", maxBytes>>20))
		return nil, "", false
	}

	return data, filepath.Base(header.Filename), true
}

// attachment sets the headers for a file download.
func attachment(c *gin.Context, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", contentType)
}
