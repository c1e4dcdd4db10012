package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/exporters"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	store           BookStore
	defaultFilename string
	logger          *zap.Logger
}

func NewExportController(store BookStore, defaultFilename string, logger *zap.Logger) *ExportController {
	if defaultFilename == "" {
		defaultFilename = exporters.DefaultSpreadsheetFilename
	}
	return &ExportController{store: store, defaultFilename: defaultFilename, logger: logger}
}

// Spreadsheet handles GET /api/export/spreadsheet?filename=
func (ec *ExportController) Spreadsheet(c *gin.Context) {
	books := ec.store.Books()
	if len(books) == 0 {
		respondBadRequest(c, exporters.ErrNoBooks.Error())
		return
	}

	filename := ec.defaultFilename
	if requested := c.Query("filename"); requested != "" {
		filename = exporters.SpreadsheetFilename(requested)
	}

	var buf bytes.Buffer
	if err := exporters.WriteSpreadsheet(&buf, books); err != nil {
		respondInternalError(c, ec.logger, err, "spreadsheet export")
		return
	}

	attachment(c, filename, xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Template handles GET /api/export/template
func (ec *ExportController) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := exporters.WriteTemplate(&buf); err != nil {
		respondInternalError(c, ec.logger, err, "template export")
		return
	}

	attachment(c, exporters.TemplateFilename, xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Goodreads handles GET /api/export/goodreads
func (ec *ExportController) Goodreads(c *gin.Context) {
	books := ec.store.Books()
	if len(books) == 0 {
		respondBadRequest(c, exporters.ErrNoBooks.Error())
		return
	}

	var buf bytes.Buffer
	if err := exporters.WriteGoodreadsCSV(&buf, books); err != nil {
		respondInternalError(c, ec.logger, err, "goodreads export")
		return
	}

	attachment(c, exporters.DefaultGoodreadsFilename, "text/csv; charset=utf-8")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
