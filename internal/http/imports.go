package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

type ImportController struct {
	importer Importer
	progress ProgressStore
	history  ImportHistory
	queue    TaskQueue
	maxBytes int64
	logger   *zap.Logger
}

func NewImportController(importer Importer, progress ProgressStore, history ImportHistory, queue TaskQueue, maxBytes int64, logger *zap.Logger) *ImportController {
	return &ImportController{
		importer: importer,
		progress: progress,
		history:  history,
		queue:    queue,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ImportSpreadsheet handles POST /api/import/spreadsheet
func (ic *ImportController) ImportSpreadsheet(c *gin.Context) {
	data, filename, ok := readUpload(c, ic.maxBytes, ".xlsx", ".xls")
	if !ok {
		return
	}

	report, err := ic.importer.ImportSpreadsheet(c.Request.Context(), bytes.NewReader(data), filename)
	if err != nil {
		respondDomainError(c, ic.logger, err, "spreadsheet import")
		return
	}
	c.IndentedJSON(http.StatusOK, report)
}

// ImportGoodreads handles POST /api/import/goodreads. With a task queue the
// import runs in the background and progress is polled from
// /api/import/progress.
func (ic *ImportController) ImportGoodreads(c *gin.Context) {
	data, filename, ok := readUpload(c, ic.maxBytes, ".csv")
	if !ok {
		return
	}

	if ic.busy() {
		respondError(c, http.StatusConflict, "another import is already running")
		return
	}

	if ic.queue != nil {
		taskID, err := ic.queue.Enqueue(tasks.ImportGoodreadsTask{Filename: filename, Content: data})
		if err != nil {
			respondInternalError(c, ic.logger, err, "enqueue goodreads import")
			return
		}
		ic.logger.Info("enqueued goodreads import", zap.String("filename", filename), zap.String("task_id", taskID))
		respondAccepted(c, "import started", gin.H{"task_id": taskID})
		return
	}

	// The batch runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	var err error
	var report entities.ImportReport
	if ic.progress != nil {
		report, err = tasks.RunGoodreadsImport(ctx, ic.importer, ic.progress, filename, data)
	} else {
		report, err = ic.importer.ImportGoodreadsCSV(ctx, bytes.NewReader(data), filename, nil)
	}
	if err != nil {
		respondDomainError(c, ic.logger, err, "goodreads import")
		return
	}
	c.IndentedJSON(http.StatusOK, report)
}

// Progress handles GET /api/import/progress
func (ic *ImportController) Progress(c *gin.Context) {
	if ic.progress == nil {
		respondNotFound(c, "import progress")
		return
	}

	// Refreshes a stale run before it is reported.
	if _, err := ic.progress.IsRunning(); err != nil {
		respondInternalError(c, ic.logger, err, "import progress")
		return
	}

	progress, err := ic.progress.Get()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.IndentedJSON(http.StatusOK, gin.H{"status": "idle"})
		return
	}
	if err != nil {
		respondInternalError(c, ic.logger, err, "import progress")
		return
	}
	c.IndentedJSON(http.StatusOK, progress)
}

// History handles GET /api/imports?limit=
func (ic *ImportController) History(c *gin.Context) {
	if ic.history == nil {
		c.IndentedJSON(http.StatusOK, gin.H{"imports": []any{}})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	sessions, err := ic.history.ListImports(limit)
	if err != nil {
		respondInternalError(c, ic.logger, err, "import history")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"imports": sessions})
}

func (ic *ImportController) busy() bool {
	if ic.importer.Busy() {
		return true
	}
	if ic.progress == nil {
		return false
	}
	running, err := ic.progress.IsRunning()
	return err == nil && running
}
