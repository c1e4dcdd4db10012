package tasks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, DefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "bookshelf-tasks.db"), TasksDBPath(filepath.Join("data", "bookshelf.db")))
	assert.Equal(t, "library-tasks", TasksDBPath("library"))
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type fakeImporter struct {
	report   entities.ImportReport
	err      error
	filename string
	content  string
}

func (f *fakeImporter) ImportGoodreadsCSV(_ context.Context, r io.Reader, filename string, progress metadata.ProgressFunc) (entities.ImportReport, error) {
	data, _ := io.ReadAll(r)
	f.filename = filename
	f.content = string(data)
	if progress != nil {
		progress(1, 2, "Dune")
		progress(2, 2, "Solaris")
	}
	return f.report, f.err
}

type fakeTracker struct {
	started   bool
	updates   []int
	succeeded *bool
	message   string
}

func (f *fakeTracker) Start(int) error {
	f.started = true
	return nil
}

func (f *fakeTracker) Reporter() metadata.ProgressFunc {
	return func(current, _ int, _ string) { f.updates = append(f.updates, current) }
}

func (f *fakeTracker) Complete(succeeded bool, message string) error {
	f.succeeded = &succeeded
	f.message = message
	return nil
}

func TestImportGoodreadsTask(t *testing.T) {
	client := newTestClient(t)

	importer := &fakeImporter{report: entities.ImportReport{Added: 2, Message: "Imported 2 books from Goodreads. 0 already existed."}}
	tracker := &fakeTracker{}
	done := make(chan struct{})

	processor := ImportGoodreadsProcessor(importer, tracker, nil)
	client.Register(backlite.NewQueue(func(ctx context.Context, task ImportGoodreadsTask) error {
		defer close(done)
		return processor(ctx, task)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.Enqueue(ImportGoodreadsTask{Filename: "export.csv", Content: []byte("Title\nDune\n")})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}

	assert.Equal(t, "export.csv", importer.filename)
	assert.Equal(t, "Title\nDune\n", importer.content)
	assert.True(t, tracker.started)
	assert.Equal(t, []int{1, 2}, tracker.updates)
	require.NotNil(t, tracker.succeeded)
	assert.True(t, *tracker.succeeded)
	assert.Equal(t, importer.report.Message, tracker.message)
}

func TestRunGoodreadsImport_Failure(t *testing.T) {
	importer := &fakeImporter{err: errors.New("not a Goodreads export")}
	tracker := &fakeTracker{}

	_, err := RunGoodreadsImport(context.Background(), importer, tracker, "bad.csv", nil)

	require.Error(t, err)
	require.NotNil(t, tracker.succeeded)
	assert.False(t, *tracker.succeeded)
	assert.Equal(t, "not a Goodreads export", tracker.message)
}

func TestImportGoodreadsTaskConfig(t *testing.T) {
	cfg := ImportGoodreadsTask{}.Config()

	assert.Equal(t, "import_goodreads", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 60*time.Minute, cfg.Timeout)
}

type pagesEnricher struct {
	pages int
}

func (e pagesEnricher) EnrichBook(_ context.Context, book entities.Book) entities.Book {
	book.Pages = e.pages
	book.Description = "enriched"
	return book
}

func TestEnrichStoredBook(t *testing.T) {
	store, err := library.NewStore(nil)
	require.NoError(t, err)
	added, err := store.Append([]entities.Book{{Title: "Dune", Author: "Frank Herbert", Pages: 200, DateAdded: "2024-01-01"}})
	require.NoError(t, err)
	id := added[0].ID

	book, err := EnrichStoredBook(context.Background(), store, pagesEnricher{pages: 412}, id)
	require.NoError(t, err)
	assert.Equal(t, 412, book.Pages)
	assert.Equal(t, "enriched", book.Description)
	assert.Equal(t, "2024-01-01", book.DateAdded)

	stored, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 412, stored.Pages)
}

func TestEnrichStoredBook_NotFound(t *testing.T) {
	store, err := library.NewStore(nil)
	require.NoError(t, err)

	_, err = EnrichStoredBook(context.Background(), store, pagesEnricher{}, "missing")
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestEnrichBookProcessor(t *testing.T) {
	store, err := library.NewStore(nil)
	require.NoError(t, err)
	added, err := store.Append([]entities.Book{{Title: "Solaris", Author: "Stanislaw Lem", Pages: 200}})
	require.NoError(t, err)

	process := EnrichBookProcessor(store, pagesEnricher{pages: 204}, nil)
	require.NoError(t, process(context.Background(), EnrichBookTask{BookID: added[0].ID}))

	stored, err := store.Get(added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 204, stored.Pages)

	assert.Error(t, process(context.Background(), EnrichBookTask{BookID: "missing"}))
}

func TestEnrichBookTaskConfig(t *testing.T) {
	cfg := EnrichBookTask{BookID: "0190a0f0"}.Config()

	assert.Equal(t, "enrich_book", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Backoff)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
