package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/exporters"
	"github.com/mrlokans/bookshelf/internal/importers"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// fakeEnricher fills in pages and a cover without any network access.
type fakeEnricher struct {
	pages int
	cover string
}

func (f *fakeEnricher) EnrichBooks(ctx context.Context, books []entities.Book, progress metadata.ProgressFunc) []entities.Book {
	out := make([]entities.Book, len(books))
	for i, b := range books {
		if progress != nil {
			progress(i+1, len(books), b.Title)
		}
		out[i] = f.EnrichBook(ctx, b)
	}
	return out
}

func (f *fakeEnricher) EnrichBook(ctx context.Context, book entities.Book) entities.Book {
	// A cancelled lookup finds nothing.
	if ctx.Err() != nil {
		return book
	}
	if book.Pages == 0 {
		book.Pages = f.pages
	}
	book.Cover = f.cover
	return book
}

func (f *fakeEnricher) LookupCover(_ context.Context, _, _ string) (string, bool) {
	return f.cover, f.cover != ""
}

type fakeQueue struct {
	tasks []backlite.Task
	err   error
}

func (q *fakeQueue) Enqueue(task backlite.Task) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, task)
	return "task-1", nil
}

type testServer struct {
	store    *library.Store
	pipeline *importers.Pipeline
	handler  http.Handler
}

func newTestServer(t *testing.T, mutate func(*RouterConfig)) *testServer {
	t.Helper()

	store, err := library.NewStore(nil)
	require.NoError(t, err)
	enricher := &fakeEnricher{pages: 321, cover: "http://covers/1.jpg"}
	pipeline := importers.NewPipeline(store, enricher)

	cfg := RouterConfig{
		Store:          store,
		Importer:       pipeline,
		Enricher:       enricher,
		MaxUploadBytes: 1 << 20,
		Version:        "test",
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return &testServer{store: store, pipeline: pipeline, handler: NewRouter(cfg)}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) seed(t *testing.T, books ...entities.Book) []entities.Book {
	t.Helper()
	added, err := s.store.Append(books)
	require.NoError(t, err)
	return added
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type booksResponse struct {
	Books []entities.Book `json:"books"`
	Count int             `json:"count"`
}

func TestBooks_ListAndFilter(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t,
		entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412, Genre: "Sci-Fi", Status: entities.StatusRead},
		entities.Book{Title: "Kindred", Author: "Octavia E. Butler", Pages: 264, Genre: "Historical", Status: entities.StatusToRead},
	)

	t.Run("all books", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/books", nil))
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[booksResponse](t, w)
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("search and status", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/books?q=herbert&status=read", nil))
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[booksResponse](t, w)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Dune", resp.Books[0].Title)
	})

	t.Run("invalid status", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/books?status=finished", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooks_GetStatsGenres(t *testing.T) {
	s := newTestServer(t, nil)
	added := s.seed(t,
		entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412, Genre: "Sci-Fi", Status: entities.StatusRead},
		entities.Book{Title: "Solaris", Author: "Stanislaw Lem", Pages: 204, Genre: "Sci-Fi", Status: entities.StatusReading},
	)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/books/"+added[0].ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune", decode[entities.Book](t, w).Title)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/books/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/books/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[library.Stats](t, w)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Read)
	assert.Equal(t, 1, stats.Reading)
	assert.Equal(t, 412, stats.PagesRead)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/books/genres", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Sci-Fi"}, decode[map[string][]string](t, w)["genres"])
}

func TestBooks_Create(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(jsonRequest(http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","rating":4}`))
	require.Equal(t, http.StatusCreated, w.Code)

	book := decode[entities.Book](t, w)
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, entities.DefaultPages, book.Pages)
	assert.Equal(t, entities.StatusToRead, book.Status)
	assert.True(t, book.Physical)
	assert.Equal(t, "http://covers/1.jpg", book.Cover)
	assert.Equal(t, 1, s.store.Len())

	w = s.do(jsonRequest(http.MethodPost, "/api/books", `{"title":"Dune"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(jsonRequest(http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","rating":9}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooks_Update(t *testing.T) {
	s := newTestServer(t, nil)
	added := s.seed(t, entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412})

	w := s.do(jsonRequest(http.MethodPatch, "/api/books/"+added[0].ID, `{"status":"read","rating":5,"date_read":"2024-01-15"}`))
	require.Equal(t, http.StatusOK, w.Code)
	book := decode[entities.Book](t, w)
	assert.Equal(t, entities.StatusRead, book.Status)
	assert.Equal(t, 5, book.Rating)
	assert.Equal(t, "2024-01-15", book.DateRead)

	w = s.do(jsonRequest(http.MethodPatch, "/api/books/"+added[0].ID, `{"status":"finished"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(jsonRequest(http.MethodPatch, "/api/books/missing", `{"rating":1}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_EnrichInline(t *testing.T) {
	s := newTestServer(t, nil)
	added := s.seed(t, entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412})

	w := s.do(httptest.NewRequest(http.MethodPost, "/api/books/"+added[0].ID+"/enrich", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://covers/1.jpg", decode[entities.Book](t, w).Cover)

	stored, err := s.store.Get(added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 412, stored.Pages)
	assert.Equal(t, "http://covers/1.jpg", stored.Cover)
}

func TestBooks_EnrichQueued(t *testing.T) {
	queue := &fakeQueue{}
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.TaskQueue = queue })
	added := s.seed(t, entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412})

	w := s.do(httptest.NewRequest(http.MethodPost, "/api/books/"+added[0].ID+"/enrich", nil))
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.EnrichBookTask{BookID: added[0].ID}, queue.tasks[0])

	w = s.do(httptest.NewRequest(http.MethodPost, "/api/books/missing/enrich", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func spreadsheetUpload(t *testing.T, books []entities.Book) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, exporters.WriteSpreadsheet(&buf, books))
	return buf.Bytes()
}

func TestImport_Spreadsheet(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t, entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412})

	content := spreadsheetUpload(t, []entities.Book{
		{Title: "DUNE", Author: "Frank Herbert", Pages: 412, Status: entities.StatusRead},
		{Title: "Solaris", Author: "Stanislaw Lem", Pages: 204, Status: entities.StatusToRead},
	})

	w := s.do(createMultipartRequest(t, "/api/import/spreadsheet", "biblioteca.xlsx", content))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decode[entities.ImportReport](t, w)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, "Imported 1 books. 1 already existed.", report.Message)
	assert.Equal(t, 2, s.store.Len())
}

func TestImport_SpreadsheetRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(createMultipartRequest(t, "/api/import/spreadsheet", "books.csv", []byte("Title\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(createMultipartRequest(t, "/api/import/spreadsheet", "books.xlsx", []byte("not a workbook")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.store.Len())
}

const goodreadsUpload = "Title,Author,Number of Pages,Exclusive Shelf,My Rating,Binding\n" +
	"Dune,Frank Herbert,,read,5,Paperback\n" +
	"Kindred,Octavia E. Butler,264,to-read,0,Kindle Edition\n"

func TestImport_GoodreadsInline(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(createMultipartRequest(t, "/api/import/goodreads", "goodreads_library_export.csv", []byte(goodreadsUpload)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decode[entities.ImportReport](t, w)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, "Imported 2 books from Goodreads. 0 already existed.", report.Message)

	books := s.store.Books()
	require.Len(t, books, 2)
	assert.Equal(t, 321, books[0].Pages, "missing pages filled by enrichment")
	assert.Equal(t, 264, books[1].Pages)
	assert.False(t, books[1].Physical)
}

func TestImport_GoodreadsInlineOutlivesClient(t *testing.T) {
	s := newTestServer(t, nil)

	req := createMultipartRequest(t, "/api/import/goodreads", "goodreads_library_export.csv", []byte(goodreadsUpload))
	ctx, cancel := context.WithCancel(req.Context())
	cancel()

	w := s.do(req.WithContext(ctx))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	books := s.store.Books()
	require.Len(t, books, 2)
	assert.Equal(t, 321, books[0].Pages, "enrichment ran after the client disconnected")
}

func TestImport_GoodreadsQueued(t *testing.T) {
	queue := &fakeQueue{}
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.TaskQueue = queue })

	w := s.do(createMultipartRequest(t, "/api/import/goodreads", "export.csv", []byte(goodreadsUpload)))
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, queue.tasks, 1)
	task, ok := queue.tasks[0].(tasks.ImportGoodreadsTask)
	require.True(t, ok)
	assert.Equal(t, "export.csv", task.Filename)
	assert.Equal(t, goodreadsUpload, string(task.Content))
	assert.Equal(t, 0, s.store.Len(), "nothing imported until the task runs")
}

func TestImport_GoodreadsQueueFailure(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.TaskQueue = &fakeQueue{err: errors.New("queue closed")} })

	w := s.do(createMultipartRequest(t, "/api/import/goodreads", "export.csv", []byte(goodreadsUpload)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestImport_GoodreadsFormatError(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(createMultipartRequest(t, "/api/import/goodreads", "export.csv", []byte("Name,Author\nDune,Frank Herbert\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing")
}

type busyImporter struct {
	Importer
}

func (busyImporter) Busy() bool { return true }

func TestImport_GoodreadsConflict(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.Importer = busyImporter{Importer: cfg.Importer} })

	w := s.do(createMultipartRequest(t, "/api/import/goodreads", "export.csv", []byte(goodreadsUpload)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestImport_ProgressWithoutTracker(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/import/progress", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/imports", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExport_Spreadsheet(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/export/spreadsheet", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty library")

	s.seed(t, entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412, Status: entities.StatusRead, Rating: 5})

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/export/spreadsheet?filename=mis_libros", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="mis_libros.xlsx"`)

	decoded, err := importers.DecodeSpreadsheet(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "Dune", decoded[0].Title)
	assert.Equal(t, 5, decoded[0].Rating)
}

func TestExport_DefaultFilename(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t, entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412})

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/export/spreadsheet", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="biblioteca_libros.xlsx"`)
}

func TestExport_Template(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/export/template", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "plantilla_biblioteca.xlsx")

	decoded, err := importers.DecodeSpreadsheet(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, decoded, 2)
}

func TestExport_Goodreads(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/export/goodreads", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.seed(t, entities.Book{Title: "Dune", Author: "Frank Herbert", Pages: 412, Status: entities.StatusReading})

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/export/goodreads", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "goodreads_library_export.csv")

	books, warnings, err := importers.ParseGoodreadsCSV(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, books, 1)
	assert.Equal(t, entities.StatusReading, books[0].Status)
}

func TestMetadata_Cover(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/metadata/cover?title=Dune&author=Frank+Herbert", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://covers/1.jpg", decode[map[string]string](t, w)["cover"])

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/metadata/cover", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetadata_CoverNotFound(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.Enricher = &fakeEnricher{} })

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/metadata/cover?title=Unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", decode[HealthResponse](t, w).Version)
}
