// Package interfaces documents the extension points of the application and
// holds compile-time checks that the concrete types satisfy them.
//
// # Interface Categories
//
// ## Library Access
//
//   - library.Repository: persistence behind the in-memory store (internal/library/store.go)
//   - http.BookStore: the library as seen by the controllers (internal/http/stores.go)
//   - scheduler.BookSource: snapshot for backups (internal/scheduler/backup.go)
//
// ## Imports
//
//   - importers.Store, importers.Enricher, importers.History, importers.Locker:
//     the dependencies of the merge pipeline (internal/importers/pipeline.go)
//   - tasks.GoodreadsImporter, tasks.ProgressTracker: background Goodreads import
//
// ## External Services
//
//   - metadata.Provider: one metadata source (internal/metadata/provider.go)
//   - http.CoverCache: local cover copies (internal/covers/cache.go)
//
// # Adding a New Metadata Provider
//
//  1. Implement Provider in internal/metadata/
//
//     type ISBNdbClient struct {
//         baseURL    string
//         httpClient *http.Client
//     }
//
//     func (c *ISBNdbClient) Name() string
//     func (c *ISBNdbClient) SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error)
//
//  2. Pass it to metadata.NewEnricher in internal/entrypoint/app.go
//
//  3. Add a compile-time check to checks.go:
//
//     var _ metadata.Provider = (*metadata.ISBNdbClient)(nil)
//
// # Adding a New Import Source
//
//  1. Write a parser in internal/importers/ returning []entities.Book
//  2. Add a Pipeline method that calls run with the new entities.ImportSource
//  3. Expose it through http.Importer and register the route in router.go
package interfaces
