// Package importers turns import files into books and merges them into the library.
//
// # Architecture
//
// Every import follows the same flow:
//
//	File → Decoder → []entities.Book → Pipeline.Merge → Store
//
// Two decoders exist:
//
//   - DecodeSpreadsheet / ParseSpreadsheetRows: xlsx workbooks with loosely named
//     headers in any order (see findColumnIndex for the matching rules)
//   - ParseGoodreadsCSV: the fixed-schema Goodreads library export
//
// Merge drops every record whose title (lowercased) is already in the library.
// Goodreads records are then passed through the metadata enricher before
// being appended. Spreadsheet records are appended as decoded.
//
// # Concurrency
//
// Only one import runs at a time. The Pipeline holds an in-process mutex and,
// when configured with WithLocker, a file lock next to the database, so the
// CLI and the server cannot merge concurrently. A second import fails fast
// with ErrImportInProgress.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(store, enricher,
//		importers.WithHistory(importsRepo),
//		importers.WithLocker(importers.NewFileLock(cfg.Database.Path)),
//	)
//
//	report, err := pipeline.ImportSpreadsheet(ctx, file, "biblioteca.xlsx")
//	var formatErr *importers.FormatError
//	if errors.As(err, &formatErr) {
//		// show formatErr.Reason to the user
//	}
package importers
