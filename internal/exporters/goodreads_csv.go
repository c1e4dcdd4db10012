package exporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/importers"
)

const DefaultGoodreadsFilename = "goodreads_library_export.csv"

const (
	bindingPhysical = "Paperback"
	bindingDigital  = "ebook"
)

// WriteGoodreadsCSV writes books in the Goodreads library export layout, so
// the file can be imported back here or into Goodreads.
func WriteGoodreadsCSV(w io.Writer, books []entities.Book) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(importers.GoodreadsColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range books {
		if err := writer.Write(goodreadsRecord(i+1, &books[i])); err != nil {
			return fmt.Errorf("failed to write %q: %w", books[i].Title, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func goodreadsRecord(n int, b *entities.Book) []string {
	values := map[string]string{
		importers.GoodreadsBookID:         strconv.Itoa(n),
		importers.GoodreadsTitle:          b.Title,
		importers.GoodreadsAuthor:         b.Author,
		importers.GoodreadsAuthorLF:       authorLastFirst(b.Author),
		importers.GoodreadsISBN:           b.ISBN,
		importers.GoodreadsMyRating:       strconv.Itoa(b.Rating),
		importers.GoodreadsPublisher:      b.Publisher,
		importers.GoodreadsBinding:        binding(b.Physical),
		importers.GoodreadsYearPublished:  publishedYear(b.PublishedDate),
		importers.GoodreadsDateRead:       goodreadsDate(b.DateRead),
		importers.GoodreadsDateAdded:      goodreadsDate(b.DateAdded),
		importers.GoodreadsBookshelves:    b.Genre,
		importers.GoodreadsExclusiveShelf: exclusiveShelf(b.Status),
		importers.GoodreadsMyReview:       b.Notes,
		importers.GoodreadsReadCount:      "0",
		importers.GoodreadsOwnedCopies:    "0",
	}
	if b.Pages > 0 {
		values[importers.GoodreadsPages] = strconv.Itoa(b.Pages)
	}
	if b.AverageRating > 0 {
		values[importers.GoodreadsAverageRating] = strconv.FormatFloat(b.AverageRating, 'f', 2, 64)
	}
	if b.Status == entities.StatusRead {
		values[importers.GoodreadsReadCount] = "1"
	}
	if b.Physical {
		values[importers.GoodreadsOwnedCopies] = "1"
	}

	record := make([]string, len(importers.GoodreadsColumns))
	for i, column := range importers.GoodreadsColumns {
		record[i] = values[column]
	}
	return record
}

func exclusiveShelf(status entities.Status) string {
	switch status {
	case entities.StatusRead:
		return importers.GoodreadsShelfRead
	case entities.StatusReading:
		return importers.GoodreadsShelfCurrentlyRead
	default:
		return importers.GoodreadsShelfToRead
	}
}

func binding(physical bool) string {
	if physical {
		return bindingPhysical
	}
	return bindingDigital
}

func goodreadsDate(date string) string {
	t, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.Format(importers.GoodreadsDateLayout)
}

func publishedYear(published string) string {
	if len(published) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(published[:4]); err != nil {
		return ""
	}
	return published[:4]
}

// authorLastFirst turns "Frank Herbert" into "Herbert, Frank".
func authorLastFirst(author string) string {
	parts := strings.Fields(author)
	if len(parts) < 2 {
		return author
	}
	last := parts[len(parts)-1]
	return last + ", " + strings.Join(parts[:len(parts)-1], " ")
}
