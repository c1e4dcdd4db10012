package importers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Goodreads library export columns.
const (
	GoodreadsBookID             = "Book Id"
	GoodreadsTitle              = "Title"
	GoodreadsAuthor             = "Author"
	GoodreadsAuthorLF           = "Author l-f"
	GoodreadsAdditionalAuthors  = "Additional Authors"
	GoodreadsISBN               = "ISBN"
	GoodreadsISBN13             = "ISBN13"
	GoodreadsMyRating           = "My Rating"
	GoodreadsAverageRating      = "Average Rating"
	GoodreadsPublisher          = "Publisher"
	GoodreadsBinding            = "Binding"
	GoodreadsPages              = "Number of Pages"
	GoodreadsYearPublished      = "Year Published"
	GoodreadsOriginalYear       = "Original Publication Year"
	GoodreadsDateRead           = "Date Read"
	GoodreadsDateAdded          = "Date Added"
	GoodreadsBookshelves        = "Bookshelves"
	GoodreadsShelvesPositions   = "Bookshelves with positions"
	GoodreadsExclusiveShelf     = "Exclusive Shelf"
	GoodreadsMyReview           = "My Review"
	GoodreadsSpoiler            = "Spoiler"
	GoodreadsPrivateNotes       = "Private Notes"
	GoodreadsReadCount          = "Read Count"
	GoodreadsOwnedCopies        = "Owned Copies"
	GoodreadsDateLayout         = "2006/01/02"
	GoodreadsShelfRead          = "read"
	GoodreadsShelfCurrentlyRead = "currently-reading"
	GoodreadsShelfToRead        = "to-read"
)

// GoodreadsColumns is the full export header in Goodreads order.
var GoodreadsColumns = []string{
	GoodreadsBookID, GoodreadsTitle, GoodreadsAuthor, GoodreadsAuthorLF, GoodreadsAdditionalAuthors,
	GoodreadsISBN, GoodreadsISBN13, GoodreadsMyRating, GoodreadsAverageRating, GoodreadsPublisher,
	GoodreadsBinding, GoodreadsPages, GoodreadsYearPublished, GoodreadsOriginalYear,
	GoodreadsDateRead, GoodreadsDateAdded, GoodreadsBookshelves, GoodreadsShelvesPositions,
	GoodreadsExclusiveShelf, GoodreadsMyReview, GoodreadsSpoiler, GoodreadsPrivateNotes,
	GoodreadsReadCount, GoodreadsOwnedCopies,
}

var exclusiveShelves = map[string]bool{
	GoodreadsShelfRead:          true,
	GoodreadsShelfCurrentlyRead: true,
	GoodreadsShelfToRead:        true,
}

// ParseGoodreadsCSV decodes a Goodreads library export.
// Returns the decoded books, per-line warnings for skipped rows, and a fatal
// error when the file cannot be used at all.
func ParseGoodreadsCSV(r io.Reader) ([]entities.Book, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &FormatError{Reason: "the CSV file is empty"}
	}
	if err != nil {
		return nil, nil, &FormatError{Reason: fmt.Sprintf("unable to read the CSV header: %v", err)}
	}

	headerIndex := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := headerIndex[strings.ToLower(GoodreadsTitle)]; !ok {
		return nil, nil, &FormatError{Reason: "not a Goodreads export: missing \"Title\" column"}
	}

	today := entities.Today()
	var books []entities.Book
	var warnings []string
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		get := func(column string) string {
			return getCSVValue(record, headerIndex, strings.ToLower(column))
		}

		title := get(GoodreadsTitle)
		if title == "" {
			warnings = append(warnings, fmt.Sprintf("Line %d: skipped - missing title", lineNum))
			continue
		}

		book := entities.Book{
			Title:           title,
			Author:          get(GoodreadsAuthor),
			Genre:           genreFromShelves(get(GoodreadsBookshelves)),
			Status:          statusFromShelf(get(GoodreadsExclusiveShelf)),
			Rating:          ParseRating(get(GoodreadsMyRating)),
			Notes:           get(GoodreadsMyReview),
			DateRead:        ParseDate(get(GoodreadsDateRead)),
			DateAdded:       ParseDate(get(GoodreadsDateAdded)),
			Physical:        ParsePhysical(get(GoodreadsBinding)),
			NeedsEnrichment: true,
		}
		if book.Author == "" {
			book.Author = entities.DefaultAuthor
		}
		if pages, err := strconv.Atoi(get(GoodreadsPages)); err == nil && pages > 0 {
			book.Pages = pages
		}
		if book.DateAdded == "" {
			book.DateAdded = today
		}

		books = append(books, book)
	}

	return books, warnings, nil
}

func getCSVValue(record []string, headerIndex map[string]int, header string) string {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func statusFromShelf(shelf string) entities.Status {
	switch strings.ToLower(strings.TrimSpace(shelf)) {
	case GoodreadsShelfRead:
		return entities.StatusRead
	case GoodreadsShelfCurrentlyRead:
		return entities.StatusReading
	case GoodreadsShelfToRead, "":
		return entities.StatusToRead
	}
	return ParseStatus(shelf)
}

// genreFromShelves keeps the user's own shelves, dropping the exclusive ones.
func genreFromShelves(shelves string) string {
	var kept []string
	for _, shelf := range strings.Split(shelves, ",") {
		shelf = strings.TrimSpace(shelf)
		if shelf == "" || exclusiveShelves[strings.ToLower(shelf)] {
			continue
		}
		kept = append(kept, shelf)
	}
	return strings.Join(kept, ", ")
}
