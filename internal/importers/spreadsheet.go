package importers

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// FormatError reports a file whose structure cannot be imported at all.
// The message is meant to be shown to the user as-is.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}

// Header aliases per field, in priority order.
var (
	titleAliases    = []string{"titulo", "title", "nombre"}
	authorAliases   = []string{"autor", "author"}
	pagesAliases    = []string{"paginas", "pages", "páginas"}
	genreAliases    = []string{"genero", "genre", "género", "categoria"}
	statusAliases   = []string{"estado", "status"}
	ratingAliases   = []string{"calificacion", "rating", "puntuacion", "estrellas"}
	notesAliases    = []string{"notas", "notes", "comentarios", "observaciones", "idioma"}
	dateReadAliases = []string{"fecha_leido", "date_read", "fechaleido", "leido"}
	physicalAliases = []string{"fisico", "physical", "formato"}
)

type spreadsheetColumns struct {
	title, author, pages, genre, status, rating, notes, dateRead, physical int
}

// DecodeSpreadsheet reads the first sheet of an xlsx workbook into books.
func DecodeSpreadsheet(r io.Reader) ([]entities.Book, error) {
	rows, err := ReadWorkbook(r)
	if err != nil {
		return nil, err
	}
	return ParseSpreadsheetRows(rows)
}

// ParseSpreadsheetRows converts a header row plus data rows into books.
// Column order does not matter; headers are matched loosely against the alias
// lists above. Rows without a textual title are skipped.
func ParseSpreadsheetRows(rows [][]any) ([]entities.Book, error) {
	if len(rows) < 2 {
		return nil, &FormatError{Reason: "the spreadsheet must contain a header row and at least one data row"}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		if s, ok := h.(string); ok {
			headers[i] = strings.ToLower(strings.TrimSpace(s))
		}
	}

	cols := spreadsheetColumns{
		title:    findColumnIndex(headers, titleAliases),
		author:   findColumnIndex(headers, authorAliases),
		pages:    findColumnIndex(headers, pagesAliases),
		genre:    findColumnIndex(headers, genreAliases),
		status:   findColumnIndex(headers, statusAliases),
		rating:   findColumnIndex(headers, ratingAliases),
		notes:    findColumnIndex(headers, notesAliases),
		dateRead: findColumnIndex(headers, dateReadAliases),
		physical: findColumnIndex(headers, physicalAliases),
	}

	if cols.title == -1 {
		return nil, &FormatError{Reason: fmt.Sprintf(
			"no title column found; make sure a column is named %q, %q or %q",
			titleAliases[0], titleAliases[1], titleAliases[2])}
	}

	today := entities.Today()
	books := make([]entities.Book, 0, len(rows)-1)

	for _, row := range rows[1:] {
		raw, ok := cellAt(row, cols.title).(string)
		if !ok {
			continue
		}
		title := strings.TrimSpace(raw)
		if title == "" {
			continue
		}

		book := entities.Book{
			Title:     title,
			Author:    textValue(cellAt(row, cols.author)),
			Pages:     entities.DefaultPages,
			Genre:     textValue(cellAt(row, cols.genre)),
			Status:    ParseStatus(cellAt(row, cols.status)),
			Rating:    ParseRating(cellAt(row, cols.rating)),
			Notes:     textValue(cellAt(row, cols.notes)),
			DateRead:  ParseDate(cellAt(row, cols.dateRead)),
			DateAdded: today,
			Physical:  true,
		}
		if book.Author == "" {
			book.Author = entities.DefaultAuthor
		}
		if cols.pages != -1 {
			book.Pages = ParsePages(cellAt(row, cols.pages))
		}
		if cols.physical != -1 {
			book.Physical = ParsePhysical(cellAt(row, cols.physical))
		}

		books = append(books, book)
	}

	return books, nil
}

// findColumnIndex returns the first header matching the highest-priority alias.
// A header matches when either string contains the other. Blank headers never match.
func findColumnIndex(headers []string, aliases []string) int {
	for _, alias := range aliases {
		for i, header := range headers {
			if header == "" {
				continue
			}
			if strings.Contains(header, alias) || strings.Contains(alias, header) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
