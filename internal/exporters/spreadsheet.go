package exporters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/utils"
)

const (
	DefaultSpreadsheetFilename = "biblioteca_libros.xlsx"
	TemplateFilename           = "plantilla_biblioteca.xlsx"

	SpreadsheetSheet = "Libros"
	TemplateSheet    = "Plantilla_Libros"
)

var spreadsheetHeader = []any{
	"Titulo", "Autor", "Paginas", "Genero", "Estado",
	"Calificacion", "Notas", "Fecha_Leido", "Fecha_Agregado", "Formato",
}

var templateHeader = []any{
	"Titulo", "Autor", "Paginas", "Genero", "Estado",
	"Calificacion", "Notas", "Fecha_Leido", "Formato",
}

var templateExamples = [][]any{
	{"Ejemplo: Cien años de soledad", "Gabriel García Márquez", 471, "Literatura", "Leido", 5, "Idioma: Español", "2024-01-15", "Fisico"},
	{"Ejemplo: 1984", "George Orwell", 328, "Literatura", "Por leer", 0, "Idioma: Inglés", "", "Digital"},
}

// EncodeSpreadsheet lays the books out as the export sheet: a header row
// followed by one row per book, labels in place of enums.
func EncodeSpreadsheet(books []entities.Book) [][]any {
	rows := make([][]any, 0, len(books)+1)
	rows = append(rows, spreadsheetHeader)
	for _, b := range books {
		rows = append(rows, []any{
			b.Title,
			b.Author,
			b.Pages,
			b.Genre,
			b.Status.Label(),
			b.Rating,
			b.Notes,
			b.DateRead,
			b.DateAdded,
			entities.FormatLabel(b.Physical),
		})
	}
	return rows
}

// TemplateRows returns the fixed template sheet: header and two examples.
func TemplateRows() [][]any {
	rows := make([][]any, 0, len(templateExamples)+1)
	rows = append(rows, templateHeader)
	rows = append(rows, templateExamples...)
	return rows
}

// WriteSpreadsheet writes the export workbook to w.
func WriteSpreadsheet(w io.Writer, books []entities.Book) error {
	return writeWorkbook(w, SpreadsheetSheet, EncodeSpreadsheet(books))
}

// WriteSpreadsheetFile writes the export workbook to path. An empty path
// means DefaultSpreadsheetFilename in the working directory.
func WriteSpreadsheetFile(path string, books []entities.Book) error {
	if path == "" {
		path = DefaultSpreadsheetFilename
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteSpreadsheet(f, books); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTemplate writes the empty import template to w.
func WriteTemplate(w io.Writer) error {
	return writeWorkbook(w, TemplateSheet, TemplateRows())
}

// SpreadsheetFilename makes sure a user-supplied name ends in .xlsx.
func SpreadsheetFilename(name string) string {
	name = utils.SanitizeFilename(filepath.Base(name))
	if name == "" {
		return DefaultSpreadsheetFilename
	}
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}

func writeWorkbook(w io.Writer, sheet string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		if err := styleHeader(f, sheet, len(rows[0])); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

// SpreadsheetFileExporter writes timestamped copies of the collection into a
// directory. Used for scheduled backups.
type SpreadsheetFileExporter struct {
	dir string
	now func() time.Time
}

func NewSpreadsheetFileExporter(dir string) *SpreadsheetFileExporter {
	return &SpreadsheetFileExporter{dir: dir, now: time.Now}
}

func (e *SpreadsheetFileExporter) Export(books []entities.Book) (ExportResult, error) {
	if len(books) == 0 {
		return ExportResult{}, ErrNoBooks
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	base := strings.TrimSuffix(DefaultSpreadsheetFilename, ".xlsx")
	name := fmt.Sprintf("%s-%s.xlsx", base, e.now().Format("20060102-150405"))
	path := filepath.Join(e.dir, name)

	if err := WriteSpreadsheetFile(path, books); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{BooksExported: len(books), Path: path}, nil
}
