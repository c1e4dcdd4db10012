package importers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadWorkbook_TypesCells(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Titulo", "Paginas", "Fecha_Leido", "Fisico", "Notas"},
		{"Dune", 412, 45306, true, "2024"},
	})

	rows, err := ReadWorkbook(buf)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Titulo", rows[0][0])
	assert.Equal(t, "Dune", rows[1][0])
	assert.Equal(t, 412.0, rows[1][1])
	assert.Equal(t, 45306.0, rows[1][2])
	assert.Equal(t, true, rows[1][3])
	assert.Equal(t, "2024", rows[1][4])
}

func TestDecodeSpreadsheet_SerialDates(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Titulo", "Autor", "Paginas", "Estado", "Fecha_Leido", "Formato"},
		{"Dune", "Frank Herbert", 412, "Leido", 45306, "Digital"},
	})

	books, err := DecodeSpreadsheet(buf)

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 412, books[0].Pages)
	assert.Equal(t, entities.StatusRead, books[0].Status)
	assert.Equal(t, "2024-01-15", books[0].DateRead)
	assert.False(t, books[0].Physical)
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader("definitely,not,xlsx\n"))

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestDecodeSpreadsheet_HeaderOnly(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"Titulo", "Autor"}})

	_, err := DecodeSpreadsheet(buf)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}
