package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right-aligned and
// never wrapped; text columns wrap at maxWidth when it is set.
type column struct {
	title    string
	numeric  bool
	maxWidth int
}

var (
	bookColumns = []column{
		{title: "Title", maxWidth: 40},
		{title: "Author", maxWidth: 28},
		{title: "Pages", numeric: true},
		{title: "Genre", maxWidth: 20},
		{title: "Status"},
		{title: "Rating", numeric: true},
		{title: "Read"},
	}
	statsColumns = []column{
		{title: "Stat"},
		{title: "Value", numeric: true},
	}
)

// renderTable draws rows under columns. Short rows are padded with blanks and
// caption, when set, is printed under the table.
func renderTable(columns []column, rows [][]string, caption string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	style := table.StyleRounded
	// Headers keep the casing they are given.
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		} else if col.maxWidth > 0 {
			configs[i].WidthMax = col.maxWidth
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	if caption != "" {
		tw.SetCaption(caption)
	}
	return tw.Render()
}
