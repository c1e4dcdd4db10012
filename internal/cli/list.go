package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var filter library.Filter
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				filter.Status = entities.Status(status)
				if !filter.Status.Valid() {
					return fmt.Errorf("invalid status %q: use read, reading or toread", status)
				}
			}

			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			books := app.Store.Filter(filter)
			out := cmd.OutOrStdout()
			if len(books) == 0 {
				fmt.Fprintln(out, "No books found")
				return nil
			}
			fmt.Fprintln(out, renderBooks(books, fmt.Sprintf("%d of %d books", len(books), app.Store.Len())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Match title or author")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (read, reading, toread)")
	cmd.Flags().StringVar(&filter.Genre, "genre", "", "Filter by genre")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reading statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			stats := app.Store.Stats()
			rows := [][]string{
				{"Total", strconv.Itoa(stats.Total)},
				{entities.LabelRead, strconv.Itoa(stats.Read)},
				{entities.LabelReading, strconv.Itoa(stats.Reading)},
				{entities.LabelToRead, strconv.Itoa(stats.ToRead)},
				{"Pages read", strconv.Itoa(stats.PagesRead)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(statsColumns, rows, ""))
			return nil
		},
	}
}

func renderBooks(books []entities.Book, caption string) string {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rating := ""
		if b.Rating > 0 {
			rating = strconv.Itoa(b.Rating)
		}
		rows = append(rows, []string{
			b.Title,
			b.Author,
			strconv.Itoa(b.Pages),
			b.Genre,
			b.Status.Label(),
			rating,
			b.DateRead,
		})
	}
	return renderTable(bookColumns, rows, caption)
}
