package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/exporters"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var goodreads bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the library as a spreadsheet or a Goodreads CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			books := app.Store.Books()
			if len(books) == 0 {
				return exporters.ErrNoBooks
			}

			path := exporters.DefaultSpreadsheetFilename
			if goodreads {
				path = exporters.DefaultGoodreadsFilename
			}
			if len(args) == 1 {
				path = args[0]
			}

			if goodreads {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				if err := exporters.WriteGoodreadsCSV(f, books); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			} else if err := exporters.WriteSpreadsheetFile(path, books); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d books to %s\n", len(books), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&goodreads, "goodreads", false, "Write a Goodreads-compatible CSV instead of xlsx")
	return cmd
}

func newTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template [file]",
		Short: "Write an empty import spreadsheet with example rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := exporters.TemplateFilename
			if len(args) == 1 {
				path = args[0]
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporters.WriteTemplate(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", path)
			return nil
		},
	}
}
