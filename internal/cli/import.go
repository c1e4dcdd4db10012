package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/importers"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import books from a spreadsheet or a Goodreads export",
	}
	cmd.AddCommand(newImportSpreadsheetCommand(ctx))
	cmd.AddCommand(newImportGoodreadsCommand(ctx))
	return cmd
}

func newImportSpreadsheetCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "spreadsheet <file.xlsx>",
		Short: "Import books from an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := args[0]

			if dryRun {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer f.Close()
				books, err := importers.DecodeSpreadsheet(f)
				if err != nil {
					return err
				}
				printPreview(out, books, nil)
				return nil
			}

			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			fmt.Fprintf(out, "Importing %s...\n", path)
			report, err := app.Pipeline.ImportSpreadsheet(cmd.Context(), f, filepath.Base(path))
			if err != nil {
				return err
			}
			printReport(out, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the file and show what would be imported")
	return cmd
}

func newImportGoodreadsCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "goodreads <export.csv>",
		Short: "Import books from a Goodreads library export",
		Long: "Import books from a Goodreads library export.\n\n" +
			"New books are looked up in Google Books and Open Library to fill in\n" +
			"page counts, covers and descriptions, one request at a time.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			if dryRun {
				books, warnings, err := importers.ParseGoodreadsCSV(f)
				if err != nil {
					return err
				}
				printPreview(out, books, warnings)
				return nil
			}

			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Importing %s...\n", path)
			report, err := app.Pipeline.ImportGoodreadsCSV(cmd.Context(), f, filepath.Base(path), progressPrinter(out))
			if err != nil {
				return err
			}
			printReport(out, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the file and show what would be imported")
	return cmd
}

func printPreview(out io.Writer, books []entities.Book, warnings []string) {
	fmt.Fprintf(out, "Found %d books\n", len(books))
	if len(books) > 0 {
		fmt.Fprintln(out, renderBooks(books, ""))
	}
	printWarnings(out, warnings)
	fmt.Fprintln(out, "Dry run complete. Run without --dry-run to import.")
}

func printReport(out io.Writer, report entities.ImportReport) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Import Summary ===")
	fmt.Fprintf(out, "Records in file: %d\n", report.Parsed)
	fmt.Fprintf(out, "Added: %d\n", report.Added)
	fmt.Fprintf(out, "Already in library: %d\n", report.Duplicates)
	printWarnings(out, report.Warnings)
	if report.Message != "" {
		fmt.Fprintln(out, report.Message)
	}
}

func printWarnings(out io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%d warnings:\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(out, "  [WARN] %s\n", w)
	}
}
