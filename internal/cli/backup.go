package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/exporters"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped spreadsheet backup now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = app.Config.Backup.Dir
			}

			backups := scheduler.NewBackupScheduler(app.Store, exporters.NewSpreadsheetFileExporter(dir), app.Config.Backup.Schedule, app.Logger.Named("backup"))
			result, err := backups.RunOnce()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d books to %s\n", result.BooksExported, result.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Backup directory (overrides BACKUP_DIR)")
	return cmd
}
