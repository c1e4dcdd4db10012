// Package cli implements the bookshelf command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the bookshelf command tree.
func NewRootCommand(version string) *cobra.Command {
	var dbFlag string

	ctx := newCommandContext(version, &dbFlag)

	rootCmd := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Personal book library",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to the library database (overrides DATABASE_PATH)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newTemplateCommand())
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newBackupCommand(ctx))

	return rootCmd
}
