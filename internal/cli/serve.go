package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return entrypoint.Run(cfg, logger, ctx.version)
		},
	}
}
