package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
)

func NewExportVotesCommand(cfg *config.Configuration) *cobra.Command {
	var consolidate bool

	exportCmd := &cobra.Command{
		Use:   "export-votes <output>",
		Short: "Export collected votes from the backup service",
		Example: `  # Export the latest ballot box backup
  ivxv-admin export-votes /tmp/votes.zip

  # Export the consolidation of every ballot box backup
  ivxv-admin export-votes --consolidate /tmp/votes.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				return services.NewBackupService(fleet).ExportVotes(cmd.Context(), consolidate, args[0])
			})
		},
	}

	registerFleetFlags(exportCmd, cfg, flagGroup{"Export", func(flagSet *pflag.FlagSet) {
		flagSet.BoolVar(&consolidate, "consolidate", false, "Consolidate every ballot box backup into one archive")
	}})
	return exportCmd
}
