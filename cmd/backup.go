package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
)

func NewBackupCommand(cfg *config.Configuration) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up collector data to the backup service",
		Example: `  # Back up the management service configuration
  ivxv-admin backup management-conf

  # Back up the ballot box of a random voting service
  ivxv-admin backup ballot-box

  # Back up the ballot box of a given voting service
  ivxv-admin backup ballot-box voting@voting1.ivxv`,
	}

	managementCmd := &cobra.Command{
		Use:   "management-conf",
		Short: "Back up management service configuration and command history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				return ignoreLocked(services.NewBackupService(fleet).ManagementConf(cmd.Context()))
			})
		},
	}

	ballotBoxCmd := &cobra.Command{
		Use:   "ballot-box [voting-service-id]",
		Short: "Back up the ballot box of a voting service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var votingID string
			if len(args) == 1 {
				votingID = args[0]
			}
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				archive, err := services.NewBackupService(fleet).BallotBox(cmd.Context(), votingID)
				if err != nil {
					return ignoreLocked(err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ballot box backed up to %s\n", archive)
				return nil
			})
		},
	}

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Back up the logs of every log collector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				report, err := services.NewBackupService(fleet).Logs(cmd.Context())
				if len(report.Results) > 0 {
					printReport(cmd.OutOrStdout(), report)
				}
				return ignoreLocked(err)
			})
		},
	}

	for _, c := range []*cobra.Command{managementCmd, ballotBoxCmd, logCmd} {
		registerFleetFlags(c, cfg)
		backupCmd.AddCommand(c)
	}
	return backupCmd
}

// ignoreLocked turns lock contention into a warning: another process is
// already doing the same work.
func ignoreLocked(err error) error {
	if errors.Is(err, services.ErrHostLocked) {
		zap.S().Warnw("backup skipped", "reason", err)
		return nil
	}
	return err
}
