package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
)

func registerLogMonitorFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.Accounts.LogMonitor, "logmon-account", config.Accounts.LogMonitor, "Account on the log monitor host")
}

func NewCopyLogsCommand(cfg *config.Configuration) *cobra.Command {
	var quietFlag bool

	copyLogsCmd := &cobra.Command{
		Use:   "copy-logs [host...]",
		Short: "Copy service logs to the log monitor",
		Long:  "Copy service logs to the log monitor. Without hosts every host running a main service or log collector is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				report, err := services.NewLogMonitorService(fleet).CopyLogs(cmd.Context(), args)
				if len(report.Results) > 0 {
					printReport(cmd.OutOrStdout(), report)
				}
				return skipUnlessReady(err, quiet(quietFlag))
			})
		},
	}

	registerFleetFlags(copyLogsCmd, cfg, flagGroup{"Log monitor", func(flagSet *pflag.FlagSet) {
		flagSet.BoolVar(&quietFlag, "quiet", false, "Exit silently when the collector is not ready")
		registerLogMonitorFlags(flagSet, cfg)
	}})
	return copyLogsCmd
}

func NewVotingFactsCommand(cfg *config.Configuration) *cobra.Command {
	var quietFlag bool

	votingFactsCmd := &cobra.Command{
		Use:   "voting-facts",
		Short: "Submit voting facts missing from storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				report, err := services.NewLogMonitorService(fleet).VotingFacts(cmd.Context())
				if len(report.Results) > 0 {
					printReport(cmd.OutOrStdout(), report)
				}
				return skipUnlessReady(err, quiet(quietFlag))
			})
		},
	}

	registerFleetFlags(votingFactsCmd, cfg, flagGroup{"Voting facts", func(flagSet *pflag.FlagSet) {
		flagSet.BoolVar(&quietFlag, "quiet", false, "Exit silently when the collector is not ready")
		registerLogMonitorFlags(flagSet, cfg)
		flagSet.StringVar(&cfg.Accounts.VotesOrder, "votesorder-account", cfg.Accounts.VotesOrder, "Account on the votes order hosts")
	}})
	return votingFactsCmd
}

func NewVotingSessionsCommand(cfg *config.Configuration) *cobra.Command {
	req := services.VotingSessionsRequest{LogLevel: "info"}
	var quietFlag bool

	votingSessionsCmd := &cobra.Command{
		Use:   "voting-sessions <vote|verify> <output>",
		Short: "Export voting sessions from the log monitor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Type, req.Output = args[0], args[1]
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				if err := services.NewLogMonitorService(fleet).VotingSessions(cmd.Context(), req); err != nil {
					return skipUnlessReady(err, quiet(quietFlag))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "voting sessions written to %s\n", req.Output)
				return nil
			})
		},
	}

	registerFleetFlags(votingSessionsCmd, cfg, flagGroup{"Voting sessions", func(flagSet *pflag.FlagSet) {
		flagSet.BoolVar(&req.Anonymize, "anonymize", req.Anonymize, "Anonymize voter identities")
		flagSet.BoolVar(&req.Uniq, "uniq", req.Uniq, "Keep one session per voter")
		flagSet.StringVar(&req.LogLevel, "export-log-level", req.LogLevel, "Log level of the remote exporter")
		flagSet.BoolVar(&quietFlag, "quiet", false, "Exit silently when the collector is not ready")
		registerLogMonitorFlags(flagSet, cfg)
	}})
	return votingSessionsCmd
}
