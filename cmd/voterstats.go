package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
)

func NewVoterStatsCommand(cfg *config.Configuration) *cobra.Command {
	var (
		detailed  bool
		quietFlag bool
		req       services.VoterStatsRequest
	)

	voterStatsCmd := &cobra.Command{
		Use:   "voterstats",
		Short: "Import voter statistics from a voting service and export them to VIS",
		Example: `  # Import and export common statistics
  ivxv-admin voterstats

  # Only import detailed statistics from a given voting service
  ivxv-admin voterstats --detailed --action import --instance voting@voting1.ivxv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Type = services.StatsCommon
			if detailed {
				req.Type = services.StatsDetail
			}
			req.Quiet = quiet(quietFlag)

			vis, err := services.NewVISClient(cfg.VIS)
			if err != nil {
				return err
			}
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				err := services.NewVoterStatsService(fleet, vis).Run(cmd.Context(), req)
				return skipUnlessReady(err, req.Quiet)
			})
		},
	}

	registerFleetFlags(voterStatsCmd, cfg,
		flagGroup{"Statistics", func(flagSet *pflag.FlagSet) {
			flagSet.BoolVar(&detailed, "detailed", false, "Process detailed statistics instead of common ones")
			flagSet.StringVar(&req.Action, "action", services.StatsActionAll, "One of all, import or export")
			flagSet.StringVar(&req.File, "file", "", "Statistics file, defaults to voterstats-<type>.json in the admin UI data directory")
			flagSet.StringVar(&req.ServiceID, "instance", "random", "Voting service to import from")
			flagSet.BoolVar(&quietFlag, "quiet", false, "Exit silently when the collector is not ready")
		}},
		flagGroup{"VIS", func(flagSet *pflag.FlagSet) {
			registerVISFlags(flagSet, cfg)
		}},
	)
	return voterStatsCmd
}

func registerVISFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.VIS.URL, "vis-url", config.VIS.URL, "Base URL of the election information system")
	flagSet.StringVar(&config.VIS.CACertPath, "vis-ca", config.VIS.CACertPath, "CA certificates of VIS, defaults to the system roots")
	flagSet.StringVar(&config.VIS.ClientCertPath, "vis-client-cert", config.VIS.ClientCertPath, "Client certificate presented to VIS")
	flagSet.StringVar(&config.VIS.ClientKeyPath, "vis-client-key", config.VIS.ClientKeyPath, "Private key of the client certificate")
	flagSet.DurationVar(&config.VIS.Timeout, "vis-timeout", config.VIS.Timeout, "Timeout of VIS requests")
}
