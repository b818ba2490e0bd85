package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
)

func NewUpdatePackagesCommand(cfg *config.Configuration) *cobra.Command {
	var force bool

	updateCmd := &cobra.Command{
		Use:   "update-packages",
		Short: "Install the target software version on every service host",
		Example: `  # Update hosts that run an older version
  ivxv-admin update-packages --target-version 1.9.10

  # Reinstall every package
  ivxv-admin update-packages --target-version 1.9.10 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				packages := services.NewPackageService(fleet, services.RemoteInstaller{Remote: fleet.Remote})
				update, err := packages.UpdatePackages(cmd.Context(), force)
				if len(update.Report.Results) > 0 {
					printReport(cmd.OutOrStdout(), update.Report)
				}
				return err
			})
		},
	}

	registerFleetFlags(updateCmd, cfg, flagGroup{"Packages", func(flagSet *pflag.FlagSet) {
		flagSet.StringVar(&cfg.Packages.TargetVersion, "target-version", cfg.Packages.TargetVersion, "Software version every host should run")
		flagSet.StringVar(&cfg.Packages.CommonPackage, "common-package", cfg.Packages.CommonPackage, "Package shared by every service on a host")
		flagSet.BoolVar(&force, "force", false, "Reinstall packages already at the target version")
	}})
	return updateCmd
}

func NewServiceCommand(cfg *config.Configuration) *cobra.Command {
	serviceCmd := &cobra.Command{
		Use:       "service <start|stop|restart|ping> <service-id>...",
		Short:     "Manage collector services",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{services.ActionStart, services.ActionStop, services.ActionRestart, services.ActionPing},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, _ *store.Store) error {
				report, err := services.NewManageService(fleet).Manage(cmd.Context(), args[0], args[1:])
				if len(report.Results) > 0 {
					printReport(cmd.OutOrStdout(), report)
				}
				return err
			})
		},
	}

	registerFleetFlags(serviceCmd, cfg)
	return serviceCmd
}
