package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
	"github.com/pringinacio/ivxv/pkg/crontab"
)

func NewCrontabCommand(cfg *config.Configuration) *cobra.Command {
	crontabCmd := &cobra.Command{
		Use:   "crontab",
		Short: "Maintain the generated blocks of the management crontab",
		Long: `Maintain the generated blocks of the management crontab.

Blocks are backup, detail-stats and voting-facts. The backup block is
rendered from the backup service state; the others are rendered by
"generate" and stored until installed.`,
		Example: `  # Run detailed statistics every 5 minutes between 8 and 20
  ivxv-admin crontab generate detail-stats --minute '*/5' --hour 8-20
  ivxv-admin crontab install detail-stats

  # Remove the voting facts block
  ivxv-admin crontab uninstall voting-facts`,
	}

	// withCrontab parses the block kind argument and builds the service.
	withCrontab := func(cmd *cobra.Command, kindArg string, fn func(*services.CrontabService, services.CrontabKind) error) error {
		kind, err := services.ParseCrontabKind(kindArg)
		if err != nil {
			return err
		}
		return withFleet(cmd.Context(), cfg, func(fleet *services.Fleet, s *store.Store) error {
			return fn(services.NewCrontabService(fleet, s.Values(), s.Values()), kind)
		})
	}

	showCmd := &cobra.Command{
		Use:   "show <block>",
		Short: "Print the current content of a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCrontab(cmd, args[0], func(c *services.CrontabService, kind services.CrontabKind) error {
				content, err := c.Content(cmd.Context(), kind)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), content)
				return nil
			})
		},
	}

	var schedule crontab.Schedule
	generateCmd := &cobra.Command{
		Use:   "generate <detail-stats|voting-facts>",
		Short: "Render and store a scheduled block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCrontab(cmd, args[0], func(c *services.CrontabService, kind services.CrontabKind) error {
				content, err := c.Generate(cmd.Context(), kind, schedule)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), content)
				return nil
			})
		},
	}

	var remove bool
	editCmd := &cobra.Command{
		Use:    "edit <block> <file>",
		Short:  "Regenerate a block inside a crontab file",
		Long:   "Regenerate a block inside a crontab file. crontab -e runs this command as its editor.",
		Args:   cobra.ExactArgs(2),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCrontab(cmd, args[0], func(c *services.CrontabService, kind services.CrontabKind) error {
				if remove {
					return c.Remove(cmd.Context(), kind, args[1])
				}
				return c.Edit(cmd.Context(), kind, args[1])
			})
		},
	}

	installCmd := &cobra.Command{
		Use:   "install <block>",
		Short: "Install a block into the management crontab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCrontab(cmd, args[0], func(c *services.CrontabService, kind services.CrontabKind) error {
				return c.Install(cmd.Context(), kind)
			})
		},
	}

	uninstallCmd := &cobra.Command{
		Use:   "uninstall <block>",
		Short: "Remove a block from the management crontab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCrontab(cmd, args[0], func(c *services.CrontabService, kind services.CrontabKind) error {
				return c.Uninstall(cmd.Context(), kind)
			})
		},
	}

	registerFleetFlags(generateCmd, cfg, flagGroup{"Schedule", func(flagSet *pflag.FlagSet) {
		flagSet.StringVar(&schedule.Minute, "minute", crontab.DefaultMinute, "Minute field")
		flagSet.StringVar(&schedule.Hour, "hour", "*", "Hour field")
		flagSet.StringVar(&schedule.Day, "day", "*", "Day of month field")
		flagSet.StringVar(&schedule.Month, "month", "*", "Month field")
		flagSet.StringVar(&schedule.Weekday, "weekday", "*", "Day of week field")
		flagSet.StringVar(&cfg.Crontab.Command, "crontab-command", cfg.Crontab.Command, "Command cron runs")
	}})
	registerFleetFlags(editCmd, cfg, flagGroup{"Crontab", func(flagSet *pflag.FlagSet) {
		flagSet.BoolVar(&remove, "remove", false, "Remove the block instead of regenerating it")
		flagSet.DurationVar(&cfg.Crontab.Pause, "pause", cfg.Crontab.Pause, "Pause before rewriting the file")
	}})
	for _, c := range []*cobra.Command{showCmd, installCmd, uninstallCmd} {
		registerFleetFlags(c, cfg, flagGroup{"Crontab", func(flagSet *pflag.FlagSet) {
			flagSet.StringVar(&cfg.Crontab.Command, "crontab-command", cfg.Crontab.Command, "Command cron runs")
		}})
	}

	crontabCmd.AddCommand(showCmd, generateCmd, editCmd, installCmd, uninstallCmd)
	return crontabCmd
}
