package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pringinacio/ivxv/cmd"
	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/pkg/logger"
)

func main() {
	// default configuration
	cfg := config.NewConfigurationWithOptionsAndDefaults(
		config.WithLogFormat("console"),
		config.WithLogLevel("info"),
	)

	rootCmd := &cobra.Command{
		Use:           "ivxv-admin",
		Short:         "Collector fleet management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfig(cfg); err != nil {
				return err
			}
			zap.ReplaceGlobals(logger.Init(cfg.LogFormat, cfg.LogLevel))
			return nil
		},
	}
	registerLoggingFlags(rootCmd, cfg)

	rootCmd.AddCommand(
		cmd.NewBackupCommand(cfg),
		cmd.NewExportVotesCommand(cfg),
		cmd.NewCopyLogsCommand(cfg),
		cmd.NewUpdatePackagesCommand(cfg),
		cmd.NewServiceCommand(cfg),
		cmd.NewVoterStatsCommand(cfg),
		cmd.NewVotingFactsCommand(cfg),
		cmd.NewVotingSessionsCommand(cfg),
		cmd.NewCrontabCommand(cfg),
		cmd.NewStateCommand(cfg),
		cmd.NewServeCommand(cfg),
	)

	err := rootCmd.ExecuteContext(context.Background())
	_ = zap.L().Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}

func validateConfig(cfg *config.Configuration) error {
	switch cfg.LogFormat {
	case "console":
	case "json":
	default:
		return fmt.Errorf("invalid log-format: %s", cfg.LogFormat)
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %s", cfg.LogLevel)
	}

	return nil
}

func registerLoggingFlags(cmd *cobra.Command, config *config.Configuration) {
	cmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", config.LogFormat, "format of the logs: console or json")
	cmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
}
