package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ecordell/optgen/helpers"
	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
	"github.com/pringinacio/ivxv/internal/store/migrations"
	"github.com/pringinacio/ivxv/pkg/remote"
)

const dbFile = "ivxv-admin.duckdb"

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, models.ErrInconsistentState):
		return 2
	default:
		return 1
	}
}

// openStore opens the management database and applies pending migrations.
func openStore(ctx context.Context, cfg *config.Configuration) (*store.Store, error) {
	dbPath := filepath.Join(cfg.Store.DataFolder, dbFile)
	if cfg.Store.DataFolder == "" {
		dbPath = ":memory:"
		zap.S().Warn("data-folder not set, using in-memory database (data will not persist)")
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store.NewStore(db), nil
}

// withFleet opens the store, builds the fleet and runs fn.
func withFleet(ctx context.Context, cfg *config.Configuration, fn func(*services.Fleet, *store.Store) error) error {
	zap.S().Debugw("using configuration",
		"ssh", helpers.Flatten(cfg.SSH.DebugMap()),
		"accounts", helpers.Flatten(cfg.Accounts.DebugMap()),
		"paths", helpers.Flatten(cfg.Paths.DebugMap()),
	)

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	agentSocket := cfg.SSH.AgentSocket
	if agentSocket == "" {
		agentSocket = os.Getenv("SSH_AUTH_SOCK")
	}
	transport := remote.NewSSHTransport(remote.SSHConfig{
		Port:           cfg.SSH.Port,
		KeyPath:        cfg.SSH.KeyPath,
		Passphrase:     []byte(cfg.SSH.Passphrase),
		KnownHostsPath: cfg.SSH.KnownHostsPath,
		Timeout:        cfg.SSH.Timeout,
		AgentSocket:    agentSocket,
	})

	return fn(services.NewFleet(cfg, s.Values(), transport), s)
}

// quiet reports whether unmet preconditions should end the command silently:
// with --quiet or when not attached to a terminal, as under cron.
func quiet(flag bool) bool {
	return flag || !term.IsTerminal(int(os.Stdout.Fd()))
}

// skipUnlessReady swallows errors about a collector that is not ready yet
// when running quietly.
func skipUnlessReady(err error, quiet bool) error {
	if err == nil || !quiet {
		return err
	}
	for _, target := range []error{
		services.ErrCollectorNotInstalled,
		services.ErrCollectorNotConfigured,
		services.ErrLogMonitorNotDefined,
		services.ErrDistrictsNotLoaded,
		services.ErrNoEligibleServices,
		services.ErrHostLocked,
	} {
		if errors.Is(err, target) {
			zap.S().Infow("skipping, collector is not ready", "reason", err)
			return nil
		}
	}
	return err
}

// printReport writes one line per item result.
func printReport(w io.Writer, report models.Report) {
	for _, res := range report.Results {
		var status string
		switch res.Status {
		case models.ResultSucceeded:
			status = color.GreenString("OK")
		case models.ResultFailed:
			status = color.RedString("FAILED")
		default:
			status = color.YellowString("SKIPPED")
		}
		line := fmt.Sprintf("%-8s %s", status, res.ID)
		if res.Host != "" && res.Host != res.ID {
			line += " (" + res.Host + ")"
		}
		if res.Reason != "" {
			line += ": " + res.Reason
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintf(w, "%s: %d succeeded, %d failed, %d skipped\n",
		report.Flow, report.Succeeded, report.Failed, report.Skipped)
}

func flagSetTitle(title string) string {
	return color.New(color.FgBlue, color.Bold).Sprint(title)
}

// flagGroup is a command specific named flag set.
type flagGroup struct {
	title    string
	register func(*pflag.FlagSet)
}

// registerFleetFlags adds the command flag groups followed by the flag sets
// every fleet command shares.
func registerFleetFlags(cmd *cobra.Command, cfg *config.Configuration, groups ...flagGroup) {
	nfs := cobrautil.NewNamedFlagSets(cmd)
	for _, g := range groups {
		g.register(nfs.FlagSet(flagSetTitle(g.title)))
	}
	registerStoreFlags(nfs.FlagSet(flagSetTitle("Store")), cfg)
	registerSSHFlags(nfs.FlagSet(flagSetTitle("SSH")), cfg)
	registerPathFlags(nfs.FlagSet(flagSetTitle("Paths")), cfg)
	nfs.AddFlagSets(cmd)
}

func registerStoreFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.Store.DataFolder, "data-folder", config.Store.DataFolder, "Folder of the collector management database")
}

func registerSSHFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.IntVar(&config.SSH.Port, "ssh-port", config.SSH.Port, "SSH port of the service hosts")
	flagSet.StringVar(&config.SSH.KeyPath, "ssh-key", config.SSH.KeyPath, "Path of the SSH private key")
	flagSet.StringVar(&config.SSH.KnownHostsPath, "ssh-known-hosts", config.SSH.KnownHostsPath, "Path of the SSH known hosts file")
	flagSet.DurationVar(&config.SSH.Timeout, "ssh-timeout", config.SSH.Timeout, "SSH dial timeout")
	flagSet.StringVar(&config.SSH.AgentSocket, "ssh-agent-socket", config.SSH.AgentSocket, "SSH agent socket, defaults to SSH_AUTH_SOCK")
	flagSet.StringVar(&config.Accounts.Admin, "ssh-account", config.Accounts.Admin, "Account used on service hosts")
}

func registerPathFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.Paths.LockDir, "lock-dir", config.Paths.LockDir, "Directory of the host lock files")
	flagSet.StringVar(&config.Paths.BackupDir, "backup-dir", config.Paths.BackupDir, "Backup directory on the backup service host")
	flagSet.StringVar(&config.Paths.AdminUIDataDir, "admin-ui-data-dir", config.Paths.AdminUIDataDir, "Admin UI data directory")
}
