package services

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/hostlock"
	"github.com/pringinacio/ivxv/pkg/remote"
)

const lockKindBackup = "backup"

// BackupService drives the backup service host.
type BackupService struct {
	fleet *Fleet
}

func NewBackupService(fleet *Fleet) *BackupService {
	return &BackupService{fleet: fleet}
}

// target returns the configured backup service.
func (b *BackupService) target(ctx context.Context) (*Snapshot, models.Service, error) {
	snap, err := b.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return nil, models.Service{}, err
	}
	svc, err := SingleService(snap, models.ServiceTypeBackup, models.ServiceStateConfigured)
	if err != nil {
		return nil, models.Service{}, err
	}
	logger(ctx).Debugw("using backup service", "service", svc.ID)
	return snap, svc, nil
}

// locked runs fn under the backup lock of the backup host.
func (b *BackupService) locked(ctx context.Context, host string, fn func() error) error {
	key := hostlock.Key(host, lockKindBackup)
	acquired, err := b.fleet.Locks.With(key, fn)
	if err != nil {
		return err
	}
	if !acquired {
		logger(ctx).Warnw("lock exists, backup is already running", "host", host, "lock", key)
		return fmt.Errorf("%w: %s", ErrHostLocked, host)
	}
	return nil
}

// ManagementConf copies the management service configuration, admin UI
// permissions and command history to the backup host. The new copy replaces
// the previous one only after every directory was transferred.
func (b *BackupService) ManagementConf(ctx context.Context) error {
	_, svc, err := b.target(ctx)
	if err != nil {
		return err
	}

	cfg := b.fleet.Config
	stamp := b.fleet.timestamp()
	baseDir := path.Join(cfg.Paths.BackupDir, "management-conf")
	tmpDir := path.Join(baseDir, "tmp-"+stamp)
	targetDir := path.Join(baseDir, stamp)
	host := svc.Hostname()

	dirs := []struct{ description, src, dst string }{
		{"config", cfg.Paths.ConfigDir, "etc"},
		{"admin UI permissions", cfg.Paths.PermissionsDir, "admin-ui-permissions"},
		{"command history", cfg.Paths.CommandsDir, "commands"},
	}

	remoteStep := func(command string) Action {
		return func(ctx context.Context, item Item) models.OperationResult {
			return b.fleet.run(ctx, item, command, remote.Options{})
		}
	}
	rsyncStep := func(src, dst string) Action {
		args := []string{
			"-av", "--del",
			"-e", fmt.Sprintf("ssh -p %d", cfg.SSH.Port),
			src + "/",
			fmt.Sprintf("%s@%s:%s/%s/", b.fleet.Remote.Account(), host, tmpDir, dst),
		}
		return func(ctx context.Context, item Item) models.OperationResult {
			res := b.fleet.Local.Run(ctx, remote.Command("rsync", args...))
			if !res.Success() {
				return models.Failed(item.ID, item.Host, res.ExitCode, res.Reason())
			}
			return models.Succeeded(item.ID, item.Host)
		}
	}

	steps := map[string]Action{}
	var items []Item
	add := func(description string, action Action) {
		items = append(items, Item{ID: description, Host: host})
		steps[description] = action
	}
	add("remove stale temporary directory", remoteStep(remote.Join("rm", "-rfv", tmpDir)))
	add("create temporary directory", remoteStep(remote.Join("mkdir", "-v", tmpDir)))
	for _, d := range dirs {
		add("copy "+d.description+" directory", rsyncStep(d.src, d.dst))
	}
	add("remove previous backup", remoteStep(remote.Join("rm", "-rfv", targetDir)))
	add("activate new backup", remoteStep(remote.Join("mv", "-v", tmpDir, targetDir)))

	return b.locked(ctx, host, func() error {
		flow := b.fleet.flow("backup-management-conf", StopOnFirstFailure, "")
		report := flow.Run(ctx, items, func(ctx context.Context, item Item) models.OperationResult {
			return steps[item.ID](ctx, item)
		})
		return report.Err()
	})
}

// BallotBox backs up the ballot box of a configured voting service to the
// backup host and returns the archive name. An empty votingID picks a random
// service.
func (b *BackupService) BallotBox(ctx context.Context, votingID string) (string, error) {
	snap, svc, err := b.target(ctx)
	if err != nil {
		return "", err
	}

	var archive string
	err = b.locked(ctx, svc.Hostname(), func() error {
		archive, err = b.ballotBox(ctx, snap, svc, votingID)
		return err
	})
	if err != nil {
		return "", err
	}
	return archive, nil
}

// ballotBox expects the backup lock of the backup host to be held.
func (b *BackupService) ballotBox(ctx context.Context, snap *Snapshot, svc models.Service, votingID string) (string, error) {
	voting := snap.Select(Query{
		Types:         []models.ServiceType{models.ServiceTypeVoting},
		ServiceStates: []models.ServiceState{models.ServiceStateConfigured},
	})
	source, err := PickService(voting, votingID, b.fleet.Rand)
	if errors.Is(err, ErrNoEligibleServices) {
		return "", fmt.Errorf("%w: no configured voting service", ErrNoEligibleServices)
	}
	if err != nil {
		return "", err
	}

	archive := fmt.Sprintf("ballot-box-%s.zip", b.fleet.timestamp())
	host := svc.Hostname()

	if err := b.copyKnownHosts(ctx, host); err != nil {
		return "", err
	}
	logger(ctx).Infow("backing up ballot box", "voting_service", source.ID, "archive", archive)
	item := Item{ID: source.ID, Host: host}
	res := b.fleet.run(ctx, item,
		remote.Join("ivxv-admin-sudo", "backup-ballot-box", source.Hostname(), source.ID, archive),
		remote.Options{ForwardAgent: true},
	)
	if err := res.Err(); err != nil {
		return "", fmt.Errorf("%w: ballot box backup: %w", models.ErrOperationFailed, err)
	}
	return archive, nil
}

// Logs backs up every configured log collector, stopping at the first
// failure.
func (b *BackupService) Logs(ctx context.Context) (models.Report, error) {
	snap, svc, err := b.target(ctx)
	if err != nil {
		return models.Report{}, err
	}

	collectors := snap.Select(Query{
		Types:         []models.ServiceType{models.ServiceTypeLog},
		ServiceStates: []models.ServiceState{models.ServiceStateConfigured},
	})
	stamp := b.fleet.timestamp()
	host := svc.Hostname()

	var report models.Report
	err = b.locked(ctx, host, func() error {
		if err := b.copyKnownHosts(ctx, host); err != nil {
			return err
		}
		flow := b.fleet.flow("backup-log", StopOnFirstFailure, "")
		report = flow.Run(ctx, ServiceItems(collectors), func(ctx context.Context, item Item) models.OperationResult {
			res := b.fleet.Remote.Run(ctx, host,
				remote.Join("ivxv-admin-sudo", "backup-log", item.Host, stamp),
				remote.Options{ForwardAgent: true},
			)
			if !res.Success() {
				return models.Failed(item.ID, item.Host, res.ExitCode, res.Reason())
			}
			return models.Succeeded(item.ID, item.Host)
		})
		return report.Err()
	})
	return report, err
}

// copyKnownHosts lets the backup host reach the service hosts it pulls from.
func (b *BackupService) copyKnownHosts(ctx context.Context, host string) error {
	local := expandHome(b.fleet.Config.Paths.KnownHosts)
	if !b.fleet.Remote.Copy(ctx, host, "", local, "~/.ssh/known_hosts", remote.Upload, "list of known SSH hosts") {
		return fmt.Errorf("%w: copying known hosts to %s", models.ErrOperationFailed, host)
	}
	return nil
}
