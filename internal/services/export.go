package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/remote"
)

// ballotBoxPattern matches the archives written by BallotBox; it is expanded
// by the remote shell.
const ballotBoxPattern = "ballot-box-????????_????.zip"

// ExportVotes backs up the current ballot box and writes the newest archive,
// or the consolidation of every archive, to output.
func (b *BackupService) ExportVotes(ctx context.Context, consolidate bool, output string) error {
	if _, err := os.Stat(output); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, output)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	snap, svc, err := b.target(ctx)
	if err != nil {
		return err
	}
	return b.locked(ctx, svc.Hostname(), func() error {
		return b.exportVotes(ctx, snap, svc, consolidate, output)
	})
}

func (b *BackupService) exportVotes(ctx context.Context, snap *Snapshot, svc models.Service, consolidate bool, output string) error {
	log := logger(ctx)
	log.Info("creating backup copy of the current ballot box")
	if _, err := b.ballotBox(ctx, snap, svc, ""); err != nil {
		return fmt.Errorf("creating ballot box backup failed: %w", err)
	}

	host := svc.Hostname()
	archives := remote.Quote(path.Join(b.fleet.Config.Paths.BackupDir, "ballot-box")) + "/" + ballotBoxPattern

	var archive, description string
	if consolidate {
		description = "consolidated ballot box"
		archive = fmt.Sprintf("/var/lib/ivxv/ballot-box-consolidated-%s.zip", b.fleet.timestamp())
		res := b.fleet.Remote.Run(ctx, host, remote.Join("ivxv-voteunion", archive)+" "+archives, remote.Options{})
		if !res.Success() {
			return fmt.Errorf("%w: consolidation failed in backup service: %s", models.ErrOperationFailed, res.Reason())
		}
	} else {
		description = "ballot box"
		res := b.fleet.Remote.Run(ctx, host, "ls "+archives, remote.Options{CaptureStdout: true})
		if !res.Success() {
			return fmt.Errorf("%w: listing ballot box backups: %s", models.ErrOperationFailed, res.Reason())
		}
		lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
		archive = strings.TrimSpace(lines[len(lines)-1])
		if archive == "" {
			return fmt.Errorf("%w: no ballot box backup found", models.ErrOperationFailed)
		}
	}

	log.Infow("copying ballot box to management service", "archive", archive)
	if !b.fleet.Remote.Copy(ctx, host, "", output, archive, remote.Download, description) {
		return fmt.Errorf("%w: failed to copy ballot box to management service", models.ErrOperationFailed)
	}

	if consolidate {
		log.Info("removing consolidated ballot box from backup service")
		if res := b.fleet.Remote.Run(ctx, host, remote.Join("rm", "-v", archive), remote.Options{}); !res.Success() {
			log.Warnw("failed to remove consolidated ballot box", "archive", archive, "reason", res.Reason())
		}
	}

	log.Infow("collected votes archive written", "output", output)
	return nil
}
