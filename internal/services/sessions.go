package services

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/remote"
)

// Voting session types.
const (
	SessionsVote   = "vote"
	SessionsVerify = "verify"
)

type VotingSessionsRequest struct {
	Type      string
	Output    string
	Anonymize bool
	Uniq      bool
	LogLevel  string
}

// VotingSessions exports the list of voting sessions from the log monitor to
// req.Output.
func (l *LogMonitorService) VotingSessions(ctx context.Context, req VotingSessionsRequest) error {
	if !slices.Contains([]string{SessionsVote, SessionsVerify}, req.Type) {
		return fmt.Errorf("%w: session type %q", ErrInvalidArgument, req.Type)
	}

	snap, err := l.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.CollectorState == models.CollectorStateNotInstalled {
		return ErrCollectorNotInstalled
	}
	logmon, err := l.reachable(ctx, snap)
	if err != nil {
		return err
	}

	log := logger(ctx)
	account := l.fleet.Config.Accounts.LogMonitor
	remoteFile := fmt.Sprintf("~/voting-sessions-%s-%d.json", req.Type, os.Getpid())

	args := []string{"ivxv-export-voting-sessions", "--log-level=" + req.LogLevel}
	if req.Anonymize {
		args = append(args, "--anonymize")
	}
	if req.Uniq {
		args = append(args, "--uniq")
	}
	args = append(args, req.Type, remoteFile)

	log.Info("generating voting sessions file in log monitor")
	res := l.fleet.Remote.Run(ctx, logmon, remote.Join(args...), remote.Options{Account: account, CaptureStdout: true})
	if !res.Success() {
		return fmt.Errorf("%w: failed to generate voting sessions: %s", models.ErrOperationFailed, res.Reason())
	}

	log.Info("importing voting sessions file from log monitor")
	if !l.fleet.Remote.Copy(ctx, logmon, account, req.Output, remoteFile, remote.Download, "voting sessions") {
		return fmt.Errorf("%w: failed to import voting sessions", models.ErrOperationFailed)
	}
	log.Infow("voting sessions imported", "output", req.Output)
	return nil
}
