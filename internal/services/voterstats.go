package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/remote"
)

// Voter statistics types and actions.
const (
	StatsCommon = "common"
	StatsDetail = "detail"

	StatsActionAll    = "all"
	StatsActionImport = "import"
	StatsActionExport = "export"
)

type VoterStatsRequest struct {
	Type   string
	Action string
	// File defaults to voterstats-<type>.json in the admin UI data directory.
	File string
	// ServiceID selects the voting service; empty or "random" picks one.
	ServiceID string
	Quiet     bool
}

// StatsUploader receives exported statistics.
type StatsUploader interface {
	PostVoterStats(ctx context.Context, stats []byte) error
}

// VoterStatsService imports voter statistics from a voting service and
// exports them to VIS.
type VoterStatsService struct {
	fleet *Fleet
	vis   StatsUploader
}

func NewVoterStatsService(fleet *Fleet, vis StatsUploader) *VoterStatsService {
	return &VoterStatsService{fleet: fleet, vis: vis}
}

func (v *VoterStatsService) Run(ctx context.Context, req VoterStatsRequest) error {
	if req.Type != StatsCommon && req.Type != StatsDetail {
		return fmt.Errorf("%w: unexpected stats type %q", ErrInvalidArgument, req.Type)
	}
	if req.Action == "" {
		req.Action = StatsActionAll
	}
	switch req.Action {
	case StatsActionAll, StatsActionImport, StatsActionExport:
	default:
		return fmt.Errorf("%w: unexpected action %q", ErrInvalidArgument, req.Action)
	}
	if req.File == "" {
		req.File = filepath.Join(v.fleet.Config.Paths.AdminUIDataDir, fmt.Sprintf("voterstats-%s.json", req.Type))
	}

	snap, err := v.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Districts == "" {
		return ErrDistrictsNotLoaded
	}
	voting := snap.Select(Query{
		Types:         []models.ServiceType{models.ServiceTypeVoting},
		ServiceStates: []models.ServiceState{models.ServiceStateConfigured},
	})
	if len(voting) == 0 {
		return fmt.Errorf("%w: no configured voting service found", ErrNoEligibleServices)
	}

	requested := req.ServiceID
	if requested == "random" {
		requested = ""
	}
	svc, err := PickService(voting, requested, v.fleet.Rand)
	if errors.Is(err, ErrUnknownService) {
		if other, ok := snap.Lookup(requested); ok && other.Type == models.ServiceTypeVoting {
			return fmt.Errorf("%w: voting service %s is %s", ErrServiceNotConfigured, requested, other.State)
		}
		return err
	}
	if err != nil {
		return err
	}

	if req.Action != StatsActionExport {
		if err := v.importStats(ctx, req, svc); err != nil {
			return fmt.Errorf("failed to import %s stats from service %s: %w", req.Type, svc.ID, err)
		}
	}
	if req.Action != StatsActionImport {
		if err := v.exportStats(ctx, req); err != nil {
			return fmt.Errorf("failed to export %s stats to VIS: %w", req.Type, err)
		}
	}
	return nil
}

func (v *VoterStatsService) importStats(ctx context.Context, req VoterStatsRequest, svc models.Service) error {
	log := logger(ctx).With("service", svc.ID, "type", req.Type)
	remoteFile := fmt.Sprintf("%s/ivxv-voterstats-%d.json", v.fleet.Config.Paths.VotingDataDir, os.Getpid())

	args := []string{"ivxv-voterstats", "-instance", svc.ID}
	if req.Type == StatsDetail {
		args = append(args, "-detailed")
	}
	if req.Quiet {
		args = append(args, "-q")
	}
	args = append(args, remoteFile)

	log.Info("generating stats in voting service")
	res := v.fleet.Remote.Run(ctx, svc.Hostname(), remote.Join(args...), remote.Options{})
	if !res.Success() {
		return fmt.Errorf("%w: generating stats: %s", models.ErrOperationFailed, res.Reason())
	}

	log.Info("importing stats from voting service")
	if !v.fleet.Remote.Copy(ctx, svc.Hostname(), "", req.File, remoteFile, remote.Download, req.Type+" stats") {
		return fmt.Errorf("%w: copying stats to management service", models.ErrOperationFailed)
	}
	return nil
}

func (v *VoterStatsService) exportStats(ctx context.Context, req VoterStatsRequest) error {
	logger(ctx).Infow("exporting stats to VIS", "type", req.Type)
	stats, err := os.ReadFile(req.File)
	if err != nil {
		return err
	}
	return v.vis.PostVoterStats(ctx, stats)
}
