package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/store"
	"github.com/pringinacio/ivxv/pkg/block"
	"github.com/pringinacio/ivxv/pkg/crontab"
	"github.com/pringinacio/ivxv/pkg/remote"
)

// CrontabKind identifies a generated crontab block.
type CrontabKind string

const (
	CrontabBackup      CrontabKind = "backup"
	CrontabDetailStats CrontabKind = "detail-stats"
	CrontabVotingFacts CrontabKind = "voting-facts"
)

func ParseCrontabKind(s string) (CrontabKind, error) {
	switch k := CrontabKind(s); k {
	case CrontabBackup, CrontabDetailStats, CrontabVotingFacts:
		return k, nil
	default:
		return "", fmt.Errorf("%w: crontab kind %q", ErrInvalidArgument, s)
	}
}

// BlockName returns the marker name of the block in the crontab.
func (k CrontabKind) BlockName() string {
	switch k {
	case CrontabDetailStats:
		return crontab.DetailStatsBlock
	case CrontabVotingFacts:
		return crontab.VotingFactsBlock
	default:
		return crontab.BackupBlock
	}
}

func (k CrontabKind) stateKey() string {
	if k == CrontabVotingFacts {
		return keyVotingFactsCrontab
	}
	return keyDetailStatsCrontab
}

// CrontabService maintains the generated blocks of the management account
// crontab.
type CrontabService struct {
	fleet *Fleet
	state StateReader
	out   StateWriter
}

func NewCrontabService(fleet *Fleet, state StateReader, out StateWriter) *CrontabService {
	return &CrontabService{fleet: fleet, state: state, out: out}
}

// RenderBackup renders the backup block from the configured services.
func (c *CrontabService) RenderBackup(ctx context.Context) (string, error) {
	snap, err := c.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	configured := func(t models.ServiceType) map[string]models.Service {
		return snap.Select(Query{
			Types:         []models.ServiceType{t},
			ServiceStates: []models.ServiceState{models.ServiceStateConfigured},
		})
	}

	params := crontab.BackupParams{
		Command:   c.fleet.Config.Crontab.Command,
		Generated: c.fleet.Now(),
		BallotBox: len(configured(models.ServiceTypeVoting)) > 0,
		Logs:      len(configured(models.ServiceTypeLog)) > 0,
	}
	// there is at most one backup service
	for _, svc := range models.Sorted(configured(models.ServiceTypeBackup)) {
		times, err := svc.BackupTimes()
		if err != nil {
			return "", fmt.Errorf("%w: %w", models.ErrInconsistentState, err)
		}
		for _, t := range times {
			params.Times = append(params.Times, crontab.Time{Hour: t.Hour, Minute: t.Minute})
		}
	}
	return crontab.RenderBackup(params)
}

// Generate renders a scheduled block and persists it for later edits.
func (c *CrontabService) Generate(ctx context.Context, kind CrontabKind, schedule crontab.Schedule) (string, error) {
	var (
		content string
		err     error
	)
	cfg := c.fleet.Config.Crontab
	switch kind {
	case CrontabDetailStats:
		content, err = crontab.RenderDetailStats(cfg.Command, c.fleet.Now(), schedule)
	case CrontabVotingFacts:
		content, err = crontab.RenderVotingFacts(cfg.Command, c.fleet.Now(), schedule)
	default:
		return "", fmt.Errorf("%w: %s block is rendered from service state", ErrInvalidArgument, kind)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if err := c.out.SetValue(ctx, kind.stateKey(), content); err != nil {
		return "", fmt.Errorf("persisting %s block: %w", kind, err)
	}
	logger(ctx).Infow("crontab block generated", "block", kind.BlockName())
	return content, nil
}

// Content returns the current content of a block: rendered for the backup
// block, as persisted by Generate for the others.
func (c *CrontabService) Content(ctx context.Context, kind CrontabKind) (string, error) {
	if kind == CrontabBackup {
		return c.RenderBackup(ctx)
	}
	content, err := c.state.GetValue(ctx, kind.stateKey())
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrBlockNotGenerated, kind)
	}
	return content, err
}

// Edit regenerates the block inside the crontab file at path. It is the
// editor crontab(1) runs during Install.
func (c *CrontabService) Edit(ctx context.Context, kind CrontabKind, path string) error {
	content, err := c.Content(ctx, kind)
	if err != nil {
		return err
	}
	if err := block.EditFile(path, kind.BlockName(), content, c.fleet.Config.Crontab.Pause); err != nil {
		return err
	}
	logger(ctx).Infow("crontab block updated", "block", kind.BlockName(), "file", path)
	return nil
}

// Remove strips the block from the crontab file at path. It is the editor
// crontab(1) runs during Uninstall.
func (c *CrontabService) Remove(ctx context.Context, kind CrontabKind, path string) error {
	if err := block.RemoveFromFile(path, kind.BlockName(), c.fleet.Config.Crontab.Pause); err != nil {
		return err
	}
	logger(ctx).Infow("crontab block removed", "block", kind.BlockName(), "file", path)
	return nil
}

// Install runs crontab(1) with this utility as editor so the block lands in
// the management account crontab.
func (c *CrontabService) Install(ctx context.Context, kind CrontabKind) error {
	return c.crontab(ctx, c.editor(string(kind)))
}

// Uninstall removes the block from the management account crontab.
func (c *CrontabService) Uninstall(ctx context.Context, kind CrontabKind) error {
	return c.crontab(ctx, c.editor("--remove", string(kind)))
}

// editor builds the "crontab edit" invocation. The child reads the same
// store and pause as this process.
func (c *CrontabService) editor(args ...string) string {
	cfg := c.fleet.Config
	argv := append([]string{cfg.Crontab.Command, "crontab", "edit"}, args...)
	argv = append(argv,
		"--data-folder", cfg.Store.DataFolder,
		"--pause", cfg.Crontab.Pause.String(),
	)
	return remote.Join(argv...)
}

func (c *CrontabService) crontab(ctx context.Context, editor string) error {
	res := c.fleet.Local.Run(ctx, remote.LocalCommand{
		Name:     "crontab",
		Args:     []string{"-e"},
		Env:      []string{"VISUAL=" + editor, "EDITOR=" + editor},
		Attached: true,
	})
	if !res.Success() {
		return fmt.Errorf("%w: crontab -e: %s", models.ErrOperationFailed, res.Reason())
	}
	return nil
}
