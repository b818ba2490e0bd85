package services

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/hostlock"
	"github.com/pringinacio/ivxv/pkg/remote"
)

// Fleet bundles the collaborators shared by every flow. It is built once at
// process start and not modified afterwards.
type Fleet struct {
	Config   *config.Configuration
	Selector *Selector
	Remote   *remote.Executor
	Local    remote.Runner
	Locks    *hostlock.Manager
	Rand     *rand.Rand
	Now      func() time.Time
}

func NewFleet(cfg *config.Configuration, state StateReader, transport remote.Transport) *Fleet {
	now := time.Now()
	return &Fleet{
		Config:   cfg,
		Selector: NewSelector(state),
		Remote:   remote.NewExecutor(transport, cfg.Accounts.Admin),
		Local:    remote.LocalRunner{},
		Locks:    hostlock.NewManager(cfg.Paths.LockDir),
		Rand:     rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(os.Getpid()))),
		Now:      time.Now,
	}
}

// flow returns a flow wired to the fleet lock manager.
func (f *Fleet) flow(name string, policy Policy, lockKind string) Flow {
	return Flow{Name: name, Policy: policy, LockKind: lockKind, Locks: f.Locks}
}

// run executes command on item's host and converts the outcome.
func (f *Fleet) run(ctx context.Context, item Item, command string, opts remote.Options) models.OperationResult {
	res := f.Remote.Run(ctx, item.Host, command, opts)
	if !res.Success() {
		return models.Failed(item.ID, item.Host, res.ExitCode, res.Reason())
	}
	return models.Succeeded(item.ID, item.Host)
}

func (f *Fleet) timestamp() string {
	return f.Now().Format("20060102_1504")
}

// expandHome resolves a leading "~/" against the local home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
