package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/hostlock"
)

// Policy decides when a flow stops iterating and how its report is judged.
type Policy int

const (
	// CollectAll runs every item; the flow fails if any item failed.
	CollectAll Policy = iota
	// StopOnFirstFailure skips the remaining items after a failure.
	StopOnFirstFailure
	// StopOnFirstSuccess tries items until one succeeds; the flow fails only
	// when none did.
	StopOnFirstSuccess
)

func (p Policy) String() string {
	switch p {
	case CollectAll:
		return "collect-all"
	case StopOnFirstFailure:
		return "stop-on-first-failure"
	case StopOnFirstSuccess:
		return "stop-on-first-success"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Item is one unit of work of a flow, usually a service or a host.
type Item struct {
	ID   string
	Host string
}

// ServiceItems turns services into items in identifier order.
func ServiceItems(services map[string]models.Service) []Item {
	items := make([]Item, 0, len(services))
	for _, svc := range models.Sorted(services) {
		items = append(items, Item{ID: svc.ID, Host: svc.Hostname()})
	}
	return items
}

// Action performs the remote work for one item.
type Action func(ctx context.Context, item Item) models.OperationResult

// Flow runs an action over items sequentially. With a LockKind every item
// runs under the host lock for (item host, kind); an item whose lock is held
// elsewhere is skipped with a warning.
type Flow struct {
	Name     string
	Policy   Policy
	LockKind string
	Locks    *hostlock.Manager
}

// Run executes the flow and returns its report. Items are processed in the
// given order.
func (f Flow) Run(ctx context.Context, items []Item, action Action) models.Report {
	log := zap.S().Named("flow").With("flow", f.Name, "run_id", uuid.NewString())
	ctx = withLogger(ctx, log)

	report := models.Report{Flow: f.Name, RequireSuccess: f.Policy == StopOnFirstSuccess}
	log.Infow("starting flow", "policy", f.Policy.String(), "items", len(items))

	stopped := ""
	for _, item := range items {
		if stopped == "" && ctx.Err() != nil {
			stopped = "cancelled"
		}
		if stopped != "" {
			report.Add(models.Skipped(item.ID, item.Host, stopped))
			continue
		}

		res := f.runItem(ctx, log, item, action)
		report.Add(res)

		switch {
		case f.Policy == StopOnFirstFailure && res.Status == models.ResultFailed:
			stopped = fmt.Sprintf("not run after failure of %s", item.ID)
		case f.Policy == StopOnFirstSuccess && res.Status == models.ResultSucceeded:
			stopped = fmt.Sprintf("not needed after success of %s", item.ID)
		}
	}

	log.Infow("flow finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"ok", report.OK(),
	)
	return report
}

func (f Flow) runItem(ctx context.Context, log *zap.SugaredLogger, item Item, action Action) models.OperationResult {
	itemLog := log.With("id", item.ID, "host", item.Host)

	if f.LockKind == "" || f.Locks == nil {
		return fill(action(ctx, item), item)
	}

	var res models.OperationResult
	key := hostlock.Key(item.Host, f.LockKind)
	acquired, err := f.Locks.With(key, func() error {
		res = fill(action(ctx, item), item)
		return nil
	})
	if err != nil {
		itemLog.Errorw("failed to take host lock", "lock", key, "error", err)
		return models.Failed(item.ID, item.Host, 1, err.Error())
	}
	if !acquired {
		itemLog.Warnw("lock exists, skipping host", "lock", key)
		return models.Skipped(item.ID, item.Host, "locked by another process")
	}
	return res
}

func fill(res models.OperationResult, item Item) models.OperationResult {
	if res.ID == "" {
		res.ID = item.ID
	}
	if res.Host == "" {
		res.Host = item.Host
	}
	return res
}

type loggerKey struct{}

func withLogger(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// logger returns the flow logger stored in ctx or the global one.
func logger(ctx context.Context) *zap.SugaredLogger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return log
	}
	return zap.S()
}
