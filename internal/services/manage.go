package services

import (
	"context"
	"fmt"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/remote"
)

// Service management actions.
const (
	ActionStart   = "start"
	ActionStop    = "stop"
	ActionRestart = "restart"
	ActionPing    = "ping"
)

// ManageService starts, stops and pings collector services.
type ManageService struct {
	fleet *Fleet
}

func NewManageService(fleet *Fleet) *ManageService {
	return &ManageService{fleet: fleet}
}

// Manage applies action to every service in ids. Unknown identifiers are
// reported as failures; the remaining services are still processed.
func (m *ManageService) Manage(ctx context.Context, action string, ids []string) (models.Report, error) {
	var verb string
	switch action {
	case ActionPing:
	case ActionStop:
		verb = "stop"
	case ActionStart, ActionRestart:
		// starting a running service restarts it
		verb = "restart"
	default:
		return models.Report{}, fmt.Errorf("%w: action %q", ErrInvalidArgument, action)
	}

	snap, err := m.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return models.Report{}, err
	}
	if snap.CollectorState == models.CollectorStateNotInstalled {
		return models.Report{}, ErrCollectorNotInstalled
	}

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		svc, _ := snap.Lookup(id)
		items = append(items, Item{ID: id, Host: svc.Hostname()})
	}

	flow := m.fleet.flow("service-"+action, CollectAll, "")
	report := flow.Run(ctx, items, func(ctx context.Context, item Item) models.OperationResult {
		svc, ok := snap.Lookup(item.ID)
		if !ok || svc.State == models.ServiceStateRemoved {
			return models.Failed(item.ID, "", 1, ErrUnknownService.Error())
		}

		logger(ctx).Infow("managing service", "action", action, "service", item.ID)
		command := "true"
		if verb != "" {
			command = remote.Join("ivxv-admin-sudo", "service", verb, item.ID)
		}
		return m.fleet.run(ctx, item, command, remote.Options{})
	})
	return report, report.Err()
}
