package services

import (
	"context"
	"fmt"

	"github.com/pringinacio/ivxv/internal/models"
)

// StatusService serves read-only views of the fleet state.
type StatusService struct {
	selector *Selector
}

func NewStatusService(selector *Selector) *StatusService {
	return &StatusService{selector: selector}
}

// GetStatus returns the collector state and service counts per state.
func (s *StatusService) GetStatus(ctx context.Context) (models.CollectorStatus, error) {
	snap, err := s.selector.Snapshot(ctx)
	if err != nil {
		return models.CollectorStatus{}, err
	}
	status := models.CollectorStatus{
		State:    snap.CollectorState,
		Services: make(map[models.ServiceState]int),
	}
	for _, svc := range snap.Services {
		status.Services[svc.State]++
	}
	return status, nil
}

// ListServices returns services sorted by identifier. Without types every
// non-removed service is listed.
func (s *StatusService) ListServices(ctx context.Context, types ...models.ServiceType) ([]models.Service, error) {
	services, err := s.selector.Select(ctx, Query{Types: types})
	if err != nil {
		return nil, err
	}
	return models.Sorted(services), nil
}

// GetService returns the service with id in any state.
func (s *StatusService) GetService(ctx context.Context, id string) (models.Service, error) {
	snap, err := s.selector.Snapshot(ctx)
	if err != nil {
		return models.Service{}, err
	}
	svc, ok := snap.Lookup(id)
	if !ok {
		return models.Service{}, fmt.Errorf("%w: %s", ErrUnknownService, id)
	}
	return svc, nil
}
