package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/store"
)

// State store keys.
const (
	keyCollectorState     = "collector/state"
	keyLogMonitorAddress  = "logmonitor/address"
	keyDistricts          = "list/districts"
	prefixService         = "service"
	keyDetailStatsCrontab = "stats/detail/scheduler/cron"
	keyVotingFactsCrontab = "stats/voting_facts/scheduler/cron"
	serviceAttrType       = "service-type"
	serviceAttrState      = "state"
	serviceAttrAddress    = "ip-address"
)

// StateReader is the read side of the collector management database.
type StateReader interface {
	GetValue(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context, prefix string) (map[string]string, error)
}

// StateWriter persists generated values between runs.
type StateWriter interface {
	SetValue(ctx context.Context, key, value string) error
}

// Query filters services. Empty sets do not filter, except that removed
// services are never returned.
type Query struct {
	Types           []models.ServiceType
	CollectorStates []models.CollectorState
	ServiceStates   []models.ServiceState
}

// Selector reads service records from the state store.
type Selector struct {
	state StateReader
}

func NewSelector(state StateReader) *Selector {
	return &Selector{state: state}
}

// Snapshot reads the collector state and every service record once.
func (s *Selector) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Services: make(map[string]models.Service)}

	raw, err := s.optional(ctx, keyCollectorState)
	if err != nil {
		return nil, err
	}
	// a missing value means nothing has been installed yet
	snap.CollectorState = models.CollectorStateNotInstalled
	if raw != "" {
		if snap.CollectorState, err = models.ParseCollectorState(raw); err != nil {
			return nil, err
		}
	}

	if snap.LogMonitor, err = s.optional(ctx, keyLogMonitorAddress); err != nil {
		return nil, err
	}
	if snap.Districts, err = s.optional(ctx, keyDistricts); err != nil {
		return nil, err
	}

	values, err := s.state.GetAll(ctx, prefixService)
	if err != nil {
		return nil, fmt.Errorf("reading service records: %w", err)
	}
	records := make(map[string]map[string]string)
	for key, value := range values {
		id, attr, ok := strings.Cut(key, "/")
		if !ok || id == "" || attr == "" {
			return nil, fmt.Errorf("%w: malformed service key %q", models.ErrInconsistentState, key)
		}
		if records[id] == nil {
			records[id] = make(map[string]string)
		}
		records[id][attr] = value
	}

	for id, attrs := range records {
		svc, err := parseService(id, attrs)
		if err != nil {
			return nil, err
		}
		snap.Services[id] = svc
	}
	return snap, nil
}

// Select is a shorthand for Snapshot followed by Snapshot.Select.
func (s *Selector) Select(ctx context.Context, q Query) (map[string]models.Service, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Select(q), nil
}

func (s *Selector) optional(ctx context.Context, key string) (string, error) {
	value, err := s.state.GetValue(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func parseService(id string, attrs map[string]string) (models.Service, error) {
	svcType, err := models.ParseServiceType(attrs[serviceAttrType])
	if err != nil {
		return models.Service{}, fmt.Errorf("service %s: %w", id, err)
	}
	state, err := models.ParseServiceState(attrs[serviceAttrState])
	if err != nil {
		return models.Service{}, fmt.Errorf("service %s: %w", id, err)
	}

	params := make(map[string]string)
	for attr, value := range attrs {
		switch attr {
		case serviceAttrType, serviceAttrState, serviceAttrAddress:
		default:
			params[attr] = value
		}
	}

	return models.Service{
		ID:      id,
		Type:    svcType,
		State:   state,
		Address: attrs[serviceAttrAddress],
		Params:  params,
	}, nil
}

// Snapshot is the point-in-time view a flow works from. Flows never re-read
// the store mid-operation.
type Snapshot struct {
	CollectorState models.CollectorState
	LogMonitor     string
	Districts      string
	// Services holds every record, removed ones included.
	Services map[string]models.Service
}

// Select returns the services matching q. When the collector state fails the
// gate the result is empty, not an error.
func (s *Snapshot) Select(q Query) map[string]models.Service {
	selected := make(map[string]models.Service)
	if !models.IsEligibleCollectorState(s.CollectorState, q.CollectorStates) {
		return selected
	}
	for id, svc := range s.Services {
		if len(q.Types) > 0 && !slices.Contains(q.Types, svc.Type) {
			continue
		}
		if !models.IsEligibleServiceState(svc.State, q.ServiceStates) {
			continue
		}
		selected[id] = svc
	}
	return selected
}

// Lookup returns a service in any state.
func (s *Snapshot) Lookup(id string) (models.Service, bool) {
	svc, ok := s.Services[id]
	return svc, ok
}

// SingleService returns the only non-removed service of type t. When states
// is not empty the service must also be in one of them.
func SingleService(snap *Snapshot, t models.ServiceType, states ...models.ServiceState) (models.Service, error) {
	services := snap.Select(Query{Types: []models.ServiceType{t}})
	switch len(services) {
	case 0:
		return models.Service{}, fmt.Errorf("%w: %s", ErrServiceNotDefined, t)
	case 1:
	default:
		return models.Service{}, fmt.Errorf("%w: %d %s services", ErrMultipleServices, len(services), t)
	}

	svc := models.Sorted(services)[0]
	if len(states) > 0 && !models.IsEligibleServiceState(svc.State, states) {
		return models.Service{}, fmt.Errorf("%w: %s service %s is %s", ErrServiceNotConfigured, t, svc.ID, svc.State)
	}
	return svc, nil
}

// PickService chooses uniformly among services. A requested identifier
// overrides the random choice but must be one of services.
func PickService(services map[string]models.Service, requested string, rnd *rand.Rand) (models.Service, error) {
	if requested != "" {
		svc, ok := services[requested]
		if !ok {
			return models.Service{}, fmt.Errorf("%w: %s", ErrUnknownService, requested)
		}
		return svc, nil
	}
	if len(services) == 0 {
		return models.Service{}, ErrNoEligibleServices
	}
	ids := models.SortedIDs(services)
	return services[ids[rnd.IntN(len(ids))]], nil
}
