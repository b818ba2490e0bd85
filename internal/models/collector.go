package models

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInconsistentState marks values in the state store that the control-plane
// cannot interpret. It is fatal and never retried.
var ErrInconsistentState = errors.New("inconsistent collector state")

// CollectorState represents the installation progress of the whole fleet.
type CollectorState string

const (
	// CollectorStateNotInstalled - no service has been installed yet
	CollectorStateNotInstalled CollectorState = "NOT_INSTALLED"
	// CollectorStateInstalled - service software installed, not configured
	CollectorStateInstalled CollectorState = "INSTALLED"
	// CollectorStateConfigured - every service is configured
	CollectorStateConfigured CollectorState = "CONFIGURED"
	// CollectorStateFailure - configuration failed for every service
	CollectorStateFailure CollectorState = "FAILURE"
	// CollectorStatePartialFailure - configuration failed for some services
	CollectorStatePartialFailure CollectorState = "PARTIAL_FAILURE"
)

// ServiceState represents the lifecycle state of a single service.
type ServiceState string

const (
	ServiceStateInstalled  ServiceState = "INSTALLED"
	ServiceStateConfigured ServiceState = "CONFIGURED"
	ServiceStateFailure    ServiceState = "FAILURE"
	// ServiceStateRemoved - service is gone for good and never selected again
	ServiceStateRemoved ServiceState = "REMOVED"
)

// CollectorStatesAfterInstall is the gate used by operations that only need
// service software to be present on the hosts.
var CollectorStatesAfterInstall = []CollectorState{
	CollectorStateInstalled,
	CollectorStateConfigured,
	CollectorStateFailure,
	CollectorStatePartialFailure,
}

func ParseCollectorState(s string) (CollectorState, error) {
	switch state := CollectorState(s); state {
	case CollectorStateNotInstalled, CollectorStateInstalled, CollectorStateConfigured,
		CollectorStateFailure, CollectorStatePartialFailure:
		return state, nil
	default:
		return "", fmt.Errorf("%w: unknown collector state %q", ErrInconsistentState, s)
	}
}

func ParseServiceState(s string) (ServiceState, error) {
	switch state := ServiceState(s); state {
	case ServiceStateInstalled, ServiceStateConfigured, ServiceStateFailure, ServiceStateRemoved:
		return state, nil
	default:
		return "", fmt.Errorf("%w: unknown service state %q", ErrInconsistentState, s)
	}
}

// IsEligibleCollectorState reports whether state passes the gate. An empty
// required set means the operation does not gate on collector state.
func IsEligibleCollectorState(state CollectorState, required []CollectorState) bool {
	if len(required) == 0 {
		return true
	}
	return slices.Contains(required, state)
}

// IsEligibleServiceState reports whether a service in state may be selected.
// Removed services are never eligible; an empty required set accepts every
// other state.
func IsEligibleServiceState(state ServiceState, required []ServiceState) bool {
	if state == ServiceStateRemoved {
		return false
	}
	if len(required) == 0 {
		return true
	}
	return slices.Contains(required, state)
}

// CollectorStatus is the diagnostics view of the fleet.
type CollectorStatus struct {
	State    CollectorState
	Services map[ServiceState]int
}
