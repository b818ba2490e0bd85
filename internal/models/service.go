package models

import (
	"fmt"
	"net"
	"sort"
	"strings"
)

// ServiceType is the kind of a collector service.
type ServiceType string

const (
	ServiceTypeBackup        ServiceType = "backup"
	ServiceTypeChoices       ServiceType = "choices"
	ServiceTypeLog           ServiceType = "log"
	ServiceTypeMID           ServiceType = "mid"
	ServiceTypeProxy         ServiceType = "proxy"
	ServiceTypeSessionStatus ServiceType = "sessionstatus"
	ServiceTypeSmartID       ServiceType = "smartid"
	ServiceTypeStorage       ServiceType = "storage"
	ServiceTypeVerification  ServiceType = "verification"
	ServiceTypeVoting        ServiceType = "voting"
	ServiceTypeVotesOrder    ServiceType = "votesorder"
	ServiceTypeWebEID        ServiceType = "webeid"
)

// main services take part in the voting protocol; the rest support them
var mainServices = map[ServiceType]bool{
	ServiceTypeChoices:       true,
	ServiceTypeMID:           true,
	ServiceTypeSessionStatus: true,
	ServiceTypeSmartID:       true,
	ServiceTypeStorage:       true,
	ServiceTypeVerification:  true,
	ServiceTypeVoting:        true,
	ServiceTypeVotesOrder:    true,
	ServiceTypeWebEID:        true,
	ServiceTypeBackup:        false,
	ServiceTypeLog:           false,
	ServiceTypeProxy:         false,
}

func ParseServiceType(s string) (ServiceType, error) {
	t := ServiceType(s)
	if _, ok := mainServices[t]; !ok {
		return "", fmt.Errorf("%w: unknown service type %q", ErrInconsistentState, s)
	}
	return t, nil
}

// IsMain reports whether the type is a main collector service.
func (t ServiceType) IsMain() bool {
	return mainServices[t]
}

// Package returns the name of the software package providing the service.
func (t ServiceType) Package() string {
	return "ivxv-" + string(t)
}

// Service is one managed service instance as recorded in the state store.
type Service struct {
	ID      string
	Type    ServiceType
	State   ServiceState
	Address string
	Params  map[string]string
}

// Hostname returns the service address without the port.
func (s Service) Hostname() string {
	if host, _, err := net.SplitHostPort(s.Address); err == nil {
		return host
	}
	return s.Address
}

// Param returns a type-specific parameter or an empty string.
func (s Service) Param(name string) string {
	return s.Params[name]
}

// BackupTimes returns the configured "HH:MM" backup times, sorted.
func (s Service) BackupTimes() ([]ClockTime, error) {
	raw := strings.Fields(s.Param("backup-times"))
	times := make([]ClockTime, 0, len(raw))
	for _, value := range raw {
		t, err := ParseClockTime(value)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", s.ID, err)
		}
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

// ClockTime is a wall clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	var t ClockTime
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return ClockTime{}, fmt.Errorf("invalid time %q: out of range", s)
	}
	return t, nil
}

func (t ClockTime) Before(o ClockTime) bool {
	if t.Hour != o.Hour {
		return t.Hour < o.Hour
	}
	return t.Minute < o.Minute
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// SortedIDs returns service identifiers in lexical order.
func SortedIDs(services map[string]Service) []string {
	ids := make([]string, 0, len(services))
	for id := range services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sorted returns services ordered by identifier.
func Sorted(services map[string]Service) []Service {
	list := make([]Service, 0, len(services))
	for _, id := range SortedIDs(services) {
		list = append(list, services[id])
	}
	return list
}
