package services

import (
	"errors"
	"fmt"

	"github.com/pringinacio/ivxv/internal/models"
)

var (
	ErrCollectorNotInstalled  = errors.New("collector is not installed")
	ErrCollectorNotConfigured = errors.New("collector is not configured")
	ErrServiceNotDefined      = errors.New("service is not defined")
	ErrServiceNotConfigured   = errors.New("service is not configured")
	ErrUnknownService         = errors.New("unknown service")
	ErrNoEligibleServices     = errors.New("no eligible services")
	ErrLogMonitorNotDefined   = errors.New("log monitor is not defined")
	ErrLogMonitorUnreachable  = errors.New("cannot access log monitor")
	ErrDistrictsNotLoaded     = errors.New("district list is not loaded")
	ErrHostLocked             = errors.New("operation is already running on host")
	ErrOutputExists           = errors.New("output file already exists")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrBlockNotGenerated      = errors.New("crontab block is not generated")

	// ErrMultipleServices means the state store holds more than one instance
	// of a single-instance service type.
	ErrMultipleServices = fmt.Errorf("%w: multiple services of a single-instance type", models.ErrInconsistentState)
)
