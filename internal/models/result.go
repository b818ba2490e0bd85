package models

import (
	"errors"
	"fmt"
)

// ErrOperationFailed is returned by fan-out operations when at least one item
// failed. Per item details are in the Report.
var ErrOperationFailed = errors.New("operation failed")

type ResultStatus string

const (
	ResultSucceeded ResultStatus = "succeeded"
	ResultFailed    ResultStatus = "failed"
	ResultSkipped   ResultStatus = "skipped"
)

// OperationResult is the outcome of one remote action against one item.
type OperationResult struct {
	ID       string
	Host     string
	Status   ResultStatus
	ExitCode int
	Reason   string
}

func Succeeded(id, host string) OperationResult {
	return OperationResult{ID: id, Host: host, Status: ResultSucceeded}
}

func Failed(id, host string, exitCode int, reason string) OperationResult {
	return OperationResult{ID: id, Host: host, Status: ResultFailed, ExitCode: exitCode, Reason: reason}
}

func Skipped(id, host, reason string) OperationResult {
	return OperationResult{ID: id, Host: host, Status: ResultSkipped, Reason: reason}
}

func (r OperationResult) Err() error {
	if r.Status != ResultFailed {
		return nil
	}
	if r.Reason == "" {
		return fmt.Errorf("%s (%s): exit code %d", r.ID, r.Host, r.ExitCode)
	}
	return fmt.Errorf("%s (%s): %s", r.ID, r.Host, r.Reason)
}

// Report aggregates the per item results of one flow run.
type Report struct {
	Flow      string
	Results   []OperationResult
	Succeeded int
	Failed    int
	Skipped   int
	// RequireSuccess is set by stop-on-first-success flows: one success is
	// enough and failures only matter when nothing succeeded.
	RequireSuccess bool
}

func (r *Report) Add(res OperationResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case ResultSucceeded:
		r.Succeeded++
	case ResultFailed:
		r.Failed++
	case ResultSkipped:
		r.Skipped++
	}
}

// OK reports the overall outcome.
func (r Report) OK() bool {
	if r.RequireSuccess {
		return r.Succeeded > 0
	}
	return r.Failed == 0
}

// Err returns nil for a successful report, otherwise ErrOperationFailed joined
// with every per item failure.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := []error{fmt.Errorf("%w: %s: %d succeeded, %d failed, %d skipped",
		ErrOperationFailed, r.Flow, r.Succeeded, r.Failed, r.Skipped)}
	for _, res := range r.Results {
		if err := res.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
