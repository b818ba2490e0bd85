// Package remote runs commands and copies files on collector hosts.
//
// A Transport does the actual work; the Executor on top of it adds audit
// logging and maps every outcome, connection failures included, to an exit
// code so callers only ever look at one thing.
package remote

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ExitTransportError is reported for connection and protocol failures,
// following ssh(1).
const ExitTransportError = 255

// Direction of a file copy.
type Direction int

const (
	Upload Direction = iota
	Download
)

func (d Direction) String() string {
	if d == Download {
		return "download"
	}
	return "upload"
}

// Request is one remote command invocation.
type Request struct {
	Host    string
	Account string
	Command string
	// ForwardAgent makes local authentication available to commands that
	// open a second hop from the remote host.
	ForwardAgent bool
	Stdin        io.Reader
	// CaptureStdout keeps standard output in the Result; otherwise it is
	// discarded.
	CaptureStdout bool
}

// CopyRequest transfers one file between the management host and Host.
type CopyRequest struct {
	Host      string
	Account   string
	Local     string
	Remote    string
	Direction Direction
}

// Result is the outcome of a remote or local command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is set when the command could not be run at all.
	Err error
}

func (r Result) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// Reason gives a short human readable explanation of a failure: the
// transport error, the last line written to stderr or the exit code.
func (r Result) Reason() string {
	if r.Success() {
		return ""
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	lines := strings.Split(strings.TrimSpace(r.Stderr), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return last
	}
	return fmt.Sprintf("exit code %d", r.ExitCode)
}

// Transport executes requests on remote hosts. Run returns an error only when
// the command could not be started or its exit status is unknown; a command
// that ran and failed is reported through Result.ExitCode.
type Transport interface {
	Run(ctx context.Context, req Request) (Result, error)
	Copy(ctx context.Context, req CopyRequest) error
}
