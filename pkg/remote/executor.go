package remote

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// Options tune a single Executor.Run call.
type Options struct {
	// Account overrides the executor's default account.
	Account       string
	CaptureStdout bool
	ForwardAgent  bool
	Stdin         io.Reader
}

// Executor runs commands through a Transport. It never retries; retry policy
// belongs to the caller.
type Executor struct {
	transport Transport
	account   string
}

func NewExecutor(t Transport, defaultAccount string) *Executor {
	return &Executor{transport: t, account: defaultAccount}
}

// Account returns the account used when Options.Account is empty.
func (e *Executor) Account() string {
	return e.account
}

// Run executes command on host. Transport failures are folded into the
// result with ExitTransportError.
func (e *Executor) Run(ctx context.Context, host, command string, opts Options) Result {
	account := opts.Account
	if account == "" {
		account = e.account
	}
	log := zap.S().Named("remote").With("host", host, "account", account)
	log.Infow("executing remote command", "command", command, "forward_agent", opts.ForwardAgent)

	res, err := e.transport.Run(ctx, Request{
		Host:          host,
		Account:       account,
		Command:       command,
		ForwardAgent:  opts.ForwardAgent,
		Stdin:         opts.Stdin,
		CaptureStdout: opts.CaptureStdout,
	})
	if err != nil {
		log.Errorw("remote command failed to run", "command", command, "error", err)
		return Result{ExitCode: ExitTransportError, Err: err}
	}

	if opts.CaptureStdout {
		log.Debugw("remote command output", "command", command, "stdout", res.Stdout)
	} else {
		res.Stdout = ""
	}
	if !res.Success() {
		log.Warnw("remote command failed", "command", command, "exit_code", res.ExitCode, "reason", res.Reason())
	}
	return res
}

// Copy transfers a file and reports success. Failures, a missing source
// included, are logged with description and returned as false.
func (e *Executor) Copy(ctx context.Context, host, account, local, remote string, dir Direction, description string) bool {
	if account == "" {
		account = e.account
	}
	log := zap.S().Named("remote").With("host", host, "account", account)
	log.Infow("copying file", "description", description, "direction", dir.String(), "local", local, "remote", remote)

	err := e.transport.Copy(ctx, CopyRequest{
		Host:      host,
		Account:   account,
		Local:     local,
		Remote:    remote,
		Direction: dir,
	})
	if err != nil {
		log.Errorw("failed to copy "+description, "direction", dir.String(), "local", local, "remote", remote, "error", err)
		return false
	}
	return true
}
