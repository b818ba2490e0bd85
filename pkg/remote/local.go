package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// LocalCommand is a program run on the management host.
type LocalCommand struct {
	Name string
	Args []string
	// Env is appended to the current environment.
	Env []string
	// Attached connects the command to the terminal of this process.
	Attached bool
	Stdin    io.Reader
}

// Command is shorthand for a detached LocalCommand.
func Command(name string, args ...string) LocalCommand {
	return LocalCommand{Name: name, Args: args}
}

// Runner runs local helper programs such as rsync, crontab or ssh-keygen.
type Runner interface {
	Run(ctx context.Context, cmd LocalCommand) Result
}

// LocalRunner is the os/exec backed Runner.
type LocalRunner struct{}

func (LocalRunner) Run(ctx context.Context, c LocalCommand) Result {
	zap.S().Named("local").Infow("executing local command", "command", Join(append([]string{c.Name}, c.Args...)...))

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	if c.Attached {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	} else {
		cmd.Stdin = c.Stdin
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res
	}

	res.ExitCode = 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		res.ExitCode = 127
	}
	res.Err = err
	return res
}
