// Package exec runs the external introspection commands (lsof, netstat,
// tasklist, wmic) behind a small interface so discovery can be tested against
// recorded command output.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"
)

// Runner executes a command and returns its stdout, its stderr and the error
// from waiting on it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// OSRunner runs commands with os/exec.
type OSRunner struct{}

// NewOSRunner returns a Runner backed by real subprocesses.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run starts name with args and waits for it to exit.
func (r *OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := osexec.CommandContext(ctx, name, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	return stdoutBuf.Bytes(), stderrBuf.Bytes(), err
}

// CommandError is returned when an external command could not be started or
// exited with a failure status after writing to stderr.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	line := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	switch {
	case e.Stderr != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", line, e.Stderr, e.Err)
	case e.Stderr != "":
		return fmt.Sprintf("%s: %s", line, e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", line, e.Err)
	default:
		return line + ": command failed"
	}
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Result is the captured output of a command that Output considered usable.
type Result struct {
	Stdout string
	// Stderr holds anything the command wrote to stderr while still exiting
	// successfully (lsof prints filesystem warnings this way).
	Stderr string
}

// Output runs name through r and classifies the outcome.
//
// A command that cannot be started, is cancelled, or exits non-zero after
// writing to stderr yields a *CommandError. A non-zero exit with an empty
// stderr is how lsof and findstr report "nothing matched", so it returns the
// (usually empty) stdout without error.
func Output(ctx context.Context, r Runner, name string, args ...string) (Result, error) {
	stdout, stderr, err := r.Run(ctx, name, args...)
	res := Result{
		Stdout: string(stdout),
		Stderr: strings.TrimSpace(string(stderr)),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, &CommandError{Name: name, Args: args, Stderr: res.Stderr, Err: ctxErr}
	}
	if err == nil {
		return res, nil
	}

	var exited interface{ ExitCode() int }
	if !errors.As(err, &exited) || res.Stderr != "" {
		return res, &CommandError{Name: name, Args: args, Stderr: res.Stderr, Err: err}
	}
	return res, nil
}
