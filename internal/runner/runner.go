// Package runner executes the external commands configured in the target
// document, streaming their output line by line.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"cmforge/internal/logging"
)

var commandContext = exec.CommandContext

// ExitError reports a command that started but exited non-zero.
type ExitError struct {
	Command string
	Status  int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q failed with exit status %d", e.Command, e.Status)
}

// ExitStatus extracts the child exit status from a Run error. Returns false
// for spawn and stream failures, where no status exists.
func ExitStatus(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Status, true
	}
	return 0, false
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput overrides the writers that receive the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// Runner spawns external commands in a working directory.
type Runner struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// New constructs a Runner writing to the process streams by default.
func New(logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logging.NewComponentLogger(logger, "runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes command with args in dir and blocks until it exits. The
// child's stdout and stderr are forwarded line-buffered to the runner's
// writers; both pipes are drained concurrently so a chatty child cannot
// deadlock on a full pipe buffer. No timeout and no retry.
func (r *Runner) Run(ctx context.Context, dir, command string, args ...string) error {
	cmd := commandContext(ctx, command, args...) //nolint:gosec
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", command, err)
	}

	var wg sync.WaitGroup
	streamErrs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamErrs[0] = forwardLines(stdout, r.stdout)
	}()
	go func() {
		defer wg.Done()
		streamErrs[1] = forwardLines(stderr, r.stderr)
	}()
	wg.Wait()

	waitErr := cmd.Wait()
	r.logger.Debug("command finished",
		logging.String("command", command),
		logging.Duration("elapsed", time.Since(started)),
		logging.Bool("success", waitErr == nil))

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Command: command, Status: exitErr.ExitCode()}
		}
		return fmt.Errorf("wait for %s: %w", command, waitErr)
	}

	for _, streamErr := range streamErrs {
		if streamErr != nil {
			return fmt.Errorf("read %s output: %w", command, streamErr)
		}
	}
	return nil
}

func forwardLines(from io.Reader, to io.Writer) error {
	scanner := bufio.NewScanner(from)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(to, scanner.Text())
	}
	return scanner.Err()
}
