// Package dispatch orchestrates the configure, build, run, and select
// operations against the persisted target document.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"cmforge/internal/history"
	"cmforge/internal/logging"
	"cmforge/internal/runner"
	"cmforge/internal/target"
)

// CommandRunner executes one external command in a working directory.
type CommandRunner interface {
	Run(ctx context.Context, dir, command string, args ...string) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStatusWriter overrides where user-facing status lines are printed.
func WithStatusWriter(w io.Writer) Option {
	return func(d *Dispatcher) {
		if w != nil {
			d.out = w
		}
	}
}

// WithHistory attaches an invocation history store. A nil store disables
// recording.
func WithHistory(store *history.Store) Option {
	return func(d *Dispatcher) {
		d.history = store
	}
}

// Dispatcher loads the document, resolves the current target, and delegates
// to the command runner. Every operation follows load, resolve, find, act;
// only Select mutates and persists the document.
type Dispatcher struct {
	store   *target.Store
	runner  CommandRunner
	history *history.Store
	logger  *slog.Logger
	out     io.Writer
}

// New constructs a Dispatcher.
func New(store *target.Store, cmdRunner CommandRunner, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		runner: cmdRunner,
		logger: logging.NewComponentLogger(logger, "dispatch"),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Configure runs the configure entry matching the current target.
func (d *Dispatcher) Configure(ctx context.Context) error {
	doc, err := d.store.Load()
	if err != nil {
		return err
	}
	entry, ok := doc.FindConfigure(doc.CurrentBuildTarget)
	if !ok {
		return fmt.Errorf("configure target not found: %s", doc.CurrentBuildTarget)
	}
	fmt.Fprintf(d.out, "Configuring %s\n", entry.Name)
	return d.execute(ctx, "configure", doc, entry.Name, entry.Command, entry.Args)
}

// Build runs the build entry matching the current target.
func (d *Dispatcher) Build(ctx context.Context) error {
	doc, err := d.store.Load()
	if err != nil {
		return err
	}
	return d.buildTarget(ctx, doc)
}

// Run runs the run entry matching the current target. Entries with pre_build
// set build first; a failed build aborts the run.
func (d *Dispatcher) Run(ctx context.Context) error {
	doc, err := d.store.Load()
	if err != nil {
		return err
	}
	entry, ok := doc.FindRun(doc.CurrentBuildTarget)
	if !ok {
		return fmt.Errorf("run target not found: %s", doc.CurrentBuildTarget)
	}
	if entry.PreBuild {
		if err := d.buildTarget(ctx, doc); err != nil {
			return fmt.Errorf("pre-build for %s: %w", entry.Name, err)
		}
	}
	fmt.Fprintf(d.out, "Running %s\n", entry.Name)
	return d.execute(ctx, "run", doc, entry.Name, entry.Command, entry.Args)
}

// Select sets the current target to BuildTargets[index] and persists
// immediately. The only persistent state transition in the tool.
func (d *Dispatcher) Select(index int) (*target.Document, error) {
	doc, err := d.store.Load()
	if err != nil {
		return nil, err
	}
	if err := doc.Select(index); err != nil {
		return nil, err
	}
	if err := d.store.Save(doc); err != nil {
		return nil, err
	}
	d.logger.Info("selected build target",
		logging.String("target", doc.CurrentBuildTarget),
		logging.Int("index", index))
	return doc, nil
}

func (d *Dispatcher) buildTarget(ctx context.Context, doc *target.Document) error {
	entry, ok := doc.FindBuild(doc.CurrentBuildTarget)
	if !ok {
		return fmt.Errorf("build target not found: %s", doc.CurrentBuildTarget)
	}
	fmt.Fprintf(d.out, "Building %s\n", entry.Name)
	return d.execute(ctx, "build", doc, entry.Name, entry.Command, entry.Args)
}

func (d *Dispatcher) execute(ctx context.Context, operation string, doc *target.Document, name, command string, args []string) error {
	started := time.Now()
	runErr := d.runner.Run(ctx, doc.Workspace, command, args...)
	d.record(ctx, operation, name, command, args, started, runErr)
	return runErr
}

// record persists one history row. Recording failures are logged, never
// surfaced; history must not break a build.
func (d *Dispatcher) record(ctx context.Context, operation, name, command string, args []string, started time.Time, runErr error) {
	if d.history == nil {
		return
	}
	status, _ := runner.ExitStatus(runErr)
	inv := history.Invocation{
		ID:         uuid.NewString(),
		Operation:  operation,
		Target:     name,
		Command:    command,
		Args:       args,
		ExitStatus: status,
		Success:    runErr == nil,
		Duration:   time.Since(started),
		StartedAt:  started,
	}
	if err := d.history.Record(ctx, inv); err != nil {
		d.logger.Warn("failed to record invocation",
			logging.String("operation", operation),
			logging.String("target", name),
			logging.Error(err))
	}
}
