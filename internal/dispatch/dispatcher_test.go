package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cmforge/internal/target"
)

type call struct {
	dir     string
	command string
	args    []string
}

// fakeRunner records every invocation and fails commands listed in failures.
type fakeRunner struct {
	calls    []call
	failures map[string]error
}

func (f *fakeRunner) Run(ctx context.Context, dir, command string, args ...string) error {
	f.calls = append(f.calls, call{dir: dir, command: command, args: args})
	if err, ok := f.failures[command]; ok {
		return err
	}
	return nil
}

func newTestDispatcher(t *testing.T, doc *target.Document) (*Dispatcher, *fakeRunner, *target.Store) {
	t.Helper()
	store := target.NewStore(filepath.Join(t.TempDir(), "project.json"), nil)
	if doc != nil {
		if err := store.Save(doc); err != nil {
			t.Fatalf("seed document: %v", err)
		}
	}
	runner := &fakeRunner{failures: map[string]error{}}
	d := New(store, runner, nil, WithStatusWriter(io.Discard))
	return d, runner, store
}

func testDocument(workspace string) *target.Document {
	return &target.Document{
		Workspace:          workspace,
		BuildTargets:       []string{"t1", "t2"},
		CurrentBuildTarget: "t1",
		Builds: []target.BuildTarget{
			{Name: "t1", Command: "cmake", Args: []string{"--build", "."}},
		},
		Runs: []target.RunTarget{
			{Name: "t1", Command: "./app", Args: []string{}, PreBuild: true},
		},
		Configurations: []target.ConfigureTarget{
			{Name: "t1", Command: "cmake", Args: []string{"-G", "Ninja"}},
		},
	}
}

func TestConfigureRunsEntryInWorkspace(t *testing.T) {
	d, runner, _ := newTestDispatcher(t, testDocument("/work"))

	if err := d.Configure(context.Background()); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	got := runner.calls[0]
	if got.dir != "/work" || got.command != "cmake" || strings.Join(got.args, " ") != "-G Ninja" {
		t.Errorf("unexpected call: %+v", got)
	}
}

func TestConfigureTargetNotFoundSpawnsNothing(t *testing.T) {
	doc := testDocument("/work")
	doc.Configurations = nil
	d, runner, _ := newTestDispatcher(t, doc)

	err := d.Configure(context.Background())
	if err == nil {
		t.Fatal("Configure should fail when no entry matches")
	}
	if !strings.Contains(err.Error(), "configure target not found: t1") {
		t.Errorf("error should name the missing target: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("no process may be spawned, got %d calls", len(runner.calls))
	}
}

func TestRunWithPreBuildBuildsFirst(t *testing.T) {
	d, runner, _ := newTestDispatcher(t, testDocument("/work"))

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected build then run, got %d calls", len(runner.calls))
	}
	if runner.calls[0].command != "cmake" || strings.Join(runner.calls[0].args, " ") != "--build ." {
		t.Errorf("first call should be the build entry: %+v", runner.calls[0])
	}
	if runner.calls[1].command != "./app" || len(runner.calls[1].args) != 0 {
		t.Errorf("second call should be the run entry: %+v", runner.calls[1])
	}
}

func TestRunAbortsWhenPreBuildFails(t *testing.T) {
	d, runner, _ := newTestDispatcher(t, testDocument("/work"))
	buildErr := errors.New("compile error")
	runner.failures["cmake"] = buildErr

	err := d.Run(context.Background())
	if err == nil {
		t.Fatal("Run should propagate the build failure")
	}
	if !errors.Is(err, buildErr) {
		t.Errorf("expected wrapped build error, got %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("run entry must not execute after a failed build, got %d calls", len(runner.calls))
	}
}

func TestRunWithoutPreBuildSkipsBuild(t *testing.T) {
	doc := testDocument("/work")
	doc.Runs[0].PreBuild = false
	d, runner, _ := newTestDispatcher(t, doc)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0].command != "./app" {
		t.Errorf("expected only the run entry, got %+v", runner.calls)
	}
}

func TestRunTargetNotFound(t *testing.T) {
	doc := testDocument("/work")
	doc.Runs = nil
	d, runner, _ := newTestDispatcher(t, doc)

	err := d.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "run target not found: t1") {
		t.Errorf("expected run-not-found error, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("no process may be spawned, got %d calls", len(runner.calls))
	}
}

func TestBuildTargetNotFound(t *testing.T) {
	doc := testDocument("/work")
	doc.Builds = nil
	d, _, _ := newTestDispatcher(t, doc)

	err := d.Build(context.Background())
	if err == nil || !strings.Contains(err.Error(), "build target not found: t1") {
		t.Errorf("expected build-not-found error, got %v", err)
	}
}

func TestSelectPersistsImmediately(t *testing.T) {
	d, _, store := newTestDispatcher(t, testDocument("/work"))

	updated, err := d.Select(1)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if updated.CurrentBuildTarget != "t2" {
		t.Errorf("CurrentBuildTarget = %q, want t2", updated.CurrentBuildTarget)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.CurrentBuildTarget != "t2" {
		t.Errorf("selection was not persisted, got %q", reloaded.CurrentBuildTarget)
	}
}

func TestSelectOutOfRangeLeavesDocumentUnchanged(t *testing.T) {
	d, _, store := newTestDispatcher(t, testDocument("/work"))

	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if _, err := d.Select(5); err == nil {
		t.Fatal("Select(5) should fail")
	}

	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Error("failed Select must leave the persisted document unchanged")
	}
}

func TestOperationsFailWithoutDocument(t *testing.T) {
	d, runner, _ := newTestDispatcher(t, nil)

	for name, op := range map[string]func() error{
		"configure": func() error { return d.Configure(context.Background()) },
		"build":     func() error { return d.Build(context.Background()) },
		"run":       func() error { return d.Run(context.Background()) },
		"select":    func() error { _, err := d.Select(0); return err },
	} {
		if err := op(); err == nil {
			t.Errorf("%s should fail when no document exists", name)
		}
	}
	if len(runner.calls) != 0 {
		t.Errorf("no process may be spawned, got %d calls", len(runner.calls))
	}
}

func TestDuplicateNamesFirstEntryWins(t *testing.T) {
	doc := testDocument("/work")
	doc.Builds = []target.BuildTarget{
		{Name: "t1", Command: "make", Args: []string{"first"}},
		{Name: "t1", Command: "make", Args: []string{"second"}},
	}
	d, runner, _ := newTestDispatcher(t, doc)

	if err := d.Build(context.Background()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fmt.Sprint(runner.calls[0].args) != "[first]" {
		t.Errorf("first duplicate must win, got %+v", runner.calls[0])
	}
}
