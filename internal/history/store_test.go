package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestRecordAndList(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	inv := Invocation{
		ID:         "00000000-0000-0000-0000-000000000001",
		Operation:  "build",
		Target:     "debug",
		Command:    "cmake",
		Args:       []string{"--build", "."},
		ExitStatus: 0,
		Success:    true,
		Duration:   1500 * time.Millisecond,
		StartedAt:  time.Now().Add(-time.Minute),
	}
	if err := store.Record(ctx, inv); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	invocations, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(invocations) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(invocations))
	}

	got := invocations[0]
	if got.Operation != "build" || got.Target != "debug" || got.Command != "cmake" {
		t.Errorf("unexpected invocation: %+v", got)
	}
	if len(got.Args) != 2 || got.Args[0] != "--build" {
		t.Errorf("args not preserved: %v", got.Args)
	}
	if !got.Success || got.ExitStatus != 0 {
		t.Errorf("outcome not preserved: success=%v status=%d", got.Success, got.ExitStatus)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v", got.Duration)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		inv := Invocation{
			ID:        string(rune('a' + i)),
			Operation: "run",
			Target:    "t1",
			Command:   "./app",
			Args:      []string{},
			Success:   true,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Record(ctx, inv); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	invocations, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(invocations) != 3 {
		t.Fatalf("expected 3 invocations, got %d", len(invocations))
	}
	if invocations[0].ID != "e" || invocations[2].ID != "c" {
		t.Errorf("expected newest first, got %v, %v, %v",
			invocations[0].ID, invocations[1].ID, invocations[2].ID)
	}
}

func TestRecordedFailureKeepsExitStatus(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	inv := Invocation{
		ID:         "failed-build",
		Operation:  "build",
		Target:     "debug",
		Command:    "cmake",
		Args:       []string{"--build", "."},
		ExitStatus: 2,
		Success:    false,
		StartedAt:  time.Now(),
	}
	if err := store.Record(ctx, inv); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	invocations, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if invocations[0].Success || invocations[0].ExitStatus != 2 {
		t.Errorf("failure not preserved: %+v", invocations[0])
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	inv := Invocation{ID: "persisted", Operation: "configure", Target: "t1", Command: "cmake", Args: []string{}, Success: true, StartedAt: time.Now()}
	if err := store.Record(ctx, inv); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	invocations, err := reopened.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(invocations) != 1 || invocations[0].ID != "persisted" {
		t.Errorf("records should survive reopen, got %+v", invocations)
	}
}

func TestNilStoreIsNoOp(t *testing.T) {
	var store *Store

	if err := store.Record(context.Background(), Invocation{ID: "x"}); err != nil {
		t.Errorf("nil store Record should be a no-op: %v", err)
	}
	invocations, err := store.List(context.Background(), 5)
	if err != nil || invocations != nil {
		t.Errorf("nil store List should return nothing: %v, %v", invocations, err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("nil store Close should be a no-op: %v", err)
	}
}
