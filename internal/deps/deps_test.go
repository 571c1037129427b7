package deps

import (
	"os"
	"path/filepath"
	"testing"

	"cmforge/internal/target"
)

func TestCheckFindsBinaryOnPath(t *testing.T) {
	statuses := Check(t.TempDir(), []Requirement{{Command: "sh"}})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Errorf("sh should be available: %+v", statuses[0])
	}
}

func TestCheckReportsMissingBinary(t *testing.T) {
	statuses := Check(t.TempDir(), []Requirement{{Command: "definitely-not-a-real-binary-4789"}})
	if statuses[0].Available {
		t.Error("missing binary should be unavailable")
	}
	if statuses[0].Detail == "" {
		t.Error("missing binary should carry a detail message")
	}
}

func TestCheckResolvesRelativePathAgainstWorkspace(t *testing.T) {
	workspace := t.TempDir()
	appPath := filepath.Join(workspace, "build", "app")
	if err := os.MkdirAll(filepath.Dir(appPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(appPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}

	statuses := Check(workspace, []Requirement{{Command: "./build/app"}})
	if !statuses[0].Available {
		t.Errorf("relative command should resolve against the workspace: %+v", statuses[0])
	}
}

func TestCheckRejectsNonExecutable(t *testing.T) {
	workspace := t.TempDir()
	path := filepath.Join(workspace, "data.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	statuses := Check(workspace, []Requirement{{Command: "./data.txt"}})
	if statuses[0].Available {
		t.Error("non-executable file should be unavailable")
	}
}

func TestFromDocumentDeduplicates(t *testing.T) {
	doc := &target.Document{
		Workspace:          "/work",
		CurrentBuildTarget: "t1",
		Builds: []target.BuildTarget{
			{Name: "t1", Command: "cmake"},
			{Name: "t2", Command: "cmake"},
		},
		Runs: []target.RunTarget{
			{Name: "t1", Command: "./app"},
		},
	}

	requirements := FromDocument(doc)
	if len(requirements) != 2 {
		t.Fatalf("expected 2 requirements, got %d: %+v", len(requirements), requirements)
	}
}
