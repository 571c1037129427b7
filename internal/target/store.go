package target

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"cmforge/internal/logging"
)

const cacheDirName = "cmforge"

// ErrNotInitialized reports that no document exists for the workspace yet.
var ErrNotInitialized = errors.New("target document not found")

// CachePath derives the default document location for a workspace:
// <home>/.cache/cmforge/<workspace-basename>.json.
func CachePath(home, workspace string) string {
	return DocumentPath(filepath.Join(home, ".cache", cacheDirName), workspace)
}

// DocumentPath places the document for a workspace inside an explicit cache
// directory. The file name is keyed by the workspace base name.
func DocumentPath(cacheDir, workspace string) string {
	return filepath.Join(cacheDir, filepath.Base(workspace)+".json")
}

// Store reads and writes the document at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore binds a store to the document path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "target"),
	}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a document is already present on disk.
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat document: %w", err)
}

// EnsureDir creates the containing cache directory. Safe to repeat.
func (s *Store) EnsureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %q: %w", dir, err)
	}
	return nil
}

// Load reads and validates the document. A missing file is reported as
// ErrNotInitialized so callers can suggest running init.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s (run `cmforge init` first)", ErrNotInitialized, s.path)
		}
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", s.path, err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid document %s: %w", s.path, err)
	}

	s.logger.Debug("loaded target document",
		logging.String("path", s.path),
		logging.String("current_build_target", doc.CurrentBuildTarget))

	return &doc, nil
}

// Save writes the document pretty-printed, via a temp file rename. An
// advisory lock serializes concurrent writers against the same document.
func (s *Store) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if err := s.EnsureDir(); err != nil {
		return err
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock document: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("saved target document", logging.String("path", s.path))
	return nil
}

// Initialize writes the scaffold document for the workspace. When a document
// already exists, confirm is consulted; a declined overwrite is a no-op, not
// an error. Returns whether a document was written.
func (s *Store) Initialize(workspace string, confirm func() (bool, error)) (bool, error) {
	exists, err := s.Exists()
	if err != nil {
		return false, err
	}
	if exists {
		ok, err := confirm()
		if err != nil {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		if !ok {
			s.logger.Debug("init declined, keeping existing document", logging.String("path", s.path))
			return false, nil
		}
	}

	if err := s.Save(Scaffold(workspace)); err != nil {
		return false, err
	}
	return true, nil
}
