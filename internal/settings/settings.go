package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultHistoryLimit = 20
	defaultCacheDir     = "~/.cache/cmforge"
)

// Logging controls log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History controls invocation recording.
type History struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

// Paths controls where persisted state lives.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
}

// Settings encapsulates tool-level configuration. The per-workspace target
// document is managed separately by the target package.
type Settings struct {
	Logging Logging `toml:"logging"`
	History History `toml:"history"`
	Paths   Paths   `toml:"paths"`
}

// Default returns Settings populated with repository defaults.
func Default() Settings {
	return Settings{
		Logging: Logging{Format: defaultLogFormat, Level: defaultLogLevel},
		History: History{Enabled: true, Limit: defaultHistoryLimit},
		Paths:   Paths{CacheDir: defaultCacheDir},
	}
}

// DefaultPath returns the absolute path of the default settings file.
func DefaultPath() (string, error) {
	return ExpandPath("~/.config/cmforge/config.toml")
}

// Load locates, parses, and validates the settings file. Returns the
// settings, the resolved path, and whether the file existed; defaults are
// used when it does not.
func Load(path string) (*Settings, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open settings: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse settings: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolvePath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat settings: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (s *Settings) normalize() error {
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format == "" {
		s.Logging.Format = defaultLogFormat
	}
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	if s.Logging.Level == "" {
		s.Logging.Level = defaultLogLevel
	}
	if s.History.Limit <= 0 {
		s.History.Limit = defaultHistoryLimit
	}
	if strings.TrimSpace(s.Paths.CacheDir) == "" {
		s.Paths.CacheDir = defaultCacheDir
	}
	expanded, err := ExpandPath(s.Paths.CacheDir)
	if err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	s.Paths.CacheDir = expanded
	return nil
}

// Validate ensures the settings are usable.
func (s *Settings) Validate() error {
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", s.Logging.Format)
	}
	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", s.Logging.Level)
	}
	return nil
}

// CreateSample writes the annotated sample settings file to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample settings: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
