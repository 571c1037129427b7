package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cmforge/internal/dispatch"
	"cmforge/internal/history"
	"cmforge/internal/logging"
	"cmforge/internal/runner"
	"cmforge/internal/settings"
	"cmforge/internal/target"
)

// commandContext carries the lazily-resolved environment shared by every
// subcommand: tool settings, logger, home and workspace paths.
type commandContext struct {
	configFlag *string

	once      sync.Once
	settings  *settings.Settings
	logger    *slog.Logger
	home      string
	workspace string
	err       error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensure resolves the environment once. The home directory requirement is
// checked before anything else so every command fails fast on a broken
// environment.
func (c *commandContext) ensure() error {
	c.once.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			c.err = fmt.Errorf("resolve home directory: %w", err)
			return
		}
		info, err := os.Stat(home)
		if err != nil || !info.IsDir() {
			c.err = fmt.Errorf("home directory %s does not exist", home)
			return
		}
		c.home = home

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := settings.Load(path)
		if err != nil {
			c.err = err
			return
		}
		c.settings = cfg

		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.err = err
			return
		}
		c.logger = logger

		workspace, err := os.Getwd()
		if err != nil {
			c.err = fmt.Errorf("resolve workspace directory: %w", err)
			return
		}
		c.workspace = workspace
	})
	return c.err
}

func (c *commandContext) store() (*target.Store, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	path := target.DocumentPath(c.settings.Paths.CacheDir, c.workspace)
	return target.NewStore(path, c.logger), nil
}

// historyStore opens the invocation history database, or returns nil when
// history is disabled. The caller owns the returned close function.
func (c *commandContext) historyStore() (*history.Store, func(), error) {
	if err := c.ensure(); err != nil {
		return nil, nil, err
	}
	if !c.settings.History.Enabled {
		return nil, func() {}, nil
	}
	store, err := history.Open(filepath.Join(c.settings.Paths.CacheDir, "history.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

// dispatcher wires the store, runner, and history together for one command.
func (c *commandContext) dispatcher() (*dispatch.Dispatcher, func(), error) {
	store, err := c.store()
	if err != nil {
		return nil, nil, err
	}
	hist, closeHistory, err := c.historyStore()
	if err != nil {
		return nil, nil, err
	}
	d := dispatch.New(store, runner.New(c.logger), c.logger, dispatch.WithHistory(hist))
	return d, closeHistory, nil
}
