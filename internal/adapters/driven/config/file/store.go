// Package file is the TOML-backed settings store.
//
// Settings live at ~/.cloudpcctl/config.toml. A missing file yields the
// defaults; a missing key keeps its default, so the file only needs to name
// what it overrides.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driven"
	"github.com/w365ops/cloudpcctl/internal/logger"
)

// Ensure Store implements the port.
var _ driven.SettingsStore = (*Store)(nil)

const (
	configDirName  = ".cloudpcctl"
	configFileName = "config.toml"
)

// fileSettings is the TOML shape of the config file.
type fileSettings struct {
	GraphHost         string  `toml:"graph_host"`
	TenantID          string  `toml:"tenant_id"`
	ClientID          string  `toml:"client_id"`
	PageSize          int     `toml:"page_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Store loads and saves settings from a TOML file.
type Store struct {
	path string
}

// NewStore creates a settings store. An empty path selects
// ~/.cloudpcctl/config.toml.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, configDirName, configFileName)
	}
	return &Store{path: path}, nil
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads settings, applying defaults for anything unset.
func (s *Store) Load() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read config: %w", err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return settings, fmt.Errorf("parse config: %w", err)
	}

	if fs.GraphHost != "" {
		settings.GraphHost = fs.GraphHost
	}
	if fs.TenantID != "" {
		settings.TenantID = fs.TenantID
	}
	if fs.ClientID != "" {
		settings.ClientID = fs.ClientID
	}
	if fs.PageSize > 0 {
		settings.PageSize = fs.PageSize
	}
	if fs.RequestsPerSecond > 0 {
		settings.RequestsPerSecond = fs.RequestsPerSecond
	}
	return settings, nil
}

// Save writes the settings file, creating the config directory if needed.
func (s *Store) Save(settings domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fs := fileSettings{
		GraphHost:         settings.GraphHost,
		TenantID:          settings.TenantID,
		ClientID:          settings.ClientID,
		PageSize:          settings.PageSize,
		RequestsPerSecond: settings.RequestsPerSecond,
	}
	data, err := toml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Watch invokes fn with fresh settings whenever the config file changes.
// The directory is watched rather than the file so editors that rename on
// save still trigger.
func (s *Store) Watch(fn func(domain.Settings)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				settings, err := s.Load()
				if err != nil {
					logger.Warn("config: reload failed: %v", err)
					continue
				}
				logger.Debug("config: reloaded from %s", s.path)
				fn(settings)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config: watch error: %v", err)
			}
		}
	}()

	stop := func() {
		close(done)
		watcher.Close()
	}
	return stop, nil
}
