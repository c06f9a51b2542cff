package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Remote table store (optional; empty URL disables the remote tier)
	Remote RemoteConfig `json:"remote" mapstructure:"remote"`

	// Local persistence
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Sync behavior
	Sync SyncConfig `json:"sync" mapstructure:"sync"`

	// Logging
	Log LogConfig `json:"log" mapstructure:"log"`
}

// RemoteConfig for the shared multi-device table store.
type RemoteConfig struct {
	BaseURL string `json:"base_url" mapstructure:"base_url"`
	APIKey  string `json:"api_key,omitempty" mapstructure:"api_key"`

	ProbeTimeout time.Duration `json:"probe_timeout" mapstructure:"probe_timeout"`
	PullTimeout  time.Duration `json:"pull_timeout" mapstructure:"pull_timeout"`
	PushTimeout  time.Duration `json:"push_timeout" mapstructure:"push_timeout"`
	ProbeRetries int           `json:"probe_retries" mapstructure:"probe_retries"`
	// Delay before probe attempt n is n * ProbeRetryStep.
	ProbeRetryStep time.Duration `json:"probe_retry_step" mapstructure:"probe_retry_step"`
	BatchSize      int           `json:"batch_size" mapstructure:"batch_size"`
	MaxRetries     int           `json:"max_retries" mapstructure:"max_retries"`
}

// Enabled reports whether remote credentials are configured at all.
func (r RemoteConfig) Enabled() bool {
	return r.BaseURL != ""
}

// StorageConfig for local file paths.
type StorageConfig struct {
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
	// Driver selects the local tier backend: "sqlite" or "json".
	Driver string `json:"driver" mapstructure:"driver"`
}

// SyncConfig for refresh behavior on remote change notifications.
// The debounce window and settle delay are empirically chosen; they are
// configuration, not invariants.
type SyncConfig struct {
	DebounceWindow     time.Duration `json:"debounce_window" mapstructure:"debounce_window"`
	SettleDelay        time.Duration `json:"settle_delay" mapstructure:"settle_delay"`
	MaxRefreshFailures int           `json:"max_refresh_failures" mapstructure:"max_refresh_failures"`
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // text, json
	File   string `json:"file" mapstructure:"file"`     // empty = stdout
	Color  bool   `json:"color" mapstructure:"color"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			ProbeTimeout:   8 * time.Second,
			PullTimeout:    15 * time.Second,
			PushTimeout:    15 * time.Second,
			ProbeRetries:   3,
			ProbeRetryStep: 2 * time.Second,
			BatchSize:      50,
			MaxRetries:     3,
		},
		Storage: StorageConfig{
			DataDir: ".rampsync",
			Driver:  "sqlite",
		},
		Sync: SyncConfig{
			DebounceWindow:     2 * time.Second,
			SettleDelay:        time.Second,
			MaxRefreshFailures: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Color:  true,
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	if c.Storage.Driver != "sqlite" && c.Storage.Driver != "json" {
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}

	if c.Remote.Enabled() {
		if c.Remote.ProbeTimeout <= 0 {
			return errors.New("remote.probe_timeout must be positive")
		}
		if c.Remote.PullTimeout <= 0 {
			return errors.New("remote.pull_timeout must be positive")
		}
		if c.Remote.PushTimeout <= 0 {
			return errors.New("remote.push_timeout must be positive")
		}
		if c.Remote.BatchSize <= 0 {
			return errors.New("remote.batch_size must be positive")
		}
	}

	if c.Sync.DebounceWindow < 0 {
		return errors.New("sync.debounce_window must not be negative")
	}

	if c.Sync.MaxRefreshFailures <= 0 {
		return errors.New("sync.max_refresh_failures must be positive")
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Storage.DataDir}

	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
