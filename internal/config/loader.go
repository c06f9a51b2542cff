package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional file plus RAMPSYNC_-prefixed
// environment variables, layered over the defaults. An empty configPath
// searches the usual locations; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RAMPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("rampsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/rampsync")
		v.AddConfigPath("$HOME/.rampsync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.probe_timeout", def.Remote.ProbeTimeout)
	v.SetDefault("remote.pull_timeout", def.Remote.PullTimeout)
	v.SetDefault("remote.push_timeout", def.Remote.PushTimeout)
	v.SetDefault("remote.probe_retries", def.Remote.ProbeRetries)
	v.SetDefault("remote.probe_retry_step", def.Remote.ProbeRetryStep)
	v.SetDefault("remote.batch_size", def.Remote.BatchSize)
	v.SetDefault("remote.max_retries", def.Remote.MaxRetries)

	v.SetDefault("storage.data_dir", def.Storage.DataDir)
	v.SetDefault("storage.driver", def.Storage.Driver)

	v.SetDefault("sync.debounce_window", def.Sync.DebounceWindow)
	v.SetDefault("sync.settle_delay", def.Sync.SettleDelay)
	v.SetDefault("sync.max_refresh_failures", def.Sync.MaxRefreshFailures)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.color", def.Log.Color)
}
