package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

// Engine holds the worker-pool settings.
type Engine struct {
	NumWorkers int `mapstructure:"num_workers" default:"3"`
}

// Configuration is the root configuration of the taskflow demo.
type Configuration struct {
	Engine    Engine `mapstructure:"engine"`
	LogLevel  string `mapstructure:"log_level" default:"info"`
	LogFormat string `mapstructure:"log_format" default:"console"`
}

// New returns a Configuration populated with defaults.
func New() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set configuration defaults: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from an optional file and from TASKFLOW_*
// environment variables, on top of the defaults.
func Load(path string) (*Configuration, error) {
	cfg, err := New()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only consults the environment for keys viper already
	// knows, so register every key with its default.
	v.SetDefault("engine.num_workers", cfg.Engine.NumWorkers)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}
