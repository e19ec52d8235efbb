// Package config loads run parameters and tuning through viper and sets up
// the zerolog logger.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"squad-formation-sim/internal/simulation"
)

// EnvPrefix prefixes environment overrides, e.g. SIMSQUAD_TUNING_MAX_SPEED.
const EnvPrefix = "SIMSQUAD"

// Config is everything the runners read at startup.
type Config struct {
	LogLevel string            `mapstructure:"log_level"`
	Steps    int               `mapstructure:"steps"`
	Dt       float64           `mapstructure:"dt"`
	Scenario string            `mapstructure:"scenario"`
	Window   WindowConfig      `mapstructure:"window"`
	Tuning   simulation.Tuning `mapstructure:"tuning"`
	// Scale multiplies the size-dependent tuning radii.
	Scale float64 `mapstructure:"scale"`
}

// WindowConfig holds the viewer window settings.
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	TPS    int    `mapstructure:"tps"`
}

func setDefaults() error {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("steps", 3600)
	viper.SetDefault("dt", 1.0/60)
	viper.SetDefault("scenario", "showcase.yaml")
	viper.SetDefault("scale", 1.0)

	viper.SetDefault("window.width", 800)
	viper.SetDefault("window.height", 800)
	viper.SetDefault("window.title", "Squad Formations")
	viper.SetDefault("window.tps", 60)

	// Every tuning key gets a default so env overrides reach Unmarshal.
	tuning := map[string]any{}
	if err := mapstructure.Decode(simulation.DefaultTuning(), &tuning); err != nil {
		return fmt.Errorf("error encoding tuning defaults: %w", err)
	}
	for k, v := range tuning {
		viper.SetDefault("tuning."+k, v)
	}
	return nil
}

// Load reads the optional config file at path (yaml, json or toml by
// extension) over the defaults, applies SIMSQUAD_ environment overrides and
// returns the result. An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	if err := setDefaults(); err != nil {
		return Config{}, err
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Scale != 1 {
		cfg.Tuning = cfg.Tuning.Scaled(cfg.Scale)
	}
	return cfg, nil
}

// Validate checks run parameters and tuning.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %v", c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("config: steps must not be negative, got %d", c.Steps)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("config: scale must be positive, got %v", c.Scale)
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
