// Package config provides configuration management for the fight simulator.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "FIGHTSIM"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults mirrors the Joshua vs Paul market the dashboard started with.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fightsim")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("simulation.sims_per_tick", 100)
	v.SetDefault("simulation.max_sims", 50000)
	v.SetDefault("simulation.ticks_per_second", 20)
	v.SetDefault("simulation.seed", 42)
	v.SetDefault("simulation.convergence_every", 10)
	v.SetDefault("simulation.retain_trials", true)
	v.SetDefault("simulation.progress_schedule", "@every 10s")

	v.SetDefault("fight.total_rounds", 8)
	v.SetDefault("fight.fighter_a.name", "Joshua")
	v.SetDefault("fight.fighter_a.moneyline", -1200)
	v.SetDefault("fight.fighter_a.ko_odds", -390)
	v.SetDefault("fight.fighter_a.decision_odds", 450)
	v.SetDefault("fight.fighter_a.round_weights", []float64{0.22, 0.20, 0.16, 0.12, 0.10, 0.08, 0.07, 0.05})
	v.SetDefault("fight.fighter_b.name", "Paul")
	v.SetDefault("fight.fighter_b.moneyline", 800)
	v.SetDefault("fight.fighter_b.ko_odds", 1200)
	v.SetDefault("fight.fighter_b.decision_odds", 1300)
	v.SetDefault("fight.fighter_b.round_weights", []float64{0.06, 0.07, 0.10, 0.12, 0.16, 0.18, 0.17, 0.14})
	v.SetDefault("fight.draw.enabled", false)
	v.SetDefault("fight.draw.odds", 2500)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_path", "/metrics")
	v.SetDefault("server.snapshot_cache_ttl_ms", 250)
	v.SetDefault("server.stream_interval_ms", 500)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("export.output_dir", "./output")
	v.SetDefault("export.include_trials", true)
}
