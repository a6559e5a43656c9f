package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fightsim/internal/model"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	invalidOddsConfigPath = "testdata/invalid_odds_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "fightsim", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 100, cfg.Simulation.SimsPerTick)
	assert.Equal(t, int64(50000), cfg.Simulation.MaxSims)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, "Joshua", cfg.Fight.FighterA.Name)
	assert.Equal(t, -1200, cfg.Fight.FighterA.Moneyline)
	assert.Equal(t, 800, cfg.Fight.FighterB.Moneyline)
	assert.Len(t, cfg.Fight.FighterB.RoundWeights, 8)
	assert.True(t, cfg.Fight.Draw.Enabled)
	assert.Equal(t, 2500, cfg.Fight.Draw.Odds)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)

	require.NoError(t, Validate(cfg))
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("FIGHTSIM_APP_NAME", "override")
	t.Setenv("FIGHTSIM_SIMULATION_SEED", "99")

	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "override", cfg.App.Name)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
}

func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_FIGHTSIM_APP_NAME", "expanded-app")
	t.Setenv("TEST_FIGHTER_A", "Champion")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "expanded-app", cfg.App.Name)
	assert.Equal(t, "Champion", cfg.Fight.FighterA.Name)
	assert.Equal(t, 3, cfg.Fight.TotalRounds)
	require.NoError(t, Validate(cfg))
}

func TestLoadConfigMissingPlaceholderFailsValidation(t *testing.T) {
	os.Unsetenv("TEST_FIGHTSIM_APP_NAME")
	os.Unsetenv("TEST_FIGHTER_A")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is required")
}

func TestLoadWithDefaultsNoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "fightsim", cfg.App.Name)
	assert.Equal(t, 100, cfg.Simulation.SimsPerTick)
	assert.Equal(t, int64(50000), cfg.Simulation.MaxSims)
	assert.Equal(t, "Joshua", cfg.Fight.FighterA.Name)
	assert.Equal(t, "Paul", cfg.Fight.FighterB.Name)
	assert.Equal(t, 8, cfg.Fight.TotalRounds)
	assert.False(t, cfg.Fight.Draw.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsFileOverrides(t *testing.T) {
	cfg, err := LoadWithDefaults(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Simulation.SimsPerTick)
	assert.Equal(t, "Challenger", cfg.Fight.FighterB.Name)
	// unset in the file, filled by defaults
	assert.Equal(t, "@every 10s", cfg.Simulation.ProgressSchedule)
}

func TestValidateRejectsInvalidOdds(t *testing.T) {
	cfg, err := Load(invalidOddsConfigPath)
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Moneyline")
	assert.Contains(t, err.Error(), "magnitude >= 100")
}

func TestValidateEnvironmentAndLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.App.Environment = "invalid" },
			wantErr: "development, staging, production",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.App.LogLevel = "verbose" },
			wantErr: "debug, info, warn, error",
		},
		{
			name:    "zero sims per tick",
			mutate:  func(c *Config) { c.Simulation.SimsPerTick = 0 },
			wantErr: "SimsPerTick",
		},
		{
			name:    "negative round weight",
			mutate:  func(c *Config) { c.Fight.FighterA.RoundWeights[0] = -1 },
			wantErr: "RoundWeights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithDefaults(nonexistentConfigPath)
			require.NoError(t, err)
			tt.mutate(cfg)

			err = Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "round weights shorter than total rounds",
			mutate:  func(c *Config) { c.Fight.TotalRounds = 10 },
			wantErr: "total_rounds is 10",
		},
		{
			name: "draw enabled without odds",
			mutate: func(c *Config) {
				c.Fight.Draw.Enabled = true
				c.Fight.Draw.Odds = 0
			},
			wantErr: "draw odds are required",
		},
		{
			name: "trial export without retention",
			mutate: func(c *Config) {
				c.Simulation.RetainTrials = false
				c.Export.IncludeTrials = true
			},
			wantErr: "requires simulation.retain_trials",
		},
		{
			name:    "bad progress schedule",
			mutate:  func(c *Config) { c.Simulation.ProgressSchedule = "every now and then" },
			wantErr: "progress_schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithDefaults(nonexistentConfigPath)
			require.NoError(t, err)
			tt.mutate(cfg)

			err = Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFightConfigToInput(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)

	in := cfg.Fight.ToInput()
	assert.Equal(t, model.DefaultInput(), in)

	m, err := model.FromOdds(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.8926, m.WinProbability(model.ParticipantA), 1e-4)
}

func TestListenAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 9000}}
	assert.Equal(t, ":9000", cfg.ListenAddress())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
	assert.False(t, strings.Contains(cfg.ListenAddress(), "localhost"))
}
