// Package config provides configuration management for the fight simulator.
package config

import (
	"fmt"

	"github.com/yourusername/fightsim/internal/model"
	"github.com/yourusername/fightsim/internal/odds"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Fight      FightConfig      `mapstructure:"fight" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Export     ExportConfig     `mapstructure:"export" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SimulationConfig represents the tick loop settings
type SimulationConfig struct {
	SimsPerTick      int     `mapstructure:"sims_per_tick" validate:"required,gt=0,lte=1000000"`
	MaxSims          int64   `mapstructure:"max_sims" validate:"required,gt=0"`
	TicksPerSecond   float64 `mapstructure:"ticks_per_second" validate:"gte=0"`
	Seed             int64   `mapstructure:"seed" validate:"gte=0"`
	ConvergenceEvery int     `mapstructure:"convergence_every" validate:"gte=0"`
	RetainTrials     bool    `mapstructure:"retain_trials"`
	ProgressSchedule string  `mapstructure:"progress_schedule"`
}

// FightConfig represents the market for one bout
type FightConfig struct {
	FighterA    FighterConfig `mapstructure:"fighter_a" validate:"required"`
	FighterB    FighterConfig `mapstructure:"fighter_b" validate:"required"`
	Draw        DrawConfig    `mapstructure:"draw"`
	TotalRounds int           `mapstructure:"total_rounds" validate:"required,gte=1,lte=15"`
}

// FighterConfig represents one participant's odds and stoppage-round weights
type FighterConfig struct {
	Name         string    `mapstructure:"name" validate:"required"`
	Moneyline    int       `mapstructure:"moneyline" validate:"required,americanodds"`
	KOOdds       int       `mapstructure:"ko_odds" validate:"required,americanodds"`
	DecisionOdds int       `mapstructure:"decision_odds" validate:"required,americanodds"`
	RoundWeights []float64 `mapstructure:"round_weights" validate:"required,min=1,dive,gte=0"`
}

// DrawConfig represents the optional draw market
type DrawConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Odds    int  `mapstructure:"odds" validate:"omitempty,americanodds"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port               int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	MetricsPath        string   `mapstructure:"metrics_path" validate:"required"`
	SnapshotCacheTTLMs int      `mapstructure:"snapshot_cache_ttl_ms" validate:"gte=0"`
	StreamIntervalMs   int      `mapstructure:"stream_interval_ms" validate:"required,gt=0"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
}

// ExportConfig represents CSV export configuration
type ExportConfig struct {
	OutputDir     string `mapstructure:"output_dir" validate:"required"`
	IncludeTrials bool   `mapstructure:"include_trials"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddress returns the HTTP listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// ToInput converts the fight market into model input
func (f FightConfig) ToInput() model.Input {
	return model.Input{
		Names:     [2]string{f.FighterA.Name, f.FighterB.Name},
		Moneyline: [2]odds.American{odds.American(f.FighterA.Moneyline), odds.American(f.FighterB.Moneyline)},
		Method: [2]model.MethodOdds{
			{KO: odds.American(f.FighterA.KOOdds), Decision: odds.American(f.FighterA.DecisionOdds)},
			{KO: odds.American(f.FighterB.KOOdds), Decision: odds.American(f.FighterB.DecisionOdds)},
		},
		DrawEnabled: f.Draw.Enabled,
		DrawOdds:    odds.American(f.Draw.Odds),
		RoundWeights: [2][]float64{
			append([]float64(nil), f.FighterA.RoundWeights...),
			append([]float64(nil), f.FighterB.RoundWeights...),
		},
		TotalRounds: f.TotalRounds,
	}
}
