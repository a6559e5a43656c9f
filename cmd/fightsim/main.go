// Command fightsim runs odds-anchored Monte Carlo simulations of a boxing
// match, either headless or behind an HTTP/websocket API.
package main

import (
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fightsim/internal/config"
	"github.com/yourusername/fightsim/internal/logger"
	"github.com/yourusername/fightsim/internal/model"
	"github.com/yourusername/fightsim/internal/session"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "fightsim",
	Short: "Simulate boxing outcomes anchored to market odds",
	Long: `fightsim converts American odds into vig-free probabilities, samples
winner, method and stoppage round for many simulated bouts, and reports the
running outcome distribution as it converges.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Version = fmt.Sprintf("%s (%s)", Version, GitCommit)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newOddsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads and validates the configuration, falling back to the
// built-in market when the file is absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSession builds the outcome model from the configured market and wraps it
// in a session.
func newSession(cfg *config.Config, appLog *logrus.Logger) (*session.Session, error) {
	m, err := model.FromOdds(cfg.Fight.ToInput())
	if err != nil {
		return nil, fmt.Errorf("failed to build outcome model: %w", err)
	}
	return session.New(m, session.Config{
		Seed:             cfg.Simulation.Seed,
		ConvergenceEvery: cfg.Simulation.ConvergenceEvery,
		RetainTrials:     cfg.Simulation.RetainTrials,
	}, appLog)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	appLog := logger.NewLogger(cfg.App.LogLevel)
	if cfg.IsProduction() {
		appLog.SetFormatter(&logrus.JSONFormatter{})
	}
	return appLog
}
