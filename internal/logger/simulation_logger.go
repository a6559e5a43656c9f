// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for simulation ticks and runs.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger, sessionID string) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component":  "simulation",
			"session_id": sessionID,
		}),
	}
}

// LogTick logs a completed sample-and-ingest tick.
func (sl *SimulationLogger) LogTick(tick int64, batchSize int, totalTrials int64, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"tick":         tick,
		"batch_size":   batchSize,
		"total_trials": totalTrials,
		"duration_ms":  durationMs,
	}).Debug("Simulation tick completed")
}

// LogConvergence logs the running win estimates.
func (sl *SimulationLogger) LogConvergence(totalTrials int64, winRateA, winRateB, drawRate, stdErrA float64) {
	sl.WithFields(logrus.Fields{
		"total_trials": totalTrials,
		"win_rate_a":   winRateA,
		"win_rate_b":   winRateB,
		"draw_rate":    drawRate,
		"std_err_a":    stdErrA,
	}).Info("Simulation progress")
}

// LogRunStarted logs the start of a run.
func (sl *SimulationLogger) LogRunStarted(seed int64, simsPerTick int, maxSims int64) {
	sl.WithFields(logrus.Fields{
		"seed":          seed,
		"sims_per_tick": simsPerTick,
		"max_sims":      maxSims,
	}).Info("Simulation run started")
}

// LogRunComplete logs the end of a run and why it ended.
func (sl *SimulationLogger) LogRunComplete(totalTrials, ticks int64, reason string, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"total_trials": totalTrials,
		"ticks":        ticks,
		"reason":       reason,
		"duration_ms":  durationMs,
	}).Info("Simulation run completed")
}
