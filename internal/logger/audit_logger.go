// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger records changes to a session's configuration and state.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger, sessionID string) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component":  "audit",
			"session_id": sessionID,
		}),
	}
}

// LogModelChange logs replacement of the outcome model.
func (al *AuditLogger) LogModelChange(winA, winB, draw float64, totalRounds int) {
	al.WithFields(logrus.Fields{
		"win_probability_a": winA,
		"win_probability_b": winB,
		"draw_probability":  draw,
		"total_rounds":      totalRounds,
	}).Info("Outcome model replaced")
}

// LogReseed logs a change of random seed.
func (al *AuditLogger) LogReseed(oldSeed, newSeed int64, trialsSoFar int64) {
	al.WithFields(logrus.Fields{
		"old_seed":      oldSeed,
		"new_seed":      newSeed,
		"trials_so_far": trialsSoFar,
	}).Info("Random stream reseeded")
}

// LogReset logs clearing of accumulated results.
func (al *AuditLogger) LogReset(discardedTrials int64) {
	al.WithFields(logrus.Fields{
		"discarded_trials": discardedTrials,
	}).Info("Session results reset")
}

// LogInvalidModel logs a rejected model edit.
func (al *AuditLogger) LogInvalidModel(err error) {
	al.WithError(err).Warn("Outcome model rejected")
}
