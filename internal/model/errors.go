package model

import (
	"fmt"
	"strings"
)

// Probability layers named in errors.
const (
	LayerModel  = "model"
	LayerWinner = "winner"
	LayerMethod = "method"
	LayerRounds = "rounds"
)

// ProbabilityModelError reports a broken invariant in an outcome model, or an
// attempt to sample from a model that was never validated.
type ProbabilityModelError struct {
	Layer       string
	Participant string
	Round       int
	Reason      string
}

func (e *ProbabilityModelError) Error() string {
	return fmt.Sprintf("probability model error [%s]: %s", e.location(), e.Reason)
}

func (e *ProbabilityModelError) location() string {
	parts := []string{e.Layer}
	if e.Participant != "" {
		parts = append(parts, e.Participant)
	}
	if e.Round > 0 {
		parts = append(parts, fmt.Sprintf("round %d", e.Round))
	}
	return strings.Join(parts, "/")
}

// InvalidDistributionError reports a supplied weight vector that cannot be
// normalized, such as all zeros or a negative entry.
type InvalidDistributionError struct {
	Layer       string
	Participant string
	Reason      string
}

func (e *InvalidDistributionError) Error() string {
	if e.Participant == "" {
		return fmt.Sprintf("invalid %s distribution: %s", e.Layer, e.Reason)
	}
	return fmt.Sprintf("invalid %s distribution for %s: %s", e.Layer, e.Participant, e.Reason)
}

// NewProbabilityModelError creates a new probability model error
func NewProbabilityModelError(layer, participant string, round int, reason string) *ProbabilityModelError {
	return &ProbabilityModelError{
		Layer:       layer,
		Participant: participant,
		Round:       round,
		Reason:      reason,
	}
}

// NewInvalidDistributionError creates a new invalid distribution error
func NewInvalidDistributionError(layer, participant, reason string) *InvalidDistributionError {
	return &InvalidDistributionError{
		Layer:       layer,
		Participant: participant,
		Reason:      reason,
	}
}
