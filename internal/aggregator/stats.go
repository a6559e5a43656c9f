package aggregator

import (
	"fmt"
	"math"
)

// z95 is the two-sided 95% normal quantile.
const z95 = 1.959963984540054

// State is the lifecycle state of an aggregator.
type State int

const (
	StateIdle State = iota
	StateAccumulating
)

func (s State) String() string {
	if s == StateAccumulating {
		return "accumulating"
	}
	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "accumulating":
		*s = StateAccumulating
	default:
		return fmt.Errorf("unknown aggregator state %q", text)
	}
	return nil
}

// Band is a confidence interval around an empirical rate.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ParticipantStats summarizes one contestant's results.
type ParticipantStats struct {
	Name         string  `json:"name"`
	Wins         int64   `json:"wins"`
	KO           int64   `json:"ko"`
	Decision     int64   `json:"decision"`
	WinRate      float64 `json:"win_rate"`
	KORate       float64 `json:"ko_rate"`
	DecisionRate float64 `json:"decision_rate"`
	StdErr       float64 `json:"std_err"`
	Confidence   Band    `json:"confidence_95"`
	KORounds     []int64 `json:"ko_rounds"`
}

// OutcomeCount is one bucket of the outcome distribution.
type OutcomeCount struct {
	Label string  `json:"label"`
	Count int64   `json:"count"`
	Rate  float64 `json:"rate"`
}

// ConvergencePoint records running estimates after an ingest.
type ConvergencePoint struct {
	Tick        int64   `json:"tick"`
	TotalTrials int64   `json:"total_trials"`
	WinRateA    float64 `json:"win_rate_a"`
	WinRateB    float64 `json:"win_rate_b"`
	DrawRate    float64 `json:"draw_rate"`
	KORateA     float64 `json:"ko_rate_a"`
	KORateB     float64 `json:"ko_rate_b"`
	StdErrA     float64 `json:"std_err_a"`
}

// RunningStats is a point-in-time copy of everything an aggregator knows.
// Rates are fractions of all trials.
type RunningStats struct {
	State        State               `json:"state"`
	TotalTrials  int64               `json:"total_trials"`
	Ticks        int64               `json:"ticks"`
	TotalRounds  int                 `json:"total_rounds"`
	Participants [2]ParticipantStats `json:"participants"`
	Draws        int64               `json:"draws"`
	DrawRate     float64             `json:"draw_rate"`
	Outcomes     []OutcomeCount      `json:"outcomes"`
	Convergence  []ConvergencePoint  `json:"convergence"`
}

func rate(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// standardError is the binomial standard error of a rate over n trials.
func standardError(p float64, n int64) float64 {
	if n == 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}

func confidenceBand(p, stdErr float64) Band {
	return Band{
		Low:  math.Max(0, p-z95*stdErr),
		High: math.Min(1, p+z95*stdErr),
	}
}
