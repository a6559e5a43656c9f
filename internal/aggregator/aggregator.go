// Package aggregator accumulates simulated trials into running statistics
// and a convergence history.
package aggregator

import (
	"sync"

	"github.com/yourusername/fightsim/internal/model"
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTrialRetention controls whether raw trials are kept for export. When
// disabled memory stays constant and only summaries can be exported.
func WithTrialRetention(retain bool) Option {
	return func(a *Aggregator) {
		a.retain = retain
	}
}

// WithConvergenceEvery records a convergence point every n ingests.
func WithConvergenceEvery(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.convergenceEvery = int64(n)
		}
	}
}

// WithTotalRounds sizes the KO round histograms.
func WithTotalRounds(rounds int) Option {
	return func(a *Aggregator) {
		if rounds > 0 {
			a.totalRounds = rounds
		}
	}
}

// WithNames sets the participant names shown in snapshots.
func WithNames(a, b string) Option {
	return func(agg *Aggregator) {
		agg.names = [2]string{a, b}
	}
}

// Aggregator maintains cumulative counts over every ingested batch. A batch
// is applied under a lock, so a Snapshot never sees half of one.
type Aggregator struct {
	mu sync.RWMutex

	retain           bool
	convergenceEvery int64
	totalRounds      int
	names            [2]string

	total    int64
	ticks    int64
	wins     [2]int64
	methods  [2][2]int64
	draws    int64
	koRounds [2][]int64
	history  []ConvergencePoint
	trials   []model.Trial
}

// New creates an idle aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		retain:           true,
		convergenceEvery: 1,
		totalRounds:      model.DefaultTotalRounds,
		names:            [2]string{"Fighter A", "Fighter B"},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.clear()
	return a
}

func (a *Aggregator) clear() {
	a.total = 0
	a.ticks = 0
	a.wins = [2]int64{}
	a.methods = [2][2]int64{}
	a.draws = 0
	a.koRounds = [2][]int64{make([]int64, a.totalRounds), make([]int64, a.totalRounds)}
	a.history = nil
	a.trials = nil
}

// Ingest adds a batch to the running totals. Work is proportional to the
// batch, never to the number of trials seen so far.
func (a *Aggregator) Ingest(batch []model.Trial) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, trial := range batch {
		a.total++
		if trial.IsDraw || trial.Winner == model.Draw {
			a.draws++
			continue
		}

		who := trial.Winner
		a.wins[who]++
		a.methods[who][trial.Method]++
		if trial.Method == model.MethodKO {
			a.recordRound(who, trial.Round)
		}
	}
	if a.retain {
		a.trials = append(a.trials, batch...)
	}

	a.ticks++
	if a.ticks%a.convergenceEvery == 0 {
		a.history = append(a.history, a.convergencePoint())
	}
}

func (a *Aggregator) recordRound(who model.Participant, round int) {
	if round < 1 {
		return
	}
	for len(a.koRounds[who]) < round {
		a.koRounds[who] = append(a.koRounds[who], 0)
	}
	a.koRounds[who][round-1]++
}

func (a *Aggregator) convergencePoint() ConvergencePoint {
	winA := rate(a.wins[model.ParticipantA], a.total)
	return ConvergencePoint{
		Tick:        a.ticks,
		TotalTrials: a.total,
		WinRateA:    winA,
		WinRateB:    rate(a.wins[model.ParticipantB], a.total),
		DrawRate:    rate(a.draws, a.total),
		KORateA:     rate(a.methods[model.ParticipantA][model.MethodKO], a.total),
		KORateB:     rate(a.methods[model.ParticipantB][model.MethodKO], a.total),
		StdErrA:     standardError(winA, a.total),
	}
}

// Snapshot returns a deep copy of the current statistics.
func (a *Aggregator) Snapshot() RunningStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := RunningStats{
		State:       a.state(),
		TotalTrials: a.total,
		Ticks:       a.ticks,
		TotalRounds: a.totalRounds,
		Draws:       a.draws,
		DrawRate:    rate(a.draws, a.total),
		Convergence: append([]ConvergencePoint{}, a.history...),
	}

	for i, who := range model.Participants {
		winRate := rate(a.wins[i], a.total)
		stdErr := standardError(winRate, a.total)
		stats.Participants[i] = ParticipantStats{
			Name:         a.names[i],
			Wins:         a.wins[i],
			KO:           a.methods[i][model.MethodKO],
			Decision:     a.methods[i][model.MethodDecision],
			WinRate:      winRate,
			KORate:       rate(a.methods[i][model.MethodKO], a.total),
			DecisionRate: rate(a.methods[i][model.MethodDecision], a.total),
			StdErr:       stdErr,
			Confidence:   confidenceBand(winRate, stdErr),
			KORounds:     append([]int64{}, a.koRounds[who]...),
		}
	}

	for _, who := range model.Participants {
		for _, method := range model.Methods {
			count := a.methods[who][method]
			stats.Outcomes = append(stats.Outcomes, OutcomeCount{
				Label: model.Trial{Winner: who, Method: method}.Label(),
				Count: count,
				Rate:  rate(count, a.total),
			})
		}
	}
	stats.Outcomes = append(stats.Outcomes, OutcomeCount{
		Label: model.Draw.String(),
		Count: a.draws,
		Rate:  stats.DrawRate,
	})

	return stats
}

// Reset clears all counts, history and retained trials.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clear()
}

// State reports whether any trial has been ingested since the last reset.
func (a *Aggregator) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state()
}

func (a *Aggregator) state() State {
	if a.ticks > 0 {
		return StateAccumulating
	}
	return StateIdle
}

// RetainsTrials reports whether raw trials are kept.
func (a *Aggregator) RetainsTrials() bool {
	return a.retain
}

// Trials returns a copy of every retained trial in ingestion order.
func (a *Aggregator) Trials() []model.Trial {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]model.Trial{}, a.trials...)
}

// Recent returns up to k of the most recently ingested trials, oldest first.
func (a *Aggregator) Recent(k int) []model.Trial {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if k <= 0 {
		return []model.Trial{}
	}
	start := len(a.trials) - k
	if start < 0 {
		start = 0
	}
	return append([]model.Trial{}, a.trials[start:]...)
}
