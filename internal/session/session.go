// Package session owns the mutable state of one simulation: the live outcome
// model, the random stream and the running aggregate.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fightsim/internal/aggregator"
	"github.com/yourusername/fightsim/internal/logger"
	"github.com/yourusername/fightsim/internal/metrics"
	"github.com/yourusername/fightsim/internal/model"
	"github.com/yourusername/fightsim/internal/sampler"
)

// Config holds the per-session simulation settings.
type Config struct {
	Seed             int64
	ConvergenceEvery int
	RetainTrials     bool
}

// TickResult describes one completed sample-and-ingest step.
type TickResult struct {
	Batch       sampler.Batch
	Tick        int64
	TotalTrials int64
	Duration    time.Duration
}

// Session serializes every write (Tick, Reseed, Reset, UpdateModel) so that
// readers on other goroutines always observe whole ticks.
type Session struct {
	id     string
	cfg    Config
	simLog *logger.SimulationLogger
	audit  *logger.AuditLogger

	mu     sync.Mutex
	model  *model.OutcomeModel
	stream *sampler.Stream
	agg    *aggregator.Aggregator
}

// New creates a session around a validated model.
func New(m *model.OutcomeModel, cfg Config, log *logrus.Logger) (*Session, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid outcome model: %w", err)
	}
	if log == nil {
		log = logrus.New()
	}

	id := uuid.New().String()
	s := &Session{
		id:     id,
		cfg:    cfg,
		simLog: logger.NewSimulationLogger(log, id),
		audit:  logger.NewAuditLogger(log, id),
		model:  m,
		stream: sampler.NewStream(cfg.Seed),
	}
	s.agg = s.newAggregator(m)
	return s, nil
}

func (s *Session) newAggregator(m *model.OutcomeModel) *aggregator.Aggregator {
	return aggregator.New(
		aggregator.WithTrialRetention(s.cfg.RetainTrials),
		aggregator.WithConvergenceEvery(s.cfg.ConvergenceEvery),
		aggregator.WithTotalRounds(m.TotalRounds()),
		aggregator.WithNames(m.Name(model.ParticipantA), m.Name(model.ParticipantB)),
	)
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Tick samples n trials from the current model and ingests them.
func (s *Session) Tick(n int) (TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	batch, err := sampler.Sample(s.model, s.stream, n)
	if err != nil {
		return TickResult{}, fmt.Errorf("failed to sample batch: %w", err)
	}
	sampled := time.Now()

	s.agg.Ingest(batch)
	elapsed := time.Since(start)

	stats := s.agg.Snapshot()
	s.recordMetrics(batch, stats, sampled.Sub(start), elapsed-sampled.Sub(start))
	s.simLog.LogTick(stats.Ticks, len(batch), stats.TotalTrials, float64(elapsed.Microseconds())/1000)

	return TickResult{
		Batch:       batch,
		Tick:        stats.Ticks,
		TotalTrials: stats.TotalTrials,
		Duration:    elapsed,
	}, nil
}

func (s *Session) recordMetrics(batch sampler.Batch, stats aggregator.RunningStats, sampleDur, ingestDur time.Duration) {
	metrics.RecordTick(sampleDur.Seconds(), ingestDur.Seconds())

	counts := make(map[model.Participant]int, 3)
	for _, trial := range batch {
		counts[trial.Winner]++
	}
	for winner, count := range counts {
		metrics.RecordTrials(s.model.Name(winner), count)
	}

	metrics.UpdateTotals(stats.TotalTrials, map[string]float64{
		stats.Participants[0].Name: stats.Participants[0].WinRate,
		stats.Participants[1].Name: stats.Participants[1].WinRate,
		model.Draw.String():        stats.DrawRate,
	})
}

// Reseed replaces the random stream between ticks. Accumulated results and
// the trial index are kept.
func (s *Session) Reseed(seed int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.stream.Seed()
	s.stream.Reseed(seed)
	s.audit.LogReseed(old, s.stream.Seed(), s.stream.Trials())
	return s.stream.Seed()
}

// Reset clears accumulated results and restarts the stream from its current
// seed, so a reset session replays the same trial sequence.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	discarded := s.agg.Snapshot().TotalTrials
	s.agg.Reset()
	s.stream.Reseed(s.stream.Seed())
	s.stream.ResetTrials()

	metrics.RecordReset()
	s.audit.LogReset(discarded)
}

// UpdateModel swaps in a new model between ticks. Accumulated results are
// kept unless the round count or the names change, since the histograms and
// labels would no longer line up; the session is then reset.
func (s *Session) UpdateModel(m *model.OutcomeModel) error {
	if err := m.Validate(); err != nil {
		layer := model.LayerModel
		var pme *model.ProbabilityModelError
		if errors.As(err, &pme) {
			layer = pme.Layer
		}
		metrics.RecordModelRejection(layer)
		s.audit.LogInvalidModel(err)
		return fmt.Errorf("outcome model rejected: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m.TotalRounds() != s.model.TotalRounds() || m.Name(model.ParticipantA) != s.model.Name(model.ParticipantA) ||
		m.Name(model.ParticipantB) != s.model.Name(model.ParticipantB) {
		discarded := s.agg.Snapshot().TotalTrials
		s.agg = s.newAggregator(m)
		s.stream.ResetTrials()
		metrics.RecordReset()
		s.audit.LogReset(discarded)
	}

	s.model = m
	s.audit.LogModelChange(m.WinProbability(model.ParticipantA), m.WinProbability(model.ParticipantB),
		m.WinProbability(model.Draw), m.TotalRounds())
	return nil
}

// Model returns the live model. Models are immutable, so the pointer is safe
// to share.
func (s *Session) Model() *model.OutcomeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Seed returns the seed of the current stream.
func (s *Session) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream.Seed()
}

// Snapshot returns a copy of the running statistics.
func (s *Session) Snapshot() aggregator.RunningStats {
	return s.current().Snapshot()
}

// Recent returns up to k of the latest trials.
func (s *Session) Recent(k int) []model.Trial {
	return s.current().Recent(k)
}

// Trials returns every retained trial.
func (s *Session) Trials() []model.Trial {
	return s.current().Trials()
}

// RetainsTrials reports whether raw trials are available for export.
func (s *Session) RetainsTrials() bool {
	return s.current().RetainsTrials()
}

func (s *Session) current() *aggregator.Aggregator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg
}

// LogProgress writes the latest running estimates to the simulation log.
func (s *Session) LogProgress() {
	stats := s.Snapshot()
	s.simLog.LogConvergence(stats.TotalTrials, stats.Participants[0].WinRate,
		stats.Participants[1].WinRate, stats.DrawRate, stats.Participants[0].StdErr)
}

// Check reports whether the session can serve samples.
func (s *Session) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Model().Validate()
}
