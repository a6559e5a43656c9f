package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Reasons a run stops.
const (
	StopMaxSims   = "max_sims"
	StopCancelled = "cancelled"
)

// RunnerConfig controls the tick loop.
type RunnerConfig struct {
	SimsPerTick int
	// MaxSims caps the session's total trials; zero runs until cancelled.
	MaxSims int64
	// TicksPerSecond throttles the loop; zero means unthrottled.
	TicksPerSecond float64
}

// RunSummary describes a finished run.
type RunSummary struct {
	TotalTrials int64
	Ticks       int64
	Reason      string
	Duration    time.Duration
}

// Runner drives a session tick by tick. Stopping only happens between ticks,
// so the session is always left with a consistent snapshot.
type Runner struct {
	session *Session
	cfg     RunnerConfig
	limiter *rate.Limiter

	mu      sync.Mutex
	running bool
	onTick  func(TickResult)
}

// NewRunner creates a runner for s.
func NewRunner(s *Session, cfg RunnerConfig) *Runner {
	limit := rate.Inf
	if cfg.TicksPerSecond > 0 {
		limit = rate.Limit(cfg.TicksPerSecond)
	}
	return &Runner{
		session: s,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// OnTick registers a callback invoked after every tick.
func (r *Runner) OnTick(fn func(TickResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onTick = fn
}

// IsRunning reports whether Run is in progress.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run ticks until MaxSims trials have accumulated or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (RunSummary, error) {
	if r.cfg.SimsPerTick <= 0 {
		return RunSummary{}, fmt.Errorf("sims per tick must be positive, got %d", r.cfg.SimsPerTick)
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return RunSummary{}, fmt.Errorf("runner is already running")
	}
	r.running = true
	onTick := r.onTick
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	r.session.simLog.LogRunStarted(r.session.Seed(), r.cfg.SimsPerTick, r.cfg.MaxSims)

	var ticks int64
	reason := StopCancelled
	for {
		total := r.session.Snapshot().TotalTrials
		if r.cfg.MaxSims > 0 && total >= r.cfg.MaxSims {
			reason = StopMaxSims
			break
		}
		if ctx.Err() != nil {
			break
		}
		// Wait fails early when the next slot falls past ctx's deadline.
		if err := r.limiter.Wait(ctx); err != nil {
			break
		}

		n := r.cfg.SimsPerTick
		if r.cfg.MaxSims > 0 && int64(n) > r.cfg.MaxSims-total {
			n = int(r.cfg.MaxSims - total)
		}

		result, err := r.session.Tick(n)
		if err != nil {
			return RunSummary{}, err
		}
		ticks++
		if onTick != nil {
			onTick(result)
		}
	}

	summary := RunSummary{
		TotalTrials: r.session.Snapshot().TotalTrials,
		Ticks:       ticks,
		Reason:      reason,
		Duration:    time.Since(start),
	}
	r.session.simLog.LogRunComplete(summary.TotalTrials, summary.Ticks, summary.Reason,
		float64(summary.Duration.Microseconds())/1000)
	return summary, nil
}
