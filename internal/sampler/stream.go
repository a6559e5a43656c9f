// Package sampler draws batches of simulated bouts from an outcome model.
package sampler

import (
	"math/rand"
	"time"
)

// Stream is a single sequential random source for one session. It also keeps
// the running trial index so batches can be concatenated into one sequence.
type Stream struct {
	seed   int64
	rng    *rand.Rand
	draws  int64
	trials int64
}

// NewStream creates a stream seeded with seed. A zero seed picks one from
// the clock.
func NewStream(seed int64) *Stream {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Stream{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Reseed replaces the random source. Only call between batches.
func (s *Stream) Reseed(seed int64) {
	fresh := NewStream(seed)
	s.seed = fresh.seed
	s.rng = fresh.rng
	s.draws = 0
}

// Seed returns the seed of the current source.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Draws returns how many uniform variates were consumed since the last seed.
func (s *Stream) Draws() int64 {
	return s.draws
}

// Trials returns how many trials were produced from this stream; it is also
// the index the next trial will get.
func (s *Stream) Trials() int64 {
	return s.trials
}

// ResetTrials restarts trial numbering at zero, leaving the random source
// where it is.
func (s *Stream) ResetTrials() {
	s.trials = 0
}

func (s *Stream) fill(buf []float64) {
	for i := range buf {
		buf[i] = s.rng.Float64()
	}
	s.draws += int64(len(buf))
}
