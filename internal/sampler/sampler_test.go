package sampler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fightsim/internal/model"
)

func defaultModel(t *testing.T) *model.OutcomeModel {
	t.Helper()
	m, err := model.FromOdds(model.DefaultInput())
	require.NoError(t, err)
	return m
}

func drawModel(t *testing.T) *model.OutcomeModel {
	t.Helper()
	in := model.DefaultInput()
	in.DrawEnabled = true
	m, err := model.FromOdds(in)
	require.NoError(t, err)
	return m
}

func TestSampleFrequenciesConverge(t *testing.T) {
	m := defaultModel(t)
	const n = 100000

	batch, err := Sample(m, NewStream(42), n)
	require.NoError(t, err)
	require.Len(t, batch, n)

	outcomes := map[string]int{}
	wins := map[model.Participant]int{}
	roundsA := make([]int, m.TotalRounds())
	koA := 0
	for _, trial := range batch {
		outcomes[trial.Label()]++
		wins[trial.Winner]++
		if trial.Winner == model.ParticipantA && trial.Method == model.MethodKO {
			roundsA[trial.Round-1]++
			koA++
		}
	}

	for _, who := range model.Participants {
		assert.InDelta(t, m.WinProbability(who), float64(wins[who])/n, 0.01, "win rate for %s", who)
		for _, method := range model.Methods {
			label := model.Trial{Winner: who, Method: method}.Label()
			expected := m.OutcomeProbability(who, method)
			assert.InDelta(t, expected, float64(outcomes[label])/n, 0.01, "frequency of %s", label)
		}
	}
	assert.Zero(t, wins[model.Draw])

	dist := m.RoundDistribution(model.ParticipantA)
	for r, p := range dist {
		assert.InDelta(t, p, float64(roundsA[r])/float64(koA), 0.01, "round %d", r+1)
	}
}

func TestSampleDeterministic(t *testing.T) {
	m := defaultModel(t)

	first, err := Sample(m, NewStream(42), 1000)
	require.NoError(t, err)
	second, err := Sample(m, NewStream(42), 1000)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := Sample(m, NewStream(43), 1000)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSampleDeterministicAcrossBatchSequence(t *testing.T) {
	m := drawModel(t)
	sizes := []int{10, 250, 1, 0, 739}

	run := func() Batch {
		s := NewStream(7)
		var all Batch
		for _, size := range sizes {
			batch, err := Sample(m, s, size)
			require.NoError(t, err)
			all = append(all, batch...)
		}
		return all
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Len(t, first, 1000)
}

func TestSampleTrialInvariants(t *testing.T) {
	m := drawModel(t)
	s := NewStream(99)

	batch, err := Sample(m, s, 20000)
	require.NoError(t, err)

	draws := 0
	for i, trial := range batch {
		assert.Equal(t, int64(i), trial.Index)
		assert.GreaterOrEqual(t, trial.Round, 1)
		assert.LessOrEqual(t, trial.Round, m.TotalRounds())

		switch {
		case trial.IsDraw:
			draws++
			assert.Equal(t, model.Draw, trial.Winner)
			assert.Equal(t, model.MethodDecision, trial.Method)
			assert.Equal(t, m.TotalRounds(), trial.Round)
		case trial.Method == model.MethodDecision:
			assert.Equal(t, m.TotalRounds(), trial.Round)
		}
	}
	assert.Greater(t, draws, 0)
	assert.InDelta(t, m.WinProbability(model.Draw), float64(draws)/20000, 0.01)
}

func TestSampleContinuesTrialIndex(t *testing.T) {
	m := defaultModel(t)
	s := NewStream(1)

	_, err := Sample(m, s, 100)
	require.NoError(t, err)
	batch, err := Sample(m, s, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(100), batch[0].Index)
	assert.Equal(t, int64(104), batch[4].Index)
	assert.Equal(t, int64(105), s.Trials())

	s.ResetTrials()
	batch, err = Sample(m, s, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), batch[0].Index)
}

func TestSampleCountsDraws(t *testing.T) {
	m := defaultModel(t)
	s := NewStream(5)

	batch, err := Sample(m, s, 500)
	require.NoError(t, err)

	ko := 0
	for _, trial := range batch {
		if trial.Method == model.MethodKO {
			ko++
		}
	}
	assert.Equal(t, int64(500+500+ko), s.Draws())
}

func TestReseed(t *testing.T) {
	m := defaultModel(t)

	s := NewStream(42)
	_, err := Sample(m, s, 300)
	require.NoError(t, err)

	s.Reseed(43)
	assert.Equal(t, int64(43), s.Seed())
	assert.Zero(t, s.Draws())
	afterReseed, err := Sample(m, s, 200)
	require.NoError(t, err)

	fresh, err := Sample(m, NewStream(43), 200)
	require.NoError(t, err)
	for i := range afterReseed {
		assert.Equal(t, fresh[i].Winner, afterReseed[i].Winner)
		assert.Equal(t, fresh[i].Method, afterReseed[i].Method)
		assert.Equal(t, fresh[i].Round, afterReseed[i].Round)
		assert.Equal(t, fresh[i].Index+300, afterReseed[i].Index)
	}
}

func TestSampleDegenerateRounds(t *testing.T) {
	base := defaultModel(t)
	m, err := base.WithRounds(model.ParticipantA, []float64{0, 0, 1, 0, 0, 0, 0, 0})
	require.NoError(t, err)

	batch, err := Sample(m, NewStream(11), 5000)
	require.NoError(t, err)
	for _, trial := range batch {
		if trial.Winner == model.ParticipantA && trial.Method == model.MethodKO {
			assert.Equal(t, 3, trial.Round)
		}
	}
}

func TestSampleRejectsInvalidModel(t *testing.T) {
	var modelErr *model.ProbabilityModelError

	_, err := Sample(nil, NewStream(1), 10)
	assert.True(t, errors.As(err, &modelErr))

	_, err = Sample(&model.OutcomeModel{}, NewStream(1), 10)
	assert.True(t, errors.As(err, &modelErr))
}

func TestSampleBatchSizes(t *testing.T) {
	m := defaultModel(t)

	batch, err := Sample(m, NewStream(1), 0)
	require.NoError(t, err)
	assert.Empty(t, batch)

	_, err = Sample(m, NewStream(1), -1)
	assert.Error(t, err)

	_, err = Sample(m, nil, 10)
	assert.Error(t, err)
}

func BenchmarkSample(b *testing.B) {
	m, err := model.FromOdds(model.DefaultInput())
	if err != nil {
		b.Fatal(err)
	}
	s := NewStream(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Sample(m, s, 10000); err != nil {
			b.Fatal(err)
		}
	}
}
