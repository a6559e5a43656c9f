package odds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProbability(t *testing.T) {
	tests := []struct {
		name     string
		odds     American
		expected float64
	}{
		{name: "heavy favourite", odds: -1200, expected: 0.9230769230769231},
		{name: "underdog", odds: 800, expected: 0.1111111111111111},
		{name: "even money positive", odds: 100, expected: 0.5},
		{name: "even money negative", odds: -100, expected: 0.5},
		{name: "ko favourite", odds: -390, expected: 390.0 / 490.0},
		{name: "long shot", odds: 2500, expected: 100.0 / 2600.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ToProbability(tt.odds)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, p, 1e-10)
			assert.Greater(t, p, 0.0)
			assert.Less(t, p, 1.0)
		})
	}
}

func TestToProbabilityInvalid(t *testing.T) {
	for _, quote := range []American{0, 99, -99, 50, -1} {
		_, err := ToProbability(quote)
		require.Error(t, err, "odds %d", quote)

		var invalid *InvalidOddsError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, quote, invalid.Odds)
	}
}

func TestImpliedProbabilitiesRange(t *testing.T) {
	for magnitude := 100; magnitude <= 100000; magnitude += 37 {
		for _, sign := range []int{-1, 1} {
			p, err := ToProbability(American(sign * magnitude))
			require.NoError(t, err)
			assert.True(t, p > 0 && p < 1, "odds %d gave %v", sign*magnitude, p)
		}
	}
}

func TestMoneylineScenario(t *testing.T) {
	fav, err := ToProbability(-1200)
	require.NoError(t, err)
	dog, err := ToProbability(800)
	require.NoError(t, err)

	assert.InDelta(t, 0.9231, fav, 1e-4)
	assert.InDelta(t, 0.1111, dog, 1e-4)
	assert.InDelta(t, 1.034, fav+dog, 1e-3)
	assert.InDelta(t, 0.034, Overround([]float64{fav, dog}), 1e-3)

	fair, err := RemoveVig([]float64{fav, dog})
	require.NoError(t, err)
	assert.InDelta(t, 0.8926, fair[0], 1e-4)
	assert.InDelta(t, 0.1074, fair[1], 1e-4)
	assert.InDelta(t, 1.0, fair[0]+fair[1], 1e-9)
}

func TestRemoveVig(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
	}{
		{name: "two way", input: []float64{0.6, 0.5}},
		{name: "single", input: []float64{0.5}},
		{name: "three way", input: []float64{0.7, 0.25, 0.08}},
		{name: "with zero entry", input: []float64{0.0, 0.3, 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fair, err := RemoveVig(tt.input)
			require.NoError(t, err)
			require.Len(t, fair, len(tt.input))

			sum := 0.0
			for _, p := range fair {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-6)

			for i := range tt.input {
				for j := range tt.input {
					if tt.input[i] < tt.input[j] {
						assert.Less(t, fair[i], fair[j])
					}
				}
			}
		})
	}

	fair, err := RemoveVig([]float64{0.6, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5454545454545454, fair[0], 1e-10)
	assert.InDelta(t, 0.45454545454545453, fair[1], 1e-10)
}

func TestRemoveVigDegenerate(t *testing.T) {
	for _, input := range [][]float64{{0, 0}, {}, {-0.2, 0.1}} {
		_, err := RemoveVig(input)
		var degenerate *DegenerateOddsError
		require.True(t, errors.As(err, &degenerate), "input %v", input)
	}
}

func TestGroupToProbabilities(t *testing.T) {
	fair, err := GroupToProbabilities([]American{-390, 450})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fair[0]+fair[1], 1e-9)
	assert.Greater(t, fair[0], fair[1])

	_, err = GroupToProbabilities([]American{-390, 0})
	var invalid *InvalidOddsError
	assert.True(t, errors.As(err, &invalid))
}

func TestFromProbability(t *testing.T) {
	tests := []struct {
		p        float64
		expected American
	}{
		{p: 0.5, expected: -100},
		{p: 0.75, expected: -300},
		{p: 0.25, expected: 300},
		{p: 0.8926, expected: -831},
		{p: 0.1, expected: 900},
	}

	for _, tt := range tests {
		quote, err := FromProbability(tt.p)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, quote, "p=%v", tt.p)
	}

	_, err := FromProbability(0)
	assert.Error(t, err)
	_, err = FromProbability(1)
	assert.Error(t, err)
}

func TestAmericanString(t *testing.T) {
	assert.Equal(t, "+800", American(800).String())
	assert.Equal(t, "-1200", American(-1200).String())
	assert.True(t, American(-1200).IsFavorite())
	assert.False(t, American(800).IsFavorite())
}
