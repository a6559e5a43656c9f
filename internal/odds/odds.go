// Package odds converts American odds quotes into implied probabilities and
// strips the bookmaker margin from mutually exclusive outcome groups.
package odds

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// American is a moneyline quote such as -1200 or +800.
type American int

// MinMagnitude is the smallest valid absolute value of an American quote.
const MinMagnitude = 100

// Valid reports whether the quote has a usable magnitude.
func (a American) Valid() bool {
	return a <= -MinMagnitude || a >= MinMagnitude
}

// IsFavorite reports whether the quote prices a favourite.
func (a American) IsFavorite() bool {
	return a < 0
}

// String formats the quote with an explicit sign, e.g. "+800".
func (a American) String() string {
	if a > 0 {
		return fmt.Sprintf("+%d", int(a))
	}
	return fmt.Sprintf("%d", int(a))
}

// ToProbability converts American odds to an implied probability.
// Favourite: |odds| / (|odds| + 100). Underdog: 100 / (odds + 100).
func ToProbability(odds American) (float64, error) {
	if !odds.Valid() {
		return 0, NewInvalidOddsError(odds, "magnitude must be at least 100")
	}
	if odds < 0 {
		abs := float64(-odds)
		return abs / (abs + 100.0), nil
	}
	return 100.0 / (float64(odds) + 100.0), nil
}

// RemoveVig normalizes a mutually exclusive set of implied probabilities so it
// sums to 1. Relative ordering of the entries is preserved.
func RemoveVig(probabilities []float64) ([]float64, error) {
	total := 0.0
	for _, p := range probabilities {
		total += p
	}
	if total <= 0 {
		return nil, NewDegenerateOddsError(total)
	}

	fair := make([]float64, len(probabilities))
	for i, p := range probabilities {
		fair[i] = p / total
	}
	return fair, nil
}

// Overround returns the bookmaker margin carried by a set of implied
// probabilities (sum minus one).
func Overround(probabilities []float64) float64 {
	total := 0.0
	for _, p := range probabilities {
		total += p
	}
	return total - 1.0
}

// GroupToProbabilities converts a group of mutually exclusive quotes and
// removes the vig from the group as a whole.
func GroupToProbabilities(group []American) ([]float64, error) {
	implied := make([]float64, len(group))
	for i, quote := range group {
		p, err := ToProbability(quote)
		if err != nil {
			return nil, err
		}
		implied[i] = p
	}
	return RemoveVig(implied)
}

// FromProbability returns the fair American quote for a probability, rounded
// half away from zero to a whole number.
func FromProbability(p float64) (American, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("probability must be in (0, 1), got %v", p)
	}

	prob := decimal.NewFromFloat(p)
	hundred := decimal.NewFromInt(100)
	one := decimal.NewFromInt(1)

	var quote decimal.Decimal
	if p >= 0.5 {
		// favourite: -100 * p / (1 - p)
		quote = hundred.Mul(prob).Div(one.Sub(prob)).Neg()
	} else {
		quote = hundred.Mul(one.Sub(prob)).Div(prob)
	}

	rounded := quote.Round(0).IntPart()
	// p == 0.5 lands on -100; +100 and -100 are the same price.
	if rounded > -MinMagnitude && rounded < MinMagnitude {
		rounded = MinMagnitude
	}
	return American(rounded), nil
}
