package model

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance for a distribution summing to one.
const Epsilon = 1e-6

// DefaultTotalRounds is the scheduled length of a bout when none is given.
const DefaultTotalRounds = 8

// Probabilities is the raw, unvalidated form of an outcome model. Every layer
// is treated as a weight vector and renormalized on construction.
type Probabilities struct {
	Names       [2]string     `json:"names"`
	Winner      [2]float64    `json:"winner"`
	Draw        float64       `json:"draw"`
	Method      [2][2]float64 `json:"method"`
	Rounds      [2][]float64  `json:"rounds"`
	TotalRounds int           `json:"total_rounds"`
}

// OutcomeModel is an immutable, validated set of winner, method and round
// distributions. Edits go through the With* methods, which return a new model.
type OutcomeModel struct {
	probs     Probabilities
	winnerCDF Table
	methodCDF [2]Table
	roundCDF  [2]Table
	validated bool
}

// New validates and normalizes probabilities into an OutcomeModel.
func New(p Probabilities) (*OutcomeModel, error) {
	if err := checkShape(p); err != nil {
		return nil, err
	}

	normalized, err := normalizeLayers(p)
	if err != nil {
		return nil, err
	}

	m := &OutcomeModel{probs: normalized}
	m.buildTables()
	m.validated = true

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func checkShape(p Probabilities) error {
	if p.TotalRounds <= 0 {
		return NewProbabilityModelError(LayerRounds, "", 0, fmt.Sprintf("total rounds must be at least 1, got %d", p.TotalRounds))
	}
	for _, who := range Participants {
		if got := len(p.Rounds[who]); got != p.TotalRounds {
			return NewProbabilityModelError(LayerRounds, p.name(who), 0,
				fmt.Sprintf("expected %d round weights, got %d", p.TotalRounds, got))
		}
	}
	return nil
}

func normalizeLayers(p Probabilities) (Probabilities, error) {
	out := Probabilities{
		Names:       p.Names,
		TotalRounds: p.TotalRounds,
	}
	for i, who := range Participants {
		if out.Names[i] == "" {
			out.Names[i] = defaultName(who)
		}
	}

	winner, err := normalize([]float64{p.Winner[0], p.Winner[1], p.Draw}, LayerWinner, "")
	if err != nil {
		return Probabilities{}, err
	}
	out.Winner = [2]float64{winner[0], winner[1]}
	out.Draw = winner[2]

	for i, who := range Participants {
		method, err := normalize(p.Method[i][:], LayerMethod, out.Names[who])
		if err != nil {
			return Probabilities{}, err
		}
		out.Method[i] = [2]float64{method[0], method[1]}

		rounds, err := normalize(p.Rounds[i], LayerRounds, out.Names[who])
		if err != nil {
			return Probabilities{}, err
		}
		out.Rounds[i] = rounds
	}
	return out, nil
}

func (m *OutcomeModel) buildTables() {
	m.winnerCDF = NewTable(m.winnerLayer())
	for i := range Participants {
		m.methodCDF[i] = NewTable(m.probs.Method[i][:])
		m.roundCDF[i] = NewTable(m.probs.Rounds[i])
	}
}

func (m *OutcomeModel) winnerLayer() []float64 {
	if m.probs.Draw > 0 {
		return []float64{m.probs.Winner[0], m.probs.Winner[1], m.probs.Draw}
	}
	return []float64{m.probs.Winner[0], m.probs.Winner[1]}
}

// Validate re-checks every invariant of the model: each probability lies in
// [0, 1], each conditional distribution sums to one within Epsilon, and each
// round distribution has exactly TotalRounds entries.
func (m *OutcomeModel) Validate() error {
	if m == nil || !m.validated {
		return NewProbabilityModelError(LayerModel, "", 0, "model was not built through New or FromOdds")
	}
	if err := checkShape(m.probs); err != nil {
		return err
	}

	if err := checkDistribution(m.winnerLayer(), LayerWinner, ""); err != nil {
		return err
	}
	for i, who := range Participants {
		name := m.probs.name(who)
		if err := checkDistribution(m.probs.Method[i][:], LayerMethod, name); err != nil {
			return err
		}
		if err := checkDistribution(m.probs.Rounds[i], LayerRounds, name); err != nil {
			return err
		}
	}
	return nil
}

func checkDistribution(values []float64, layer, participant string) error {
	sum := 0.0
	for i, v := range values {
		if math.IsNaN(v) || v < 0 || v > 1 {
			round := 0
			if layer == LayerRounds {
				round = i + 1
			}
			return NewProbabilityModelError(layer, participant, round, fmt.Sprintf("probability %v outside [0, 1]", v))
		}
		sum += v
	}
	if math.Abs(sum-1.0) > Epsilon {
		return NewProbabilityModelError(layer, participant, 0, fmt.Sprintf("distribution sums to %v", sum))
	}
	return nil
}

// Probabilities returns a copy of the normalized layers.
func (m *OutcomeModel) Probabilities() Probabilities {
	out := m.probs
	for i := range Participants {
		out.Rounds[i] = append([]float64(nil), m.probs.Rounds[i]...)
	}
	return out
}

// Name returns the display name of a participant.
func (m *OutcomeModel) Name(p Participant) string {
	if p == Draw {
		return Draw.String()
	}
	return m.probs.name(p)
}

// TotalRounds returns the scheduled number of rounds.
func (m *OutcomeModel) TotalRounds() int {
	return m.probs.TotalRounds
}

// DrawEnabled reports whether draws carry any mass.
func (m *OutcomeModel) DrawEnabled() bool {
	return m.probs.Draw > 0
}

// WinProbability returns the probability that p wins, or of a draw.
func (m *OutcomeModel) WinProbability(p Participant) float64 {
	if p == Draw {
		return m.probs.Draw
	}
	return m.probs.Winner[p]
}

// MethodProbability returns P(method | p wins).
func (m *OutcomeModel) MethodProbability(p Participant, method Method) float64 {
	return m.probs.Method[p][method]
}

// OutcomeProbability returns the joint probability that p wins by method.
func (m *OutcomeModel) OutcomeProbability(p Participant, method Method) float64 {
	return m.probs.Winner[p] * m.probs.Method[p][method]
}

// RoundDistribution returns a copy of P(round | p wins by KO), rounds 1..R.
func (m *OutcomeModel) RoundDistribution(p Participant) []float64 {
	return append([]float64(nil), m.probs.Rounds[p]...)
}

// WinnerTable returns the cumulative winner table over A, B and, when
// enabled, Draw.
func (m *OutcomeModel) WinnerTable() Table {
	return append(Table(nil), m.winnerCDF...)
}

// MethodTable returns the cumulative method table for p over KO, Decision.
func (m *OutcomeModel) MethodTable(p Participant) Table {
	return append(Table(nil), m.methodCDF[p]...)
}

// RoundTable returns the cumulative stoppage-round table for p.
func (m *OutcomeModel) RoundTable(p Participant) Table {
	return append(Table(nil), m.roundCDF[p]...)
}

func (p Probabilities) name(who Participant) string {
	if p.Names[who] != "" {
		return p.Names[who]
	}
	return defaultName(who)
}

func defaultName(who Participant) string {
	return "Fighter " + who.String()
}
