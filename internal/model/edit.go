package model

import "fmt"

// WithNames returns a copy of the model with new display names.
func (m *OutcomeModel) WithNames(a, b string) (*OutcomeModel, error) {
	p := m.Probabilities()
	p.Names = [2]string{a, b}
	return New(p)
}

// WithWinner returns a copy of the model with new win weights for A and B.
// Any draw mass is kept as is.
func (m *OutcomeModel) WithWinner(a, b float64) (*OutcomeModel, error) {
	p := m.Probabilities()
	scale := 1.0 - p.Draw
	total := a + b
	if a < 0 || b < 0 || total <= 0 {
		return nil, NewInvalidDistributionError(LayerWinner, "", "win weights must be non-negative and not all zero")
	}
	p.Winner = [2]float64{scale * a / total, scale * b / total}
	return New(p)
}

// WithDraw returns a copy of the model where a draw has probability draw and
// the two win probabilities share the remaining mass in their current ratio.
// A draw probability of zero disables draws.
func (m *OutcomeModel) WithDraw(draw float64) (*OutcomeModel, error) {
	if draw < 0 || draw >= 1 {
		return nil, NewInvalidDistributionError(LayerWinner, "", fmt.Sprintf("draw probability must be in [0, 1), got %v", draw))
	}
	p := m.Probabilities()
	total := p.Winner[0] + p.Winner[1]
	p.Winner = [2]float64{(1 - draw) * p.Winner[0] / total, (1 - draw) * p.Winner[1] / total}
	p.Draw = draw
	return New(p)
}

// WithMethod returns a copy of the model with new method weights for who.
func (m *OutcomeModel) WithMethod(who Participant, ko, decision float64) (*OutcomeModel, error) {
	if who != ParticipantA && who != ParticipantB {
		return nil, fmt.Errorf("method weights need a participant, got %s", who)
	}
	p := m.Probabilities()
	p.Method[who] = [2]float64{ko, decision}
	return New(p)
}

// WithRounds returns a copy of the model with new stoppage-round weights for
// who. The weights must cover every scheduled round.
func (m *OutcomeModel) WithRounds(who Participant, weights []float64) (*OutcomeModel, error) {
	if who != ParticipantA && who != ParticipantB {
		return nil, fmt.Errorf("round weights need a participant, got %s", who)
	}
	p := m.Probabilities()
	p.Rounds[who] = append([]float64(nil), weights...)
	return New(p)
}

// WithTotalRounds returns a copy of the model scheduled for totalRounds
// rounds, with a fresh round distribution for each participant.
func (m *OutcomeModel) WithTotalRounds(totalRounds int, roundsA, roundsB []float64) (*OutcomeModel, error) {
	p := m.Probabilities()
	p.TotalRounds = totalRounds
	p.Rounds = [2][]float64{
		append([]float64(nil), roundsA...),
		append([]float64(nil), roundsB...),
	}
	return New(p)
}
