package model

import (
	"fmt"

	"github.com/yourusername/fightsim/internal/odds"
)

// MethodOdds quotes how one participant wins.
type MethodOdds struct {
	KO       odds.American `json:"ko" mapstructure:"ko"`
	Decision odds.American `json:"decision" mapstructure:"decision"`
}

// Input is the market-facing description of a bout: moneyline, method of
// victory per participant, optional draw, and stoppage-round weights.
type Input struct {
	Names        [2]string
	Moneyline    [2]odds.American
	Method       [2]MethodOdds
	DrawEnabled  bool
	DrawOdds     odds.American
	RoundWeights [2][]float64
	TotalRounds  int
}

// FromOdds converts each odds group independently into fair probabilities
// and builds a validated model. The moneyline and the draw quote, when
// enabled, form one mutually exclusive group.
func FromOdds(in Input) (*OutcomeModel, error) {
	p := Probabilities{
		Names:       in.Names,
		TotalRounds: in.TotalRounds,
	}
	if p.TotalRounds == 0 {
		p.TotalRounds = DefaultTotalRounds
	}

	winnerGroup := []odds.American{in.Moneyline[0], in.Moneyline[1]}
	if in.DrawEnabled {
		winnerGroup = append(winnerGroup, in.DrawOdds)
	}
	winner, err := odds.GroupToProbabilities(winnerGroup)
	if err != nil {
		return nil, fmt.Errorf("%s odds: %w", LayerWinner, err)
	}
	p.Winner = [2]float64{winner[0], winner[1]}
	if in.DrawEnabled {
		p.Draw = winner[2]
	}

	for i, who := range Participants {
		method, err := odds.GroupToProbabilities([]odds.American{in.Method[i].KO, in.Method[i].Decision})
		if err != nil {
			return nil, fmt.Errorf("%s odds for %s: %w", LayerMethod, p.name(who), err)
		}
		p.Method[i] = [2]float64{method[0], method[1]}
		p.Rounds[i] = append([]float64(nil), in.RoundWeights[i]...)
	}

	return New(p)
}

// DefaultInput is the Joshua vs Paul market used when nothing else is
// configured. Joshua's stoppages are weighted early, Paul's late.
func DefaultInput() Input {
	return Input{
		Names:     [2]string{"Joshua", "Paul"},
		Moneyline: [2]odds.American{-1200, 800},
		Method: [2]MethodOdds{
			{KO: -390, Decision: 450},
			{KO: 1200, Decision: 1300},
		},
		DrawEnabled: false,
		DrawOdds:    2500,
		RoundWeights: [2][]float64{
			{0.22, 0.20, 0.16, 0.12, 0.10, 0.08, 0.07, 0.05},
			{0.06, 0.07, 0.10, 0.12, 0.16, 0.18, 0.17, 0.14},
		},
		TotalRounds: DefaultTotalRounds,
	}
}
