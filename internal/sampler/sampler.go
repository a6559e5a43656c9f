package sampler

import (
	"fmt"

	"github.com/yourusername/fightsim/internal/model"
)

// Batch is the ordered set of trials produced by one Sample call.
type Batch []model.Trial

// Sample draws n independent trials from m using s.
//
// Draws happen layer by layer: n winner variates, then one method variate for
// every non-draw trial, then one round variate for every stoppage. The same
// model, seed and sequence of batch sizes always yield the same trials.
func Sample(m *model.OutcomeModel, s *Stream, n int) (Batch, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("sample: random stream is required")
	}
	if n < 0 {
		return nil, fmt.Errorf("sample: batch size must not be negative, got %d", n)
	}
	if n == 0 {
		return Batch{}, nil
	}

	winnerTable := m.WinnerTable()
	methodTables := [2]model.Table{m.MethodTable(model.ParticipantA), m.MethodTable(model.ParticipantB)}
	roundTables := [2]model.Table{m.RoundTable(model.ParticipantA), m.RoundTable(model.ParticipantB)}
	totalRounds := m.TotalRounds()

	batch := make(Batch, n)
	u := make([]float64, n)

	s.fill(u)
	contested := 0
	for i := range batch {
		winner := model.Participant(winnerTable.Invert(u[i]))
		batch[i] = model.Trial{
			Index:  s.trials + int64(i),
			Winner: winner,
			Method: model.MethodDecision,
			Round:  totalRounds,
			IsDraw: winner == model.Draw,
		}
		if winner != model.Draw {
			contested++
		}
	}

	s.fill(u[:contested])
	j := 0
	stoppages := 0
	for i := range batch {
		if batch[i].IsDraw {
			continue
		}
		batch[i].Method = model.Method(methodTables[batch[i].Winner].Invert(u[j]))
		j++
		if batch[i].Method == model.MethodKO {
			stoppages++
		}
	}

	s.fill(u[:stoppages])
	j = 0
	for i := range batch {
		if batch[i].Method != model.MethodKO || batch[i].IsDraw {
			continue
		}
		batch[i].Round = roundTables[batch[i].Winner].Invert(u[j]) + 1
		j++
	}

	s.trials += int64(n)
	return batch, nil
}
