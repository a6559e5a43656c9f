// Package export writes simulation results as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yourusername/fightsim/internal/aggregator"
	"github.com/yourusername/fightsim/internal/model"
)

// File names used by WriteDir.
const (
	TrialsFile  = "trials.csv"
	SummaryFile = "summary.csv"
)

// TrialsHeader is the column order of a trials export.
var TrialsHeader = []string{"trial_index", "winner", "method", "round", "is_draw"}

// SummaryHeader is the column order of a summary export.
var SummaryHeader = []string{"metric", "value"}

// WriteTrials writes one row per trial. Winners are written by display name.
func WriteTrials(w io.Writer, trials []model.Trial, names [2]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrialsHeader); err != nil {
		return fmt.Errorf("failed to write trials header: %w", err)
	}

	for _, trial := range trials {
		record := []string{
			strconv.FormatInt(trial.Index, 10),
			winnerName(trial.Winner, names),
			trial.Method.String(),
			strconv.Itoa(trial.Round),
			strconv.FormatBool(trial.IsDraw),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write trial %d: %w", trial.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func winnerName(p model.Participant, names [2]string) string {
	if p == model.Draw {
		return model.Draw.String()
	}
	if names[p] == "" {
		return p.String()
	}
	return names[p]
}

// SummaryRows flattens running statistics into metric/value pairs.
func SummaryRows(stats aggregator.RunningStats) [][]string {
	rows := [][]string{
		{"state", stats.State.String()},
		{"total_trials", strconv.FormatInt(stats.TotalTrials, 10)},
		{"ticks", strconv.FormatInt(stats.Ticks, 10)},
	}

	for _, p := range stats.Participants {
		rows = append(rows,
			[]string{p.Name + "_wins", strconv.FormatInt(p.Wins, 10)},
			[]string{p.Name + "_win_rate", formatFloat(p.WinRate)},
			[]string{p.Name + "_win_rate_std_err", formatFloat(p.StdErr)},
			[]string{p.Name + "_win_rate_ci95_low", formatFloat(p.Confidence.Low)},
			[]string{p.Name + "_win_rate_ci95_high", formatFloat(p.Confidence.High)},
			[]string{p.Name + "_ko_rate", formatFloat(p.KORate)},
			[]string{p.Name + "_decision_rate", formatFloat(p.DecisionRate)},
		)
		for i, count := range p.KORounds {
			rows = append(rows, []string{fmt.Sprintf("%s_ko_round_%d", p.Name, i+1), strconv.FormatInt(count, 10)})
		}
	}

	rows = append(rows,
		[]string{"draws", strconv.FormatInt(stats.Draws, 10)},
		[]string{"draw_rate", formatFloat(stats.DrawRate)},
	)
	for _, outcome := range stats.Outcomes {
		rows = append(rows, []string{"outcome " + outcome.Label, strconv.FormatInt(outcome.Count, 10)})
	}
	return rows
}

// WriteSummary writes the summary rows of stats.
func WriteSummary(w io.Writer, stats aggregator.RunningStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := cw.WriteAll(SummaryRows(stats)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// WriteDir writes summary.csv, and trials.csv when trials is non-nil, into
// dir. It returns the paths written.
func WriteDir(dir string, stats aggregator.RunningStats, trials []model.Trial) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var written []string
	summaryPath := filepath.Join(dir, SummaryFile)
	if err := writeFile(summaryPath, func(w io.Writer) error { return WriteSummary(w, stats) }); err != nil {
		return written, err
	}
	written = append(written, summaryPath)

	if trials != nil {
		names := [2]string{stats.Participants[0].Name, stats.Participants[1].Name}
		trialsPath := filepath.Join(dir, TrialsFile)
		if err := writeFile(trialsPath, func(w io.Writer) error { return WriteTrials(w, trials, names) }); err != nil {
			return written, err
		}
		written = append(written, trialsPath)
	}
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
