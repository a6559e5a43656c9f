package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fightsim/internal/aggregator"
	"github.com/yourusername/fightsim/internal/model"
)

var testTrials = []model.Trial{
	{Index: 0, Winner: model.ParticipantA, Method: model.MethodKO, Round: 2},
	{Index: 1, Winner: model.ParticipantB, Method: model.MethodDecision, Round: 8},
	{Index: 2, Winner: model.Draw, Method: model.MethodDecision, Round: 8, IsDraw: true},
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteTrials(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrials(&buf, testTrials, [2]string{"Joshua", "Paul"}))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 4)
	assert.Equal(t, TrialsHeader, records[0])
	assert.Equal(t, []string{"0", "Joshua", "KO/TKO/DQ", "2", "false"}, records[1])
	assert.Equal(t, []string{"1", "Paul", "Decision", "8", "false"}, records[2])
	assert.Equal(t, []string{"2", "Draw", "Decision", "8", "true"}, records[3])
}

func TestWriteTrialsFallsBackToLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrials(&buf, testTrials[:1], [2]string{}))

	records := readCSV(t, buf.Bytes())
	assert.Equal(t, "A", records[1][1])
}

func TestWriteSummary(t *testing.T) {
	agg := aggregator.New(aggregator.WithNames("Joshua", "Paul"))
	agg.Ingest(testTrials)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, agg.Snapshot()))

	records := readCSV(t, buf.Bytes())
	assert.Equal(t, SummaryHeader, records[0])

	values := make(map[string]string, len(records))
	for _, r := range records[1:] {
		require.Len(t, r, 2)
		values[r[0]] = r[1]
	}
	assert.Equal(t, "3", values["total_trials"])
	assert.Equal(t, "1", values["Joshua_wins"])
	assert.Equal(t, "0.333333", values["Joshua_win_rate"])
	assert.Equal(t, "1", values["Joshua_ko_round_2"])
	assert.Equal(t, "1", values["draws"])
	assert.Equal(t, "1", values["outcome Draw"])
	assert.Equal(t, "1", values["outcome A KO/TKO/DQ"])
}

func TestWriteDir(t *testing.T) {
	agg := aggregator.New(aggregator.WithNames("Joshua", "Paul"))
	agg.Ingest(testTrials)
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteDir(dir, agg.Snapshot(), agg.Trials())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(filepath.Join(dir, TrialsFile))
	require.NoError(t, err)
	assert.Len(t, readCSV(t, data), 4)
}

func TestWriteDirSummaryOnly(t *testing.T) {
	agg := aggregator.New(aggregator.WithTrialRetention(false))
	agg.Ingest(testTrials)
	dir := t.TempDir()

	paths, err := WriteDir(dir, agg.Snapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, SummaryFile)}, paths)

	_, err = os.Stat(filepath.Join(dir, TrialsFile))
	assert.True(t, os.IsNotExist(err))
}
