package stats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/credence/internal/model"
)

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 5, 7}, MovingAverage([]float64{2, 4, 6, 8}, 2))

	in := []float64{1, 2}
	out := MovingAverage(in, 1)
	out[0] = 9
	assert.Equal(t, 1.0, in[0], "window 1 must return a copy")
}

func TestSparkline(t *testing.T) {
	assert.Empty(t, Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{3, 3, 3}))
	assert.Equal(t, " @", Sparkline([]float64{0, 1}))
}

func TestMAEGain(t *testing.T) {
	assert.Zero(t, MAEGain(nil))
	assert.Equal(t, 0.75, MAEGain([]model.RoundSummary{{MAE: 3, SimpleMAE: 3}, {MAE: 1.25, SimpleMAE: 2}}))
}

func TestReporterCellsUnvoted(t *testing.T) {
	cells := ReporterCells(model.ReporterScore{ReporterID: "quiet", Origin: 3, Simple: 5.5, Weighted: 5.5, Combined: 5.5})
	assert.Equal(t, []string{"quiet", "3.00", "-", "-", "-", "-", "0"}, cells)

	cells = ReporterCells(model.ReporterScore{ReporterID: "p1", Origin: 7, Simple: 7.25, Weighted: 7.5, Combined: 7.5, Votes: 4})
	assert.Equal(t, []string{"p1", "7.00", "7.25", "7.50", "7.50", "+0.50", "4"}, cells)
}

func TestRenderReporterTableShowsUnvotedLast(t *testing.T) {
	var buf bytes.Buffer
	err := RenderReporterTable(&buf, []model.ReporterScore{
		{ReporterID: "quiet", Origin: 1, Simple: 5.5, Weighted: 5.5, Combined: 5.5},
		{ReporterID: "p1", Origin: 5, Simple: 6, Weighted: 6, Combined: 6, Votes: 2},
	}, 0)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "Reporters", string(lines[0]))
	assert.True(t, bytes.HasPrefix(lines[2], []byte("p1")))
	assert.True(t, bytes.HasPrefix(lines[3], []byte("quiet")))
	assert.Contains(t, string(lines[3]), "-")
	assert.NotContains(t, string(lines[3]), "5.50")
}
