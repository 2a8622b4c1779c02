package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 5, 4)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Test Plot")
	assert.Contains(t, out, "Scaled per series")
	assert.Contains(t, out, "Legend:")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.GreaterOrEqual(t, len(lines), 1+1+2+4+1)
}

func TestPlotSeriesInBounds(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeriesInBounds(&buf, "Weights", []Series{
		{Name: "r1", Values: []float64{5.5, 7, 12}},
	}, Bounds{Min: 1, Max: 10}, 10, 5, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Shared axis 1.00..10.00.")
	assert.NotContains(t, out, "Scaled per series")
	assert.Contains(t, out, "10.0 │ ")
	assert.Contains(t, out, " 5.5 │ ")
	assert.Contains(t, out, " 1.0 │ ")

	err = PlotSeriesInBounds(&buf, "", nil, Bounds{Min: 3, Max: 3}, 10, 5, false)
	assert.Error(t, err)
}
