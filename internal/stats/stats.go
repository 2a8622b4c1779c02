// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scoring"
	"github.com/verte-zerg/credence/internal/textfmt"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// MAEGain is how much the consensus error of the last round improved on the
// unweighted mean. Positive means trust weighting helped.
func MAEGain(rounds []model.RoundSummary) float64 {
	if len(rounds) == 0 {
		return 0
	}
	last := rounds[len(rounds)-1]
	return last.SimpleMAE - last.MAE
}

// RenderSummary prints the headline numbers of a run.
func RenderSummary(w io.Writer, res scoring.Result) error {
	if len(res.Rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds scored.")
		return err
	}
	first := res.Rounds[0]
	last := res.Rounds[len(res.Rounds)-1]
	lines := []string{
		"Summary",
		fmt.Sprintf("Run: %s", res.RunID),
		fmt.Sprintf("Policy: %s", res.Policy),
		fmt.Sprintf("Scale: %.2f..%.2f", res.ScaleMin, res.ScaleMax),
		fmt.Sprintf("Rounds: %d", len(res.Rounds)),
		fmt.Sprintf("Readers: %d", len(res.Readers)),
		fmt.Sprintf("Reporters: %d", len(res.Reporters)),
		fmt.Sprintf("MAE: %.3f -> %.3f", first.MAE, last.MAE),
		fmt.Sprintf("Simple MAE: %.3f", last.SimpleMAE),
		fmt.Sprintf("Gain: %+.3f", MAEGain(res.Rounds)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints per-round weight and error curves.
func RenderCurves(w io.Writer, res scoring.Result, window int) error {
	return RenderCurvesWithSize(w, res, window, 0, 10, false)
}

// RenderCurvesWithSize prints per-round curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, res scoring.Result, window, totalWidth, height int, useColor bool) error {
	if len(res.Rounds) == 0 {
		return nil
	}
	means := make([]float64, len(res.Rounds))
	maes := make([]float64, len(res.Rounds))
	simple := make([]float64, len(res.Rounds))
	for i, r := range res.Rounds {
		means[i] = r.MeanWeight
		maes[i] = r.MAE
		simple[i] = r.SimpleMAE
	}

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotSeriesWithColor(w, "Error Curves", []Series{
		{Name: "MAE", Values: MovingAverage(maes, window)},
		{Name: "Simple MAE", Values: MovingAverage(simple, window)},
	}, width, height, useColor); err != nil {
		return err
	}
	return PlotSeriesInBounds(w, "Mean Weight", []Series{
		{Name: "Mean", Values: MovingAverage(means, window)},
	}, Bounds{Min: res.ScaleMin, Max: res.ScaleMax}, width, height, useColor)
}

// RenderReaderTable prints reader weights, highest first. top <= 0 prints all.
func RenderReaderTable(w io.Writer, readers []model.ReaderWeight, top int) error {
	if len(readers) == 0 {
		_, err := fmt.Fprintln(w, "No readers found.")
		return err
	}
	if top > 0 && top < len(readers) {
		readers = readers[:top]
	}
	if _, err := fmt.Fprintln(w, "Readers"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(readers))
	for _, r := range readers {
		rows = append(rows, []string{
			r.ReaderID,
			string(r.Kind),
			fmt.Sprintf("%.3f", r.Weight),
			Sparkline(r.Window),
		})
	}
	return textfmt.Table{
		Headers:    []string{"Reader", "Kind", "Weight", "Window"},
		Rows:       rows,
		RightAlign: map[int]bool{2: true},
	}.Write(w)
}

// RenderKindTable prints the mean final weight per reader kind.
func RenderKindTable(w io.Writer, kinds []KindWeight) error {
	if len(kinds) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Weight by Kind"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, []string{
			string(k.Kind),
			fmt.Sprintf("%d", k.Readers),
			fmt.Sprintf("%.3f", k.Mean),
		})
	}
	return textfmt.Table{
		Headers:    []string{"Kind", "Readers", "Mean Weight"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 2: true},
	}.Write(w)
}

// RenderReporterTable prints reporter scores, worst estimate first.
func RenderReporterTable(w io.Writer, reporters []model.ReporterScore, top int) error {
	if len(reporters) == 0 {
		_, err := fmt.Fprintln(w, "No reporters found.")
		return err
	}
	reporters = WorstReporters(reporters, top)
	if _, err := fmt.Fprintln(w, "Reporters"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(reporters))
	for _, r := range reporters {
		rows = append(rows, ReporterCells(r))
	}
	return textfmt.Table{
		Headers:    []string{"Reporter", "Origin", "Simple", "Weighted", "Score", "Error", "Votes"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true},
	}.Write(w)
}

// RenderReaderCurves prints weight history curves for the given readers.
func RenderReaderCurves(w io.Writer, res scoring.Result, readers []string, window int) error {
	return RenderReaderCurvesWithSize(w, res, readers, window, 0, 10, false)
}

// RenderReaderCurvesWithSize prints reader weight curves sized to a given total width.
func RenderReaderCurvesWithSize(w io.Writer, res scoring.Result, readers []string, window, totalWidth, height int, useColor bool) error {
	if len(readers) == 0 {
		return nil
	}
	series := make([]Series, 0, len(readers))
	for _, id := range readers {
		hist, ok := res.History[id]
		if !ok {
			continue
		}
		series = append(series, Series{Name: id, Values: MovingAverage(hist, window)})
	}
	if len(series) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesInBounds(w, "Reader Weights", series, Bounds{Min: res.ScaleMin, Max: res.ScaleMax}, width, height, useColor)
}

// ReporterCells formats one reporter table row. Estimates of an unvoted
// reporter print as "-".
func ReporterCells(r model.ReporterScore) []string {
	cells := []string{r.ReporterID, fmt.Sprintf("%.2f", r.Origin), "-", "-", "-", "-", "0"}
	if r.Votes == 0 {
		return cells
	}
	cells[2] = fmt.Sprintf("%.2f", r.Simple)
	cells[3] = fmt.Sprintf("%.2f", r.Weighted)
	cells[4] = fmt.Sprintf("%.2f", r.Combined)
	cells[5] = fmt.Sprintf("%+.2f", r.Combined-r.Origin)
	cells[6] = fmt.Sprintf("%d", r.Votes)
	return cells
}
