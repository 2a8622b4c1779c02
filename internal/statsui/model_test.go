package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scoring"
)

func testResult() scoring.Result {
	return scoring.Result{
		RunID:    "0123456789abcdef",
		Policy:   "weighted",
		ScaleMin: 1,
		ScaleMax: 10,
		Window:   3,
		Rounds: []model.RoundSummary{
			{Round: 0, MeanWeight: 5.5, MAE: 2, SimpleMAE: 2},
			{Round: 1, MeanWeight: 5.7, MAE: 1, SimpleMAE: 2},
		},
		Reporters: []model.ReporterScore{{ReporterID: "p1", Origin: 8, Simple: 6, Weighted: 7, Combined: 7, Votes: 4}},
		Readers: []model.ReaderWeight{
			{ReaderID: "r1", Kind: model.ReaderHonest, Weight: 7, Window: []float64{5.5, 7}},
			{ReaderID: "r2", Kind: model.ReaderAdversarial, Weight: 3, Window: []float64{5.5, 3}},
		},
		History: map[string][]float64{"r1": {5.5, 7}, "r2": {5.5, 3}},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewFitsWindow(t *testing.T) {
	m := NewModel(testResult(), model.ViewConfig{CurveWindow: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Len(t, strings.Split(view, "\n"), 30)
	assert.Contains(t, view, "Run: 01234567")
	assert.Contains(t, view, "Gain")
}

func TestTabsWrap(t *testing.T) {
	m := NewModel(testResult(), model.ViewConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabReaderCurves, m.activeTab)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabReaders, m.activeTab)
	assert.Contains(t, m.View(), "adversarial")
}

func TestCurveWindowKeys(t *testing.T) {
	m := NewModel(testResult(), model.ViewConfig{CurveWindow: 1})
	m.Update(key("="))
	assert.Equal(t, 5, m.cfg.CurveWindow)
	assert.Equal(t, 5, m.report.CurveWindow)

	m.Update(key("="))
	m.Update(key("-"))
	assert.Equal(t, 5, m.cfg.CurveWindow)

	m.Update(key("-"))
	assert.Equal(t, 1, m.cfg.CurveWindow)
}

func TestReaderSelection(t *testing.T) {
	m := NewModel(testResult(), model.ViewConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.activeTab = tabReaderCurves
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.readerInputMode)

	m.readerInput.SetValue(" r2 , ,ghost")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.readerInputMode)
	assert.Equal(t, []string{"r2"}, m.report.CurveIDs)
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(testResult(), model.ViewConfig{})
	_, cmd := m.Update(key("q"))
	assert.NotNil(t, cmd)

	m.activeTab = tabReaderCurves
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(key("q"))
	assert.True(t, m.readerInputMode)
	assert.True(t, strings.HasSuffix(m.readerInput.Value(), "q"), "q must be typed into the input, got %q", m.readerInput.Value())
}

func TestReporterTabShowsUnvoted(t *testing.T) {
	res := testResult()
	res.Reporters = append(res.Reporters, model.ReporterScore{ReporterID: "quiet", Origin: 2, Simple: 5.5, Weighted: 5.5, Combined: 5.5})
	m := NewModel(res, model.ViewConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.activeTab = tabReporters

	view := m.View()
	assert.Contains(t, view, "quiet")
	assert.Less(t, strings.Index(view, "p1"), strings.Index(view, "quiet"))
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.next, nextCurveWindow(c.in), "next(%d)", c.in)
		assert.Equal(t, c.prev, prevCurveWindow(c.in), "prev(%d)", c.in)
	}
}
