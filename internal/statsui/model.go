// Package statsui provides the Bubble Tea viewer for scoring runs.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scoring"
	"github.com/verte-zerg/credence/internal/stats"
)

const (
	tabOverview = iota
	tabReaders
	tabReporters
	tabReaderCurves
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea viewer over a finished scoring run.
type Model struct {
	cfg    model.ViewConfig
	report stats.Report

	tabs      []string
	activeTab int
	viewports []viewport.Model
	tables    map[int]*table.Model

	width  int
	height int

	readerInputMode bool
	readerInput     textinput.Model
}

// NewModel constructs a viewer for res.
func NewModel(res scoring.Result, cfg model.ViewConfig) *Model {
	if cfg.CurveWindow < 1 {
		cfg.CurveWindow = 1
	}
	m := &Model{
		cfg:  cfg,
		tabs: []string{"Overview", "Readers", "Reporters", "Reader Curves"},
	}
	m.report = stats.BuildReport(res, cfg)
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	readers := newTable(readerColumns(), readerRows(res.Readers))
	reporters := newTable(reporterColumns(), reporterRows(stats.WorstReporters(res.Reporters, 0)))
	m.tables = map[int]*table.Model{tabReaders: &readers, tabReporters: &reporters}

	m.readerInput = textinput.New()
	m.readerInput.Prompt = "Readers: "
	m.readerInput.Placeholder = "reader_0001,reader_0002"
	m.readerInput.Cursor.SetMode(cursor.CursorBlink)

	m.renderTabContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.readerInputMode {
			return m.updateReaderInput(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.setCurveWindow(nextCurveWindow(m.cfg.CurveWindow))
			return m, nil
		case "-":
			m.setCurveWindow(prevCurveWindow(m.cfg.CurveWindow))
			return m, nil
		case "enter":
			if m.activeTab == tabReaderCurves {
				m.readerInputMode = true
				m.readerInput.SetValue(strings.Join(m.report.CurveIDs, ","))
				return m, m.readerInput.Focus()
			}
			return m, nil
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if t, ok := m.tables[m.activeTab]; ok {
				*t, cmd = t.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.readerInputMode {
		return fitLines(m.renderReaderModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) setCurveWindow(n int) {
	m.cfg.CurveWindow = n
	m.report.CurveWindow = n
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
	m.readerInput.Width = maxInt(10, modalWidth(m.width)-6-lipgloss.Width(m.readerInput.Prompt))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
	res := m.report.Result
	settings := fmt.Sprintf("Run: %s  policy=%s  scale=%.1f..%.1f  holder window=%d  curve window=%d",
		shortID(res.RunID), res.Policy, res.ScaleMin, res.ScaleMax, res.Window, m.cfg.CurveWindow)
	return tabs + "\n" + headerStyle.Render(truncateLine(settings, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q"
	if m.activeTab == tabReaderCurves {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Pick readers: enter  Window: -/=  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderBody() string {
	if t, ok := m.tables[m.activeTab]; ok {
		if len(t.Rows()) == 0 {
			return "Nothing to show."
		}
		return tableMutedStyle.Render(t.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabReaderCurves].SetContent(renderReaderCurves(m.report, width))
}

func renderOverview(r stats.Report, width int) string {
	res := r.Result
	if len(res.Rounds) == 0 {
		return "No rounds scored."
	}
	first := res.Rounds[0]
	last := res.Rounds[len(res.Rounds)-1]
	cards := []string{
		metricCard("Rounds", fmt.Sprintf("%d", len(res.Rounds))),
		metricCard("Readers", fmt.Sprintf("%d", len(res.Readers))),
		metricCard("Reporters", fmt.Sprintf("%d", len(res.Reporters))),
		metricCard("MAE", fmt.Sprintf("%.3f -> %.3f", first.MAE, last.MAE)),
		metricCard("Simple MAE", fmt.Sprintf("%.3f", last.SimpleMAE)),
		metricCard("Gain", fmt.Sprintf("%+.3f", stats.MAEGain(res.Rounds))),
	}
	summary := strings.Join(cards, "\n")
	if width >= 80 {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	var buf bytes.Buffer
	if err := stats.RenderKindTable(&buf, r.Kinds); err != nil {
		return fmt.Sprintf("Failed to render kinds: %v", err)
	}
	if err := stats.RenderCurvesWithSize(&buf, res, r.CurveWindow, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderReaderCurves(r stats.Report, width int) string {
	if len(r.CurveIDs) == 0 {
		return "No readers selected. Press Enter to pick readers."
	}
	header := headerStyle.Render(fmt.Sprintf("Readers: %s", strings.Join(r.CurveIDs, ", ")))
	var buf bytes.Buffer
	if err := stats.RenderReaderCurvesWithSize(&buf, r.Result, r.CurveIDs, r.CurveWindow, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render reader curves: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) updateReaderInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.readerInputMode = false
		return m, nil
	case tea.KeyEnter:
		m.readerInputMode = false
		m.cfg.Readers = parseReaderIDs(m.readerInput.Value())
		m.report = stats.BuildReport(m.report.Result, m.cfg)
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.readerInput, cmd = m.readerInput.Update(msg)
	return m, cmd
}

func (m *Model) renderReaderModal() string {
	body := []string{
		cardValueStyle.Render("Select Readers"),
		m.readerInput.View(),
		headerStyle.Render("Comma-separated reader ids. Empty picks the strongest and weakest."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func parseReaderIDs(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
