// Package statsui provides the Bubble Tea report viewer.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typestyle/internal/classify"
	"github.com/verte-zerg/typestyle/internal/model"
	"github.com/verte-zerg/typestyle/internal/stats"
)

const (
	tabLogger = iota
	tabMetrics
	tabKeys
	tabStyle
)

const (
	refreshInterval = time.Second
	activityWindow  = 3
)

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
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	categoryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source is the log the viewer reads and clears.
type Source interface {
	stats.LogSource
	ClearLog(ctx context.Context) error
}

type tickMsg time.Time

// overrides replace the stored WPM and the wall-clock hour for the Style tab.
type overrides struct {
	wpm  *int
	hour *int
}

type overrideSource struct {
	stats.LogSource
	wpm int
}

func (s overrideSource) CurrentWPM(context.Context) (int, error) {
	return s.wpm, nil
}

// Model implements the Bubble Tea report viewer.
type Model struct {
	source     Source
	cfg        model.ClassifyConfig
	classifier *classify.Classifier
	logger     *zap.Logger
	now        func() time.Time

	data   stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	keyTable  table.Model

	width  int
	height int

	overrides     overrides
	overrideMode  bool
	overrideInput []textinput.Model
	overrideIndex int
	overrideError string

	confirmClear bool
}

// NewModel constructs a report viewer over source.
func NewModel(source Source, cfg model.ClassifyConfig, classifier *classify.Classifier, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		source:     source,
		cfg:        cfg,
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
		tabs:       []string{"Logger", "Metrics", "Keys", "Style"},
	}
	m.initInputs()
	m.initViewports()
	m.keyTable = buildKeyTable(nil, 0, 1)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
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
	case tickMsg:
		if !m.overrideMode {
			m.refreshReport()
		}
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.overrideMode {
			return m.updateOverrides(msg)
		}
		if m.confirmClear {
			return m.updateConfirmClear(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "c":
			m.confirmClear = true
			return m, nil
		case "/":
			return m.startOverrides()
		case "g", "home":
			if m.activeTab == tabKeys {
				m.keyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabKeys {
				m.keyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabKeys {
				var cmd tea.Cmd
				m.keyTable, cmd = m.keyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
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
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.overrideInput = []textinput.Model{
		newInput("WPM: "),
		newInput("Hour (0-23): "),
	}
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = "live"
	input.CharLimit = 4
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.keyTable.SetWidth(m.width)
	m.keyTable.SetHeight(max(1, vpHeight-1))
	for i := range m.overrideInput {
		promptWidth := lipgloss.Width(m.overrideInput[i].Prompt)
		m.overrideInput[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabKeys {
		m.keyTable.Focus()
	} else {
		m.keyTable.Blur()
	}
}

func (m *Model) refreshReport() {
	var src stats.LogSource = m.source
	if m.overrides.wpm != nil {
		src = overrideSource{LogSource: m.source, wpm: *m.overrides.wpm}
	}
	now := m.now()
	if m.overrides.hour != nil {
		now = time.Date(now.Year(), now.Month(), now.Day(), *m.overrides.hour, 0, 0, 0, now.Location())
	}
	data, err := stats.BuildReport(context.Background(), src, m.cfg, m.classifier, now)
	if err != nil {
		m.errMsg = err.Error()
		m.logger.Warn("failed to refresh report", zap.Error(err))
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.data = data
	m.keyTable.SetRows(keyRows(data.Metrics))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load report.")
		}
		return
	}
	m.viewports[tabLogger].SetContent(renderLogger(m.data))
	m.viewports[tabMetrics].SetContent(renderMetrics(m.data))
	m.viewports[tabStyle].SetContent(renderStyle(m.data))
}

func renderLogger(r stats.Report) string {
	text := r.Text()
	if len(r.Events) == 0 {
		return "No keystrokes recorded yet."
	}
	return text
}

func renderMetrics(r stats.Report) string {
	var buf bytes.Buffer
	if err := stats.RenderMetrics(&buf, r.Metrics); err != nil {
		return err.Error()
	}
	if err := stats.RenderActivity(&buf, r.Events, activityWindow); err != nil {
		return err.Error()
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderStyle(r stats.Report) string {
	var b strings.Builder
	for i, c := range r.Classification.Categories {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(categoryStyle.Render(c.Name))
		b.WriteString(": ")
		b.WriteString(c.Description)
	}
	b.WriteString("\n\n")
	var buf bytes.Buffer
	if err := stats.RenderFeatures(&buf, r.Features); err != nil {
		return err.Error()
	}
	b.WriteString(buf.String())
	return strings.TrimRight(b.String(), "\n")
}

func buildKeyTable(rows []table.Row, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Key", Width: 12},
		{Title: "Presses", Width: 8},
		{Title: "Share", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A4A4A"))
	t.SetStyles(styles)
	return t
}

func keyRows(r model.MetricsReport) []table.Row {
	top := stats.TopKeysByFrequency(r.KeyCounts, len(r.KeyCounts))
	rows := make([]table.Row, 0, len(top))
	for _, kc := range top {
		share := 0.0
		if r.TotalKeys > 0 {
			share = float64(kc.Count) / float64(r.TotalKeys) * 100
		}
		rows = append(rows, table.Row{
			stats.KeyLabel(kc.Key),
			strconv.Itoa(kc.Count),
			fmt.Sprintf("%.2f%%", share),
		})
	}
	return rows
}

func (m *Model) startOverrides() (tea.Model, tea.Cmd) {
	m.overrideMode = true
	m.overrideError = ""
	for i := range m.overrideInput {
		m.overrideInput[i].SetValue("")
	}
	if m.overrides.wpm != nil {
		m.overrideInput[0].SetValue(strconv.Itoa(*m.overrides.wpm))
	}
	if m.overrides.hour != nil {
		m.overrideInput[1].SetValue(strconv.Itoa(*m.overrides.hour))
	}
	return m, m.setOverrideIndex(0)
}

func (m *Model) updateOverrides(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overrideMode = false
		return m, nil
	case "tab", "down":
		return m, m.setOverrideIndex((m.overrideIndex + 1) % len(m.overrideInput))
	case "shift+tab", "up":
		return m, m.setOverrideIndex((m.overrideIndex + len(m.overrideInput) - 1) % len(m.overrideInput))
	case "enter":
		if err := m.applyOverrides(); err != nil {
			m.overrideError = err.Error()
			return m, nil
		}
		m.overrideMode = false
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.overrideInput[m.overrideIndex], cmd = m.overrideInput[m.overrideIndex].Update(msg)
	return m, cmd
}

func (m *Model) setOverrideIndex(idx int) tea.Cmd {
	m.overrideIndex = idx
	var cmd tea.Cmd
	for i := range m.overrideInput {
		if i == idx {
			cmd = m.overrideInput[i].Focus()
		} else {
			m.overrideInput[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyOverrides() error {
	wpm, err := parseOptionalInt(m.overrideInput[0].Value(), 0, 1000)
	if err != nil {
		return fmt.Errorf("wpm: %w", err)
	}
	hour, err := parseOptionalInt(m.overrideInput[1].Value(), 0, 23)
	if err != nil {
		return fmt.Errorf("hour: %w", err)
	}
	m.overrides = overrides{wpm: wpm, hour: hour}
	return nil
}

func parseOptionalInt(value string, lo, hi int) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", value)
	}
	if n < lo || n > hi {
		return nil, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return &n, nil
}

func (m *Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmClear = false
	if msg.String() != "y" {
		return m, nil
	}
	if err := m.source.ClearLog(context.Background()); err != nil {
		m.errMsg = fmt.Sprintf("failed to clear log: %v", err)
		m.logger.Warn("failed to clear log", zap.Error(err))
		return m, nil
	}
	m.refreshReport()
	return m, nil
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLines(m.renderSummary(), m.width)
}

func (m *Model) renderSummary() string {
	wpm := fmt.Sprintf("%d", m.data.WPM)
	if m.overrides.wpm != nil {
		wpm += "*"
	}
	hour := fmt.Sprintf("%d", m.data.Hour)
	if m.overrides.hour != nil {
		hour += "*"
	}
	summary := fmt.Sprintf("Keys: %d  WPM: %s  Hour: %s  Style: %s",
		len(m.data.Events), wpm, hour, strings.Join(m.data.Classification.Names(), ", "))
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody(height int) string {
	if m.overrideMode {
		return fitLines(m.renderOverrideForm(), m.width, height)
	}
	if m.activeTab == tabKeys {
		if len(m.data.Metrics.KeyCounts) == 0 {
			return fitLines("No keystrokes recorded yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.keyTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderOverrideForm() string {
	lines := []string{"Style overrides (empty = live value, enter to apply, esc to cancel)"}
	for _, input := range m.overrideInput {
		lines = append(lines, input.View())
	}
	if m.overrideError != "" {
		lines = append(lines, errorStyle.Render(m.overrideError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.overrideMode:
		help = "tab/shift+tab: next field  enter: apply  esc: cancel"
	case m.confirmClear:
		help = "Clear the whole keystroke log? y/n"
	default:
		help = "Nav: left/right  Scroll: up/down  Refresh: r  Clear: c  Overrides: /  Quit: q"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
