// Package tui provides the Bubble Tea capture pad.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/model"
	"github.com/verte-zerg/typestyle/internal/wpm"
)

const tickInterval = time.Second

// Recorder persists keystrokes and the live WPM.
type Recorder interface {
	Append(ctx context.Context, sessionID string, event model.KeystrokeEvent) error
	SetWPM(ctx context.Context, wpm int) error
}

type tickMsg time.Time

// Model implements the Bubble Tea capture UI.
type Model struct {
	recorder  Recorder
	sessionID string
	tracker   *wpm.Tracker
	logger    *zap.Logger
	now       func() time.Time

	width  int
	height int

	events []model.KeystrokeEvent
	wpm    int
}

var (
	typedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Underline(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a capture TUI model. Every key press is recorded under
// sessionID.
func NewModel(recorder Recorder, sessionID string, tracker *wpm.Tracker, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		recorder:  recorder,
		sessionID: sessionID,
		tracker:   tracker,
		logger:    logger,
		now:       time.Now,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.tracker.Tick(time.Time(msg)) {
			m.setWPM(0)
		}
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		for _, key := range keyTokens(msg) {
			m.record(key.token, key.modified)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	styledRunes := buildStyledRunes([]rune(keylog.Typed(m.events)), true)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes) + "\n" + footer
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	bodyHeight := m.height
	if m.height >= 3 {
		bodyHeight = m.height - 1
	}
	wrapped := tailLines(wrapStyledRunes(styledRunes, contentWidth), bodyHeight)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) record(token string, modified bool) {
	now := m.now()
	event := model.KeystrokeEvent{PressedAt: now, Key: token}
	if err := m.recorder.Append(context.Background(), m.sessionID, event); err != nil {
		m.logger.Warn("failed to record keystroke", zap.String("key", token), zap.Error(err))
	}
	m.events = append(m.events, event)
	m.setWPM(m.tracker.Observe(token, modified, now))
}

func (m *Model) setWPM(value int) {
	if value == m.wpm {
		return
	}
	m.wpm = value
	if err := m.recorder.SetWPM(context.Background(), value); err != nil {
		m.logger.Warn("failed to store wpm", zap.Int("wpm", value), zap.Error(err))
	}
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("WPM %d", m.wpm),
		fmt.Sprintf("Keys %d", len(m.events)),
		fmt.Sprintf("Words %d", m.tracker.Words()),
		"Ctrl+C to quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

type keyToken struct {
	token    string
	modified bool
}

var namedKeys = map[tea.KeyType]string{
	tea.KeyEnter:     keylog.KeyEnter,
	tea.KeyTab:       keylog.KeyTab,
	tea.KeyBackspace: keylog.KeyBack,
	tea.KeySpace:     keylog.KeySpace,
	tea.KeyDelete:    "Delete",
	tea.KeyEsc:       "Escape",
	tea.KeyUp:        "ArrowUp",
	tea.KeyDown:      "ArrowDown",
	tea.KeyLeft:      "ArrowLeft",
	tea.KeyRight:     "ArrowRight",
	tea.KeyHome:      "Home",
	tea.KeyEnd:       "End",
}

// keyTokens maps a terminal key message to log tokens. Ctrl combinations are
// recorded as "Ctrl+X" and bracketed pastes as a single "Paste" token.
func keyTokens(msg tea.KeyMsg) []keyToken {
	if msg.Paste {
		return []keyToken{{token: "Paste", modified: true}}
	}
	if name, ok := namedKeys[msg.Type]; ok {
		return []keyToken{{token: name, modified: msg.Alt}}
	}
	if msg.Type == tea.KeyRunes {
		out := make([]keyToken, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, keyToken{token: string(r), modified: msg.Alt})
		}
		return out
	}
	if combo, ok := strings.CutPrefix(msg.String(), "ctrl+"); ok && combo != "" {
		return []keyToken{{token: "Ctrl+" + capitalize(combo), modified: true}}
	}
	return nil
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 1 {
		return string(unicode.ToUpper(r[0]))
	}
	return s
}
