package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	liveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	levelCriticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	levelHighStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	levelMedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	levelLowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const (
	// maxEvents caps the in-memory feed; the oldest events go first.
	maxEvents = 500

	typeRiskUpdate    = "risk_update"
	typeCriticalAlert = "critical_alert"
	typeStatsUpdate   = "stats_update"

	statusHint = "q: quit | ?: help | j/k: navigate | a: alerts only | v: raw JSON | c: copy | p: pause | x: clear | r: reconnect"
)

func levelStyle(level string) lipgloss.Style {
	switch level {
	case "CRITICAL":
		return levelCriticalStyle
	case "HIGH":
		return levelHighStyle
	case "MEDIUM":
		return levelMedStyle
	default:
		return levelLowStyle
	}
}

// typeText returns plain text for the type column (ANSI codes break table truncation).
func typeText(t string) string {
	switch t {
	case typeCriticalAlert:
		return "ALERT"
	case typeRiskUpdate:
		return "update"
	default:
		return t
	}
}

// Model is the watch screen state.
type Model struct {
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model

	source string // shown in the header
	dial   DialFunc
	src    Source

	events  []Event
	visible []int // indices into events, newest first
	stats   *Event
	prefs   Prefs

	connecting bool
	connected  bool
	paused     bool
	missed     int // events received while paused
	lastErr    error

	quitting      bool
	ready         bool // terminal dimensions are known
	showHelp      bool
	showRaw       bool // detail pane shows the frame JSON
	height        int
	width         int
	statusMessage string
	statusTimeout *time.Time
}

type (
	connectedMsg struct{ src Source }
	// disconnectedMsg carries the source that failed; nil means the dial failed.
	disconnectedMsg struct {
		src Source
		err error
	}
	frameMsg struct {
		src  Source
		data []byte
	}
	statusMsg string
)

// NewModel builds a watch model. dial is called by Init and on reconnect.
func NewModel(source string, dial DialFunc, prefs Prefs) Model {
	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "Type", Width: 8},
		{Title: "Score", Width: 6},
		{Title: "Level", Width: 10},
		{Title: "Details", Width: 50},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return Model{
		table:         t,
		viewport:      viewport.New(80, 6),
		spinner:       sp,
		source:        source,
		dial:          dial,
		prefs:         prefs,
		connecting:    true,
		statusMessage: statusHint,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, connect(m.dial))
}

func connect(dial DialFunc) tea.Cmd {
	return func() tea.Msg {
		if dial == nil {
			return disconnectedMsg{err: errors.New("no feed configured")}
		}
		src, err := dial()
		if err != nil {
			return disconnectedMsg{err: err}
		}
		return connectedMsg{src: src}
	}
}

func listen(src Source) tea.Cmd {
	return func() tea.Msg {
		b, err := src.Next()
		if err != nil {
			return disconnectedMsg{src: src, err: err}
		}
		return frameMsg{src: src, data: b}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
		m.statusTimeout = nil
		m.statusMessage = statusHint
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.connecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectedMsg:
		if m.src != nil && m.src != msg.src {
			_ = m.src.Close()
		}
		m.src = msg.src
		m.connecting = false
		m.connected = true
		m.lastErr = nil
		m.setStatus("Connected to " + m.source)
		return m, listen(msg.src)

	case disconnectedMsg:
		if msg.src != nil && msg.src != m.src {
			return m, nil // stale source from before a reconnect
		}
		m.connecting = false
		m.connected = false
		m.lastErr = msg.err
		m.statusMessage = fmt.Sprintf("Disconnected: %v | r: reconnect | q: quit", msg.err)
		m.statusTimeout = nil
		return m, nil

	case frameMsg:
		if msg.src != m.src {
			return m, nil
		}
		e, err := ParseEvent(msg.data)
		if err != nil {
			m.setStatus(err.Error())
		} else {
			m.addEvent(e)
		}
		return m, listen(m.src)

	case statusMsg:
		m.setStatus(string(msg))
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.src != nil {
				_ = m.src.Close()
			}
			return m, tea.Quit
		case "?", "h":
			m.showHelp = true
			return m, nil
		case "a":
			cmd := m.toggleAlertsOnly()
			return m, cmd
		case "c":
			return m, m.copySelected()
		case "v":
			m.toggleRaw()
			return m, nil
		case "p":
			m.togglePause()
			return m, nil
		case "x":
			m.clearEvents()
			return m, nil
		case "r":
			cmd := m.reconnect()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.updateDetail()
	return m, cmd
}

func (m *Model) setStatus(s string) {
	m.statusMessage = s
	timeout := time.Now().Add(5 * time.Second)
	m.statusTimeout = &timeout
}

func (m *Model) layout() {
	// header(2) + table borders(2) + detail pane(6+2) + status(1) + spacing
	tableHeight := m.height - 15
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
	if m.width > 4 {
		m.table.SetWidth(m.width - 2)
		m.viewport.Width = m.width - 4
	}
	m.viewport.Height = 6
	m.updateDetail()
}

// addEvent records e. Stats frames only refresh the header.
func (m *Model) addEvent(e Event) {
	if e.Type == typeStatsUpdate {
		m.stats = &e
		return
	}
	m.events = append(m.events, e)
	if over := len(m.events) - maxEvents; over > 0 {
		m.events = append([]Event(nil), m.events[over:]...)
	}
	if m.paused {
		m.missed++
		return
	}
	m.rebuildTableRows()
}

func (m *Model) rebuildTableRows() {
	m.visible = m.visible[:0]
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.prefs.AlertsOnly && m.events[i].Type != typeCriticalAlert {
			continue
		}
		m.visible = append(m.visible, i)
	}
	rows := make([]table.Row, len(m.visible))
	for i, idx := range m.visible {
		e := m.events[idx]
		rows[i] = table.Row{
			e.Timestamp.Local().Format("15:04:05"),
			typeText(e.Type),
			fmt.Sprint(e.RiskScore),
			e.Level(),
			details(e),
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	m.updateDetail()
}

func details(e Event) string {
	var parts []string
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.ContentType != "" {
		parts = append(parts, "["+e.ContentType+"]")
	}
	return strings.Join(parts, " ")
}

func (m Model) selectedEvent() *Event {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return nil
	}
	e := m.events[m.visible[c]]
	return &e
}

func (m *Model) updateDetail() {
	e := m.selectedEvent()
	if e == nil {
		m.viewport.SetContent("")
		return
	}
	if m.showRaw {
		m.viewport.SetContent(highlightJSON(prettyJSON(e.Raw)))
		m.viewport.GotoTop()
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s  score %d  %s\n",
		e.Timestamp.Local().Format("Jan 2 15:04:05"),
		typeText(e.Type), e.RiskScore, levelStyle(e.Level()).Render(e.Level()))
	if len(e.DetectedRisks) > 0 {
		fmt.Fprintf(&sb, "Detected: %s\n", strings.Join(e.DetectedRisks, ", "))
	}
	if e.Reason != "" && e.Type == typeCriticalAlert {
		fmt.Fprintf(&sb, "Reason: %s\n", e.Reason)
	}
	for _, r := range e.Recommendations {
		fmt.Fprintf(&sb, "  • %s\n", r)
	}
	m.viewport.SetContent(sb.String())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(helpText()))
	}

	var conn string
	switch {
	case m.connecting:
		conn = m.spinner.View() + " connecting"
	case m.connected:
		conn = liveStyle.Render("● live")
	default:
		conn = offlineStyle.Render("○ offline")
	}
	header := titleStyle.Render("RiskWatch") + " " + conn + "  " + m.source

	var statsContent string
	if m.stats != nil {
		last := "never"
		if m.stats.LastScanTime != nil {
			last = m.stats.LastScanTime.Local().Format("15:04:05")
		}
		statsContent = fmt.Sprintf("Scans: %-5d |  Avg score: %5.1f  |  %s %-4d |  Last scan: %s",
			m.stats.TotalScans, m.stats.AverageScore,
			levelHighStyle.Render("High risk:"), m.stats.HighRiskCount, last)
	} else {
		statsContent = "Waiting for stats..."
	}
	if m.prefs.AlertsOnly {
		statsContent += "  [ALERTS ONLY]"
	}
	if m.paused {
		statsContent += fmt.Sprintf("  [PAUSED +%d]", m.missed)
	}

	var body string
	if len(m.visible) == 0 {
		msg := "No events yet"
		if m.prefs.AlertsOnly && len(m.events) > 0 {
			msg = "No alerts yet (a: show all events)"
		}
		body = lipgloss.Place(m.width, m.height-6, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(msg))
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			tableBorderStyle.Render(m.table.View()),
			detailPaneBorderStyle.Render(m.viewport.View()),
		)
	}

	status := statusStyle.Width(m.width).Render(m.statusMessage)
	return lipgloss.JoinVertical(lipgloss.Left, header, statsContent, body, status)
}

func helpText() string {
	keys := [][2]string{
		{"j/k, ↑/↓", "navigate events"},
		{"a", "toggle alerts only"},
		{"v", "toggle raw JSON detail"},
		{"c", "copy selected event JSON"},
		{"p", "pause / resume"},
		{"x", "clear events"},
		{"r", "reconnect"},
		{"q", "quit"},
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Keys") + "\n\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", k[0])), k[1])
	}
	return sb.String()
}
