package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// copySelected copies the selected event's raw JSON to the clipboard.
func (m Model) copySelected() tea.Cmd {
	e := m.selectedEvent()
	if e == nil {
		return func() tea.Msg { return statusMsg("No event selected") }
	}
	raw := string(e.Raw)
	return func() tea.Msg {
		if err := clipboard.WriteAll(raw); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg("Copied event JSON to clipboard")
	}
}

// toggleAlertsOnly flips the filter and persists it.
func (m *Model) toggleAlertsOnly() tea.Cmd {
	m.prefs.AlertsOnly = !m.prefs.AlertsOnly
	m.rebuildTableRows()
	prefs := m.prefs
	return func() tea.Msg {
		if err := SavePrefs(prefs); err != nil {
			return statusMsg(fmt.Sprintf("Could not save preferences: %v", err))
		}
		if prefs.AlertsOnly {
			return statusMsg("Showing alerts only")
		}
		return statusMsg("Showing all events")
	}
}

// toggleRaw switches the detail pane between the summary and the
// highlighted frame JSON.
func (m *Model) toggleRaw() {
	m.showRaw = !m.showRaw
	m.updateDetail()
	if m.showRaw {
		m.setStatus("Showing raw JSON")
		return
	}
	m.setStatus("Showing summary")
}

func (m *Model) togglePause() {
	m.paused = !m.paused
	if m.paused {
		m.setStatus("Paused; new events are kept but not shown")
		return
	}
	m.setStatus(fmt.Sprintf("Resumed (%d new events)", m.missed))
	m.missed = 0
	m.rebuildTableRows()
}

func (m *Model) clearEvents() {
	m.events = nil
	m.missed = 0
	m.rebuildTableRows()
	m.setStatus("Cleared")
}

func (m *Model) reconnect() tea.Cmd {
	if m.connected || m.connecting {
		return func() tea.Msg { return statusMsg("Already connected") }
	}
	m.connecting = true
	m.setStatus("Reconnecting...")
	return tea.Batch(m.spinner.Tick, connect(m.dial))
}
