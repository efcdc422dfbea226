package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestView_Rendering(t *testing.T) {
	m := NewModel("ws://localhost:5000/ws", nil, DefaultPrefs())

	// 1. Before the first WindowSizeMsg
	if got := m.View(); got != "Initializing..." {
		t.Errorf("expected initializing view, got %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	// 2. Connecting, empty
	output := m.View()
	if !strings.Contains(output, "connecting") {
		t.Errorf("expected connecting indicator; got %q", output)
	}
	if !strings.Contains(output, "No events yet") {
		t.Errorf("expected empty message; got %q", output)
	}

	// 3. Help overlay
	m.showHelp = true
	output = m.View()
	if !strings.Contains(output, "toggle alerts only") {
		t.Errorf("expected help text; got %q", output)
	}
	m.showHelp = false

	// 4. With events
	src := &fakeSource{}
	next, _ = m.Update(connectedMsg{src: src})
	m = next.(Model)
	next, _ = m.Update(frameMsg{src: src, data: []byte(riskFrame)})
	m = next.(Model)
	output = m.View()
	if !strings.Contains(output, "live") {
		t.Errorf("expected live indicator; got %q", output)
	}
	if !strings.Contains(output, "Contact security team") {
		t.Errorf("expected recommendations in detail pane; got %q", output)
	}
	if !strings.Contains(output, "Waiting for stats") {
		t.Errorf("expected stats placeholder; got %q", output)
	}
}

func TestView_AlertsOnlyEmpty(t *testing.T) {
	m := NewModel("ws://x", nil, Prefs{AlertsOnly: true})
	m.ready = true
	m.width = 100
	m.height = 40
	m.events = []Event{{Type: typeRiskUpdate}}
	output := m.View()
	if !strings.Contains(output, "No alerts yet") {
		t.Errorf("expected alerts-only empty message; got %q", output)
	}
	if !strings.Contains(output, "[ALERTS ONLY]") {
		t.Errorf("expected filter badge; got %q", output)
	}
}
