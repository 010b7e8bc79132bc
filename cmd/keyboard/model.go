package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/librescoot/microfsm"
)

const shownReports = 4

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	layerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	reportStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type keyboardModel struct {
	kb      *Keyboard
	err     error
	reports []string
}

func newKeyboardModel(kb *Keyboard) *keyboardModel {
	return &keyboardModel{kb: kb}
}

func (m *keyboardModel) Init() tea.Cmd {
	return nil
}

func (m *keyboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	var events []microfsm.Event
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		events = append(events, microfsm.NewEvent(sigNextLayer, nil))
	case tea.KeyCtrlL:
		events = append(events, microfsm.NewEvent(sigCapsLock, nil))
	case tea.KeyCtrlU:
		events = append(events, microfsm.NewEvent(sigClear, nil))
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range key.Runes {
			events = append(events, microfsm.NewEvent(sigKey, r))
		}
	}

	for _, e := range events {
		if err := m.kb.Dispatch(e); err != nil {
			m.err = err
			return m, tea.Quit
		}
	}
	m.collectReports()
	return m, nil
}

func (m *keyboardModel) collectReports() {
	for {
		r, ok := m.kb.NextReport()
		if !ok {
			break
		}
		m.reports = append(m.reports, hex.EncodeToString(r))
	}
	if len(m.reports) > shownReports {
		m.reports = m.reports[len(m.reports)-shownReports:]
	}
}

func (m *keyboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("microfsm keyboard"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("layer: %s\n", layerStyle.Render(m.kb.Layer())))
	b.WriteString(fmt.Sprintf("text:  %s\n\n", textStyle.Render(m.kb.Text())))

	for _, r := range m.reports {
		b.WriteString(reportStyle.Render(r))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next layer • ctrl+l: caps lock • ctrl+u: clear • esc: quit"))
	b.WriteString("\n")
	return b.String()
}
