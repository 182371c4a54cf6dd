package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action performs the tool's work and returns human-readable detail lines.
type Action func(context.Context) ([]string, error)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type actionMsg struct {
	details []string
	err     error
}

type model struct {
	title   string
	action  Action
	done    bool
	details []string
	err     error
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		details, err := m.action(context.Background())
		return actionMsg{details: details, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		m.done = true
		m.details = msg.details
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("interrupted")
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	if !m.done {
		return fmt.Sprintf("Running %s...\n", m.title)
	}
	var b strings.Builder
	if m.err != nil {
		b.WriteString(failStyle.Render(fmt.Sprintf("FAILED %s: %v", m.title, m.err)))
	} else {
		b.WriteString(okStyle.Render(fmt.Sprintf("OK %s", m.title)))
	}
	b.WriteString("\n")
	for _, d := range m.details {
		b.WriteString(detailStyle.Render("  - " + d))
		b.WriteString("\n")
	}
	return b.String()
}

// Run executes the action behind a small terminal UI and returns the
// action's error once it finishes.
func Run(title string, action Action) error {
	final, err := tea.NewProgram(model{title: title, action: action}).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok {
		return m.err
	}
	return nil
}
