// Package spinner renders a progress spinner for long-running steps whose
// status text changes as the step advances.
package spinner

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type statusMsg string

type doneMsg struct{ err error }

type model struct {
	spinner spinner.Model
	message string
	err     error
	done    bool
}

func initialModel(message string) model {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6"))
	return model{
		spinner: s,
		message: message,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		default:
			return m, nil
		}

	case statusMsg:
		m.message = string(msg)
		return m, nil

	case doneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}

// Run shows the spinner while task executes in the background. The task may
// replace the status line through the update callback. The task always runs
// to completion, even when the terminal UI cannot start.
func Run(message string, task func(update func(string)) error) error {
	p := tea.NewProgram(initialModel(message))

	result := make(chan error, 1)
	go func() {
		err := task(func(s string) { p.Send(statusMsg(s)) })
		result <- err
		p.Send(doneMsg{err: err})
	}()

	_, _ = p.Run()
	return <-result
}
