package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	statePicking state = iota
	stateDone
	stateCancelled
	stateFailed
)

type pickedMsg struct {
	color ARGB
	ok    bool
	err   error
}

type model struct {
	state   state
	spinner spinner.Model
	pick    func() (ARGB, bool, error)
	cancel  func()
	format  Formatter

	color ARGB
	err   error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

func newModel(pick func() (ARGB, bool, error), cancel func(), format Formatter) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return model{
		state:   statePicking,
		spinner: s,
		pick:    pick,
		cancel:  cancel,
		format:  format,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, pickCmd(m.pick))
}

func pickCmd(pick func() (ARGB, bool, error)) tea.Cmd {
	return func() tea.Msg {
		c, ok, err := pick()
		return pickedMsg{color: c, ok: ok, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.state == statePicking {
				// Closing the display ends the session as cancelled.
				m.cancel()
				m.state = stateCancelled
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pickedMsg:
		if m.state != statePicking {
			return m, nil
		}
		switch {
		case msg.err != nil:
			m.err = msg.err
			m.state = stateFailed
		case !msg.ok:
			m.state = stateCancelled
		default:
			m.color = msg.color
			m.state = stateDone
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	switch m.state {
	case statePicking:
		return fmt.Sprintf("\n %s %s\n\n%s\n",
			m.spinner.View(),
			titleStyle.Render("Move the pointer and click to pick a color..."),
			helpStyle.Render("  q/esc cancel"))

	case stateDone:
		return fmt.Sprintf("\n  %s %s\n\n", swatch(m.color), valueStyle.Render(m.format.Format(m.color)))

	case stateCancelled:
		return "\n" + helpStyle.Render("  Cancelled.") + "\n\n"

	case stateFailed:
		return "\n" + errStyle.Render("  Error: "+m.err.Error()) + "\n\n"
	}
	return ""
}

// swatch renders a small block filled with c.
func swatch(c ARGB) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.String())).Render("      ")
}

// runTUI shows a spinner while pick runs and the picked color afterwards.
func runTUI(out io.Writer, pick func() (ARGB, bool, error), cancel func(), format Formatter) (ARGB, bool, error) {
	p := tea.NewProgram(newModel(pick, cancel, format), tea.WithOutput(out))
	result, err := p.Run()
	if err != nil {
		return ARGB{}, false, err
	}

	m := result.(model)
	switch m.state {
	case stateDone:
		return m.color, true, nil
	case stateFailed:
		return ARGB{}, false, m.err
	}
	return ARGB{}, false, nil
}
