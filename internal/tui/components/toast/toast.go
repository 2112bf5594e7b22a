// Package toast shows one short-lived outcome message at a time.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/constants"
)

type Kind int

const (
	Success Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ShowMsg replaces the visible toast
type ShowMsg struct {
	Kind Kind
	Text string
}

type expireMsg struct {
	id int
}

// Show returns a command that raises a toast
func Show(kind Kind, text string) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Kind: kind, Text: text}
	}
}

var (
	base = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	styles = map[Kind]lipgloss.Style{
		Success: base.Foreground(lipgloss.Color("#052e16")).Background(lipgloss.Color("#4ade80")),
		Warning: base.Foreground(lipgloss.Color("#431407")).Background(lipgloss.Color("214")),
		Error:   base.Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("196")),
	}
)

type Model struct {
	current  ShowMsg
	visible  bool
	id       int
	duration time.Duration
}

func New() Model {
	return Model{duration: constants.ToastDuration}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		m.id++
		m.current = msg
		m.visible = true
		id := m.id
		return m, tea.Tick(m.duration, func(time.Time) tea.Msg {
			return expireMsg{id: id}
		})
	case expireMsg:
		// only the newest toast's timer may hide it
		if msg.id == m.id {
			m.visible = false
		}
	}
	return m, nil
}

// Visible reports whether a toast is showing
func (m Model) Visible() bool {
	return m.visible
}

// Current returns the last toast raised
func (m Model) Current() ShowMsg {
	return m.current
}

func (m Model) View() string {
	if !m.visible {
		return ""
	}
	return styles[m.current.Kind].Render(m.current.Text)
}
