// Package homeview is the read-only home page: the latest saved routine
// for each time of day.
package homeview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/home"
	"github.com/julianstephens/bliss/internal/session"
)

type loadedMsg struct {
	token session.Token
	state home.State
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f472b6")).Bold(true)
	itemStyle    = lipgloss.NewStyle().PaddingLeft(2)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type Model struct {
	be      home.Backend
	life    *session.Lifetime
	state   home.State
	spinner spinner.Model
	width   int
	height  int
}

func New(be home.Backend) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		be:      be,
		life:    session.NewLifetime(),
		state:   home.State{Status: home.Loading},
		spinner: s,
	}
}

// Mount starts a fresh load
func (m *Model) Mount() tea.Cmd {
	ctx, tok := m.life.Mount()
	m.state = home.State{Status: home.Loading}
	return tea.Batch(m.load(ctx, tok), m.spinner.Tick)
}

func (m *Model) Unmount() {
	m.life.Unmount()
}

func (m Model) load(ctx context.Context, tok session.Token) tea.Cmd {
	be := m.be
	return func() tea.Msg {
		return loadedMsg{token: tok, state: home.Load(ctx, be)}
	}
}

func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
}

func (m Model) State() home.State {
	return m.state
}

// Capturing is always false; home has no text input
func (m Model) Capturing() bool {
	return false
}

func (m Model) ShortHelp() []key.Binding {
	return nil
}

func (m Model) FullHelp() [][]key.Binding {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !m.life.Current(msg.token) {
			return m, nil
		}
		m.state = msg.state
	case spinner.TickMsg:
		if m.state.Status != home.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to " + constants.AppTitle))
	b.WriteString("\n")

	switch m.state.Status {
	case home.Loading:
		b.WriteString(m.spinner.View() + " Loading your routine...")
	case home.Empty:
		b.WriteString(mutedStyle.Render("No routine available. Build one on the Routine tab."))
	case home.Loaded:
		for i, r := range m.state.Routines {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(sectionStyle.Render(r.TimeOfDay.Title() + " routine"))
			b.WriteString("\n")
			for j, p := range r.Products {
				b.WriteString(itemStyle.Render(fmt.Sprintf("%d. %s", j+1, p)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
