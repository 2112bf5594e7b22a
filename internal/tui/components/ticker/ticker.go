// Package ticker is the weather widget: one load per mount of its owning
// page, then a marquee that scrolls until the page is left.
package ticker

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/session"
	"github.com/julianstephens/bliss/internal/weather"
)

type loadedMsg struct {
	token session.Token
	state weather.State
}

type tickMsg struct {
	token session.Token
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#60a5fa")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type Model struct {
	loc  weather.Locator
	be   weather.Backend
	life *session.Lifetime

	state   weather.State
	marquee *weather.Marquee
	width   int
}

// New shares life with the page that hosts the widget
func New(loc weather.Locator, be weather.Backend, life *session.Lifetime) Model {
	return Model{
		loc:   loc,
		be:    be,
		life:  life,
		state: weather.State{Status: weather.Loading},
		width: 40,
	}
}

// Load resets the widget and returns the fetch for the mount tok
func (m *Model) Load(ctx context.Context, tok session.Token) tea.Cmd {
	m.state = weather.State{Status: weather.Loading}
	m.marquee = nil
	loc, be := m.loc, m.be
	return func() tea.Msg {
		return loadedMsg{token: tok, state: weather.Load(ctx, loc, be)}
	}
}

func tick(tok session.Token) tea.Cmd {
	return tea.Tick(constants.MarqueeInterval, func(time.Time) tea.Msg {
		return tickMsg{token: tok}
	})
}

func (m *Model) SetWidth(w int) {
	m.width = w
}

func (m Model) State() weather.State {
	return m.state
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !m.life.Current(msg.token) {
			return m, nil
		}
		m.state = msg.state
		if m.state.Status == weather.Loaded {
			m.marquee = weather.NewMarquee(m.state.Message())
			return m, tick(msg.token)
		}
	case tickMsg:
		// a stale tick ends the scroll loop of the old mount
		if !m.life.Current(msg.token) || m.marquee == nil {
			return m, nil
		}
		m.marquee.Tick()
		return m, tick(msg.token)
	}
	return m, nil
}

func (m Model) View() string {
	inner := max(m.width-boxStyle.GetHorizontalFrameSize(), 1)
	if m.state.Status == weather.Loaded && m.marquee != nil {
		return boxStyle.Render(m.marquee.View(inner))
	}
	return boxStyle.Width(inner + boxStyle.GetHorizontalPadding()).Render(mutedStyle.Render(m.state.Message()))
}
