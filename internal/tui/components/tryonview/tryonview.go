// Package tryonview is the virtual try-on page.
package tryonview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/session"
	"github.com/julianstephens/bliss/internal/tryon"
	"github.com/julianstephens/bliss/internal/tui/components/toast"
)

type sentMsg struct {
	token   session.Token
	message string
	err     error
}

type KeyMap struct {
	Send key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "send photo"),
		),
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginBottom(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	messageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#c084fc")).
			Padding(0, 1)
)

type Model struct {
	be      tryon.Backend
	life    *session.Lifetime
	page    *tryon.Page
	keys    KeyMap
	spinner spinner.Model
	width   int
}

func New(be tryon.Backend) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return Model{
		be:      be,
		life:    session.NewLifetime(),
		page:    tryon.New(),
		keys:    DefaultKeyMap(),
		spinner: s,
	}
}

func (m *Model) Mount() tea.Cmd {
	m.life.Mount()
	return nil
}

func (m *Model) Unmount() {
	m.life.Unmount()
}

func (m *Model) SetSize(w, h int) {
	m.width = w
}

func (m Model) Page() *tryon.Page {
	return m.page
}

func (m Model) Capturing() bool {
	return false
}

func (m Model) pending() bool {
	return m.page.Guard().Pending(session.ActionTryOn)
}

func (m Model) ShortHelp() []key.Binding {
	send := m.keys.Send
	send.SetEnabled(!m.pending())
	return []key.Binding{send}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

// send begins a try-on request unless one is in flight
func (m *Model) send() tea.Cmd {
	if err := m.page.Guard().Begin(session.ActionTryOn); err != nil {
		return nil
	}
	ctx, tok := m.life.Context(), m.life.Token()
	be := m.be
	return tea.Batch(func() tea.Msg {
		msg, err := tryon.Request(ctx, be)
		return sentMsg{token: tok, message: msg, err: err}
	}, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Send) {
			cmd := m.send()
			return m, cmd
		}
	case sentMsg:
		m.page.Guard().End(session.ActionTryOn)
		if !m.life.Current(msg.token) {
			return m, nil
		}
		m.page.Apply(msg.message, msg.err)
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to send image.")
		}
	case spinner.TickMsg:
		if !m.pending() {
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
	b.WriteString(titleStyle.Render("Virtual Try-On"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Camera capture is not available in the terminal; a placeholder photo is sent."))
	b.WriteString("\n\n")

	if m.pending() {
		b.WriteString(m.spinner.View() + " Sending photo...")
	} else {
		b.WriteString("Press enter to send your photo.")
	}
	if msg := m.page.Message(); msg != "" {
		b.WriteString("\n\n")
		b.WriteString(messageStyle.Render(msg))
	}
	return b.String()
}
