package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/tui/components/toast"
)

// headerHeight covers the tab bar, toast line and help line
const headerHeight = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		h, v := docStyle.GetFrameSize()
		w, ht := msg.Width-h, msg.Height-headerHeight-v
		m.homeModel.SetSize(w, ht)
		m.tryOnModel.SetSize(w, ht)
		m.routineModel.SetSize(w, ht)
		m.trackerModel.SetSize(w, ht)
		return m, nil

	case toast.ShowMsg:
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		if !m.capturing() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m.quit()
			case key.Matches(msg, m.keys.Tab):
				return m.switchTo(m.step(1))
			case key.Matches(msg, m.keys.ShiftTab):
				return m.switchTo(m.step(-1))
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			}
		}
		return m.updateActive(msg)
	}

	// Every other message reaches every page. Pages drop results that are
	// not theirs or that carry a stale token.
	cmds := make([]tea.Cmd, 0, 5)
	var cmd tea.Cmd
	m.toast, cmd = m.toast.Update(msg)
	cmds = append(cmds, cmd)
	m.homeModel, cmd = m.homeModel.Update(msg)
	cmds = append(cmds, cmd)
	m.tryOnModel, cmd = m.tryOnModel.Update(msg)
	cmds = append(cmds, cmd)
	m.routineModel, cmd = m.routineModel.Update(msg)
	cmds = append(cmds, cmd)
	m.trackerModel, cmd = m.trackerModel.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case constants.StateHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case constants.StateTryOn:
		m.tryOnModel, cmd = m.tryOnModel.Update(msg)
	case constants.StateRoutine:
		m.routineModel, cmd = m.routineModel.Update(msg)
	case constants.StateTracker:
		m.trackerModel, cmd = m.trackerModel.Update(msg)
	}
	return m, cmd
}

// step returns the tab delta positions away from the current one
func (m Model) step(delta int) constants.SessionState {
	n := len(constants.Tabs)
	i := slices.Index(constants.Tabs, m.state)
	return constants.Tabs[((i+delta)%n+n)%n]
}

func (m Model) switchTo(next constants.SessionState) (tea.Model, tea.Cmd) {
	if next == m.state {
		return m, nil
	}
	m.unmount(m.state)
	m.state = next
	cmd := m.mount(next)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.unmount(m.state)
	m.quitting = true
	return m, tea.Quit
}
