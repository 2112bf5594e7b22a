package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHome:
		content = m.homeModel.View()
	case constants.StateTryOn:
		content = m.tryOnModel.View()
	case constants.StateRoutine:
		content = m.routineModel.View()
	case constants.StateTracker:
		content = m.trackerModel.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.toast.View(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	tabs := []string{titleStyle.Render(constants.AppTitle)}
	for _, s := range constants.Tabs {
		if m.state == s {
			tabs = append(tabs, activeTabStyle.Render(s.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(s.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
