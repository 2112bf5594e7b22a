// Package tui is the tabbed terminal client. Each tab is a page component
// with its own lifetime; leaving a tab unmounts it so late responses are
// dropped.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/routine"
	"github.com/julianstephens/bliss/internal/tracker"
	"github.com/julianstephens/bliss/internal/tryon"
	"github.com/julianstephens/bliss/internal/tui/components/homeview"
	"github.com/julianstephens/bliss/internal/tui/components/routineview"
	"github.com/julianstephens/bliss/internal/tui/components/toast"
	"github.com/julianstephens/bliss/internal/tui/components/trackerview"
	"github.com/julianstephens/bliss/internal/tui/components/tryonview"
	"github.com/julianstephens/bliss/internal/weather"
)

// Backend is every call the pages make. *api.Client satisfies it.
type Backend interface {
	routine.Backend
	tracker.Backend
	weather.Backend
	tryon.Backend
}

type Model struct {
	state        constants.SessionState
	keys         KeyMap
	help         help.Model
	homeModel    homeview.Model
	tryOnModel   tryonview.Model
	routineModel routineview.Model
	trackerModel trackerview.Model
	toast        toast.Model
	quitting     bool
	width        int
	height       int
}

func NewModel(cfg *config.Config, be Backend) Model {
	return Model{
		state:        constants.StateHome,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		homeModel:    homeview.New(be),
		tryOnModel:   tryonview.New(be),
		routineModel: routineview.New(be, cfg.UserID, cfg.Routine.PageSize),
		trackerModel: trackerview.New(be, weather.NewConfigLocator(cfg.Location)),
		toast:        toast.New(),
	}
}

// Init mounts the first page. Page state lives behind pointers, so mounting
// through the value receiver is kept.
func (m Model) Init() tea.Cmd {
	return m.mount(m.state)
}

func (m *Model) mount(s constants.SessionState) tea.Cmd {
	switch s {
	case constants.StateHome:
		return m.homeModel.Mount()
	case constants.StateTryOn:
		return m.tryOnModel.Mount()
	case constants.StateRoutine:
		return m.routineModel.Mount()
	case constants.StateTracker:
		return m.trackerModel.Mount()
	}
	return nil
}

func (m *Model) unmount(s constants.SessionState) {
	switch s {
	case constants.StateHome:
		m.homeModel.Unmount()
	case constants.StateTryOn:
		m.tryOnModel.Unmount()
	case constants.StateRoutine:
		m.routineModel.Unmount()
	case constants.StateTracker:
		m.trackerModel.Unmount()
	}
}

// capturing reports whether the active page is taking raw key input
func (m Model) capturing() bool {
	switch m.state {
	case constants.StateRoutine:
		return m.routineModel.Capturing()
	case constants.StateTracker:
		return m.trackerModel.Capturing()
	}
	return false
}

func (m Model) pageHelp() help.KeyMap {
	switch m.state {
	case constants.StateHome:
		return m.homeModel
	case constants.StateTryOn:
		return m.tryOnModel
	case constants.StateRoutine:
		return m.routineModel
	default:
		return m.trackerModel
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.capturing() {
		keys = []key.Binding{m.keys.ForceQuit}
	}
	return append(keys, m.pageHelp().ShortHelp()...)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	return append([][]key.Binding{global}, m.pageHelp().FullHelp()...)
}
