// Package routineview is the routine builder page: morning and night drafts
// side by side, each above its paginated list of saved routines.
package routineview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/routine"
	"github.com/julianstephens/bliss/internal/session"
	"github.com/julianstephens/bliss/internal/tui/components/toast"
)

type loadedMsg struct {
	token   session.Token
	entries []models.RoutineEntry
	err     error
}

type suggestedMsg struct {
	token    session.Token
	tod      models.TimeOfDay
	products []string
	err      error
}

type savedMsg struct {
	token  session.Token
	stored models.RoutineEntry
	err    error
}

type editedMsg struct {
	token  session.Token
	stored models.RoutineEntry
	err    error
}

type deletedMsg struct {
	token session.Token
	id    string
	err   error
}

type zone int

const (
	draftZone zone = iota
	savedZone
)

// editState and confirmState live on the heap so the form's value pointers
// survive Model copies.
type editState struct {
	form     *huh.Form
	id       string
	products string
}

type confirmState struct {
	form *huh.Form
	id   string
	ok   bool
}

type Model struct {
	be   routine.Backend
	b    *routine.Builder
	life *session.Lifetime
	keys KeyMap

	tod         models.TimeOfDay
	zone        zone
	draftCursor int
	savedCursor int

	adding  bool
	input   textinput.Model
	edit    *editState
	confirm *confirmState

	pager   paginator.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(be routine.Backend, userID string, pageSize int) Model {
	ti := textinput.New()
	ti.Placeholder = "Product name"
	ti.CharLimit = 80
	ti.Width = 30

	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = activeDotStyle.Render("•")
	p.InactiveDot = inactiveDotStyle.Render("•")

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return Model{
		be:      be,
		b:       routine.NewBuilder(userID, pageSize),
		life:    session.NewLifetime(),
		keys:    DefaultKeyMap(),
		tod:     models.Morning,
		input:   ti,
		pager:   p,
		spinner: s,
	}
}

// Mount reloads the saved list. Drafts are kept across tab switches.
func (m *Model) Mount() tea.Cmd {
	ctx, tok := m.life.Mount()
	be := m.be
	return func() tea.Msg {
		entries, err := be.ListRoutines(ctx)
		if err != nil {
			logger.Error("Failed to load routines", "error", err)
		}
		return loadedMsg{token: tok, entries: entries, err: err}
	}
}

// Unmount drops any open form along with the page lifetime
func (m *Model) Unmount() {
	m.life.Unmount()
	m.adding = false
	m.input.Blur()
	m.edit = nil
	m.confirm = nil
}

func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
}

func (m Model) Builder() *routine.Builder {
	return m.b
}

// Capturing reports whether keys belong to an input or form
func (m Model) Capturing() bool {
	return m.adding || m.edit != nil || m.confirm != nil
}

func (m Model) guard() *session.Guard {
	return m.b.Guard()
}

func (m Model) ShortHelp() []key.Binding {
	switch {
	case m.adding:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case m.edit != nil, m.confirm != nil:
		return nil
	}

	save, suggest := m.keys.Save, m.keys.Suggest
	save.SetEnabled(!m.guard().Pending(session.ActionSave))
	suggest.SetEnabled(!m.guard().Pending(session.ActionSuggest))
	if m.zone == savedZone {
		edit, del := m.keys.Edit, m.keys.Delete
		edit.SetEnabled(!m.guard().Pending(session.ActionEdit))
		del.SetEnabled(!m.guard().Pending(session.ActionDelete))
		return []key.Binding{m.keys.NextTime, m.keys.Zone, edit, del, m.keys.PrevPage, m.keys.NextPage}
	}
	return []key.Binding{m.keys.NextTime, m.keys.Zone, m.keys.Add, m.keys.Remove, m.keys.MoveUp, m.keys.MoveDown, suggest, save}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

func (m *Model) clampCursors() {
	m.draftCursor = clamp(m.draftCursor, len(m.b.Draft(m.tod)))
	m.savedCursor = clamp(m.savedCursor, len(m.b.PageItems(m.tod)))
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}

func (m Model) selected() (models.RoutineEntry, bool) {
	items := m.b.PageItems(m.tod)
	if m.savedCursor < 0 || m.savedCursor >= len(items) {
		return models.RoutineEntry{}, false
	}
	return items[m.savedCursor], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !m.life.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to load routines.")
		}
		m.b.SetSaved(msg.entries)
		m.clampCursors()
		return m, nil

	case suggestedMsg:
		m.guard().End(session.ActionSuggest)
		if !m.life.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to fetch suggestions.")
		}
		m.b.ApplySuggestions(msg.tod, msg.products)
		m.clampCursors()
		if len(msg.products) == 0 {
			return m, toast.Show(toast.Warning, "No suggestions available.")
		}
		return m, nil

	case savedMsg:
		m.guard().End(session.ActionSave)
		if !m.life.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to save routine.")
		}
		m.b.ApplySave(msg.stored)
		m.clampCursors()
		return m, toast.Show(toast.Success, "Routine saved!")

	case editedMsg:
		m.guard().End(session.ActionEdit)
		if !m.life.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to update routine.")
		}
		m.b.ApplyEdit(msg.stored)
		return m, toast.Show(toast.Success, "Routine updated!")

	case deletedMsg:
		m.guard().End(session.ActionDelete)
		if !m.life.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to delete routine.")
		}
		m.b.ApplyDelete(msg.id)
		m.clampCursors()
		return m, toast.Show(toast.Success, "Routine deleted.")

	case spinner.TickMsg:
		if !m.guard().Any() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	switch {
	case m.edit != nil:
		return m.updateEdit(msg)
	case m.confirm != nil:
		return m.updateConfirm(msg)
	case m.adding:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case m.edit != nil:
		if key.Matches(msg, m.keys.Cancel) {
			m.edit = nil
			return m, nil
		}
		return m.updateEdit(msg)
	case m.confirm != nil:
		if key.Matches(msg, m.keys.Cancel) {
			m.confirm = nil
			return m, nil
		}
		return m.updateConfirm(msg)
	case m.adding:
		return m.updateInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.PrevTime, m.keys.NextTime):
		m.tod = m.tod.Other()
		m.clampCursors()
	case key.Matches(msg, m.keys.Zone):
		if m.zone == draftZone {
			m.zone = savedZone
		} else {
			m.zone = draftZone
		}
	case key.Matches(msg, m.keys.Up):
		if m.zone == draftZone {
			m.draftCursor--
		} else {
			m.savedCursor--
		}
		m.clampCursors()
	case key.Matches(msg, m.keys.Down):
		if m.zone == draftZone {
			m.draftCursor++
		} else {
			m.savedCursor++
		}
		m.clampCursors()
	case key.Matches(msg, m.keys.Add):
		m.zone = draftZone
		m.adding = true
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Remove) && m.zone == draftZone:
		m.b.RemoveProduct(m.tod, m.draftCursor)
		m.clampCursors()
	case key.Matches(msg, m.keys.MoveUp) && m.zone == draftZone:
		if m.b.MoveProduct(m.tod, m.draftCursor, m.draftCursor-1) {
			m.draftCursor--
		}
	case key.Matches(msg, m.keys.MoveDown) && m.zone == draftZone:
		if m.b.MoveProduct(m.tod, m.draftCursor, m.draftCursor+1) {
			m.draftCursor++
		}
	case key.Matches(msg, m.keys.Suggest):
		cmd := m.suggest()
		return m, cmd
	case key.Matches(msg, m.keys.Save):
		cmd := m.save()
		return m, cmd
	case key.Matches(msg, m.keys.PrevPage):
		m.b.PrevPage(m.tod)
		m.savedCursor = 0
	case key.Matches(msg, m.keys.NextPage):
		m.b.NextPage(m.tod)
		m.savedCursor = 0
	case key.Matches(msg, m.keys.Edit) && m.zone == savedZone:
		cmd := m.startEdit()
		return m, cmd
	case key.Matches(msg, m.keys.Delete) && m.zone == savedZone:
		cmd := m.startDelete()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		// stay in add mode so several products can be entered in a row
		if m.b.AddProduct(m.input.Value(), m.tod) {
			m.draftCursor = len(m.b.Draft(m.tod)) - 1
		}
		m.input.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// request wraps a network call for the current mount and starts the spinner
func (m *Model) request(fn func(ctx context.Context, tok session.Token) tea.Msg) tea.Cmd {
	ctx, tok := m.life.Context(), m.life.Token()
	return tea.Batch(func() tea.Msg { return fn(ctx, tok) }, m.spinner.Tick)
}

func (m *Model) suggest() tea.Cmd {
	if err := m.guard().Begin(session.ActionSuggest); err != nil {
		return nil
	}
	be, tod := m.be, m.tod
	return m.request(func(ctx context.Context, tok session.Token) tea.Msg {
		products, err := be.Suggestions(ctx, tod)
		if err != nil {
			logger.Error("Failed to fetch suggestions", "time", tod, "error", err)
		}
		return suggestedMsg{token: tok, tod: tod, products: products, err: err}
	})
}

func (m *Model) save() tea.Cmd {
	if err := m.guard().Begin(session.ActionSave); err != nil {
		return nil
	}
	entry, err := m.b.PrepareSave(m.tod)
	if err != nil {
		m.guard().End(session.ActionSave)
		return toast.Show(toast.Warning, "Add at least one product first.")
	}
	be := m.be
	return m.request(func(ctx context.Context, tok session.Token) tea.Msg {
		stored, err := be.CreateRoutine(ctx, entry)
		if err != nil {
			logger.Error("Failed to save routine", "time", entry.TimeOfDay, "error", err)
		}
		return savedMsg{token: tok, stored: stored, err: err}
	})
}

func (m *Model) submitEdit(id string, products []string) tea.Cmd {
	if err := m.guard().Begin(session.ActionEdit); err != nil {
		return nil
	}
	entry, err := m.b.PrepareEdit(id, products)
	if err != nil {
		m.guard().End(session.ActionEdit)
		if errors.Is(err, routine.ErrEmptyDraft) {
			return toast.Show(toast.Warning, "A routine needs at least one product.")
		}
		return toast.Show(toast.Error, "Routine not found.")
	}
	be := m.be
	return m.request(func(ctx context.Context, tok session.Token) tea.Msg {
		stored, err := be.UpdateRoutine(ctx, entry)
		if err != nil {
			logger.Error("Failed to update routine", "id", entry.ID, "error", err)
		}
		return editedMsg{token: tok, stored: stored, err: err}
	})
}

// remove deletes id. Unknown ids are a no-op with no request.
func (m *Model) remove(id string) tea.Cmd {
	if err := m.b.PrepareDelete(id); err != nil {
		return nil
	}
	if err := m.guard().Begin(session.ActionDelete); err != nil {
		return nil
	}
	be := m.be
	return m.request(func(ctx context.Context, tok session.Token) tea.Msg {
		err := be.DeleteRoutine(ctx, id)
		if err != nil {
			logger.Error("Failed to delete routine", "id", id, "error", err)
		}
		return deletedMsg{token: tok, id: id, err: err}
	})
}

func splitProducts(s string) []string {
	return strings.Split(s, ",")
}

func (m *Model) startEdit() tea.Cmd {
	r, ok := m.selected()
	if !ok || m.guard().Pending(session.ActionEdit) {
		return nil
	}
	es := &editState{id: r.ID, products: strings.Join(r.Products, ", ")}
	es.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Edit %s routine", r.TimeOfDay)).
				Description("Products in order, separated by commas").
				Value(&es.products).
				Validate(func(s string) error {
					for _, p := range splitProducts(s) {
						if strings.TrimSpace(p) != "" {
							return nil
						}
					}
					return errors.New("enter at least one product")
				}),
		),
	).WithTheme(huh.ThemeDracula())
	m.edit = es
	return es.form.Init()
}

func (m *Model) startDelete() tea.Cmd {
	r, ok := m.selected()
	if !ok || m.guard().Pending(session.ActionDelete) {
		return nil
	}
	cs := &confirmState{id: r.ID}
	cs.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s routine?", r.TimeOfDay)).
				Description(strings.Join(r.Products, ", ")).
				Affirmative("Yes").
				Negative("No").
				Value(&cs.ok),
		),
	).WithTheme(huh.ThemeDracula())
	m.confirm = cs
	return cs.form.Init()
}

func (m Model) updateEdit(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.edit.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.edit.form = f
	}

	switch m.edit.form.State {
	case huh.StateCompleted:
		es := m.edit
		m.edit = nil
		cmd := m.submitEdit(es.id, splitProducts(es.products))
		return m, cmd
	case huh.StateAborted:
		m.edit = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.confirm.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm.form = f
	}

	switch m.confirm.form.State {
	case huh.StateCompleted:
		cs := m.confirm
		m.confirm = nil
		if !cs.ok {
			return m, nil
		}
		cmd := m.remove(cs.id)
		return m, cmd
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}
