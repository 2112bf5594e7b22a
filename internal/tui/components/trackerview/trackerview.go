// Package trackerview is the progress tracker page: the entry form on the
// left, the entry card and weather ticker on the right.
package trackerview

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/palette"
	"github.com/julianstephens/bliss/internal/session"
	"github.com/julianstephens/bliss/internal/tracker"
	"github.com/julianstephens/bliss/internal/tui/components/ticker"
	"github.com/julianstephens/bliss/internal/tui/components/toast"
	"github.com/julianstephens/bliss/internal/weather"
)

// errLeftPage completes a submission whose page was left before it finished
var errLeftPage = errors.New("tracker page left before submit finished")

type loadedMsg struct {
	token   session.Token
	entries []models.TrackerEntry
	err     error
}

type submittedMsg struct {
	token  session.Token
	sub    tracker.Submission
	stored models.TrackerEntry
	err    error
}

type deletedMsg struct {
	token session.Token
	id    string
	err   error
}

type bannerExpiredMsg struct {
	id int
}

// Backend is everything the page calls: tracker storage plus weather
type Backend interface {
	tracker.Backend
	weather.Backend
}

type row int

const (
	rowMood row = iota
	rowCondition
	rowProduct
	rowCustom
	rowProgress
	rowUnit
	rowSubmit
)

// rowCategory maps chip rows to their palette category
var rowCategory = map[row]palette.Category{
	rowMood:      palette.Mood,
	rowCondition: palette.Condition,
	rowProduct:   palette.Products,
	rowUnit:      palette.TimeUnit,
}

type confirmState struct {
	form *huh.Form
	id   string
	ok   bool
}

type Model struct {
	be   tracker.Backend
	t    *tracker.Tracker
	life *session.Lifetime
	keys KeyMap

	row     row
	cursors map[palette.Category]int
	custom  textinput.Model
	confirm *confirmState

	banner    string
	bannerID  int
	bannerFor time.Duration

	tips    viewport.Model
	cardID  string
	weather ticker.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(be Backend, loc weather.Locator) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter product name"
	ti.CharLimit = 80
	ti.Width = 30

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	life := session.NewLifetime()
	return Model{
		be:        be,
		t:         tracker.New(),
		life:      life,
		keys:      DefaultKeyMap(),
		cursors:   make(map[palette.Category]int),
		custom:    ti,
		bannerFor: constants.TipBannerDuration,
		tips:      viewport.New(40, 6),
		weather:   ticker.New(loc, be, life),
		spinner:   s,
	}
}

// Mount reloads the entries and starts the weather widget
func (m *Model) Mount() tea.Cmd {
	ctx, tok := m.life.Mount()
	be := m.be
	load := func() tea.Msg {
		entries, err := be.ListTracker(ctx)
		if err != nil {
			logger.Error("Failed to load tracker entries", "error", err)
		}
		return loadedMsg{token: tok, entries: entries, err: err}
	}
	return tea.Batch(load, m.weather.Load(ctx, tok))
}

func (m *Model) Unmount() {
	m.life.Unmount()
	m.confirm = nil
	m.banner = ""
	if m.row == rowCustom {
		m.row = rowProduct
		m.custom.Blur()
	}
}

func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	left, right := m.columns()
	m.custom.Width = max(left-20, 10)
	m.tips.Width = max(right-4, 10)
	m.weather.SetWidth(right)
}

func (m Model) columns() (left, right int) {
	w := max(m.width-4, 60)
	left = w * 11 / 20
	return left, w - left
}

func (m Model) Tracker() *tracker.Tracker {
	return m.t
}

func (m Model) Capturing() bool {
	return m.row == rowCustom || m.confirm != nil
}

func (m Model) pending() bool {
	return m.t.Mode() == tracker.Pending
}

func (m Model) ShortHelp() []key.Binding {
	if m.confirm != nil {
		return nil
	}
	submit := m.keys.Submit
	submit.SetEnabled(m.t.Draft().Ready() && !m.pending())
	del := m.keys.Delete
	del.SetEnabled(!m.t.Guard().Pending(session.ActionDelete))
	bindings := []key.Binding{m.keys.Up, m.keys.Select, m.keys.Increment, m.keys.Decrement, submit, m.keys.Previous, m.keys.Next, m.keys.Edit, del}
	if m.banner != "" || m.t.Mode() == tracker.EditingExisting {
		bindings = append(bindings, m.keys.Cancel)
	}
	return bindings
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp(), {m.keys.ScrollTips}}
}

// rows lists the visible form rows; custom only shows with Other
func (m Model) rows() []row {
	rows := []row{rowMood, rowCondition, rowProduct}
	if m.t.Draft().Product == constants.OtherProduct {
		rows = append(rows, rowCustom)
	}
	return append(rows, rowProgress, rowUnit, rowSubmit)
}

func (m *Model) moveRow(delta int) tea.Cmd {
	rows := m.rows()
	i := 0
	for j, r := range rows {
		if r == m.row {
			i = j
		}
	}
	i = max(0, min(len(rows)-1, i+delta))
	m.row = rows[i]
	if m.row == rowCustom {
		return m.custom.Focus()
	}
	m.custom.Blur()
	return nil
}

// syncForm points the chip cursors and custom input at the draft
func (m *Model) syncForm() {
	d := m.t.Draft()
	values := map[palette.Category]string{
		palette.Mood:      d.Mood,
		palette.Condition: d.Condition,
		palette.Products:  d.Product,
		palette.TimeUnit:  string(d.Progress.Unit),
	}
	for c, v := range values {
		if i := palette.Default().Index(c, v); i >= 0 {
			m.cursors[c] = i
		}
	}
	m.custom.SetValue(d.CustomProduct)
	if m.row == rowCustom && d.Product != constants.OtherProduct {
		m.row = rowProduct
		m.custom.Blur()
	}
}

// choose sets the draft field of a chip row to the option under the cursor
func (m *Model) choose(r row) {
	c, ok := rowCategory[r]
	if !ok {
		return
	}
	values := palette.Default().Values(c)
	v := values[m.cursors[c]]
	switch r {
	case rowMood:
		m.t.SetMood(v)
	case rowCondition:
		m.t.SetCondition(v)
	case rowProduct:
		m.t.SetProduct(v)
	case rowUnit:
		if u, err := models.ParseTimeUnit(v); err == nil {
			m.t.SetUnit(u)
		}
	}
}

func (m *Model) moveChip(r row, delta int) {
	c, ok := rowCategory[r]
	if !ok {
		return
	}
	n := len(palette.Default().Values(c))
	m.cursors[c] = (m.cursors[c] + delta + n) % n
}

func (m *Model) submit() tea.Cmd {
	if !m.t.Draft().Ready() {
		return nil
	}
	sub, err := m.t.BeginSubmit()
	if err != nil {
		if errors.Is(err, session.ErrPending) {
			return nil
		}
		m.syncForm()
		return toast.Show(toast.Error, "That entry no longer exists.")
	}
	ctx, tok := m.life.Context(), m.life.Token()
	be := m.be
	return tea.Batch(func() tea.Msg {
		stored, err := sub.Run(ctx, be)
		return submittedMsg{token: tok, sub: sub, stored: stored, err: err}
	}, m.spinner.Tick)
}

// remove deletes id. Unknown ids are a no-op with no request.
func (m *Model) remove(id string) tea.Cmd {
	if err := m.t.PrepareDelete(id); err != nil {
		return nil
	}
	if err := m.t.Guard().Begin(session.ActionDelete); err != nil {
		return nil
	}
	ctx, tok := m.life.Context(), m.life.Token()
	be := m.be
	return tea.Batch(func() tea.Msg {
		err := be.DeleteTracker(ctx, id)
		if err != nil {
			logger.Error("Failed to delete tracker entry", "id", id, "error", err)
		}
		return deletedMsg{token: tok, id: id, err: err}
	}, m.spinner.Tick)
}

func (m *Model) edit() {
	cur, ok := m.t.Current()
	if !ok {
		return
	}
	if err := m.t.Edit(cur.ID); err != nil {
		return
	}
	m.syncForm()
}

func (m *Model) startDelete() tea.Cmd {
	cur, ok := m.t.Current()
	if !ok || m.t.Guard().Pending(session.ActionDelete) {
		return nil
	}
	cs := &confirmState{id: cur.ID}
	cs.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete this progress entry?").
				Description(cur.Progress.String() + " of " + cur.Products).
				Affirmative("Yes").
				Negative("No").
				Value(&cs.ok),
		),
	).WithTheme(huh.ThemeDracula())
	m.confirm = cs
	return cs.form.Init()
}

func bannerTimeout(d time.Duration, id int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return bannerExpiredMsg{id: id}
	})
}

// refreshCard loads the current entry's tips into the viewport
func (m *Model) refreshCard() {
	cur, ok := m.t.Current()
	if !ok {
		m.cardID = ""
		m.tips.SetContent("")
		return
	}
	tips := cur.BeautyTips
	if tips == "" {
		tips = "No tips available for this entry."
	}
	m.tips.SetContent(tips)
	if cur.ID != m.cardID {
		m.cardID = cur.ID
		m.tips.GotoTop()
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	// the ticker sees every non-key message so its tick loop survives open forms
	var weatherCmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.weather, weatherCmd = m.weather.Update(msg)
	}
	m, cmd := m.update(msg)
	m.refreshCard()
	return m, tea.Batch(weatherCmd, cmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !m.life.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to load entries.")
		}
		m.t.SetEntries(msg.entries)
		return m, nil

	case submittedMsg:
		if !m.life.Current(msg.token) {
			m.t.FinishSubmit(msg.sub, models.TrackerEntry{}, errLeftPage)
			return m, nil
		}
		m.t.FinishSubmit(msg.sub, msg.stored, msg.err)
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to save progress.")
		}
		m.syncForm()
		m.bannerID++
		m.banner = msg.stored.BeautyTips
		text := "Progress saved!"
		if msg.sub.Editing {
			text = "Progress updated!"
		}
		return m, tea.Batch(toast.Show(toast.Success, text), bannerTimeout(m.bannerFor, m.bannerID))

	case deletedMsg:
		m.t.Guard().End(session.ActionDelete)
		if !m.life.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			return m, toast.Show(toast.Error, "Failed to delete entry.")
		}
		m.t.ApplyDelete(msg.id)
		m.syncForm()
		return m, toast.Show(toast.Success, "Entry deleted.")

	case bannerExpiredMsg:
		if msg.id == m.bannerID {
			m.banner = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.pending() && !m.t.Guard().Any() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}
	if m.row == rowCustom {
		var cmd tea.Cmd
		m.custom, cmd = m.custom.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirm != nil {
		if key.Matches(msg, m.keys.Cancel) {
			m.confirm = nil
			return m, nil
		}
		return m.updateConfirm(msg)
	}
	if m.row == rowCustom {
		return m.updateCustom(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		cmd := m.moveRow(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Down):
		cmd := m.moveRow(1)
		return m, cmd
	case key.Matches(msg, m.keys.Left):
		if m.row == rowProgress {
			m.t.DecrementProgress()
		} else {
			m.moveChip(m.row, -1)
		}
	case key.Matches(msg, m.keys.Right):
		if m.row == rowProgress {
			m.t.IncrementProgress()
		} else {
			m.moveChip(m.row, 1)
		}
	case key.Matches(msg, m.keys.Select):
		if m.row == rowSubmit {
			cmd := m.submit()
			return m, cmd
		}
		m.choose(m.row)
	case key.Matches(msg, m.keys.Increment):
		m.t.IncrementProgress()
	case key.Matches(msg, m.keys.Decrement):
		m.t.DecrementProgress()
	case key.Matches(msg, m.keys.Submit):
		cmd := m.submit()
		return m, cmd
	case key.Matches(msg, m.keys.Previous):
		m.t.Previous()
	case key.Matches(msg, m.keys.Next):
		m.t.Next()
	case key.Matches(msg, m.keys.Edit):
		m.edit()
	case key.Matches(msg, m.keys.Delete):
		cmd := m.startDelete()
		return m, cmd
	case key.Matches(msg, m.keys.ScrollTips):
		var cmd tea.Cmd
		m.tips, cmd = m.tips.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		if m.banner != "" {
			m.banner = ""
			return m, nil
		}
		m.t.CancelEdit()
		m.syncForm()
	}
	return m, nil
}

// updateCustom routes keys to the custom product input. Only arrow keys and
// esc leave it, so every printable key can be typed.
func (m Model) updateCustom(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		cmd := m.moveRow(-1)
		return m, cmd
	case tea.KeyDown, tea.KeyEnter:
		cmd := m.moveRow(1)
		return m, cmd
	case tea.KeyEsc:
		cmd := m.moveRow(-1)
		return m, cmd
	}
	var cmd tea.Cmd
	m.custom, cmd = m.custom.Update(msg)
	if !m.t.SetCustomProduct(m.custom.Value()) {
		// pending submit: keep the input in step with the frozen draft
		m.custom.SetValue(m.t.Draft().CustomProduct)
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
