// Package tracker implements the progress tracker: a repeating form whose
// submit fetches generated tips and then persists the entry, plus
// edit-in-place, delete and sequential navigation over saved entries.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/session"
)

// ErrNotFound is returned for ids absent from the entry list
var ErrNotFound = errors.New("tracker entry not found")

// Mode is the tracker form state
type Mode int

const (
	Drafting Mode = iota
	EditingExisting
	Pending
	Idle
)

func (m Mode) String() string {
	switch m {
	case Drafting:
		return "drafting"
	case EditingExisting:
		return "editing"
	case Pending:
		return "pending"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// Backend is the subset of the API client the tracker needs
type Backend interface {
	ListTracker(ctx context.Context) ([]models.TrackerEntry, error)
	CreateTracker(ctx context.Context, entry models.TrackerEntry, key string) (models.TrackerEntry, error)
	UpdateTracker(ctx context.Context, entry models.TrackerEntry) (models.TrackerEntry, error)
	DeleteTracker(ctx context.Context, id string) error
	BeautyTips(ctx context.Context, req models.TipRequest) (string, error)
}

// Tracker holds the tracker page state
type Tracker struct {
	entries []models.TrackerEntry
	cursor  int

	mode      Mode
	draft     Draft
	editingID string

	guard  session.Guard
	newKey func() string
}

// New returns an empty tracker in Drafting mode
func New() *Tracker {
	return &Tracker{
		mode:   Drafting,
		draft:  NewDraft(),
		newKey: uuid.NewString,
	}
}

// Guard returns the in-flight guard for the tracker's write actions
func (t *Tracker) Guard() *session.Guard {
	return &t.guard
}

func (t *Tracker) Mode() Mode {
	return t.mode
}

func (t *Tracker) Draft() Draft {
	return t.draft
}

// EditingID returns the id of the entry being edited, if any
func (t *Tracker) EditingID() string {
	return t.editingID
}

// Entries returns a copy of the saved entries
func (t *Tracker) Entries() []models.TrackerEntry {
	return append([]models.TrackerEntry(nil), t.entries...)
}

func (t *Tracker) Cursor() int {
	return t.cursor
}

// Current returns the entry under the cursor
func (t *Tracker) Current() (models.TrackerEntry, bool) {
	if t.cursor < 0 || t.cursor >= len(t.entries) {
		return models.TrackerEntry{}, false
	}
	return t.entries[t.cursor], true
}

// SetEntries replaces the entry list and clamps the cursor
func (t *Tracker) SetEntries(entries []models.TrackerEntry) {
	t.entries = append([]models.TrackerEntry(nil), entries...)
	t.clampCursor()
}

func (t *Tracker) clampCursor() {
	if t.cursor >= len(t.entries) {
		t.cursor = len(t.entries) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *Tracker) indexOf(id string) int {
	for i, e := range t.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Previous moves the cursor back one entry, stopping at the first
func (t *Tracker) Previous() bool {
	if t.cursor <= 0 {
		return false
	}
	t.cursor--
	return true
}

// Next moves the cursor forward one entry, stopping at the last
func (t *Tracker) Next() bool {
	if t.cursor >= len(t.entries)-1 {
		return false
	}
	t.cursor++
	return true
}

// change applies fn to the draft. Changes from Idle return to Drafting;
// changes while a submit is pending are ignored.
func (t *Tracker) change(fn func(d *Draft)) bool {
	if t.mode == Pending {
		return false
	}
	fn(&t.draft)
	if t.mode == Idle {
		t.mode = Drafting
	}
	return true
}

func (t *Tracker) SetMood(v string) bool {
	return t.change(func(d *Draft) { d.Mood = v })
}

func (t *Tracker) SetCondition(v string) bool {
	return t.change(func(d *Draft) { d.Condition = v })
}

func (t *Tracker) SetProduct(v string) bool {
	return t.change(func(d *Draft) { d.Product = v })
}

func (t *Tracker) SetCustomProduct(v string) bool {
	return t.change(func(d *Draft) { d.CustomProduct = v })
}

func (t *Tracker) SetUnit(u models.TimeUnit) bool {
	return t.change(func(d *Draft) { d.Progress.Unit = u })
}

// IncrementProgress raises the progress counter by one
func (t *Tracker) IncrementProgress() bool {
	return t.change(func(d *Draft) { d.Progress.Magnitude++ })
}

// DecrementProgress lowers the progress counter, never below the minimum
func (t *Tracker) DecrementProgress() bool {
	return t.change(func(d *Draft) {
		d.Progress.Magnitude = max(constants.MinProgress, d.Progress.Magnitude-1)
	})
}

// SetDraft replaces the whole form
func (t *Tracker) SetDraft(d Draft) bool {
	return t.change(func(cur *Draft) { *cur = d })
}

// Edit seeds the form from entry id and switches to EditingExisting
func (t *Tracker) Edit(id string) error {
	if t.mode == Pending {
		return session.ErrPending
	}
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("editing entry %s: %w", id, ErrNotFound)
	}
	t.draft = DraftFromEntry(t.entries[i])
	t.editingID = id
	t.cursor = i
	t.mode = EditingExisting
	return nil
}

// CancelEdit drops the edit and resets the form
func (t *Tracker) CancelEdit() {
	if t.mode != EditingExisting {
		return
	}
	t.reset()
}

func (t *Tracker) reset() {
	t.draft = NewDraft()
	t.editingID = ""
	t.mode = Drafting
}

// Submission is one submit in flight
type Submission struct {
	Draft   Draft
	Editing bool
	// ID and CreatedAt are carried over from the entry being edited
	ID        string
	CreatedAt time.Time
	// Key is the idempotency key sent with creates
	Key string
}

// BeginSubmit enters Pending and snapshots the form. A second call before
// FinishSubmit returns session.ErrPending.
func (t *Tracker) BeginSubmit() (Submission, error) {
	if err := t.guard.Begin(session.ActionSubmit); err != nil {
		return Submission{}, err
	}

	sub := Submission{Draft: t.draft}
	if t.mode == EditingExisting {
		i := t.indexOf(t.editingID)
		if i < 0 {
			t.guard.End(session.ActionSubmit)
			t.reset()
			return Submission{}, fmt.Errorf("updating entry %s: %w", t.editingID, ErrNotFound)
		}
		sub.Editing = true
		sub.ID = t.editingID
		sub.CreatedAt = t.entries[i].CreatedAt
	} else {
		sub.Key = t.newKey()
	}
	t.mode = Pending
	return sub, nil
}

// FetchTips asks the backend for tips. Any failure yields the fallback text.
func FetchTips(ctx context.Context, be Backend, req models.TipRequest) string {
	tips, err := be.BeautyTips(ctx, req)
	if err != nil {
		logger.Warn("Tip generation failed, using fallback", "error", err)
		return constants.FallbackTips
	}
	return tips
}

// Entry builds the record to persist with the given tips
func (s Submission) Entry(tips string) models.TrackerEntry {
	return models.TrackerEntry{
		ID:         s.ID,
		Mood:       s.Draft.Mood,
		Condition:  s.Draft.Condition,
		Products:   s.Draft.SelectedProduct(),
		Progress:   s.Draft.Progress.Normalized(),
		BeautyTips: tips,
		CreatedAt:  s.CreatedAt,
	}
}

// Run fetches tips then persists the entry: PUT when editing, POST otherwise.
// It does not touch tracker state and is safe to call off the UI goroutine.
func (s Submission) Run(ctx context.Context, be Backend) (models.TrackerEntry, error) {
	entry := s.Entry(FetchTips(ctx, be, s.Draft.TipRequest()))

	var (
		stored models.TrackerEntry
		err    error
	)
	if s.Editing {
		stored, err = be.UpdateTracker(ctx, entry)
	} else {
		stored, err = be.CreateTracker(ctx, entry, s.Key)
	}
	if err != nil {
		logger.Error("Failed to persist tracker entry", "editing", s.Editing, "error", err)
		return models.TrackerEntry{}, fmt.Errorf("saving progress: %w", err)
	}
	return stored, nil
}

// FinishSubmit merges the outcome of a submission. On success the list is
// index-replaced or appended, the cursor moves to the entry and the form
// resets. On failure the form and the prior mode are restored.
func (t *Tracker) FinishSubmit(sub Submission, stored models.TrackerEntry, err error) {
	defer t.guard.End(session.ActionSubmit)

	if err != nil {
		if sub.Editing {
			t.mode = EditingExisting
		} else {
			t.mode = Drafting
		}
		return
	}

	switch i := t.indexOf(sub.ID); {
	case sub.Editing && i >= 0:
		t.entries[i] = stored
		t.cursor = i
	case sub.Editing:
		// deleted locally while the update was in flight
		t.clampCursor()
	default:
		t.entries = append(t.entries, stored)
		t.cursor = len(t.entries) - 1
	}
	t.draft = NewDraft()
	t.editingID = ""
	t.mode = Idle
}

// Submit runs a whole submission synchronously
func (t *Tracker) Submit(ctx context.Context, be Backend) (models.TrackerEntry, error) {
	sub, err := t.BeginSubmit()
	if err != nil {
		return models.TrackerEntry{}, err
	}
	stored, err := sub.Run(ctx, be)
	t.FinishSubmit(sub, stored, err)
	return stored, err
}

// PrepareDelete checks that id is saved
func (t *Tracker) PrepareDelete(id string) error {
	if t.indexOf(id) < 0 {
		return fmt.Errorf("deleting entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// ApplyDelete filters id out of the list and steps the cursor back
func (t *Tracker) ApplyDelete(id string) {
	i := t.indexOf(id)
	if i < 0 {
		return
	}
	t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
	t.cursor = max(t.cursor-1, 0)
	t.clampCursor()
	if t.editingID == id && t.mode == EditingExisting {
		t.reset()
	}
}

// Delete removes id remotely then locally
func (t *Tracker) Delete(ctx context.Context, be Backend, id string) error {
	return t.guard.Do(session.ActionDelete, func() error {
		if err := t.PrepareDelete(id); err != nil {
			return err
		}
		if err := be.DeleteTracker(ctx, id); err != nil {
			logger.Error("Failed to delete tracker entry", "id", id, "error", err)
			return fmt.Errorf("deleting entry %s: %w", id, err)
		}
		t.ApplyDelete(id)
		return nil
	})
}

// Load replaces the entry list with the backend's
func (t *Tracker) Load(ctx context.Context, be Backend) error {
	entries, err := be.ListTracker(ctx)
	if err != nil {
		logger.Error("Failed to load tracker entries", "error", err)
		return fmt.Errorf("loading tracker entries: %w", err)
	}
	t.SetEntries(entries)
	return nil
}
