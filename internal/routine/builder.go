// Package routine implements the routine builder: per time-of-day product
// drafts, suggestions, and the saved routine list with per-partition
// pagination.
//
// Every remote operation comes in two halves so the TUI can run the network
// call inside a command and merge the result on the UI goroutine: Prepare*
// validates and builds the request, Apply* merges the stored result. The
// blocking methods (SaveRoutine, EditRoutine, ...) chain both halves for the
// CLI and tests.
package routine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/session"
)

var (
	// ErrEmptyDraft is returned when saving a draft with no products
	ErrEmptyDraft = errors.New("routine has no products")
	// ErrNotFound is returned for ids absent from the saved list
	ErrNotFound = errors.New("routine not found")
)

// Backend is the subset of the API client the builder needs
type Backend interface {
	ListRoutines(ctx context.Context) ([]models.RoutineEntry, error)
	CreateRoutine(ctx context.Context, entry models.RoutineEntry) (models.RoutineEntry, error)
	UpdateRoutine(ctx context.Context, entry models.RoutineEntry) (models.RoutineEntry, error)
	DeleteRoutine(ctx context.Context, id string) error
	Suggestions(ctx context.Context, tod models.TimeOfDay) ([]string, error)
}

// Builder holds the routine page state for one user
type Builder struct {
	userID   string
	pageSize int

	drafts map[models.TimeOfDay][]string
	saved  []models.RoutineEntry
	pages  map[models.TimeOfDay]int

	guard session.Guard

	now   func() time.Time
	newID func() string
}

// NewBuilder creates an empty builder. A page size below 1 uses the default.
func NewBuilder(userID string, pageSize int) *Builder {
	if pageSize < 1 {
		pageSize = constants.DefaultRoutinePageSize
	}
	return &Builder{
		userID:   userID,
		pageSize: pageSize,
		drafts:   make(map[models.TimeOfDay][]string),
		pages:    map[models.TimeOfDay]int{models.Morning: 1, models.Night: 1},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Guard returns the in-flight guard for the builder's write actions
func (b *Builder) Guard() *session.Guard {
	return &b.guard
}

// PageSize returns the number of routines per page
func (b *Builder) PageSize() int {
	return b.pageSize
}

// Draft returns a copy of the draft list for tod
func (b *Builder) Draft(tod models.TimeOfDay) []string {
	return append([]string(nil), b.drafts[tod]...)
}

// SetDraft replaces the draft list for tod
func (b *Builder) SetDraft(tod models.TimeOfDay, products []string) {
	b.drafts[tod] = append([]string(nil), products...)
}

// AddProduct appends the trimmed name to the draft for tod. Blank names are
// ignored and false is returned.
func (b *Builder) AddProduct(name string, tod models.TimeOfDay) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	b.drafts[tod] = append(b.drafts[tod], name)
	return true
}

// RemoveProduct drops the draft product at index
func (b *Builder) RemoveProduct(tod models.TimeOfDay, index int) bool {
	list := b.drafts[tod]
	if index < 0 || index >= len(list) {
		return false
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:index]...)
	b.drafts[tod] = append(out, list[index+1:]...)
	return true
}

// MoveProduct moves one draft product from one index to another
func (b *Builder) MoveProduct(tod models.TimeOfDay, from, to int) bool {
	list := b.drafts[tod]
	if !inRange(from, len(list)) || !inRange(to, len(list)) || from == to {
		return false
	}
	b.drafts[tod] = Reorder(list, from, to)
	return true
}

// Reorder returns a copy of list with the element at from moved to to. The
// relative order of every other element is kept. Out-of-range indices
// return an unchanged copy.
func Reorder[T any](list []T, from, to int) []T {
	out := append([]T(nil), list...)
	if !inRange(from, len(list)) || !inRange(to, len(list)) || from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

// Saved returns a copy of the saved routines in insertion order
func (b *Builder) Saved() []models.RoutineEntry {
	out := make([]models.RoutineEntry, len(b.saved))
	for i, r := range b.saved {
		out[i] = r.Clone()
	}
	return out
}

// SetSaved replaces the saved list and clamps both page cursors
func (b *Builder) SetSaved(entries []models.RoutineEntry) {
	b.saved = make([]models.RoutineEntry, len(entries))
	for i, r := range entries {
		b.saved[i] = r.Clone()
	}
	b.clampPages()
}

// Find looks up a saved routine by id
func (b *Builder) Find(id string) (models.RoutineEntry, bool) {
	if i := b.indexOf(id); i >= 0 {
		return b.saved[i].Clone(), true
	}
	return models.RoutineEntry{}, false
}

func (b *Builder) indexOf(id string) int {
	for i, r := range b.saved {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ApplySuggestions replaces the draft for tod wholesale
func (b *Builder) ApplySuggestions(tod models.TimeOfDay, suggestions []string) {
	b.SetDraft(tod, suggestions)
}

// PrepareSave packages the draft for tod as a new routine record
func (b *Builder) PrepareSave(tod models.TimeOfDay) (models.RoutineEntry, error) {
	draft := b.drafts[tod]
	if len(draft) == 0 {
		return models.RoutineEntry{}, fmt.Errorf("saving %s routine: %w", tod, ErrEmptyDraft)
	}
	return models.RoutineEntry{
		ID:        b.newID(),
		UserID:    b.userID,
		TimeOfDay: tod,
		Products:  append([]string(nil), draft...),
		CreatedAt: b.now(),
	}, nil
}

// ApplySave appends the stored record and clears its draft
func (b *Builder) ApplySave(stored models.RoutineEntry) {
	b.saved = append(b.saved, stored.Clone())
	delete(b.drafts, stored.TimeOfDay)
}

// PrepareEdit builds the replacement record for id
func (b *Builder) PrepareEdit(id string, products []string) (models.RoutineEntry, error) {
	i := b.indexOf(id)
	if i < 0 {
		return models.RoutineEntry{}, fmt.Errorf("editing routine %s: %w", id, ErrNotFound)
	}
	cleaned := make([]string, 0, len(products))
	for _, p := range products {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return models.RoutineEntry{}, fmt.Errorf("editing routine %s: %w", id, ErrEmptyDraft)
	}
	entry := b.saved[i].Clone()
	entry.Products = cleaned
	return entry, nil
}

// ApplyEdit replaces the saved record with the stored one
func (b *Builder) ApplyEdit(stored models.RoutineEntry) {
	if i := b.indexOf(stored.ID); i >= 0 {
		b.saved[i] = stored.Clone()
	}
}

// PrepareDelete checks that id is saved
func (b *Builder) PrepareDelete(id string) error {
	if b.indexOf(id) < 0 {
		return fmt.Errorf("deleting routine %s: %w", id, ErrNotFound)
	}
	return nil
}

// ApplyDelete removes id from the saved list
func (b *Builder) ApplyDelete(id string) {
	i := b.indexOf(id)
	if i < 0 {
		return
	}
	b.saved = append(b.saved[:i:i], b.saved[i+1:]...)
	b.clampPages()
}

// Load replaces the saved list with the backend's
func (b *Builder) Load(ctx context.Context, be Backend) error {
	entries, err := be.ListRoutines(ctx)
	if err != nil {
		logger.Error("Failed to load routines", "error", err)
		return fmt.Errorf("loading routines: %w", err)
	}
	b.SetSaved(entries)
	return nil
}

// GenerateSuggestions replaces the draft for tod with backend suggestions.
// On failure the draft is unchanged.
func (b *Builder) GenerateSuggestions(ctx context.Context, be Backend, tod models.TimeOfDay) error {
	return b.guard.Do(session.ActionSuggest, func() error {
		suggestions, err := be.Suggestions(ctx, tod)
		if err != nil {
			logger.Error("Failed to fetch suggestions", "time", tod, "error", err)
			return fmt.Errorf("fetching %s suggestions: %w", tod, err)
		}
		b.ApplySuggestions(tod, suggestions)
		return nil
	})
}

// SaveRoutine persists the draft for tod. On failure state is unchanged.
func (b *Builder) SaveRoutine(ctx context.Context, be Backend, tod models.TimeOfDay) (models.RoutineEntry, error) {
	var stored models.RoutineEntry
	err := b.guard.Do(session.ActionSave, func() error {
		entry, err := b.PrepareSave(tod)
		if err != nil {
			return err
		}
		stored, err = be.CreateRoutine(ctx, entry)
		if err != nil {
			logger.Error("Failed to save routine", "time", tod, "error", err)
			return fmt.Errorf("saving %s routine: %w", tod, err)
		}
		b.ApplySave(stored)
		return nil
	})
	return stored, err
}

// EditRoutine replaces the products of id. The local list changes only after
// the backend accepts the edit.
func (b *Builder) EditRoutine(ctx context.Context, be Backend, id string, products []string) (models.RoutineEntry, error) {
	var stored models.RoutineEntry
	err := b.guard.Do(session.ActionEdit, func() error {
		entry, err := b.PrepareEdit(id, products)
		if err != nil {
			return err
		}
		stored, err = be.UpdateRoutine(ctx, entry)
		if err != nil {
			logger.Error("Failed to update routine", "id", id, "error", err)
			return fmt.Errorf("updating routine %s: %w", id, err)
		}
		b.ApplyEdit(stored)
		return nil
	})
	return stored, err
}

// DeleteRoutine removes id remotely then locally. Unknown ids return
// ErrNotFound without a request.
func (b *Builder) DeleteRoutine(ctx context.Context, be Backend, id string) error {
	return b.guard.Do(session.ActionDelete, func() error {
		if err := b.PrepareDelete(id); err != nil {
			return err
		}
		if err := be.DeleteRoutine(ctx, id); err != nil {
			logger.Error("Failed to delete routine", "id", id, "error", err)
			return fmt.Errorf("deleting routine %s: %w", id, err)
		}
		b.ApplyDelete(id)
		return nil
	})
}
