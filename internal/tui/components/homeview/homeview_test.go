package homeview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/bliss/internal/home"
	"github.com/julianstephens/bliss/internal/models"
)

type fakeRoutines struct {
	entries []models.RoutineEntry
	err     error
}

func (f fakeRoutines) ListRoutines(ctx context.Context) ([]models.RoutineEntry, error) {
	return f.entries, f.err
}

func TestLoadedView(t *testing.T) {
	now := time.Now()
	m := New(fakeRoutines{entries: []models.RoutineEntry{
		{ID: "1", TimeOfDay: models.Night, Products: []string{"Night Cream"}, CreatedAt: now},
		{ID: "2", TimeOfDay: models.Morning, Products: []string{"Cleanser", "Sunscreen"}, CreatedAt: now},
	}})
	ctx, tok := m.life.Mount()
	m, _ = m.Update(m.load(ctx, tok)())

	if m.State().Status != home.Loaded {
		t.Fatalf("Status = %v, want loaded", m.State().Status)
	}
	view := m.View()
	morning := strings.Index(view, "Morning routine")
	night := strings.Index(view, "Night routine")
	if morning < 0 || night < 0 || morning > night {
		t.Errorf("expected morning before night:\n%s", view)
	}
	if !strings.Contains(view, "2. Sunscreen") {
		t.Errorf("products not numbered:\n%s", view)
	}
}

func TestEmptyAndFailedLoads(t *testing.T) {
	for name, be := range map[string]fakeRoutines{
		"empty":  {},
		"failed": {err: errors.New("connection refused")},
	} {
		t.Run(name, func(t *testing.T) {
			m := New(be)
			ctx, tok := m.life.Mount()
			m, _ = m.Update(m.load(ctx, tok)())
			if m.State().Status != home.Empty {
				t.Fatalf("Status = %v, want empty", m.State().Status)
			}
			if !strings.Contains(m.View(), "No routine available") {
				t.Errorf("View = %q", m.View())
			}
		})
	}
}

func TestRemountDropsOldResult(t *testing.T) {
	m := New(fakeRoutines{entries: []models.RoutineEntry{{ID: "1", TimeOfDay: models.Morning, Products: []string{"Toner"}}}})
	ctx, tok := m.life.Mount()
	stale := m.load(ctx, tok)()

	m.Unmount()
	m.Mount()

	m, _ = m.Update(stale)
	if m.State().Status != home.Loading {
		t.Errorf("stale result applied, Status = %v", m.State().Status)
	}
}
