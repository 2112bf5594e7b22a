package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/bliss/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRunsMigrations(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.Version()
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if !store.IsSQLite() {
		t.Error("IsSQLite() = false")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateRoutine(ctx, models.RoutineEntry{ID: "r1", UserID: "u", TimeOfDay: models.Morning, Products: []string{"Toner"}}, ""); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	list, err := store.ListRoutines(ctx, "u")
	if err != nil || len(list) != 1 {
		t.Errorf("ListRoutines after reopen = %v, %v", list, err)
	}
}

func TestRoutineCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)

	r, err := store.CreateRoutine(ctx, models.RoutineEntry{
		ID:        "r1",
		UserID:    "user123",
		TimeOfDay: models.Morning,
		Products:  []string{"Cleanser", "Sunscreen"},
		CreatedAt: created,
	}, "")
	if err != nil {
		t.Fatalf("CreateRoutine() error = %v", err)
	}
	if !r.CreatedAt.Equal(created) || !reflect.DeepEqual(r.Products, []string{"Cleanser", "Sunscreen"}) {
		t.Errorf("created = %+v", r)
	}

	if _, err := store.CreateRoutine(ctx, models.RoutineEntry{ID: "r1", UserID: "user123", TimeOfDay: models.Night}, ""); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate id error = %v, want ErrConflict", err)
	}

	r.Products = []string{"Face Wash"}
	updated, err := store.UpdateRoutine(ctx, r)
	if err != nil {
		t.Fatalf("UpdateRoutine() error = %v", err)
	}
	if !reflect.DeepEqual(updated.Products, []string{"Face Wash"}) || !updated.CreatedAt.Equal(created) {
		t.Errorf("updated = %+v", updated)
	}

	other, err := store.ListRoutines(ctx, "someone-else")
	if err != nil || len(other) != 0 {
		t.Errorf("routines leaked across users: %v %v", other, err)
	}

	if err := store.DeleteRoutine(ctx, "user123", "r1"); err != nil {
		t.Fatalf("DeleteRoutine() error = %v", err)
	}
	if _, err := store.GetRoutine(ctx, "user123", "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRoutine after delete error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteRoutine(ctx, "user123", "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if _, err := store.UpdateRoutine(ctx, r); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete error = %v, want ErrNotFound", err)
	}
}

func TestRoutineIdempotencyKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	entry := models.RoutineEntry{ID: "r9", UserID: "u", TimeOfDay: models.Night, Products: []string{"eye cream"}}

	first, err := store.CreateRoutine(ctx, entry, "r9")
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.CreateRoutine(ctx, entry, "r9")
	if err != nil {
		t.Fatalf("replayed create error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("replay returned %s, want %s", second.ID, first.ID)
	}
	list, _ := store.ListRoutines(ctx, "u")
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

func TestListRoutinesOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"c", "a", "b"} {
		_, err := store.CreateRoutine(ctx, models.RoutineEntry{
			ID:        id,
			UserID:    "u",
			TimeOfDay: models.Morning,
			Products:  []string{"x"},
			CreatedAt: base.Add(time.Duration(i) * 1500 * time.Millisecond),
		}, "")
		if err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.ListRoutines(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "a", "b"}) {
		t.Errorf("order = %v, want insertion order", ids)
	}
}

func TestTrackerCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, err := store.CreateTracker(ctx, "user123", models.TrackerEntry{
		Mood:       "Happy",
		Condition:  "Dry",
		Products:   "Cleanser",
		Progress:   models.Progress{Magnitude: 2, Unit: models.Weeks},
		BeautyTips: "Moisturize",
	}, "")
	if err != nil {
		t.Fatalf("CreateTracker() error = %v", err)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Errorf("created = %+v", e)
	}

	e.Mood = "Relaxed"
	e.Progress = models.Progress{Magnitude: 3, Unit: models.Months}
	updated, err := store.UpdateTracker(ctx, "user123", e)
	if err != nil {
		t.Fatalf("UpdateTracker() error = %v", err)
	}
	if updated.Mood != "Relaxed" || updated.Progress != e.Progress || !updated.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("updated = %+v", updated)
	}

	if err := store.DeleteTracker(ctx, "user123", e.ID); err != nil {
		t.Fatalf("DeleteTracker() error = %v", err)
	}
	list, err := store.ListTracker(ctx, "user123")
	if err != nil || len(list) != 0 {
		t.Errorf("ListTracker after delete = %v, %v", list, err)
	}
	if _, err := store.UpdateTracker(ctx, "user123", e); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete error = %v, want ErrNotFound", err)
	}
}

func TestTrackerIdempotencyKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	entry := models.TrackerEntry{Mood: "Sad", Progress: models.DefaultProgress()}

	first, err := store.CreateTracker(ctx, "u", entry, "key-1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.CreateTracker(ctx, "u", entry, "key-1")
	if err != nil {
		t.Fatal(err)
	}
	third, err := store.CreateTracker(ctx, "u", entry, "key-2")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Error("same key should return the same entry")
	}
	if third.ID == first.ID {
		t.Error("different key should create a new entry")
	}
	list, _ := store.ListTracker(ctx, "u")
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}
