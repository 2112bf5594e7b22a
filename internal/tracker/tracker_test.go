package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/bliss/internal/constants"
	apperrors "github.com/julianstephens/bliss/internal/errors"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/session"
)

type fakeBackend struct {
	entries    []models.TrackerEntry
	tipsErr    error
	persistErr error
	tips       func(models.TipRequest) string
	keys       []string
	creates    int
	updates    int
	deletes    int
	nextID     int
}

func (f *fakeBackend) ListTracker(ctx context.Context) ([]models.TrackerEntry, error) {
	return f.entries, nil
}

func (f *fakeBackend) CreateTracker(ctx context.Context, e models.TrackerEntry, key string) (models.TrackerEntry, error) {
	f.keys = append(f.keys, key)
	if f.persistErr != nil {
		return models.TrackerEntry{}, f.persistErr
	}
	f.creates++
	f.nextID++
	e.ID = fmt.Sprintf("t%d", f.nextID)
	e.CreatedAt = time.Date(2025, 5, f.nextID, 0, 0, 0, 0, time.UTC)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeBackend) UpdateTracker(ctx context.Context, e models.TrackerEntry) (models.TrackerEntry, error) {
	if f.persistErr != nil {
		return models.TrackerEntry{}, f.persistErr
	}
	f.updates++
	return e, nil
}

func (f *fakeBackend) DeleteTracker(ctx context.Context, id string) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	f.deletes++
	return nil
}

func (f *fakeBackend) BeautyTips(ctx context.Context, req models.TipRequest) (string, error) {
	if f.tipsErr != nil {
		return "", f.tipsErr
	}
	if f.tips != nil {
		return f.tips(req), nil
	}
	return "Drink water", nil
}

func fill(tr *Tracker, mood, condition, product string) {
	tr.SetMood(mood)
	tr.SetCondition(condition)
	tr.SetProduct(product)
}

func TestSubmitWithTipsDown(t *testing.T) {
	be := &fakeBackend{tipsErr: apperrors.ErrNetwork}
	tr := New()

	fill(tr, "Happy", "Dry", "Cleanser")
	tr.IncrementProgress()
	tr.SetUnit(models.Weeks)

	stored, err := tr.Submit(context.Background(), be)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if stored.BeautyTips != constants.FallbackTips {
		t.Errorf("BeautyTips = %q, want fallback", stored.BeautyTips)
	}
	if stored.Progress.String() != "2 weeks" {
		t.Errorf("Progress = %q, want %q", stored.Progress, "2 weeks")
	}
	if stored.Mood != "Happy" || stored.Condition != "Dry" || stored.Products != "Cleanser" {
		t.Errorf("stored = %+v", stored)
	}
	if len(tr.Entries()) != 1 || tr.Cursor() != 0 {
		t.Errorf("entries = %d cursor = %d", len(tr.Entries()), tr.Cursor())
	}
	if tr.Mode() != Idle {
		t.Errorf("Mode = %v, want idle", tr.Mode())
	}
	if tr.Draft() != NewDraft() {
		t.Errorf("Draft not reset: %+v", tr.Draft())
	}
}

func TestSubmitHasNoValidation(t *testing.T) {
	be := &fakeBackend{}
	tr := New()

	if tr.Draft().Ready() {
		t.Error("empty draft should not be ready")
	}
	stored, err := tr.Submit(context.Background(), be)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if stored.Mood != "" || stored.Condition != "" || stored.Products != "" {
		t.Errorf("absent fields should be sent empty: %+v", stored)
	}
}

func TestSubmitAppendsAndMovesCursor(t *testing.T) {
	be := &fakeBackend{}
	tr := New()
	tr.SetEntries([]models.TrackerEntry{{ID: "old", Mood: "Sad"}})

	fill(tr, "Relaxed", "Oily", "Toner")
	stored, err := tr.Submit(context.Background(), be)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Cursor() != 1 {
		t.Errorf("Cursor = %d, want 1", tr.Cursor())
	}
	if cur, _ := tr.Current(); cur.ID != stored.ID {
		t.Errorf("Current = %+v", cur)
	}
	if len(be.keys) != 1 || be.keys[0] == "" {
		t.Errorf("create should carry an idempotency key: %v", be.keys)
	}
}

func TestSubmitUsesCustomProduct(t *testing.T) {
	tests := []struct {
		name    string
		product string
		custom  string
		want    string
	}{
		{"known product", "Serum", "ignored", "Serum"},
		{"other with text", "Other", "  Rose Oil ", "Rose Oil"},
		{"other blank", "Other", "   ", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotReq models.TipRequest
			be := &fakeBackend{tips: func(r models.TipRequest) string {
				gotReq = r
				return "ok"
			}}
			tr := New()
			fill(tr, "Happy", "Dry", tt.product)
			tr.SetCustomProduct(tt.custom)

			stored, err := tr.Submit(context.Background(), be)
			if err != nil {
				t.Fatal(err)
			}
			if stored.Products != tt.want || gotReq.Products != tt.want {
				t.Errorf("products = %q / tip request %q, want %q", stored.Products, gotReq.Products, tt.want)
			}
		})
	}
}

func TestPersistFailureKeepsForm(t *testing.T) {
	be := &fakeBackend{persistErr: apperrors.ErrNetwork}
	tr := New()
	fill(tr, "Tired", "Acne", "Face Wash")
	before := tr.Draft()

	if _, err := tr.Submit(context.Background(), be); !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	if tr.Draft() != before {
		t.Errorf("Draft changed: %+v", tr.Draft())
	}
	if tr.Mode() != Drafting {
		t.Errorf("Mode = %v, want drafting", tr.Mode())
	}
	if len(tr.Entries()) != 0 {
		t.Error("nothing should be appended")
	}
	if tr.Guard().Pending(session.ActionSubmit) {
		t.Error("guard should be released")
	}
}

func TestEditThenUpdateReproducesEntry(t *testing.T) {
	entries := []models.TrackerEntry{
		{ID: "a", Mood: "Happy", Condition: "Dry", Products: "Cleanser",
			Progress: models.Progress{Magnitude: 2, Unit: models.Weeks}, BeautyTips: "tips:Dry", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Mood: "Anxious", Condition: "Acne", Products: "Rose Oil",
			Progress: models.Progress{Magnitude: 3, Unit: models.Months}, BeautyTips: "tips:Acne", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, orig := range entries {
		t.Run(orig.ID, func(t *testing.T) {
			be := &fakeBackend{tips: func(r models.TipRequest) string { return "tips:" + r.Condition }}
			tr := New()
			tr.SetEntries(entries)

			if err := tr.Edit(orig.ID); err != nil {
				t.Fatalf("Edit() error = %v", err)
			}
			if tr.Mode() != EditingExisting {
				t.Fatalf("Mode = %v", tr.Mode())
			}
			stored, err := tr.Submit(context.Background(), be)
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if be.updates != 1 || be.creates != 0 {
				t.Errorf("updates=%d creates=%d", be.updates, be.creates)
			}

			stored.CreatedAt = orig.CreatedAt
			if stored != orig {
				t.Errorf("round trip = %+v, want %+v", stored, orig)
			}
			if cur, _ := tr.Current(); cur.ID != orig.ID {
				t.Errorf("cursor should stay on the edited entry, got %q", cur.ID)
			}
			if len(tr.Entries()) != len(entries) {
				t.Error("update should replace in place")
			}
		})
	}
}

func TestUpdateAfterLocalDeleteDoesNotResurrect(t *testing.T) {
	be := &fakeBackend{tips: func(r models.TipRequest) string { return "tips" }}
	tr := New()
	tr.SetEntries([]models.TrackerEntry{
		{ID: "a", Mood: "Happy", Condition: "Dry", Products: "Cleanser", Progress: models.Progress{Magnitude: 1, Unit: models.Days}},
		{ID: "b", Mood: "Sad", Condition: "Oily", Products: "Toner", Progress: models.Progress{Magnitude: 2, Unit: models.Weeks}},
	})

	if err := tr.Edit("a"); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	sub, err := tr.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit() error = %v", err)
	}
	tr.ApplyDelete("a")

	stored, err := sub.Run(context.Background(), be)
	tr.FinishSubmit(sub, stored, err)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entries := tr.Entries()
	if len(entries) != 1 || entries[0].ID != "b" {
		t.Fatalf("entries = %+v, want only b", entries)
	}
	if cur, _ := tr.Current(); cur.ID != "b" {
		t.Errorf("cursor on %q, want b", cur.ID)
	}
	if tr.Mode() != Idle {
		t.Errorf("Mode = %v, want Idle", tr.Mode())
	}
}

func TestEditSeedsDraft(t *testing.T) {
	tr := New()
	tr.SetEntries([]models.TrackerEntry{
		{ID: "x", Mood: "Sad", Condition: "Normal", Products: "Rose Oil", Progress: models.Progress{Magnitude: 4, Unit: models.Days}},
	})

	if err := tr.Edit("x"); err != nil {
		t.Fatal(err)
	}
	d := tr.Draft()
	if d.Product != constants.OtherProduct || d.CustomProduct != "Rose Oil" {
		t.Errorf("Draft product = %q custom = %q", d.Product, d.CustomProduct)
	}
	if d.Progress != (models.Progress{Magnitude: 4, Unit: models.Days}) {
		t.Errorf("Draft progress = %+v", d.Progress)
	}

	if err := tr.Edit("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Edit(missing) error = %v", err)
	}

	tr.CancelEdit()
	if tr.Mode() != Drafting || tr.EditingID() != "" {
		t.Errorf("after cancel mode=%v id=%q", tr.Mode(), tr.EditingID())
	}
}

func TestModeTransitions(t *testing.T) {
	be := &fakeBackend{}
	tr := New()
	if tr.Mode() != Drafting {
		t.Fatalf("initial mode = %v", tr.Mode())
	}

	sub, err := tr.BeginSubmit()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Mode() != Pending {
		t.Errorf("mode = %v, want pending", tr.Mode())
	}
	if _, err := tr.BeginSubmit(); !errors.Is(err, session.ErrPending) {
		t.Errorf("second BeginSubmit error = %v, want ErrPending", err)
	}
	if tr.SetMood("Happy") {
		t.Error("field changes should be ignored while pending")
	}

	stored, err := sub.Run(context.Background(), be)
	tr.FinishSubmit(sub, stored, err)
	if tr.Mode() != Idle {
		t.Errorf("mode = %v, want idle", tr.Mode())
	}

	tr.SetMood("Excited")
	if tr.Mode() != Drafting {
		t.Errorf("change from idle should return to drafting, got %v", tr.Mode())
	}
}

func TestProgressCounter(t *testing.T) {
	tr := New()
	tr.DecrementProgress()
	if tr.Draft().Progress.Magnitude != 1 {
		t.Errorf("magnitude = %d, want minimum 1", tr.Draft().Progress.Magnitude)
	}
	tr.IncrementProgress()
	tr.IncrementProgress()
	if tr.Draft().Progress.Magnitude != 3 {
		t.Errorf("magnitude = %d, want 3", tr.Draft().Progress.Magnitude)
	}
}

func TestNavigation(t *testing.T) {
	tr := New()
	if tr.Previous() || tr.Next() {
		t.Error("navigation on an empty list should be a no-op")
	}

	tr.SetEntries([]models.TrackerEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	if tr.Previous() {
		t.Error("Previous at the first entry should be a no-op")
	}
	tr.Next()
	tr.Next()
	if tr.Next() {
		t.Error("Next at the last entry should be a no-op")
	}
	if tr.Cursor() != 2 {
		t.Errorf("Cursor = %d, want 2", tr.Cursor())
	}
}

func TestDelete(t *testing.T) {
	be := &fakeBackend{}
	tr := New()
	tr.SetEntries([]models.TrackerEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	tr.Next()
	tr.Next()

	if err := tr.Delete(context.Background(), be, "c"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if tr.Cursor() != 1 || len(tr.Entries()) != 2 {
		t.Errorf("cursor=%d len=%d", tr.Cursor(), len(tr.Entries()))
	}

	if err := tr.Delete(context.Background(), be, "a"); err != nil {
		t.Fatal(err)
	}
	if tr.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0", tr.Cursor())
	}

	if err := tr.Delete(context.Background(), be, "zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown delete error = %v", err)
	}
	if be.deletes != 2 {
		t.Errorf("deletes = %d, want 2", be.deletes)
	}

	be.persistErr = apperrors.ErrNetwork
	if err := tr.Delete(context.Background(), be, "b"); err == nil {
		t.Fatal("expected error")
	}
	if len(tr.Entries()) != 1 {
		t.Error("failed delete should keep the entry")
	}
}

func TestLoad(t *testing.T) {
	be := &fakeBackend{entries: []models.TrackerEntry{{ID: "a"}, {ID: "b"}}}
	tr := New()
	if err := tr.Load(context.Background(), be); err != nil {
		t.Fatal(err)
	}
	if len(tr.Entries()) != 2 || tr.Cursor() != 0 {
		t.Errorf("entries=%d cursor=%d", len(tr.Entries()), tr.Cursor())
	}
}
