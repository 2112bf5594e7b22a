package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/bliss/internal/models"
)

const trackerCols = `id, mood, condition, products, progress_magnitude, progress_unit, beauty_tips, created_at`

func scanTracker(scanner interface{ Scan(...any) error }) (models.TrackerEntry, error) {
	var (
		e         models.TrackerEntry
		unit      string
		createdAt string
	)
	err := scanner.Scan(
		&e.ID, &e.Mood, &e.Condition, &e.Products,
		&e.Progress.Magnitude, &unit, &e.BeautyTips, &createdAt,
	)
	if err != nil {
		return models.TrackerEntry{}, err
	}
	e.Progress.Unit = models.TimeUnit(unit)
	t, err := parseTime(createdAt)
	if err != nil {
		return models.TrackerEntry{}, err
	}
	e.CreatedAt = t
	return e, nil
}

func (s *Store) ListTracker(ctx context.Context, userID string) ([]models.TrackerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT `+trackerCols+` FROM tracker_entries
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY created_at, `+s.dialect.tiebreak),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tracker entries: %w", err)
	}
	defer rows.Close()

	entries := []models.TrackerEntry{}
	for rows.Next() {
		e, err := scanTracker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tracker entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetTracker(ctx context.Context, userID, id string) (models.TrackerEntry, error) {
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT `+trackerCols+` FROM tracker_entries WHERE user_id = ? AND id = ? AND deleted_at IS NULL`),
		userID, id,
	)
	e, err := scanTracker(row)
	if err == sql.ErrNoRows {
		return models.TrackerEntry{}, fmt.Errorf("tracker entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.TrackerEntry{}, fmt.Errorf("get tracker entry: %w", err)
	}
	return e, nil
}

// CreateTracker assigns an id and inserts e. A repeated idempotency key
// returns the entry created under it.
func (s *Store) CreateTracker(ctx context.Context, userID string, e models.TrackerEntry, key string) (models.TrackerEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.TrackerEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if key != "" {
		existing, ok, err := s.lookupKey(ctx, tx, userID, "tracker", key)
		if err != nil {
			return models.TrackerEntry{}, err
		}
		if ok {
			if err := tx.Commit(); err != nil {
				return models.TrackerEntry{}, fmt.Errorf("commit: %w", err)
			}
			return s.GetTracker(ctx, userID, existing)
		}
	}

	e.ID = uuid.NewString()
	e.Progress = e.Progress.Normalized()
	now := s.stamp()
	_, err = tx.ExecContext(ctx,
		s.q(`INSERT INTO tracker_entries
		 (id, user_id, mood, condition, products, progress_magnitude, progress_unit, beauty_tips, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, userID, e.Mood, e.Condition, e.Products,
		e.Progress.Magnitude, string(e.Progress.Unit), e.BeautyTips, now, now,
	)
	if err != nil {
		return models.TrackerEntry{}, fmt.Errorf("insert tracker entry: %w", err)
	}
	if key != "" {
		if err := s.storeKey(ctx, tx, userID, "tracker", key, e.ID); err != nil {
			return models.TrackerEntry{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.TrackerEntry{}, fmt.Errorf("commit: %w", err)
	}
	return s.GetTracker(ctx, userID, e.ID)
}

// UpdateTracker replaces every field of e except its creation time
func (s *Store) UpdateTracker(ctx context.Context, userID string, e models.TrackerEntry) (models.TrackerEntry, error) {
	e.Progress = e.Progress.Normalized()
	res, err := s.db.ExecContext(ctx,
		s.q(`UPDATE tracker_entries
		 SET mood = ?, condition = ?, products = ?, progress_magnitude = ?, progress_unit = ?, beauty_tips = ?, updated_at = ?
		 WHERE user_id = ? AND id = ? AND deleted_at IS NULL`),
		e.Mood, e.Condition, e.Products, e.Progress.Magnitude, string(e.Progress.Unit), e.BeautyTips, s.stamp(),
		userID, e.ID,
	)
	if err != nil {
		return models.TrackerEntry{}, fmt.Errorf("update tracker entry: %w", err)
	}
	if err := affected(res, "tracker entry", e.ID); err != nil {
		return models.TrackerEntry{}, err
	}
	return s.GetTracker(ctx, userID, e.ID)
}

func (s *Store) DeleteTracker(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		s.q(`UPDATE tracker_entries SET deleted_at = ? WHERE user_id = ? AND id = ? AND deleted_at IS NULL`),
		s.stamp(), userID, id,
	)
	if err != nil {
		return fmt.Errorf("delete tracker entry: %w", err)
	}
	return affected(res, "tracker entry", id)
}
