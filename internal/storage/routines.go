package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/bliss/internal/models"
)

const routineCols = `id, user_id, time_of_day, products, created_at`

func scanRoutine(scanner interface{ Scan(...any) error }) (models.RoutineEntry, error) {
	var (
		r         models.RoutineEntry
		tod       string
		products  string
		createdAt string
	)
	if err := scanner.Scan(&r.ID, &r.UserID, &tod, &products, &createdAt); err != nil {
		return models.RoutineEntry{}, err
	}
	r.TimeOfDay = models.TimeOfDay(tod)
	if err := json.Unmarshal([]byte(products), &r.Products); err != nil {
		return models.RoutineEntry{}, fmt.Errorf("decode products of routine %s: %w", r.ID, err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.RoutineEntry{}, err
	}
	r.CreatedAt = t
	return r, nil
}

func (s *Store) ListRoutines(ctx context.Context, userID string) ([]models.RoutineEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT `+routineCols+` FROM routines
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY created_at, `+s.dialect.tiebreak),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()

	routines := []models.RoutineEntry{}
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

func (s *Store) GetRoutine(ctx context.Context, userID, id string) (models.RoutineEntry, error) {
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT `+routineCols+` FROM routines WHERE user_id = ? AND id = ? AND deleted_at IS NULL`),
		userID, id,
	)
	r, err := scanRoutine(row)
	if err == sql.ErrNoRows {
		return models.RoutineEntry{}, fmt.Errorf("routine %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.RoutineEntry{}, fmt.Errorf("get routine: %w", err)
	}
	return r, nil
}

// CreateRoutine inserts r. A repeated idempotency key returns the record
// created under it instead of inserting again.
func (s *Store) CreateRoutine(ctx context.Context, r models.RoutineEntry, key string) (models.RoutineEntry, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	products, err := json.Marshal(nonNil(r.Products))
	if err != nil {
		return models.RoutineEntry{}, fmt.Errorf("encode products: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.RoutineEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if key != "" {
		existing, ok, err := s.lookupKey(ctx, tx, r.UserID, "routine", key)
		if err != nil {
			return models.RoutineEntry{}, err
		}
		if ok {
			if err := tx.Commit(); err != nil {
				return models.RoutineEntry{}, fmt.Errorf("commit: %w", err)
			}
			return s.GetRoutine(ctx, r.UserID, existing)
		}
	}

	var taken int
	if err := tx.QueryRowContext(ctx,
		s.q(`SELECT COUNT(*) FROM routines WHERE user_id = ? AND id = ?`), r.UserID, r.ID,
	).Scan(&taken); err != nil {
		return models.RoutineEntry{}, fmt.Errorf("check routine id: %w", err)
	}
	if taken > 0 {
		return models.RoutineEntry{}, fmt.Errorf("routine %s: %w", r.ID, ErrConflict)
	}

	now := s.stamp()
	_, err = tx.ExecContext(ctx,
		s.q(`INSERT INTO routines (id, user_id, time_of_day, products, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		r.ID, r.UserID, string(r.TimeOfDay), string(products), formatTime(r.CreatedAt), now,
	)
	if err != nil {
		return models.RoutineEntry{}, fmt.Errorf("insert routine: %w", err)
	}
	if key != "" {
		if err := s.storeKey(ctx, tx, r.UserID, "routine", key, r.ID); err != nil {
			return models.RoutineEntry{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.RoutineEntry{}, fmt.Errorf("commit: %w", err)
	}
	return s.GetRoutine(ctx, r.UserID, r.ID)
}

// UpdateRoutine replaces the time of day and products of r. The creation
// time is kept.
func (s *Store) UpdateRoutine(ctx context.Context, r models.RoutineEntry) (models.RoutineEntry, error) {
	products, err := json.Marshal(nonNil(r.Products))
	if err != nil {
		return models.RoutineEntry{}, fmt.Errorf("encode products: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		s.q(`UPDATE routines SET time_of_day = ?, products = ?, updated_at = ?
		 WHERE user_id = ? AND id = ? AND deleted_at IS NULL`),
		string(r.TimeOfDay), string(products), s.stamp(), r.UserID, r.ID,
	)
	if err != nil {
		return models.RoutineEntry{}, fmt.Errorf("update routine: %w", err)
	}
	if err := affected(res, "routine", r.ID); err != nil {
		return models.RoutineEntry{}, err
	}
	return s.GetRoutine(ctx, r.UserID, r.ID)
}

func (s *Store) DeleteRoutine(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		s.q(`UPDATE routines SET deleted_at = ? WHERE user_id = ? AND id = ? AND deleted_at IS NULL`),
		s.stamp(), userID, id,
	)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return affected(res, "routine", id)
}

func affected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
