package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/bliss/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or was deleted
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a create reuses an existing id
	ErrConflict = errors.New("record already exists")
)

// Provider is the persistence layer of the stand-in backend. Records are
// scoped by user id and soft-deleted.
type Provider interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Routines
	ListRoutines(ctx context.Context, userID string) ([]models.RoutineEntry, error)
	GetRoutine(ctx context.Context, userID, id string) (models.RoutineEntry, error)
	CreateRoutine(ctx context.Context, r models.RoutineEntry, key string) (models.RoutineEntry, error)
	UpdateRoutine(ctx context.Context, r models.RoutineEntry) (models.RoutineEntry, error)
	DeleteRoutine(ctx context.Context, userID, id string) error

	// Tracker entries
	ListTracker(ctx context.Context, userID string) ([]models.TrackerEntry, error)
	GetTracker(ctx context.Context, userID, id string) (models.TrackerEntry, error)
	CreateTracker(ctx context.Context, userID string, e models.TrackerEntry, key string) (models.TrackerEntry, error)
	UpdateTracker(ctx context.Context, userID string, e models.TrackerEntry) (models.TrackerEntry, error)
	DeleteTracker(ctx context.Context, userID, id string) error
}
