// Package home loads the read-only summary of the user's saved routines.
package home

import (
	"context"
	"fmt"

	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
)

// Backend is the subset of the API client home needs
type Backend interface {
	ListRoutines(ctx context.Context) ([]models.RoutineEntry, error)
}

// Status is the load state of the home page
type Status int

const (
	Loading Status = iota
	Loaded
	Empty
)

// State is the outcome of one load. Err is kept for logging; a failed load
// reads as Empty.
type State struct {
	Status   Status
	Routines []models.RoutineEntry
	Err      error
}

// Load fetches the user's routines and keeps the latest per time of day
func Load(ctx context.Context, be Backend) State {
	entries, err := be.ListRoutines(ctx)
	if err != nil {
		logger.Error("Failed to load routine", "error", err)
		return State{Status: Empty, Err: fmt.Errorf("loading routine: %w", err)}
	}
	latest := Latest(entries)
	if len(latest) == 0 {
		return State{Status: Empty}
	}
	return State{Status: Loaded, Routines: latest}
}

// Latest returns the most recent non-empty routine for each time of day,
// morning first. Ties on CreatedAt go to the later list position.
func Latest(entries []models.RoutineEntry) []models.RoutineEntry {
	var out []models.RoutineEntry
	for _, tod := range models.TimesOfDay {
		found := false
		var best models.RoutineEntry
		for _, e := range entries {
			if e.TimeOfDay != tod || len(e.Products) == 0 {
				continue
			}
			if !found || !e.CreatedAt.Before(best.CreatedAt) {
				best = e
				found = true
			}
		}
		if found {
			out = append(out, best.Clone())
		}
	}
	return out
}
