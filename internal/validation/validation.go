package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/bliss/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingID          ConflictType = "missing_id"
	ConflictDuplicateID        ConflictType = "duplicate_id"
	ConflictInvalidTimeOfDay   ConflictType = "invalid_time_of_day"
	ConflictEmptyProducts      ConflictType = "empty_products"
	ConflictBlankProduct       ConflictType = "blank_product"
	ConflictDuplicateProduct   ConflictType = "duplicate_product"
	ConflictInvalidProgress    ConflictType = "invalid_progress"
	ConflictInvalidCoordinates ConflictType = "invalid_coordinates"
)

// Conflict represents a detected problem in a routine, tracker entry or location
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Product names or fields involved
	IDs         []string // IDs of the records involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Has reports whether a conflict of type ct was found
func (vr *ValidationResult) Has(ct ConflictType) bool {
	for _, c := range vr.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Err joins the conflict descriptions into one error, or returns nil
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	errs := make([]error, len(vr.Conflicts))
	for i, c := range vr.Conflicts {
		errs[i] = errors.New(c.Description)
	}
	return errors.Join(errs...)
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator validates routines, tracker entries and coordinates
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateRoutine checks a single routine record
func (v *Validator) ValidateRoutine(r models.RoutineEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if strings.TrimSpace(r.ID) == "" {
		result.add(Conflict{
			Type:        ConflictMissingID,
			Description: "Routine is missing an id",
		})
	}

	if _, err := models.ParseTimeOfDay(string(r.TimeOfDay)); err != nil {
		result.add(Conflict{
			Type:        ConflictInvalidTimeOfDay,
			Description: fmt.Sprintf("Routine %q has invalid time of day: %q", r.ID, r.TimeOfDay),
			IDs:         []string{r.ID},
		})
	}

	if len(r.Products) == 0 {
		result.add(Conflict{
			Type:        ConflictEmptyProducts,
			Description: fmt.Sprintf("Routine %q has no products", r.ID),
			IDs:         []string{r.ID},
		})
	}

	seen := make(map[string]int)
	for i, p := range r.Products {
		name := strings.TrimSpace(p)
		if name == "" {
			result.add(Conflict{
				Type:        ConflictBlankProduct,
				Description: fmt.Sprintf("Routine %q has a blank product at position %d", r.ID, i+1),
				IDs:         []string{r.ID},
			})
			continue
		}
		seen[strings.ToLower(name)]++
		if seen[strings.ToLower(name)] == 2 {
			result.add(Conflict{
				Type:        ConflictDuplicateProduct,
				Description: fmt.Sprintf("Routine %q lists %q more than once", r.ID, name),
				Items:       []string{name},
				IDs:         []string{r.ID},
			})
		}
	}

	return result
}

// ValidateRoutines checks every routine and looks for repeated ids
func (v *Validator) ValidateRoutines(routines []models.RoutineEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]int)
	for _, r := range routines {
		rr := v.ValidateRoutine(r)
		result.Conflicts = append(result.Conflicts, rr.Conflicts...)
		if r.ID != "" {
			byID[r.ID]++
		}
	}

	var dups []string
	for id, n := range byID {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	for _, id := range dups {
		result.add(Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("Routine id %q is used %d times", id, byID[id]),
			IDs:         []string{id},
		})
	}

	return result
}

// ValidateTrackerEntry checks the structured fields of a tracker entry. Mood,
// condition and product are free text and may be empty.
func (v *Validator) ValidateTrackerEntry(e models.TrackerEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if e.Progress.Magnitude < 1 {
		result.add(Conflict{
			Type:        ConflictInvalidProgress,
			Description: fmt.Sprintf("Progress magnitude must be at least 1, got %d", e.Progress.Magnitude),
			Items:       []string{"progress"},
			IDs:         nonEmpty(e.ID),
		})
	}
	if _, err := models.ParseTimeUnit(string(e.Progress.Unit)); err != nil {
		result.add(Conflict{
			Type:        ConflictInvalidProgress,
			Description: fmt.Sprintf("Progress unit %q is not days, weeks or months", e.Progress.Unit),
			Items:       []string{"progress"},
			IDs:         nonEmpty(e.ID),
		})
	}

	return result
}

// ValidateCoordinates checks latitude and longitude ranges
func (v *Validator) ValidateCoordinates(c models.Coordinates) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if c.Latitude < -90 || c.Latitude > 90 {
		result.add(Conflict{
			Type:        ConflictInvalidCoordinates,
			Description: fmt.Sprintf("Latitude %v is outside [-90, 90]", c.Latitude),
			Items:       []string{"latitude"},
		})
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		result.add(Conflict{
			Type:        ConflictInvalidCoordinates,
			Description: fmt.Sprintf("Longitude %v is outside [-180, 180]", c.Longitude),
			Items:       []string{"longitude"},
		})
	}

	return result
}

func nonEmpty(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}
