package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay selects which routine a product list belongs to
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Night   TimeOfDay = "night"
)

// TimesOfDay lists every TimeOfDay in display order
var TimesOfDay = []TimeOfDay{Morning, Night}

// ParseTimeOfDay parses s case-insensitively
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch TimeOfDay(strings.ToLower(strings.TrimSpace(s))) {
	case Morning:
		return Morning, nil
	case Night:
		return Night, nil
	default:
		return "", fmt.Errorf("invalid time of day %q: must be morning or night", s)
	}
}

// Other returns the opposite TimeOfDay
func (t TimeOfDay) Other() TimeOfDay {
	if t == Night {
		return Morning
	}
	return Night
}

// Title returns the display form, e.g. "Morning"
func (t TimeOfDay) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// RoutineEntry is a saved product list for one time of day
type RoutineEntry struct {
	ID        string
	UserID    string
	TimeOfDay TimeOfDay
	Products  []string
	CreatedAt time.Time
}

// Clone returns a copy that shares no slice memory with r
func (r RoutineEntry) Clone() RoutineEntry {
	c := r
	c.Products = append([]string(nil), r.Products...)
	return c
}
