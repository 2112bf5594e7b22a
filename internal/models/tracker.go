package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeUnit is the unit of a Progress duration
type TimeUnit string

const (
	Days   TimeUnit = "days"
	Weeks  TimeUnit = "weeks"
	Months TimeUnit = "months"
)

// TimeUnits lists every TimeUnit in display order
var TimeUnits = []TimeUnit{Days, Weeks, Months}

// ParseTimeUnit parses s case-insensitively
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch TimeUnit(strings.ToLower(strings.TrimSpace(s))) {
	case Days:
		return Days, nil
	case Weeks:
		return Weeks, nil
	case Months:
		return Months, nil
	default:
		return "", fmt.Errorf("invalid time unit %q: must be days, weeks or months", s)
	}
}

// Progress is how long a product has been in use
type Progress struct {
	Magnitude int
	Unit      TimeUnit
}

// DefaultProgress is the form default: 1 days
func DefaultProgress() Progress {
	return Progress{Magnitude: 1, Unit: Days}
}

// Normalized clamps the magnitude to at least 1 and fills a missing unit
func (p Progress) Normalized() Progress {
	if p.Magnitude < 1 {
		p.Magnitude = 1
	}
	if p.Unit == "" {
		p.Unit = Days
	}
	return p
}

// String renders "<magnitude> <unit>", e.g. "2 weeks"
func (p Progress) String() string {
	return fmt.Sprintf("%d %s", p.Magnitude, p.Unit)
}

// TrackerEntry is one saved progress record
type TrackerEntry struct {
	ID         string
	Mood       string
	Condition  string
	Products   string
	Progress   Progress
	BeautyTips string
	CreatedAt  time.Time
}

// TipRequest is the input to tip generation
type TipRequest struct {
	Mood      string
	Condition string
	Products  string
	Progress  Progress
}
