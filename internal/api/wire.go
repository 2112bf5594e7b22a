package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
)

// RoutineRecord is the wire form of a routine entry
type RoutineRecord struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	TimeOfDay string    `json:"timeOfDay"`
	Products  []string  `json:"products"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// TrackerRecord is the wire form of a tracker entry. Progress travels as
// "<magnitude> <unit>".
type TrackerRecord struct {
	ID         string    `json:"_id,omitempty"`
	Mood       string    `json:"mood"`
	Condition  string    `json:"condition"`
	Products   string    `json:"products"`
	Progress   string    `json:"progress"`
	BeautyTips string    `json:"beautyTips"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

type SuggestionRequest struct {
	Time string `json:"time"`
}

type SuggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

type TipRequest struct {
	Mood      string `json:"mood"`
	Condition string `json:"condition"`
	Products  string `json:"products"`
	Progress  string `json:"progress"`
}

type TipResponse struct {
	BeautyTips string `json:"beautyTips"`
}

type TryOnRequest struct {
	Image string `json:"image"`
}

type TryOnResponse struct {
	Message string `json:"message"`
}

// WeatherResponse mirrors the OpenWeather current conditions payload
type WeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []WeatherCondition `json:"weather"`
}

type WeatherCondition struct {
	Description string `json:"description"`
}

// ErrorResponse is the body of a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormatProgress renders p in wire form
func FormatProgress(p models.Progress) string {
	return p.Normalized().String()
}

// ParseProgress parses the wire form "<magnitude> <unit>"
func ParseProgress(s string) (models.Progress, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return models.Progress{}, fmt.Errorf("invalid progress %q: want \"<n> <unit>\"", s)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return models.Progress{}, fmt.Errorf("invalid progress magnitude %q", fields[0])
	}
	unit, err := models.ParseTimeUnit(fields[1])
	if err != nil {
		return models.Progress{}, err
	}
	return models.Progress{Magnitude: n, Unit: unit}, nil
}

// progressOrDefault falls back to the form default for values that were not
// written by this client.
func progressOrDefault(s string) models.Progress {
	p, err := ParseProgress(s)
	if err != nil {
		logger.Warn("Unparseable progress, using default", "progress", s, "error", err)
		return models.DefaultProgress()
	}
	return p
}

// RoutineFromModel converts a routine entry to wire form
func RoutineFromModel(r models.RoutineEntry) RoutineRecord {
	products := r.Products
	if products == nil {
		products = []string{}
	}
	return RoutineRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		TimeOfDay: string(r.TimeOfDay),
		Products:  products,
		CreatedAt: r.CreatedAt,
	}
}

// Model converts the record to a routine entry
func (r RoutineRecord) Model() models.RoutineEntry {
	return models.RoutineEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		TimeOfDay: models.TimeOfDay(strings.ToLower(r.TimeOfDay)),
		Products:  append([]string(nil), r.Products...),
		CreatedAt: r.CreatedAt,
	}
}

// TrackerFromModel converts a tracker entry to wire form
func TrackerFromModel(e models.TrackerEntry) TrackerRecord {
	return TrackerRecord{
		ID:         e.ID,
		Mood:       e.Mood,
		Condition:  e.Condition,
		Products:   e.Products,
		Progress:   FormatProgress(e.Progress),
		BeautyTips: e.BeautyTips,
		CreatedAt:  e.CreatedAt,
	}
}

// Model converts the record to a tracker entry
func (r TrackerRecord) Model() models.TrackerEntry {
	return models.TrackerEntry{
		ID:         r.ID,
		Mood:       r.Mood,
		Condition:  r.Condition,
		Products:   r.Products,
		Progress:   progressOrDefault(r.Progress),
		BeautyTips: r.BeautyTips,
		CreatedAt:  r.CreatedAt,
	}
}

// TipRequestFromModel converts a tip request to wire form
func TipRequestFromModel(req models.TipRequest) TipRequest {
	return TipRequest{
		Mood:      req.Mood,
		Condition: req.Condition,
		Products:  req.Products,
		Progress:  FormatProgress(req.Progress),
	}
}

// Model converts the payload to a weather snapshot
func (w WeatherResponse) Model() models.WeatherSnapshot {
	snap := models.WeatherSnapshot{
		City:         w.Name,
		TemperatureC: w.Main.Temp,
	}
	if len(w.Weather) > 0 {
		snap.Description = w.Weather[0].Description
	}
	return snap
}
