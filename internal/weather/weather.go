// Package weather resolves the current location, loads current conditions
// once per mount and renders them as a scrolling ticker.
package weather

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/julianstephens/bliss/internal/errors"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
)

// Display messages for the error state
const (
	MsgDenied      = "Location access denied."
	MsgUnsupported = "Geolocation not supported."
	MsgFailed      = "Failed to fetch weather"
	MsgLoading     = "Loading weather..."
)

// Backend is the subset of the API client weather needs
type Backend interface {
	WeatherByCoords(ctx context.Context, coords models.Coordinates) (models.WeatherSnapshot, error)
}

// Status is the load state of the weather widget
type Status int

const (
	Loading Status = iota
	Failed
	Loaded
)

// State is the outcome of one load
type State struct {
	Status   Status
	Snapshot models.WeatherSnapshot
	Err      error
}

// Load resolves the location and fetches conditions. It never retries.
func Load(ctx context.Context, loc Locator, be Backend) State {
	coords, err := loc.Locate(ctx)
	if err != nil {
		logger.Warn("Location unavailable", "error", err)
		return State{Status: Failed, Err: err}
	}

	snap, err := be.WeatherByCoords(ctx, coords)
	if err != nil {
		logger.Error("Failed to fetch weather", "lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		return State{Status: Failed, Err: fmt.Errorf("fetching weather: %w", err)}
	}
	return State{Status: Loaded, Snapshot: snap}
}

// Message returns the text shown for the state
func (s State) Message() string {
	switch s.Status {
	case Loading:
		return MsgLoading
	case Loaded:
		return TickerText(s.Snapshot)
	}
	switch {
	case errors.Is(s.Err, apperrors.ErrLocationDenied):
		return MsgDenied
	case errors.Is(s.Err, apperrors.ErrLocationUnsupported):
		return MsgUnsupported
	default:
		return MsgFailed
	}
}

var icons = []struct {
	keyword string
	icon    string
}{
	{"cloud", "☁️"},
	{"rain", "🌧️"},
	{"clear", "☀️"},
	{"snow", "❄️"},
	{"storm", "🌩️"},
}

// Icon picks an emoji for a condition description by keyword
func Icon(description string) string {
	if strings.TrimSpace(description) == "" {
		return "❓"
	}
	d := strings.ToLower(description)
	for _, i := range icons {
		if strings.Contains(d, i.keyword) {
			return i.icon
		}
	}
	return "🌤️"
}

// TickerText renders the scrolling line for a snapshot
func TickerText(s models.WeatherSnapshot) string {
	icon := Icon(s.Description)
	return fmt.Sprintf("%s City: %s  Temp: %s°C  Condition: %s %s",
		icon, s.City, formatTemp(s.TemperatureC), s.Description, icon)
}

func formatTemp(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
