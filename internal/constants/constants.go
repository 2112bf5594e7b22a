package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName           = "bliss"
	AppTitle          = "Beauty Bliss"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/bliss/config.toml"
	LogFileName       = "bliss.log"

	// Backend defaults
	DefaultBaseURL    = "http://localhost:5000/api"
	DefaultUserID     = "user123"
	DefaultAPITimeout = 30 * time.Second

	// Environment overrides
	EnvAPIURL = "BLISS_API_URL"
	EnvUserID = "BLISS_USER_ID"
	EnvDebug  = "BLISS_DEBUG"

	// Stand-in backend defaults
	DefaultServerAddr = "127.0.0.1:5000"
	DefaultServerDB   = "~/.config/bliss/devserver.db"
	DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultServerBackups is how many database snapshots `bliss serve` keeps
	DefaultServerBackups = 7

	// DateFormat is the date format used when rendering records (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// FallbackTips is stored as an entry's tips when tip generation fails
	FallbackTips = "Could not generate tips at the moment."

	// TryOnPlaceholder is sent in place of a captured image
	TryOnPlaceholder = "base64ImageOrUrl"

	// IdempotencyHeader carries a per-create key so retried creates are not duplicated
	IdempotencyHeader = "Idempotency-Key"

	// Routine constants
	DefaultRoutinePageSize = 4

	// Tracker constants
	MinProgress     = 1
	OtherProduct    = "Other"
	DefaultTimeUnit = "days"

	// UI timings
	ToastDuration     = 4 * time.Second
	TipBannerDuration = 10 * time.Second
	MarqueeInterval   = 150 * time.Millisecond
)

// Session States
const (
	StateHome SessionState = iota
	StateTryOn
	StateRoutine
	StateTracker
)

// Tabs lists the top-level pages in display order.
var Tabs = []SessionState{StateHome, StateTryOn, StateRoutine, StateTracker}

func (s SessionState) String() string {
	switch s {
	case StateHome:
		return "Home"
	case StateTryOn:
		return "Try-On"
	case StateRoutine:
		return "Routine"
	case StateTracker:
		return "Tracker"
	default:
		return "Unknown"
	}
}
