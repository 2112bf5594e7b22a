package weather

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/julianstephens/bliss/internal/config"
	apperrors "github.com/julianstephens/bliss/internal/errors"
	"github.com/julianstephens/bliss/internal/models"
)

type fakeBackend struct {
	snap   models.WeatherSnapshot
	err    error
	coords []models.Coordinates
}

func (f *fakeBackend) WeatherByCoords(ctx context.Context, c models.Coordinates) (models.WeatherSnapshot, error) {
	f.coords = append(f.coords, c)
	return f.snap, f.err
}

func ptr(f float64) *float64 { return &f }

func TestConfigLocator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LocationConfig
		wantErr error
	}{
		{"disabled", config.LocationConfig{Enabled: false, Latitude: ptr(1), Longitude: ptr(2)}, apperrors.ErrLocationDenied},
		{"no coordinates", config.LocationConfig{Enabled: true}, apperrors.ErrLocationUnsupported},
		{"missing longitude", config.LocationConfig{Enabled: true, Latitude: ptr(1)}, apperrors.ErrLocationUnsupported},
		{"configured", config.LocationConfig{Enabled: true, Latitude: ptr(51.5), Longitude: ptr(-0.12)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConfigLocator(tt.cfg).Locate(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Locate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (c.Latitude != 51.5 || c.Longitude != -0.12) {
				t.Errorf("Locate() = %+v", c)
			}
		})
	}
}

func TestLoadStates(t *testing.T) {
	snap := models.WeatherSnapshot{City: "London", TemperatureC: 12.5, Description: "light rain"}

	tests := []struct {
		name      string
		loc       Locator
		be        *fakeBackend
		status    Status
		message   string
		wantCalls int
	}{
		{
			name:      "denied",
			loc:       NewConfigLocator(config.LocationConfig{Enabled: false}),
			be:        &fakeBackend{},
			status:    Failed,
			message:   MsgDenied,
			wantCalls: 0,
		},
		{
			name:      "unsupported",
			loc:       NewConfigLocator(config.LocationConfig{Enabled: true}),
			be:        &fakeBackend{},
			status:    Failed,
			message:   MsgUnsupported,
			wantCalls: 0,
		},
		{
			name:      "api failure",
			loc:       StaticLocator{Latitude: 1, Longitude: 2},
			be:        &fakeBackend{err: apperrors.ErrNetwork},
			status:    Failed,
			message:   MsgFailed,
			wantCalls: 1,
		},
		{
			name:      "loaded",
			loc:       StaticLocator{Latitude: 1, Longitude: 2},
			be:        &fakeBackend{snap: snap},
			status:    Loaded,
			message:   "🌧️ City: London  Temp: 12.5°C  Condition: light rain 🌧️",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Load(context.Background(), tt.loc, tt.be)
			if st.Status != tt.status {
				t.Errorf("Status = %v, want %v", st.Status, tt.status)
			}
			if got := st.Message(); got != tt.message {
				t.Errorf("Message() = %q, want %q", got, tt.message)
			}
			if len(tt.be.coords) != tt.wantCalls {
				t.Errorf("backend calls = %d, want %d", len(tt.be.coords), tt.wantCalls)
			}
		})
	}

	if (State{}).Message() != MsgLoading {
		t.Error("zero State should read as loading")
	}
}

func TestIcon(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"overcast clouds", "☁️"},
		{"Light Rain", "🌧️"},
		{"clear sky", "☀️"},
		{"snow", "❄️"},
		{"thunderstorm", "🌩️"},
		{"mist", "🌤️"},
		{"", "❓"},
	}
	for _, tt := range tests {
		if got := Icon(tt.desc); got != tt.want {
			t.Errorf("Icon(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestTickerTextWholeDegrees(t *testing.T) {
	got := TickerText(models.WeatherSnapshot{City: "Oslo", TemperatureC: -3, Description: "snow"})
	want := "❄️ City: Oslo  Temp: -3°C  Condition: snow ❄️"
	if got != want {
		t.Errorf("TickerText() = %q, want %q", got, want)
	}
}

func TestMarqueeScrollsAndWraps(t *testing.T) {
	m := NewMarquee("abc")
	if got := m.View(3); got != "abc" {
		t.Errorf("View = %q, want %q", got, "abc")
	}
	m.Tick()
	if got := m.View(3); got != "bc " {
		t.Errorf("after tick View = %q, want %q", got, "bc ")
	}

	cycle := len("abc") + len(marqueeGap)
	for i := 1; i < cycle; i++ {
		m.Tick()
	}
	if m.Offset() != 0 {
		t.Errorf("Offset after full cycle = %d, want 0", m.Offset())
	}
}

func TestMarqueeFixedWidth(t *testing.T) {
	m := NewMarquee(TickerText(models.WeatherSnapshot{City: "Tokyo", TemperatureC: 25, Description: "clear sky"}))
	for i := 0; i < 80; i++ {
		view := m.View(20)
		if w := runewidth.StringWidth(view); w != 20 {
			t.Fatalf("tick %d: width = %d, want 20 (%q)", i, w, view)
		}
		m.Tick()
	}
}

func TestMarqueeEmpty(t *testing.T) {
	m := NewMarquee("")
	m.Tick()
	if got := m.View(4); got != strings.Repeat(" ", 4) {
		t.Errorf("View = %q", got)
	}
	if m.View(0) != "" {
		t.Error("zero width should render nothing")
	}
}
