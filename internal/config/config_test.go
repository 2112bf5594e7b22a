package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/bliss/internal/constants"
)

func TestManagerReadAppliesDefaults(t *testing.T) {
	input := `
user_id = "alice"

[api]
base_url = "http://example.test/api"
`
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if cfg.UserID != "alice" {
		t.Errorf("UserID = %q, want %q", cfg.UserID, "alice")
	}
	if cfg.API.BaseURL != "http://example.test/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != constants.DefaultAPITimeout {
		t.Errorf("Timeout = %v, want default %v", cfg.API.Timeout, constants.DefaultAPITimeout)
	}
	if cfg.Routine.PageSize != constants.DefaultRoutinePageSize {
		t.Errorf("PageSize = %d, want %d", cfg.Routine.PageSize, constants.DefaultRoutinePageSize)
	}
	if !cfg.Location.Enabled {
		t.Error("Location.Enabled should default to true")
	}
}

func TestManagerReadInvalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("user_id = [")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestManagerRoundTrip(t *testing.T) {
	lat, lon := 40.7, -74.0
	cfg := Default()
	cfg.UserID = "bob"
	cfg.API.Timeout = 5 * time.Second
	cfg.Routine.PageSize = 6
	cfg.Location.Latitude = &lat
	cfg.Location.Longitude = &lon

	m := &Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.UserID != "bob" || got.Routine.PageSize != 6 || got.API.Timeout != 5*time.Second {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Location.Latitude == nil || *got.Location.Latitude != lat {
		t.Errorf("Latitude = %v, want %v", got.Location.Latitude, lat)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(constants.EnvAPIURL, "")
	t.Setenv(constants.EnvUserID, "")
	t.Setenv(constants.EnvDebug, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != constants.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, constants.DefaultBaseURL)
	}
	if cfg.UserID != constants.DefaultUserID {
		t.Errorf("UserID = %q, want %q", cfg.UserID, constants.DefaultUserID)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Init(path, Default(), false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	t.Setenv(constants.EnvAPIURL, "http://override.test/api/")
	t.Setenv(constants.EnvUserID, "carol")
	t.Setenv(constants.EnvDebug, "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://override.test/api" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.UserID != "carol" {
		t.Errorf("UserID = %q, want %q", cfg.UserID, "carol")
	}
	if !cfg.Debug {
		t.Error("Debug should be enabled by BLISS_DEBUG")
	}
}

func TestLoadInvalidDebugEnv(t *testing.T) {
	t.Setenv(constants.EnvDebug, "sometimes")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for invalid BLISS_DEBUG")
	}
}

func TestLoadNormalizesPageSize(t *testing.T) {
	t.Setenv(constants.EnvAPIURL, "")
	t.Setenv(constants.EnvUserID, "")
	t.Setenv(constants.EnvDebug, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[routine]\npage_size = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Routine.PageSize != constants.DefaultRoutinePageSize {
		t.Errorf("PageSize = %d, want %d", cfg.Routine.PageSize, constants.DefaultRoutinePageSize)
	}
}

func TestInitRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := Init(path, Default(), false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := Init(path, Default(), false); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if err := Init(path, Default(), true); err != nil {
		t.Fatalf("Init(force) error = %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/bliss.db", "/tmp/bliss.db"},
		{"relative/path", "relative/path"},
		{"~/bliss/dev.db", filepath.Join(home, "bliss/dev.db")},
		{"~", home},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if err != nil {
				t.Fatalf("ExpandPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
