package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/bliss/internal/constants"
)

// Config represents the main configuration for bliss.
type Config struct {
	UserID   string         `toml:"user_id"`
	Debug    bool           `toml:"debug"`
	API      APIConfig      `toml:"api"`
	Routine  RoutineConfig  `toml:"routine"`
	Location LocationConfig `toml:"location"`
	Server   ServerConfig   `toml:"server"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"` // 0 leaves the transport default in place
}

// RoutineConfig holds routine builder settings.
type RoutineConfig struct {
	PageSize int `toml:"page_size"`
}

// LocationConfig is the source of the device location. Disabled means the
// user has denied location access; enabled without coordinates means no
// location source is available.
type LocationConfig struct {
	Enabled   bool     `toml:"enabled"`
	Latitude  *float64 `toml:"latitude,omitempty"`
	Longitude *float64 `toml:"longitude,omitempty"`
}

// ServerConfig configures the stand-in backend run by `bliss serve`.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	DBPath     string `toml:"db_path"`
	WeatherURL string `toml:"weather_url"`
	// Backups is how many database snapshots to keep; 0 means the default
	Backups int `toml:"backups"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		UserID: constants.DefaultUserID,
		API: APIConfig{
			BaseURL: constants.DefaultBaseURL,
			Timeout: constants.DefaultAPITimeout,
		},
		Routine: RoutineConfig{
			PageSize: constants.DefaultRoutinePageSize,
		},
		Location: LocationConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr:       constants.DefaultServerAddr,
			DBPath:     constants.DefaultServerDB,
			WeatherURL: constants.DefaultWeatherURL,
			Backups:    constants.DefaultServerBackups,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys absent from the input
// keep their default values.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config file at path, falling back to defaults when it does
// not exist, then applies environment overrides and normalizes the result.
func Load(path string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// ApplyEnv overlays the BLISS_* environment variables onto cfg.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(constants.EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(constants.EnvUserID); v != "" {
		c.UserID = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", constants.EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = constants.DefaultBaseURL
	}
	if strings.TrimSpace(c.UserID) == "" {
		c.UserID = constants.DefaultUserID
	}
	if c.API.Timeout < 0 {
		c.API.Timeout = 0
	}
	if c.Routine.PageSize < 1 {
		c.Routine.PageSize = constants.DefaultRoutinePageSize
	}
	if c.Server.Addr == "" {
		c.Server.Addr = constants.DefaultServerAddr
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = constants.DefaultServerDB
	}
	if c.Server.WeatherURL == "" {
		c.Server.WeatherURL = constants.DefaultWeatherURL
	}
	if c.Server.Backups < 1 {
		c.Server.Backups = constants.DefaultServerBackups
	}
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. It refuses to overwrite an
// existing file unless force is set.
func Init(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
