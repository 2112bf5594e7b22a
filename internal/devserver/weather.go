package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/bliss/internal/api"
	"github.com/julianstephens/bliss/internal/models"
)

// WeatherProxy fetches current conditions from Open-Meteo and reshapes them
// into the OpenWeather payload the client expects.
type WeatherProxy struct {
	client  *http.Client
	baseURL string
}

// NewWeatherProxy creates a proxy for the Open-Meteo forecast endpoint at
// baseURL.
func NewWeatherProxy(baseURL string) *WeatherProxy {
	return &WeatherProxy{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Current returns conditions at coords
func (p *WeatherProxy) Current(ctx context.Context, coords models.Coordinates) (api.WeatherResponse, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("timezone", "auto")
	q.Set("temperature_unit", "celsius")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return api.WeatherResponse{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return api.WeatherResponse{}, fmt.Errorf("weather API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return api.WeatherResponse{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return api.WeatherResponse{}, fmt.Errorf("decode weather response: %w", err)
	}

	var out api.WeatherResponse
	out.Name = placeName(fr.Timezone, coords)
	out.Main.Temp = fr.Current.Temperature
	out.Weather = []api.WeatherCondition{{Description: WMODescription(fr.Current.WeatherCode)}}
	return out, nil
}

// placeName derives a city from an IANA zone such as "Europe/Paris". Open-Meteo
// has no place names, so coordinates are used when the zone is not a city.
func placeName(zone string, coords models.Coordinates) string {
	if i := strings.LastIndex(zone, "/"); i >= 0 && i < len(zone)-1 {
		return strings.ReplaceAll(zone[i+1:], "_", " ")
	}
	return fmt.Sprintf("%.2f, %.2f", coords.Latitude, coords.Longitude)
}

// WMODescription maps a WMO weather code to an OpenWeather style description
func WMODescription(code int) string {
	switch code {
	case 0:
		return "clear sky"
	case 1:
		return "mainly clear"
	case 2:
		return "partly cloudy"
	case 3:
		return "overcast clouds"
	case 45, 48:
		return "fog"
	case 51, 53, 55:
		return "drizzle"
	case 56, 57:
		return "freezing drizzle"
	case 61:
		return "light rain"
	case 63:
		return "moderate rain"
	case 65:
		return "heavy rain"
	case 66, 67:
		return "freezing rain"
	case 71, 73:
		return "snow"
	case 75:
		return "heavy snow"
	case 77:
		return "snow grains"
	case 80, 81:
		return "rain showers"
	case 82:
		return "violent rain showers"
	case 85, 86:
		return "snow showers"
	case 95:
		return "thunderstorm"
	case 96, 99:
		return "thunderstorm with hail"
	default:
		return "unknown"
	}
}

var errMissingCoords = errors.New("lat and lon are required")

func parseCoords(r *http.Request) (models.Coordinates, error) {
	q := r.URL.Query()
	latS, lonS := q.Get("lat"), q.Get("lon")
	if latS == "" || lonS == "" {
		return models.Coordinates{}, errMissingCoords
	}
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid lat %q", latS)
	}
	lon, err := strconv.ParseFloat(lonS, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid lon %q", lonS)
	}
	return models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
