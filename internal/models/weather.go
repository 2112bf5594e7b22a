package models

// Coordinates is a resolved device location
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// WeatherSnapshot is the current conditions for a location
type WeatherSnapshot struct {
	City         string
	TemperatureC float64
	Description  string
}
