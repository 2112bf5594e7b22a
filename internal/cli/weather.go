package cli

import (
	"context"
	"errors"

	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/validation"
	"github.com/julianstephens/bliss/internal/weather"
)

type WeatherCmd struct {
	Lat *float64 `help:"Latitude. Overrides the configured location."`
	Lon *float64 `help:"Longitude. Overrides the configured location."`
}

func (c *WeatherCmd) locator(ctx *Context) (weather.Locator, error) {
	if c.Lat == nil && c.Lon == nil {
		return weather.NewConfigLocator(ctx.Config.Location), nil
	}
	if c.Lat == nil || c.Lon == nil {
		return nil, errors.New("--lat and --lon must be given together")
	}
	coords := models.Coordinates{Latitude: *c.Lat, Longitude: *c.Lon}
	result := validation.New().ValidateCoordinates(coords)
	if err := result.Err(); err != nil {
		return nil, err
	}
	return weather.StaticLocator(coords), nil
}

func (c *WeatherCmd) Run(ctx *Context) error {
	loc, err := c.locator(ctx)
	if err != nil {
		return err
	}
	state := weather.Load(context.Background(), loc, ctx.Client)
	ctx.println(state.Message())
	return nil
}
