package weather

import (
	"context"

	"github.com/julianstephens/bliss/internal/config"
	apperrors "github.com/julianstephens/bliss/internal/errors"
	"github.com/julianstephens/bliss/internal/models"
)

// Locator resolves the device location
type Locator interface {
	Locate(ctx context.Context) (models.Coordinates, error)
}

// ConfigLocator reads the location from the [location] config section
type ConfigLocator struct {
	cfg config.LocationConfig
}

func NewConfigLocator(cfg config.LocationConfig) ConfigLocator {
	return ConfigLocator{cfg: cfg}
}

// Locate returns ErrLocationDenied when location is disabled and
// ErrLocationUnsupported when no coordinates are configured.
func (l ConfigLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	if !l.cfg.Enabled {
		return models.Coordinates{}, apperrors.ErrLocationDenied
	}
	if l.cfg.Latitude == nil || l.cfg.Longitude == nil {
		return models.Coordinates{}, apperrors.ErrLocationUnsupported
	}
	return models.Coordinates{Latitude: *l.cfg.Latitude, Longitude: *l.cfg.Longitude}, nil
}

// StaticLocator always resolves to the same coordinates
type StaticLocator models.Coordinates

func (l StaticLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	return models.Coordinates(l), ctx.Err()
}
