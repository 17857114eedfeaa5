package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"pedidos-service/internal/features/shipping/domain"
)

// ShippingService defines the primary port for shipping quotes.
type ShippingService interface {
	// Quote computes the shipping cost for a mode, optional destination city
	// and total weight. A nil cityID on national shipping falls back to the
	// configured origin city.
	Quote(ctx context.Context, mode domain.ShippingMode, cityID *int64, weightKg decimal.Decimal) (domain.Quote, error)
}

// CityRepository defines the secondary port for destination cities.
type CityRepository interface {
	// FindCity returns the city or nil when the id is unknown.
	FindCity(ctx context.Context, id int64) (*domain.City, error)
	// OriginCityID returns the id of the city the store ships from.
	OriginCityID(ctx context.Context) (int64, error)
}

// ConfigRepository defines the secondary port for the shipping configuration.
type ConfigRepository interface {
	// GetConfig returns the store-wide shipping configuration, or nil when
	// none has been set up.
	GetConfig(ctx context.Context) (*domain.Config, error)
}
