package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"pedidos-service/internal/features/shipping/domain"
	"pedidos-service/internal/features/shipping/ports"
)

var (
	// ErrInvalidCity is returned when the destination city id is unknown.
	ErrInvalidCity = errors.New("shipping city not found")
	// ErrConfigMissing is returned when no shipping configuration exists.
	// This is a server-side fault, not a user input problem.
	ErrConfigMissing = errors.New("shipping configuration missing")
)

// ShippingServiceImpl implements ports.ShippingService.
type ShippingServiceImpl struct {
	cities ports.CityRepository
	config ports.ConfigRepository
}

// NewShippingService creates a new ShippingServiceImpl.
func NewShippingService(cities ports.CityRepository, config ports.ConfigRepository) *ShippingServiceImpl {
	return &ShippingServiceImpl{
		cities: cities,
		config: config,
	}
}

// Quote computes the shipping cost. Store pickups are always free and are
// recorded against the origin city. National shipping without an explicit
// city falls back to the origin city rather than erroring.
func (s *ShippingServiceImpl) Quote(ctx context.Context, mode domain.ShippingMode, cityID *int64, weightKg decimal.Decimal) (domain.Quote, error) {
	origin, err := s.cities.OriginCityID(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("service: failed to resolve origin city: %w", err)
	}

	if mode == domain.ModeStorePickup {
		return domain.Quote{
			Mode:     mode,
			CityID:   origin,
			WeightKg: weightKg,
			Cost:     decimal.Zero.Round(2),
		}, nil
	}

	destination := origin
	if cityID != nil {
		destination = *cityID
	}

	city, err := s.cities.FindCity(ctx, destination)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("service: failed to load city: %w", err)
	}
	if city == nil {
		return domain.Quote{}, fmt.Errorf("%w: %d", ErrInvalidCity, destination)
	}

	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("service: failed to load shipping config: %w", err)
	}
	if cfg == nil {
		return domain.Quote{}, ErrConfigMissing
	}

	return domain.Quote{
		Mode:     mode,
		CityID:   city.ID,
		WeightKg: weightKg,
		Cost:     domain.CostFor(weightKg, *cfg, *city),
	}, nil
}
