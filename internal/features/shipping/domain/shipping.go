package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ShippingMode is how the customer receives the order. The literal values
// match what the storefront sends.
type ShippingMode string

const (
	// ModeNationalShipping is a courier delivery to an Ecuadorian city.
	ModeNationalShipping ShippingMode = "Envío Nacional"
	// ModeStorePickup means the customer collects the order at the store.
	ModeStorePickup ShippingMode = "Retiro tienda Física"
)

// ErrInvalidShippingMode is returned for unrecognized mode strings.
var ErrInvalidShippingMode = errors.New("invalid shipping mode")

// ParseShippingMode normalizes and validates a raw mode string. Surrounding
// whitespace is tolerated because some clients send it.
func ParseShippingMode(raw string) (ShippingMode, error) {
	switch ShippingMode(strings.TrimSpace(raw)) {
	case ModeNationalShipping:
		return ModeNationalShipping, nil
	case ModeStorePickup:
		return ModeStorePickup, nil
	default:
		return "", ErrInvalidShippingMode
	}
}

// City is a shipping destination with its flat courier rate.
type City struct {
	ID       int64
	Name     string
	FlatRate decimal.Decimal
}

// Config is the store-wide shipping configuration.
type Config struct {
	PerKgRate decimal.Decimal
}

// Quote is a computed shipping cost for a given mode and weight.
type Quote struct {
	Mode ShippingMode `json:"mode"`
	// CityID is the destination city, or the origin city for pickups.
	CityID   int64           `json:"city_id"`
	WeightKg decimal.Decimal `json:"weight_kg"`
	Cost     decimal.Decimal `json:"cost"`
}

// CostFor computes the national-shipping cost for a weight against a city
// rate: weight × per-kg rate + the city's flat rate, rounded to 2 decimals.
func CostFor(weightKg decimal.Decimal, cfg Config, city City) decimal.Decimal {
	return weightKg.Mul(cfg.PerKgRate).Add(city.FlatRate).Round(2)
}
