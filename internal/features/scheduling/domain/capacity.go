package domain

import (
	"errors"
	"fmt"
)

const (
	// MinOrderQuantity is the smallest unit count a slot can be requested for.
	MinOrderQuantity = 1
	// MaxOrderQuantity is the largest unit count the workshop accepts per order.
	MaxOrderQuantity = 30
)

var (
	// ErrInvalidQuantity is returned when the requested quantity is outside [1, 30].
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 30 garments")
	// ErrCapacityExhausted is returned when no tier has room left today.
	ErrCapacityExhausted = errors.New("all daily capacity tiers are full")
)

// Tier is a daily production bucket: orders up to Cap units are promised
// LeadDays business days of production time.
type Tier struct {
	Label    string
	Cap      int
	LeadDays int
}

// Tiers lists the daily capacity tiers in assignment priority order.
var Tiers = []Tier{
	{Label: "cupo_6", Cap: 6, LeadDays: 3},
	{Label: "cupo_15", Cap: 15, LeadDays: 6},
	{Label: "cupo_30", Cap: 30, LeadDays: 12},
}

// CapacityState tracks how many units each tier has consumed for one
// calendar day. The zero value is a fresh, empty day.
type CapacityState struct {
	Cupo6  int `json:"cupo_6"`
	Cupo15 int `json:"cupo_15"`
	Cupo30 int `json:"cupo_30"`
}

func (s *CapacityState) used(label string) *int {
	switch label {
	case "cupo_6":
		return &s.Cupo6
	case "cupo_15":
		return &s.Cupo15
	default:
		return &s.Cupo30
	}
}

// Assign places qty units into the first tier that can still hold them and
// increments that tier's usage. It reports the winning tier, or an
// ExhaustedError when no tier has room. Quantities outside [1, 30] are
// rejected with ErrInvalidQuantity.
func (s *CapacityState) Assign(qty int) (Tier, error) {
	if qty < MinOrderQuantity || qty > MaxOrderQuantity {
		return Tier{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}

	for _, tier := range Tiers {
		used := s.used(tier.Label)
		if qty <= tier.Cap && *used+qty <= tier.Cap {
			*used += qty
			return tier, nil
		}
	}

	return Tier{}, &ExhaustedError{Usage: *s}
}

// ExhaustedError carries the per-tier usage snapshot at the moment all
// tiers were full. It matches ErrCapacityExhausted under errors.Is.
type ExhaustedError struct {
	Usage CapacityState
}

func (e *ExhaustedError) Error() string {
	return ErrCapacityExhausted.Error()
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrCapacityExhausted
}
