package domain

import "time"

// Slot is the outcome of assigning an order quantity to a capacity tier.
type Slot struct {
	// TierLabel names the tier that absorbed the order (cupo_6, cupo_15, cupo_30).
	TierLabel string `json:"tier"`
	// LeadDays is the production lead time in business days.
	LeadDays int `json:"lead_days"`
	// DeliveryDate is the estimated delivery date, never a weekend or holiday.
	DeliveryDate time.Time `json:"delivery_date"`
	// Usage is the per-tier usage after the assignment.
	Usage CapacityState `json:"usage"`
}
