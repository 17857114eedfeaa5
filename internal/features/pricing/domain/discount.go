package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind distinguishes flat-amount rules from percentage rules.
type DiscountKind string

const (
	// DiscountFixedAmount subtracts a flat value.
	DiscountFixedAmount DiscountKind = "fixed_amount"
	// DiscountPercentage subtracts a percentage of the affected subtotal.
	DiscountPercentage DiscountKind = "percentage"
)

// DiscountRule is a promotion configured by the store.
type DiscountRule struct {
	ID              int64
	Active          bool
	MinimumQuantity int
	// AppliesToAllProducts marks a global rule: it affects the whole basket
	// regardless of which products are in it.
	AppliesToAllProducts bool
	Kind                 DiscountKind
	Value                decimal.Decimal
	// ProductIDs scopes a specific rule to a product subset. Empty for
	// global rules.
	ProductIDs map[int64]struct{}
	// ValidFrom/ValidUntil bound the validity window. A nil bound is open.
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// EligibleAt reports whether the rule can fire for a basket of totalQty
// units at the given instant.
func (r DiscountRule) EligibleAt(now time.Time, totalQty int) bool {
	if !r.Active || r.MinimumQuantity > totalQty {
		return false
	}
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && now.After(*r.ValidUntil) {
		return false
	}
	return true
}

// AppliesTo reports whether a specific rule covers the given product.
func (r DiscountRule) AppliesTo(productVariantID int64) bool {
	_, ok := r.ProductIDs[productVariantID]
	return ok
}
