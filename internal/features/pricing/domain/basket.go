package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyBasket is returned when a basket has no line items.
	ErrEmptyBasket = errors.New("basket has no items")
	// ErrInvalidLineQuantity is returned when a line item quantity is below 1.
	ErrInvalidLineQuantity = errors.New("line item quantity must be at least 1")
)

// BasketItem is one requested line: a product variant and how many units.
type BasketItem struct {
	ProductVariantID int64 `json:"product_variant_id"`
	SizeID           int64 `json:"size_id"`
	Quantity         int   `json:"quantity"`
}

// ProductVariant is the catalog record a basket line resolves to.
type ProductVariant struct {
	ID        int64
	Name      string
	BasePrice decimal.Decimal
	// WeightKg is nil when the catalog has no weight for the variant.
	WeightKg *decimal.Decimal
}

// ResolvedItem pairs a basket line with its catalog variant.
type ResolvedItem struct {
	Variant  ProductVariant
	SizeID   int64
	Quantity int
}

// PricedLineItem is the pricing outcome for one basket line.
type PricedLineItem struct {
	ProductVariantID int64           `json:"product_variant_id"`
	ProductName      string          `json:"product_name"`
	SizeID           int64           `json:"size_id"`
	Quantity         int             `json:"quantity"`
	BasePrice        decimal.Decimal `json:"base_price"`
	OriginalSubtotal decimal.Decimal `json:"original_subtotal"`
	SpecificDiscount decimal.Decimal `json:"specific_discount"`
	GlobalDiscount   decimal.Decimal `json:"global_discount"`
	TotalDiscount    decimal.Decimal `json:"total_discount"`
	FinalUnitPrice   decimal.Decimal `json:"final_unit_price"`
	FinalSubtotal    decimal.Decimal `json:"final_subtotal"`
}

// BasketPricing aggregates the priced lines of one basket.
type BasketPricing struct {
	Items         []PricedLineItem `json:"items"`
	TotalQuantity int              `json:"total_quantity"`
	GrandSubtotal decimal.Decimal  `json:"grand_subtotal"`
	DiscountTotal decimal.Decimal  `json:"discount_total"`
}

var hundred = decimal.NewFromInt(100)

// PriceBasket runs the discount engine over resolved basket lines.
//
// Specific rules add up per line: fixed amounts count once per matching rule
// (a flat per-line coupon, deliberately not multiplied by quantity), while
// percentages apply to the line subtotal. Global rules form one pool (fixed
// amounts multiplied by the total unit count, percentages applied to the
// grand subtotal) which is then distributed across lines proportionally to
// each line's share of the grand subtotal, rounding each share to 2 decimals
// independently.
func PriceBasket(items []ResolvedItem, rules []DiscountRule, now time.Time) (BasketPricing, error) {
	if len(items) == 0 {
		return BasketPricing{}, ErrEmptyBasket
	}

	totalQty := 0
	for _, item := range items {
		if item.Quantity < 1 {
			return BasketPricing{}, fmt.Errorf("%w: product %d", ErrInvalidLineQuantity, item.Variant.ID)
		}
		totalQty += item.Quantity
	}

	var globalRules, specificRules []DiscountRule
	for _, rule := range rules {
		if !rule.EligibleAt(now, totalQty) {
			continue
		}
		if rule.AppliesToAllProducts {
			globalRules = append(globalRules, rule)
		} else {
			specificRules = append(specificRules, rule)
		}
	}

	priced := make([]PricedLineItem, 0, len(items))
	grandSubtotal := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal := item.Variant.BasePrice.Mul(qty)
		grandSubtotal = grandSubtotal.Add(subtotal)

		specific := decimal.Zero
		for _, rule := range specificRules {
			if !rule.AppliesTo(item.Variant.ID) {
				continue
			}
			switch rule.Kind {
			case DiscountFixedAmount:
				specific = specific.Add(rule.Value)
			case DiscountPercentage:
				specific = specific.Add(rule.Value.Div(hundred).Mul(subtotal))
			}
		}

		priced = append(priced, PricedLineItem{
			ProductVariantID: item.Variant.ID,
			ProductName:      item.Variant.Name,
			SizeID:           item.SizeID,
			Quantity:         item.Quantity,
			BasePrice:        item.Variant.BasePrice,
			OriginalSubtotal: subtotal,
			SpecificDiscount: specific.Round(2),
		})
	}

	globalPool := decimal.Zero
	for _, rule := range globalRules {
		switch rule.Kind {
		case DiscountFixedAmount:
			globalPool = globalPool.Add(rule.Value.Mul(decimal.NewFromInt(int64(totalQty))))
		case DiscountPercentage:
			globalPool = globalPool.Add(rule.Value.Div(hundred).Mul(grandSubtotal))
		}
	}

	discountTotal := decimal.Zero
	for i := range priced {
		line := &priced[i]

		// grandSubtotal can only be zero with zero-priced products; treat
		// their share of the pool as zero rather than dividing by zero.
		share := decimal.Zero
		if grandSubtotal.IsPositive() {
			share = globalPool.Mul(line.OriginalSubtotal).Div(grandSubtotal).Round(2)
		}

		line.GlobalDiscount = share
		line.TotalDiscount = line.SpecificDiscount.Add(share)
		line.FinalSubtotal = line.OriginalSubtotal.Sub(line.TotalDiscount).Round(2)
		line.FinalUnitPrice = line.FinalSubtotal.Div(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		discountTotal = discountTotal.Add(line.TotalDiscount)
	}

	return BasketPricing{
		Items:         priced,
		TotalQuantity: totalQty,
		GrandSubtotal: grandSubtotal.Round(2),
		DiscountTotal: discountTotal.Round(2),
	}, nil
}
