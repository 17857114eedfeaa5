package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func variant(id int64, price string) ProductVariant {
	return ProductVariant{ID: id, BasePrice: dec(price)}
}

func globalPercent(value string, minQty int) DiscountRule {
	return DiscountRule{
		ID: 1, Active: true, MinimumQuantity: minQty,
		AppliesToAllProducts: true, Kind: DiscountPercentage, Value: dec(value),
	}
}

// TestPriceBasket_NoRules verifies base prices pass through untouched.
func TestPriceBasket_NoRules(t *testing.T) {
	items := []ResolvedItem{
		{Variant: variant(1, "25.50"), Quantity: 2},
	}

	pricing, err := PriceBasket(items, nil, now)
	require.NoError(t, err)

	require.Len(t, pricing.Items, 1)
	line := pricing.Items[0]
	assert.True(t, line.OriginalSubtotal.Equal(dec("51.00")))
	assert.True(t, line.TotalDiscount.IsZero())
	assert.True(t, line.FinalSubtotal.Equal(dec("51.00")))
	assert.True(t, line.FinalUnitPrice.Equal(dec("25.50")))
	assert.Equal(t, 2, pricing.TotalQuantity)
	assert.True(t, pricing.DiscountTotal.IsZero())
}

// TestPriceBasket_GlobalPercentageDistribution verifies the proportional
// split: subtotals 100 and 300 with a global 10% rule yield 10 and 30.
func TestPriceBasket_GlobalPercentageDistribution(t *testing.T) {
	items := []ResolvedItem{
		{Variant: variant(1, "100.00"), Quantity: 1},
		{Variant: variant(2, "100.00"), Quantity: 3},
	}
	rules := []DiscountRule{globalPercent("10", 1)}

	pricing, err := PriceBasket(items, rules, now)
	require.NoError(t, err)

	require.Len(t, pricing.Items, 2)
	assert.True(t, pricing.Items[0].GlobalDiscount.Equal(dec("10.00")),
		"got %s", pricing.Items[0].GlobalDiscount)
	assert.True(t, pricing.Items[1].GlobalDiscount.Equal(dec("30.00")),
		"got %s", pricing.Items[1].GlobalDiscount)

	// The distributed amounts add back up to the pool.
	distributed := pricing.Items[0].GlobalDiscount.Add(pricing.Items[1].GlobalDiscount)
	assert.True(t, distributed.Equal(dec("40.00")))
	assert.True(t, pricing.DiscountTotal.Equal(dec("40.00")))
}

// TestPriceBasket_DistributionRoundingDrift verifies each share is rounded
// independently and the drift against the pool stays within a cent per line.
func TestPriceBasket_DistributionRoundingDrift(t *testing.T) {
	items := []ResolvedItem{
		{Variant: variant(1, "10.00"), Quantity: 1},
		{Variant: variant(2, "10.00"), Quantity: 1},
		{Variant: variant(3, "10.00"), Quantity: 1},
	}
	rules := []DiscountRule{globalPercent("10", 1)}

	pricing, err := PriceBasket(items, rules, now)
	require.NoError(t, err)

	pool := dec("3.00")
	distributed := decimal.Zero
	for _, line := range pricing.Items {
		distributed = distributed.Add(line.GlobalDiscount)
	}
	drift := pool.Sub(distributed).Abs()
	assert.True(t, drift.LessThanOrEqual(dec("0.03")), "drift %s", drift)
}

// TestPriceBasket_GlobalFixedAmount verifies global fixed rules multiply by
// the total unit count.
func TestPriceBasket_GlobalFixedAmount(t *testing.T) {
	items := []ResolvedItem{
		{Variant: variant(1, "50.00"), Quantity: 4},
	}
	rules := []DiscountRule{{
		ID: 1, Active: true, MinimumQuantity: 1,
		AppliesToAllProducts: true, Kind: DiscountFixedAmount, Value: dec("2.00"),
	}}

	pricing, err := PriceBasket(items, rules, now)
	require.NoError(t, err)

	// 2.00 per unit times 4 units.
	assert.True(t, pricing.Items[0].GlobalDiscount.Equal(dec("8.00")))
	assert.True(t, pricing.Items[0].FinalSubtotal.Equal(dec("192.00")))
}

// TestPriceBasket_SpecificFixedAmountNotPerUnit verifies the flat per-line
// behavior of specific fixed rules: the value counts once per matching rule,
// not once per unit.
func TestPriceBasket_SpecificFixedAmountNotPerUnit(t *testing.T) {
	rule := DiscountRule{
		ID: 7, Active: true, MinimumQuantity: 1,
		Kind: DiscountFixedAmount, Value: dec("5.00"),
		ProductIDs: map[int64]struct{}{1: {}},
	}
	items := []ResolvedItem{
		{Variant: variant(1, "20.00"), Quantity: 4},
		{Variant: variant(2, "20.00"), Quantity: 1},
	}

	pricing, err := PriceBasket(items, []DiscountRule{rule}, now)
	require.NoError(t, err)

	assert.True(t, pricing.Items[0].SpecificDiscount.Equal(dec("5.00")),
		"flat 5.00 despite quantity 4, got %s", pricing.Items[0].SpecificDiscount)
	assert.True(t, pricing.Items[1].SpecificDiscount.IsZero(),
		"rule does not cover product 2")
}

// TestPriceBasket_SpecificPercentage verifies specific percentage rules apply
// to the line subtotal only.
func TestPriceBasket_SpecificPercentage(t *testing.T) {
	rule := DiscountRule{
		ID: 8, Active: true, MinimumQuantity: 1,
		Kind: DiscountPercentage, Value: dec("25"),
		ProductIDs: map[int64]struct{}{1: {}},
	}
	items := []ResolvedItem{
		{Variant: variant(1, "40.00"), Quantity: 2},
		{Variant: variant(2, "40.00"), Quantity: 2},
	}

	pricing, err := PriceBasket(items, []DiscountRule{rule}, now)
	require.NoError(t, err)

	assert.True(t, pricing.Items[0].SpecificDiscount.Equal(dec("20.00")))
	assert.True(t, pricing.Items[1].SpecificDiscount.IsZero())
}

// TestPriceBasket_RoundTrip verifies finalSubtotal + totalDiscount equals the
// original subtotal within a cent for every line.
func TestPriceBasket_RoundTrip(t *testing.T) {
	items := []ResolvedItem{
		{Variant: variant(1, "19.99"), Quantity: 3},
		{Variant: variant(2, "7.35"), Quantity: 2},
		{Variant: variant(3, "104.50"), Quantity: 1},
	}
	rules := []DiscountRule{
		globalPercent("7.5", 1),
		{
			ID: 2, Active: true, MinimumQuantity: 2,
			Kind: DiscountFixedAmount, Value: dec("1.50"),
			ProductIDs: map[int64]struct{}{2: {}},
		},
	}

	pricing, err := PriceBasket(items, rules, now)
	require.NoError(t, err)

	tolerance := dec("0.01")
	for _, line := range pricing.Items {
		diff := line.FinalSubtotal.Add(line.TotalDiscount).Sub(line.OriginalSubtotal).Abs()
		assert.True(t, diff.LessThanOrEqual(tolerance),
			"product %d: diff %s", line.ProductVariantID, diff)
	}
}

// TestPriceBasket_Eligibility verifies inactive, below-minimum and expired
// rules never fire.
func TestPriceBasket_Eligibility(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	expired := globalPercent("10", 1)
	expired.ValidUntil = &past

	inactive := globalPercent("10", 1)
	inactive.Active = false

	tooBig := globalPercent("10", 10)

	items := []ResolvedItem{{Variant: variant(1, "100.00"), Quantity: 2}}

	pricing, err := PriceBasket(items, []DiscountRule{expired, inactive, tooBig}, now)
	require.NoError(t, err)
	assert.True(t, pricing.DiscountTotal.IsZero())
}

// TestPriceBasket_ValidityWindow verifies a rule inside its window fires.
func TestPriceBasket_ValidityWindow(t *testing.T) {
	from := now.Add(-time.Hour)
	until := now.Add(time.Hour)
	rule := globalPercent("10", 1)
	rule.ValidFrom = &from
	rule.ValidUntil = &until

	items := []ResolvedItem{{Variant: variant(1, "100.00"), Quantity: 1}}

	pricing, err := PriceBasket(items, []DiscountRule{rule}, now)
	require.NoError(t, err)
	assert.True(t, pricing.DiscountTotal.Equal(dec("10.00")))
}

// TestPriceBasket_DiscountMayExceedPrice documents that an oversized discount
// produces a negative final subtotal rather than an error.
func TestPriceBasket_DiscountMayExceedPrice(t *testing.T) {
	rule := DiscountRule{
		ID: 9, Active: true, MinimumQuantity: 1,
		Kind: DiscountFixedAmount, Value: dec("50.00"),
		ProductIDs: map[int64]struct{}{1: {}},
	}
	items := []ResolvedItem{{Variant: variant(1, "10.00"), Quantity: 1}}

	pricing, err := PriceBasket(items, []DiscountRule{rule}, now)
	require.NoError(t, err)
	assert.True(t, pricing.Items[0].FinalSubtotal.IsNegative())
}

// TestPriceBasket_InvalidInput verifies empty baskets and zero quantities are rejected.
func TestPriceBasket_InvalidInput(t *testing.T) {
	_, err := PriceBasket(nil, nil, now)
	assert.ErrorIs(t, err, ErrEmptyBasket)

	items := []ResolvedItem{{Variant: variant(1, "10.00"), Quantity: 0}}
	_, err = PriceBasket(items, nil, now)
	assert.ErrorIs(t, err, ErrInvalidLineQuantity)
}

// TestPriceBasket_ZeroPricedBasket verifies the grand-subtotal guard: a
// basket of free items takes no share of a global pool.
func TestPriceBasket_ZeroPricedBasket(t *testing.T) {
	items := []ResolvedItem{{Variant: variant(1, "0.00"), Quantity: 2}}
	rules := []DiscountRule{globalPercent("10", 1)}

	pricing, err := PriceBasket(items, rules, now)
	require.NoError(t, err)
	assert.True(t, pricing.Items[0].GlobalDiscount.IsZero())
}
