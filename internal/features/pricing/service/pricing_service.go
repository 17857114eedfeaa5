package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pedidos-service/internal/features/pricing/domain"
	"pedidos-service/internal/features/pricing/ports"
)

// ErrProductNotFound is returned when a basket references an unknown product variant.
var ErrProductNotFound = errors.New("product variant not found")

// PricingServiceImpl implements ports.PricingService.
type PricingServiceImpl struct {
	catalog ports.ProductCatalog
	rules   ports.DiscountRuleRepository

	// now is swappable for tests.
	now func() time.Time
}

// NewPricingService creates a new PricingServiceImpl.
func NewPricingService(catalog ports.ProductCatalog, rules ports.DiscountRuleRepository) *PricingServiceImpl {
	return &PricingServiceImpl{
		catalog: catalog,
		rules:   rules,
		now:     time.Now,
	}
}

// PriceBasket resolves every line against the catalog, loads the active
// discount rules and runs the engine. An unknown product aborts the whole
// computation.
func (s *PricingServiceImpl) PriceBasket(ctx context.Context, items []domain.BasketItem) (domain.BasketPricing, error) {
	if len(items) == 0 {
		return domain.BasketPricing{}, domain.ErrEmptyBasket
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductVariantID)
	}

	variants, err := s.catalog.FindVariants(ctx, ids)
	if err != nil {
		return domain.BasketPricing{}, fmt.Errorf("service: failed to load products: %w", err)
	}

	resolved := make([]domain.ResolvedItem, 0, len(items))
	for _, item := range items {
		variant, ok := variants[item.ProductVariantID]
		if !ok {
			return domain.BasketPricing{}, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductVariantID)
		}
		resolved = append(resolved, domain.ResolvedItem{
			Variant:  variant,
			SizeID:   item.SizeID,
			Quantity: item.Quantity,
		})
	}

	rules, err := s.rules.FindActiveRules(ctx)
	if err != nil {
		return domain.BasketPricing{}, fmt.Errorf("service: failed to load discount rules: %w", err)
	}

	return domain.PriceBasket(resolved, rules, s.now())
}
