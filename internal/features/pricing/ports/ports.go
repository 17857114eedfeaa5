package ports

import (
	"context"

	"pedidos-service/internal/features/pricing/domain"
)

// PricingService defines the primary port for basket pricing.
type PricingService interface {
	// PriceBasket resolves the basket lines and runs the discount engine.
	PriceBasket(ctx context.Context, items []domain.BasketItem) (domain.BasketPricing, error)
}

// ProductCatalog defines the secondary port for product variant lookups.
type ProductCatalog interface {
	// FindVariants returns the catalog records for the given variant ids,
	// keyed by id. Missing ids are simply absent from the map.
	FindVariants(ctx context.Context, ids []int64) (map[int64]domain.ProductVariant, error)
}

// DiscountRuleRepository defines the secondary port for discount rules.
type DiscountRuleRepository interface {
	// FindActiveRules returns every active rule with its product scope
	// loaded. Eligibility filtering happens in the domain.
	FindActiveRules(ctx context.Context) ([]domain.DiscountRule, error)
}
