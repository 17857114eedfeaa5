package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pedidos-service/internal/features/pricing/domain"
)

// PostgresPricingRepository implements ports.ProductCatalog and
// ports.DiscountRuleRepository against PostgreSQL.
type PostgresPricingRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPricingRepository creates a new PostgresPricingRepository.
func NewPostgresPricingRepository(db *pgxpool.Pool) *PostgresPricingRepository {
	return &PostgresPricingRepository{db: db}
}

// FindVariants loads the catalog records for the given variant ids.
func (r *PostgresPricingRepository) FindVariants(ctx context.Context, ids []int64) (map[int64]domain.ProductVariant, error) {
	if len(ids) == 0 {
		return map[int64]domain.ProductVariant{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, base_price::text, weight_kg::text
		FROM product_variants
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query product variants: %w", err)
	}
	defer rows.Close()

	variants := make(map[int64]domain.ProductVariant, len(ids))
	for rows.Next() {
		var (
			v        domain.ProductVariant
			price    string
			weightKg *string
		)
		if err := rows.Scan(&v.ID, &v.Name, &price, &weightKg); err != nil {
			return nil, fmt.Errorf("failed to scan product variant: %w", err)
		}
		v.BasePrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("invalid base price for variant %d: %w", v.ID, err)
		}
		if weightKg != nil {
			w, err := decimal.NewFromString(*weightKg)
			if err != nil {
				return nil, fmt.Errorf("invalid weight for variant %d: %w", v.ID, err)
			}
			v.WeightKg = &w
		}
		variants[v.ID] = v
	}
	return variants, rows.Err()
}

// FindActiveRules loads every active discount rule together with its product scope.
func (r *PostgresPricingRepository) FindActiveRules(ctx context.Context) ([]domain.DiscountRule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, minimum_quantity, applies_to_all_products, kind, value::text,
		       valid_from, valid_until
		FROM discounts
		WHERE active = true`)
	if err != nil {
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}
	defer rows.Close()

	var rules []domain.DiscountRule
	var ruleIDs []int64
	for rows.Next() {
		var (
			rule       domain.DiscountRule
			value      string
			from, till *time.Time
		)
		if err := rows.Scan(&rule.ID, &rule.MinimumQuantity, &rule.AppliesToAllProducts,
			&rule.Kind, &value, &from, &till); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		rule.Active = true
		rule.Value, err = decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for discount %d: %w", rule.ID, err)
		}
		rule.ValidFrom = from
		rule.ValidUntil = till
		rule.ProductIDs = map[int64]struct{}{}

		rules = append(rules, rule)
		if !rule.AppliesToAllProducts {
			ruleIDs = append(ruleIDs, rule.ID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ruleIDs) == 0 {
		return rules, nil
	}

	scopeRows, err := r.db.Query(ctx, `
		SELECT discount_id, product_variant_id
		FROM discount_products
		WHERE discount_id = ANY($1)`, ruleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query discount scopes: %w", err)
	}
	defer scopeRows.Close()

	scopes := map[int64][]int64{}
	for scopeRows.Next() {
		var discountID, productID int64
		if err := scopeRows.Scan(&discountID, &productID); err != nil {
			return nil, fmt.Errorf("failed to scan discount scope: %w", err)
		}
		scopes[discountID] = append(scopes[discountID], productID)
	}
	if err := scopeRows.Err(); err != nil {
		return nil, err
	}

	for i := range rules {
		for _, productID := range scopes[rules[i].ID] {
			rules[i].ProductIDs[productID] = struct{}{}
		}
	}
	return rules, nil
}
