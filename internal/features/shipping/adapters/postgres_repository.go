package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pedidos-service/internal/features/shipping/domain"
)

// PostgresShippingRepository implements ports.CityRepository and
// ports.ConfigRepository against PostgreSQL.
type PostgresShippingRepository struct {
	db *pgxpool.Pool
}

// NewPostgresShippingRepository creates a new PostgresShippingRepository.
func NewPostgresShippingRepository(db *pgxpool.Pool) *PostgresShippingRepository {
	return &PostgresShippingRepository{db: db}
}

// FindCity returns a shipping city, or nil when the id is unknown.
func (r *PostgresShippingRepository) FindCity(ctx context.Context, id int64) (*domain.City, error) {
	var (
		city domain.City
		rate string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, flat_rate::text
		FROM shipping_cities
		WHERE id = $1`, id).Scan(&city.ID, &city.Name, &rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query city %d: %w", id, err)
	}

	city.FlatRate, err = decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid flat rate for city %d: %w", id, err)
	}
	return &city, nil
}

// OriginCityID returns the city the store ships from.
func (r *PostgresShippingRepository) OriginCityID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		SELECT id FROM shipping_cities
		WHERE is_origin = true
		ORDER BY id
		LIMIT 1`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errors.New("no origin city configured")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query origin city: %w", err)
	}
	return id, nil
}

// GetConfig returns the store-wide shipping configuration, or nil when the
// table is empty.
func (r *PostgresShippingRepository) GetConfig(ctx context.Context) (*domain.Config, error) {
	var rate string
	err := r.db.QueryRow(ctx, `
		SELECT per_kg_rate::text FROM shipping_config
		ORDER BY id
		LIMIT 1`).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shipping config: %w", err)
	}

	perKg, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid per-kg rate: %w", err)
	}
	return &domain.Config{PerKgRate: perKg}, nil
}
