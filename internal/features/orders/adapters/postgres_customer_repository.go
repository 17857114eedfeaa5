package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pedidos-service/internal/features/orders/ports"
)

// PostgresCustomerRepository implements ports.CustomerRepository.
type PostgresCustomerRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCustomerRepository creates a new PostgresCustomerRepository.
func NewPostgresCustomerRepository(db *pgxpool.Pool) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// FindCustomer returns the customer, or nil when the id is unknown.
func (r *PostgresCustomerRepository) FindCustomer(ctx context.Context, id int64) (*ports.Customer, error) {
	var c ports.Customer
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, is_admin
		FROM customers
		WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.Email, &c.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer %d: %w", id, err)
	}
	return &c, nil
}

// ListAdmins returns every admin account.
func (r *PostgresCustomerRepository) ListAdmins(ctx context.Context) ([]ports.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, is_admin
		FROM customers
		WHERE is_admin = true`)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var admins []ports.Customer
	for rows.Next() {
		var c ports.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.IsAdmin); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, c)
	}
	return admins, rows.Err()
}

// PostgresSizeRepository implements ports.SizeRepository.
type PostgresSizeRepository struct {
	db *pgxpool.Pool
}

// NewPostgresSizeRepository creates a new PostgresSizeRepository.
func NewPostgresSizeRepository(db *pgxpool.Pool) *PostgresSizeRepository {
	return &PostgresSizeRepository{db: db}
}

// ExistingSizes returns which of the given size ids exist.
func (r *PostgresSizeRepository) ExistingSizes(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id FROM sizes WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query sizes: %w", err)
	}
	defer rows.Close()

	existing := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan size: %w", err)
		}
		existing[id] = struct{}{}
	}
	return existing, rows.Err()
}
