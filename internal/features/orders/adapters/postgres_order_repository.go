package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pedidos-service/internal/features/orders/domain"
)

// PostgresOrderRepository implements ports.OrderRepository.
type PostgresOrderRepository struct {
	db *pgxpool.Pool
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository.
func NewPostgresOrderRepository(db *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// CreateOrder persists the order shell, its lines, its shipping detail and
// the final totals in one transaction. The shell starts with zeroed totals
// and gets them in a final update, so a failure at any step rolls back the
// whole order.
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, customer_id, status, payment_status, delivery_date, total_amount, discount_total)
		VALUES ($1, $2, $3, $4, $5, 0, 0)
		RETURNING created_at`,
		order.ID, order.CustomerID, order.Status, order.PaymentStatus, order.DeliveryDate,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, product_variant_id, size_id, quantity,
			                         base_price, unit_price, unit_discount, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			order.ID, line.ProductVariantID, line.SizeID, line.Quantity,
			line.BasePrice, line.UnitPrice, line.UnitDiscount, line.Subtotal,
		).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if order.Shipping != nil {
		order.Shipping.OrderID = order.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO order_shipping (order_id, mode, city_id, address, reference, weight_kg, cost, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.ID, order.Shipping.Mode, order.Shipping.CityID, order.Shipping.Address,
			order.Shipping.Reference, order.Shipping.WeightKg, order.Shipping.Cost, order.Shipping.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shipping detail: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET total_amount = $2, discount_total = $3 WHERE id = $1`,
		order.ID, order.TotalAmount, order.DiscountTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// UpdateOrder applies the non-nil status changes under a FOR UPDATE row lock
// so concurrent updates to the same order serialize.
func (r *PostgresOrderRepository) UpdateOrder(ctx context.Context, id string, status *domain.OrderStatus, payment *domain.PaymentStatus) (*domain.Order, domain.OrderStatus, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order := &domain.Order{ID: id}
	var total, discount string
	err = tx.QueryRow(ctx, `
		SELECT customer_id, status, payment_status, delivery_date,
		       total_amount::text, discount_total::text, created_at
		FROM orders
		WHERE id = $1
		FOR UPDATE`, id,
	).Scan(&order.CustomerID, &order.Status, &order.PaymentStatus, &order.DeliveryDate,
		&total, &discount, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to lock order %s: %w", id, err)
	}

	if order.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, "", fmt.Errorf("invalid total for order %s: %w", id, err)
	}
	if order.DiscountTotal, err = decimal.NewFromString(discount); err != nil {
		return nil, "", fmt.Errorf("invalid discount for order %s: %w", id, err)
	}

	previous := order.Status
	if status != nil {
		order.Status = *status
	}
	if payment != nil {
		order.PaymentStatus = *payment
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = $2, payment_status = $3 WHERE id = $1`,
		id, order.Status, order.PaymentStatus,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to update order %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("failed to commit order update: %w", err)
	}
	return order, previous, nil
}

// ListOrders returns orders newest first, with lines and shipping attached.
func (r *PostgresOrderRepository) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	query := `
		SELECT id, customer_id, status, payment_status, delivery_date,
		       total_amount::text, discount_total::text, created_at
		FROM orders`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	return r.queryOrders(ctx, query, args...)
}

// ListByCustomer returns one customer's orders with lines and shipping.
func (r *PostgresOrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customer_id, status, payment_status, delivery_date,
		       total_amount::text, discount_total::text, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC`, customerID)
}

func (r *PostgresOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		var (
			order           domain.Order
			total, discount string
		)
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.Status, &order.PaymentStatus,
			&order.DeliveryDate, &total, &discount, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if order.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("invalid total for order %s: %w", order.ID, err)
		}
		if order.DiscountTotal, err = decimal.NewFromString(discount); err != nil {
			return nil, fmt.Errorf("invalid discount for order %s: %w", order.ID, err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	if err := r.attachLines(ctx, orders, ids); err != nil {
		return nil, err
	}
	if err := r.attachShipping(ctx, orders, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresOrderRepository) attachLines(ctx context.Context, orders []domain.Order, ids []string) error {
	rows, err := r.db.Query(ctx, `
		SELECT l.order_id, l.id, l.product_variant_id, pv.name, l.size_id, l.quantity,
		       l.base_price::text, l.unit_price::text, l.unit_discount::text, l.subtotal::text
		FROM order_lines l
		JOIN product_variants pv ON pv.id = l.product_variant_id
		WHERE l.order_id = ANY($1)
		ORDER BY l.id`, ids)
	if err != nil {
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	byOrder := map[string][]domain.OrderLine{}
	for rows.Next() {
		var (
			orderID                            string
			line                               domain.OrderLine
			base, unit, unitDiscount, subtotal string
		)
		if err := rows.Scan(&orderID, &line.ID, &line.ProductVariantID, &line.ProductName,
			&line.SizeID, &line.Quantity, &base, &unit, &unitDiscount, &subtotal); err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		amounts := []struct {
			raw string
			dst *decimal.Decimal
		}{
			{base, &line.BasePrice},
			{unit, &line.UnitPrice},
			{unitDiscount, &line.UnitDiscount},
			{subtotal, &line.Subtotal},
		}
		for _, a := range amounts {
			if *a.dst, err = decimal.NewFromString(a.raw); err != nil {
				return fmt.Errorf("invalid amount on line %d: %w", line.ID, err)
			}
		}
		byOrder[orderID] = append(byOrder[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range orders {
		orders[i].Lines = byOrder[orders[i].ID]
	}
	return nil
}

func (r *PostgresOrderRepository) attachShipping(ctx context.Context, orders []domain.Order, ids []string) error {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, mode, city_id, address, reference, weight_kg::text, cost::text, status
		FROM order_shipping
		WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to query shipping details: %w", err)
	}
	defer rows.Close()

	byOrder := map[string]*domain.ShippingDetail{}
	for rows.Next() {
		var (
			detail       domain.ShippingDetail
			weight, cost string
		)
		if err := rows.Scan(&detail.OrderID, &detail.Mode, &detail.CityID, &detail.Address,
			&detail.Reference, &weight, &cost, &detail.Status); err != nil {
			return fmt.Errorf("failed to scan shipping detail: %w", err)
		}
		if detail.WeightKg, err = decimal.NewFromString(weight); err != nil {
			return fmt.Errorf("invalid weight for order %s: %w", detail.OrderID, err)
		}
		if detail.Cost, err = decimal.NewFromString(cost); err != nil {
			return fmt.Errorf("invalid cost for order %s: %w", detail.OrderID, err)
		}
		d := detail
		byOrder[detail.OrderID] = &d
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range orders {
		orders[i].Shipping = byOrder[orders[i].ID]
	}
	return nil
}

// ListDeliveryDates returns the {deliveryDate, customerName} projection the
// workshop calendar consumes.
func (r *PostgresOrderRepository) ListDeliveryDates(ctx context.Context, status *domain.OrderStatus) ([]domain.DeliverySchedule, error) {
	query := `
		SELECT o.delivery_date, c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id`
	args := []any{}
	if status != nil {
		query += ` WHERE o.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY o.delivery_date`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery dates: %w", err)
	}
	defer rows.Close()

	schedules := []domain.DeliverySchedule{}
	for rows.Next() {
		var s domain.DeliverySchedule
		if err := rows.Scan(&s.DeliveryDate, &s.CustomerName); err != nil {
			return nil, fmt.Errorf("failed to scan delivery date: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// DeleteOrder removes the order, its lines and its shipping detail in one
// transaction.
func (r *PostgresOrderRepository) DeleteOrder(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_shipping WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete shipping detail: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}

	return tx.Commit(ctx)
}
