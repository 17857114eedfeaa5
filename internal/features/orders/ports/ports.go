package ports

import (
	"context"

	"pedidos-service/internal/features/orders/domain"
	pricing "pedidos-service/internal/features/pricing/domain"
)

// CreateOrderRequest carries everything needed to place an order.
type CreateOrderRequest struct {
	CustomerID int64                 `json:"customer_id"`
	Items      []pricing.BasketItem  `json:"items"`
	Shipping   CreateShippingRequest `json:"shipping"`
}

// CreateShippingRequest is the shipping portion of an order request.
type CreateShippingRequest struct {
	Mode      string `json:"mode"`
	CityID    *int64 `json:"city_id"`
	Address   string `json:"address"`
	Reference string `json:"reference"`
}

// UpdateOrderRequest carries the optional status changes of a PATCH. A nil
// field is left untouched.
type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

// OrderService defines the primary port for order operations.
type OrderService interface {
	// CreateOrder runs the whole pipeline: validate, reserve a delivery
	// slot, price the basket, quote shipping and persist atomically.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error)
	// UpdateOrder changes the status and/or payment status of an order.
	UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*domain.Order, error)
	// ListOrders returns every order with its lines, optionally filtered by
	// status.
	ListOrders(ctx context.Context, status *string) ([]domain.Order, error)
	// ListOrdersByCustomer returns the orders of one customer with lines.
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	// ListDeliveryDates returns the delivery-date projection for the
	// workshop calendar, optionally filtered by status.
	ListDeliveryDates(ctx context.Context, status *string) ([]domain.DeliverySchedule, error)
	// DeleteOrder removes an order and its lines.
	DeleteOrder(ctx context.Context, id string) error
}

// OrderRepository defines the secondary port for order persistence.
type OrderRepository interface {
	// CreateOrder persists the order, its lines and its shipping detail in
	// one transaction. Nothing is written on error.
	CreateOrder(ctx context.Context, order *domain.Order) error
	// UpdateOrder applies the non-nil status changes under a row lock and
	// returns the updated order plus the status it had before.
	UpdateOrder(ctx context.Context, id string, status *domain.OrderStatus, payment *domain.PaymentStatus) (*domain.Order, domain.OrderStatus, error)
	// ListOrders returns orders with their lines, optionally filtered by
	// status.
	ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	// ListByCustomer returns one customer's orders with their lines.
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	// ListDeliveryDates returns the {deliveryDate, customerName} projection.
	ListDeliveryDates(ctx context.Context, status *domain.OrderStatus) ([]domain.DeliverySchedule, error)
	// DeleteOrder removes the order and its lines in one transaction.
	DeleteOrder(ctx context.Context, id string) error
}

// Customer is an account that can place orders or, for admins, receive
// new-order notifications.
type Customer struct {
	ID      int64
	Name    string
	Email   string
	IsAdmin bool
}

// CustomerRepository defines the secondary port for account lookups.
type CustomerRepository interface {
	// FindCustomer returns the customer or nil when the id is unknown.
	FindCustomer(ctx context.Context, id int64) (*Customer, error)
	// ListAdmins returns every admin account.
	ListAdmins(ctx context.Context) ([]Customer, error)
}

// SizeRepository defines the secondary port for garment size lookups.
type SizeRepository interface {
	// ExistingSizes returns which of the given size ids exist.
	ExistingSizes(ctx context.Context, ids []int64) (map[int64]struct{}, error)
}

// Notifier defines the secondary port for outbound notifications. All
// methods are best-effort: failures are logged downstream, never returned.
type Notifier interface {
	// OrderPaid tells the customer their order was created and paid.
	OrderPaid(order *domain.Order)
	// NewOrder tells an admin a new order arrived at the workshop.
	NewOrder(order *domain.Order, adminID int64)
	// OrderStatusUpdated tells the customer the order status changed.
	OrderStatusUpdated(order *domain.Order, previous domain.OrderStatus)
}
