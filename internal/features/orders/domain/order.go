package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	pricing "pedidos-service/internal/features/pricing/domain"
)

// OrderStatus tracks where an order is in the workshop flow. The literal
// values match what the storefront and admin panel exchange.
type OrderStatus string

const (
	StatusPaid       OrderStatus = "Pagado"
	StatusDelivering OrderStatus = "Entregando"
	StatusLate       OrderStatus = "Atrasado"
)

// PaymentStatus tracks whether the order has been paid for.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pendiente"
	PaymentCompleted PaymentStatus = "completado"
)

var (
	// ErrInvalidOrderStatus is returned for unrecognized order statuses.
	ErrInvalidOrderStatus = errors.New("invalid order status")
	// ErrInvalidPaymentStatus is returned for unrecognized payment statuses.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	// ErrOrderNotFound is returned when an order id does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusPaid, StatusDelivering, StatusLate:
		return OrderStatus(raw), nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(raw) {
	case PaymentPending, PaymentCompleted:
		return PaymentStatus(raw), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

// ShippingStatusPending is the initial state of every shipping detail.
const ShippingStatusPending = "pendiente"

// PickupAddress is the literal stored as the address of pickup orders.
const PickupAddress = "Retiro tienda Física"

// Order is a placed order with its priced lines and shipping detail.
type Order struct {
	ID            string          `json:"id"`
	CustomerID    int64           `json:"customer_id"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	DeliveryDate  time.Time       `json:"delivery_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	CreatedAt     time.Time       `json:"created_at"`
	Lines         []OrderLine     `json:"lines,omitempty"`
	Shipping      *ShippingDetail `json:"shipping,omitempty"`
}

// OrderLine is one priced product line of an order.
type OrderLine struct {
	ID               int64           `json:"id,omitempty"`
	ProductVariantID int64           `json:"product_variant_id"`
	ProductName      string          `json:"product_name,omitempty"`
	SizeID           int64           `json:"size_id"`
	Quantity         int             `json:"quantity"`
	BasePrice        decimal.Decimal `json:"base_price"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitDiscount     decimal.Decimal `json:"unit_discount"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// ShippingDetail records how an order leaves the store.
type ShippingDetail struct {
	OrderID   string          `json:"-"`
	Mode      string          `json:"mode"`
	CityID    int64           `json:"city_id"`
	Address   string          `json:"address"`
	Reference string          `json:"reference,omitempty"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	Cost      decimal.Decimal `json:"cost"`
	Status    string          `json:"status"`
}

// DeliverySchedule is the projection the workshop calendar consumes.
type DeliverySchedule struct {
	DeliveryDate time.Time `json:"delivery_date"`
	CustomerName string    `json:"customer_name"`
}

// defaultWeightKg is assumed for variants without a catalog weight. Most of
// the catalog is shirts, which weigh about this much.
var defaultWeightKg = decimal.NewFromFloat(0.2)

// TotalWeight sums the weight of the resolved basket lines, rounded to 2
// decimals.
func TotalWeight(items []pricing.ResolvedItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		weight := defaultWeightKg
		if item.Variant.WeightKg != nil {
			weight = *item.Variant.WeightKg
		}
		total = total.Add(weight.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}
