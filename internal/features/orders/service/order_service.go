package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/features/orders/domain"
	"pedidos-service/internal/features/orders/ports"
	pricingdomain "pedidos-service/internal/features/pricing/domain"
	pricingports "pedidos-service/internal/features/pricing/ports"
	schedulingports "pedidos-service/internal/features/scheduling/ports"
	shippingdomain "pedidos-service/internal/features/shipping/domain"
	shippingports "pedidos-service/internal/features/shipping/ports"
)

var (
	// ErrCustomerNotFound is returned when the customer id does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrSizeNotFound is returned when a line references an unknown size.
	ErrSizeNotFound = errors.New("size not found")
	// ErrProductNotFound is returned when a line references an unknown
	// product variant.
	ErrProductNotFound = errors.New("product variant not found")
	// ErrShippingCityRequired is returned when a national shipment has no
	// destination city.
	ErrShippingCityRequired = errors.New("shipping city required for national shipping")
	// ErrShippingAddressRequired is returned when a national shipment has no
	// address.
	ErrShippingAddressRequired = errors.New("shipping address required for national shipping")
	// ErrNoOrders is returned when a customer has no orders.
	ErrNoOrders = errors.New("customer has no orders")
)

// OrderServiceImpl implements ports.OrderService. It composes the slot
// allocator, the discount engine and the shipping calculator into the
// order creation pipeline.
type OrderServiceImpl struct {
	orders    ports.OrderRepository
	customers ports.CustomerRepository
	sizes     ports.SizeRepository
	catalog   pricingports.ProductCatalog
	pricing   pricingports.PricingService
	shipping  shippingports.ShippingService
	slots     schedulingports.SlotAllocator
	notifier  ports.Notifier
}

// NewOrderService creates a new OrderServiceImpl.
func NewOrderService(
	orders ports.OrderRepository,
	customers ports.CustomerRepository,
	sizes ports.SizeRepository,
	catalog pricingports.ProductCatalog,
	pricing pricingports.PricingService,
	shipping shippingports.ShippingService,
	slots schedulingports.SlotAllocator,
	notifier ports.Notifier,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		orders:    orders,
		customers: customers,
		sizes:     sizes,
		catalog:   catalog,
		pricing:   pricing,
		shipping:  shipping,
		slots:     slots,
		notifier:  notifier,
	}
}

// CreateOrder runs the order pipeline. All validation happens before the
// capacity reservation so a rejected order never consumes a slot, and all
// writes happen in one repository transaction so a failed order leaves no
// rows behind. Notifications go out only after the commit.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req ports.CreateOrderRequest) (*domain.Order, error) {
	customer, err := s.customers.FindCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: %d", ErrCustomerNotFound, req.CustomerID)
	}

	mode, err := shippingdomain.ParseShippingMode(req.Shipping.Mode)
	if err != nil {
		return nil, err
	}
	if mode == shippingdomain.ModeNationalShipping {
		if req.Shipping.CityID == nil {
			return nil, ErrShippingCityRequired
		}
		if req.Shipping.Address == "" {
			return nil, ErrShippingAddressRequired
		}
	}

	resolved, totalQty, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.ReserveSlot(ctx, totalQty)
	if err != nil {
		return nil, err
	}

	pricing, err := s.pricing.PriceBasket(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	weight := domain.TotalWeight(resolved)
	quote, err := s.shipping.Quote(ctx, mode, req.Shipping.CityID, weight)
	if err != nil {
		return nil, err
	}

	order := buildOrder(req.Shipping, customer.ID, slot.DeliveryDate, pricing, quote)
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("service: failed to persist order: %w", err)
	}

	s.notify(ctx, order)
	return order, nil
}

// resolveItems loads the catalog variants and checks sizes for every line.
func (s *OrderServiceImpl) resolveItems(ctx context.Context, items []pricingdomain.BasketItem) ([]pricingdomain.ResolvedItem, int, error) {
	if len(items) == 0 {
		return nil, 0, pricingdomain.ErrEmptyBasket
	}

	variantIDs := make([]int64, 0, len(items))
	sizeIDs := make([]int64, 0, len(items))
	totalQty := 0
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: product %d", pricingdomain.ErrInvalidLineQuantity, item.ProductVariantID)
		}
		variantIDs = append(variantIDs, item.ProductVariantID)
		sizeIDs = append(sizeIDs, item.SizeID)
		totalQty += item.Quantity
	}

	variants, err := s.catalog.FindVariants(ctx, variantIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to load product variants: %w", err)
	}
	sizes, err := s.sizes.ExistingSizes(ctx, sizeIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to load sizes: %w", err)
	}

	resolved := make([]pricingdomain.ResolvedItem, 0, len(items))
	for _, item := range items {
		variant, ok := variants[item.ProductVariantID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductVariantID)
		}
		if _, ok := sizes[item.SizeID]; !ok {
			return nil, 0, fmt.Errorf("%w: %d", ErrSizeNotFound, item.SizeID)
		}
		resolved = append(resolved, pricingdomain.ResolvedItem{
			Variant:  variant,
			SizeID:   item.SizeID,
			Quantity: item.Quantity,
		})
	}
	return resolved, totalQty, nil
}

// buildOrder assembles the order aggregate from the pipeline outputs. Pickup
// orders store the origin city and a fixed pickup address.
func buildOrder(
	shipping ports.CreateShippingRequest,
	customerID int64,
	deliveryDate time.Time,
	pricing pricingdomain.BasketPricing,
	quote shippingdomain.Quote,
) *domain.Order {
	lines := make([]domain.OrderLine, 0, len(pricing.Items))
	itemsTotal := decimal.Zero
	for _, item := range pricing.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		lines = append(lines, domain.OrderLine{
			ProductVariantID: item.ProductVariantID,
			ProductName:      item.ProductName,
			SizeID:           item.SizeID,
			Quantity:         item.Quantity,
			BasePrice:        item.BasePrice,
			UnitPrice:        item.FinalUnitPrice,
			UnitDiscount:     item.TotalDiscount.Div(qty).Round(2),
			Subtotal:         item.FinalSubtotal,
		})
		itemsTotal = itemsTotal.Add(item.FinalSubtotal)
	}

	address := shipping.Address
	if quote.Mode == shippingdomain.ModeStorePickup {
		address = domain.PickupAddress
	}

	return &domain.Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		Status:        domain.StatusPaid,
		PaymentStatus: domain.PaymentCompleted,
		DeliveryDate:  deliveryDate,
		TotalAmount:   itemsTotal.Add(quote.Cost).Round(2),
		DiscountTotal: pricing.DiscountTotal,
		Lines:         lines,
		Shipping: &domain.ShippingDetail{
			Mode:      string(quote.Mode),
			CityID:    quote.CityID,
			Address:   address,
			Reference: shipping.Reference,
			WeightKg:  quote.WeightKg,
			Cost:      quote.Cost,
			Status:    domain.ShippingStatusPending,
		},
	}
}

// notify publishes the post-commit events. Best-effort by contract: a dead
// broker or a failed admin lookup must not undo a committed order.
func (s *OrderServiceImpl) notify(ctx context.Context, order *domain.Order) {
	s.notifier.OrderPaid(order)

	admins, err := s.customers.ListAdmins(ctx)
	if err != nil {
		logger.Get().Error("Failed to load admins for new-order notification",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return
	}
	for _, admin := range admins {
		s.notifier.NewOrder(order, admin.ID)
	}
}

// UpdateOrder applies status changes under a row lock. A notification goes
// out only when the order status actually changed.
func (s *OrderServiceImpl) UpdateOrder(ctx context.Context, id string, req ports.UpdateOrderRequest) (*domain.Order, error) {
	var status *domain.OrderStatus
	if req.Status != nil {
		parsed, err := domain.ParseOrderStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	var payment *domain.PaymentStatus
	if req.PaymentStatus != nil {
		parsed, err := domain.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			return nil, err
		}
		payment = &parsed
	}

	order, previous, err := s.orders.UpdateOrder(ctx, id, status, payment)
	if err != nil {
		return nil, err
	}

	if order.Status != previous {
		s.notifier.OrderStatusUpdated(order, previous)
	}
	return order, nil
}

// ListOrders returns every order with its lines, optionally filtered by a
// raw status string.
func (s *OrderServiceImpl) ListOrders(ctx context.Context, status *string) ([]domain.Order, error) {
	parsed, err := parseOptionalStatus(status)
	if err != nil {
		return nil, err
	}
	return s.orders.ListOrders(ctx, parsed)
}

// ListOrdersByCustomer returns the orders of one customer.
func (s *OrderServiceImpl) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	customer, err := s.customers.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
	}

	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoOrders, customerID)
	}
	return orders, nil
}

// ListDeliveryDates returns the delivery-date projection.
func (s *OrderServiceImpl) ListDeliveryDates(ctx context.Context, status *string) ([]domain.DeliverySchedule, error) {
	parsed, err := parseOptionalStatus(status)
	if err != nil {
		return nil, err
	}
	return s.orders.ListDeliveryDates(ctx, parsed)
}

// DeleteOrder removes an order and its lines.
func (s *OrderServiceImpl) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.DeleteOrder(ctx, id)
}

func parseOptionalStatus(raw *string) (*domain.OrderStatus, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := domain.ParseOrderStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
