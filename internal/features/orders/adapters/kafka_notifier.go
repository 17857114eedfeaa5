package adapters

import (
	"go.uber.org/zap"

	"pedidos-service/internal/core/events"
	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/features/orders/domain"
	schedulingdomain "pedidos-service/internal/features/scheduling/domain"
)

// KafkaNotifier implements ports.Notifier by publishing envelopes through
// the async event producer. Every method is best-effort.
type KafkaNotifier struct {
	producer *events.Producer
}

// NewKafkaNotifier creates a new KafkaNotifier.
func NewKafkaNotifier(producer *events.Producer) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

type orderEventPayload struct {
	OrderID       string `json:"order_id"`
	CustomerID    int64  `json:"customer_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	DeliveryDate  string `json:"delivery_date"`
	TotalAmount   string `json:"total_amount"`
	DiscountTotal string `json:"discount_total"`
	ShippingCost  string `json:"shipping_cost,omitempty"`
	// PreviousStatus is set only on status-update events.
	PreviousStatus string `json:"previous_status,omitempty"`
}

func payloadFor(order *domain.Order) orderEventPayload {
	p := orderEventPayload{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		DeliveryDate:  order.DeliveryDate.Format(schedulingdomain.DateLayout),
		TotalAmount:   order.TotalAmount.StringFixed(2),
		DiscountTotal: order.DiscountTotal.StringFixed(2),
	}
	if order.Shipping != nil {
		p.ShippingCost = order.Shipping.Cost.StringFixed(2)
	}
	return p
}

// OrderPaid tells the customer their order was created and paid.
func (n *KafkaNotifier) OrderPaid(order *domain.Order) {
	n.publish(events.EventOrderPaid, order.CustomerID, payloadFor(order))
}

// NewOrder tells an admin a new order arrived at the workshop.
func (n *KafkaNotifier) NewOrder(order *domain.Order, adminID int64) {
	n.publish(events.EventNewOrder, adminID, payloadFor(order))
}

// OrderStatusUpdated tells the customer the order status changed.
func (n *KafkaNotifier) OrderStatusUpdated(order *domain.Order, previous domain.OrderStatus) {
	payload := payloadFor(order)
	payload.PreviousStatus = string(previous)
	n.publish(events.EventOrderStatusUpdated, order.CustomerID, payload)
}

func (n *KafkaNotifier) publish(eventType string, recipientID int64, payload orderEventPayload) {
	env, err := events.NewEnvelope(eventType, recipientID, payload)
	if err != nil {
		logger.Get().Error("Failed to build notification event",
			zap.String("event_type", eventType),
			zap.String("order_id", payload.OrderID),
			zap.Error(err),
		)
		return
	}
	n.producer.Publish(env)
}
