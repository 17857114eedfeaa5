package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// EventOrderPaid notifies a customer that their order was created and paid.
	EventOrderPaid = "OrderPaid"
	// EventNewOrder notifies an admin that a new order arrived at the workshop.
	EventNewOrder = "NewOrder"
	// EventOrderStatusUpdated notifies a customer that the order status changed.
	EventOrderStatusUpdated = "OrderStatusUpdated"
)

// Envelope is the wire format for every notification event.
type Envelope struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Producer    string          `json:"producer"`
	RecipientID int64           `json:"recipient_id"`
	Payload     json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload for the given recipient. Marshalling the
// payload here keeps callers from publishing half-built events.
func NewEnvelope(eventType string, recipientID int64, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		OccurredAt:  time.Now().UTC(),
		Producer:    "pedidos-service",
		RecipientID: recipientID,
		Payload:     raw,
	}, nil
}
