package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// Event types published to the order stream.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderCancelled     = "order.cancelled"
	TypeOrderDeleted       = "order.deleted"
)

const producerName = "phenofarm-api"

// Envelope wraps every published event. Messages for one order share the
// order id as partition key so consumers observe them in order.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	OrderID    string          `json:"order_id"`
	Payload    json.RawMessage `json:"payload"`
}

type LineItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

type OrderCreatedPayload struct {
	Number        string     `json:"number"`
	SellerStoreID string     `json:"seller_store_id"`
	BuyerStoreID  string     `json:"buyer_store_id"`
	TotalCents    int        `json:"total_cents"`
	Lines         []LineItem `json:"lines"`
}

type StatusChangedPayload struct {
	Number string `json:"number"`
	From   string `json:"from,omitempty"`
	Status string `json:"status"`
}

type OrderDeletedPayload struct {
	Number        string `json:"number"`
	SellerStoreID string `json:"seller_store_id"`
	BuyerStoreID  string `json:"buyer_store_id"`
}

// NewEnvelope builds an envelope with a fresh event id and marshalled payload.
func NewEnvelope(eventType string, orderID uuid.UUID, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   producerName,
		OrderID:    orderID.String(),
		Payload:    raw,
	}, nil
}

// OrderCreated builds the creation event for a freshly placed order.
func OrderCreated(order model.Order) (Envelope, error) {
	lines := make([]LineItem, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, LineItem{
			ProductID:      l.ProductID.String(),
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	return NewEnvelope(TypeOrderCreated, order.ID, OrderCreatedPayload{
		Number:        order.Number,
		SellerStoreID: order.SellerStoreID.String(),
		BuyerStoreID:  order.BuyerStoreID.String(),
		TotalCents:    order.TotalCents,
		Lines:         lines,
	})
}

// StatusChanged builds the transition event; cancellations get their own type.
func StatusChanged(order model.Order, from model.OrderStatus) (Envelope, error) {
	eventType := TypeOrderStatusChanged
	if order.Status == model.OrderStatusCancelled {
		eventType = TypeOrderCancelled
	}
	return NewEnvelope(eventType, order.ID, StatusChangedPayload{
		Number: order.Number,
		From:   string(from),
		Status: string(order.Status),
	})
}
