package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	EventTypeCheckoutCompleted EventType = "checkout.completed"
	EventTypeCheckoutFailed    EventType = "checkout.failed"
)

// TopicCheckoutEvents — топик по умолчанию для событий оформления.
const TopicCheckoutEvents = "storefront.checkout.events"

// CheckoutEvent — JSON-представление события оформления заказа.
type CheckoutEvent struct {
	EventType EventType `json:"event_type"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id,omitempty"`
	Currency  string    `json:"currency"`
	// TotalUSD сериализуется строкой, чтобы не терять точность.
	TotalUSD  string    `json:"total_usd"`
	Items     int       `json:"items"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCheckoutEvent строит событие из доменного представления.
func NewCheckoutEvent(e domain.CheckoutEvent) *CheckoutEvent {
	ts := e.Occurred
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &CheckoutEvent{
		EventType: EventType(e.Type),
		OrderID:   e.OrderID,
		UserID:    e.UserID,
		Currency:  e.Currency,
		TotalUSD:  e.TotalUSD.StringFixed(2),
		Items:     e.Items,
		Reason:    e.Reason,
		Timestamp: ts,
	}
}
