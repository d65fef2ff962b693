package domain

import "time"

// Типы событий попытки оформления заказа.
const (
	TimelineCheckoutStarted   = "checkout.started"
	TimelineAddressSaved      = "checkout.address_saved"
	TimelinePaymentAuthorized = "checkout.payment_authorized"
	TimelineCartCleared       = "checkout.cart_cleared"
	TimelineCheckoutCompleted = "checkout.completed"
	TimelineCheckoutFailed    = "checkout.failed"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
