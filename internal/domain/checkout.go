package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutState описывает состояние одной попытки оформления заказа.
type CheckoutState string

const (
	// CheckoutStateIdle — ожидание submit от пользователя.
	CheckoutStateIdle CheckoutState = "idle"
	// CheckoutStateSubmitting — оформление выполняется, повторный submit отклоняется.
	CheckoutStateSubmitting CheckoutState = "submitting"
	// CheckoutStateSuccess — заказ оформлен, корзина очищена.
	CheckoutStateSuccess CheckoutState = "success"
	// CheckoutStateFailed — попытка завершилась ошибкой, корзина сохранена.
	CheckoutStateFailed CheckoutState = "failed"
)

// OrderTotal — производные суммы заказа. Нигде не хранится.
type OrderTotal struct {
	Currency string
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal

	SubtotalFormatted string
	ShippingFormatted string
	TotalFormatted    string

	SubtotalUSD decimal.Decimal
	ShippingUSD decimal.Decimal
	TotalUSD    decimal.Decimal
}

// CheckoutResult — итог вызова Submit.
type CheckoutResult struct {
	OrderID string
	State   CheckoutState
	Total   OrderTotal
	// AddressSaved выставляется, если адрес записан в профиль пользователя.
	AddressSaved bool
	Completed    time.Time
}

// CheckoutEvent публикуется во внешнюю шину после завершения попытки.
type CheckoutEvent struct {
	Type     string
	OrderID  string
	UserID   string
	Currency string
	TotalUSD decimal.Decimal
	Items    int
	Reason   string
	Occurred time.Time
}
