package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentService описывает авторизацию платежа при оформлении заказа.
type PaymentService interface {
	// Authorize резервирует сумму заказа у провайдера.
	Authorize(ctx context.Context, orderID string, amount decimal.Decimal, currency string) (PaymentStatus, error)
}

// EventPublisher отправляет события оформления наружу (Kafka).
type EventPublisher interface {
	Publish(ctx context.Context, event CheckoutEvent) error
}

// PaymentStatus описывает результат авторизации.
type PaymentStatus string

const (
	// PaymentStatusAuthorized — сумма зарезервирована у провайдера.
	PaymentStatusAuthorized PaymentStatus = "authorized"
	// PaymentStatusDeclined — провайдер отклонил платёж.
	PaymentStatusDeclined PaymentStatus = "declined"
)
