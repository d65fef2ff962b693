// Package shipping рассчитывает стоимость доставки заказа.
package shipping

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Policy — правило "бесплатно выше порога, иначе фиксированная ставка".
// Суммы указаны в базовой валюте.
type Policy struct {
	FreeThreshold decimal.Decimal
	FlatRate      decimal.Decimal
}

// DefaultPolicy возвращает правило витрины: бесплатно при сумме больше 50, иначе 10.
func DefaultPolicy() Policy {
	return Policy{
		FreeThreshold: decimal.NewFromInt(50),
		FlatRate:      decimal.NewFromInt(10),
	}
}

// Validate проверяет, что порог и ставка неотрицательны.
func (p Policy) Validate() error {
	if p.FreeThreshold.IsNegative() {
		return errors.New("shipping free threshold must be non-negative")
	}
	if p.FlatRate.IsNegative() {
		return errors.New("shipping flat rate must be non-negative")
	}
	return nil
}

// Cost возвращает стоимость доставки. Порог строгий: сумма, равная порогу,
// доставляется платно. Адрес пока не влияет на ставку.
func (p Policy) Cost(subtotalUSD decimal.Decimal, _ domain.ShippingAddress) decimal.Decimal {
	if subtotalUSD.GreaterThan(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FlatRate
}
