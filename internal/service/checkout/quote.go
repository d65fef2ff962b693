package checkout

import (
	"strings"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Quote считает итоги заказа по текущей корзине и адресу. Доставка определяется
// по сумме в базовой валюте, затем все суммы переводятся в валюту отображения.
func (o *Orchestrator) Quote(currency string) domain.OrderTotal {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	subtotalUSD := o.cart.Subtotal()
	shippingUSD := o.shipping.Cost(subtotalUSD, o.Address())

	subtotal := o.rates.FromBase(subtotalUSD, currency)
	shippingCost := o.rates.FromBase(shippingUSD, currency)
	total := subtotal.Add(shippingCost)

	return domain.OrderTotal{
		Currency:          currency,
		Subtotal:          subtotal,
		Shipping:          shippingCost,
		Total:             total,
		SubtotalFormatted: o.rates.Format(subtotal, currency),
		ShippingFormatted: o.rates.Format(shippingCost, currency),
		TotalFormatted:    o.rates.Format(total, currency),
		SubtotalUSD:       subtotalUSD,
		ShippingUSD:       shippingUSD,
		TotalUSD:          subtotalUSD.Add(shippingUSD),
	}
}
