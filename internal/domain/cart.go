package domain

import "github.com/shopspring/decimal"

// CartLineItem — одна позиция корзины. Quantity всегда >= 1.
type CartLineItem struct {
	ProductID    string
	Name         string
	UnitPriceUSD decimal.Decimal
	Quantity     int
	ImageRef     string
}

// LineTotalUSD возвращает стоимость позиции в базовой валюте.
func (i CartLineItem) LineTotalUSD() decimal.Decimal {
	return i.UnitPriceUSD.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewLineItem создаёт позицию корзины из товара каталога с количеством 1.
func NewLineItem(p Product) CartLineItem {
	return CartLineItem{
		ProductID:    p.ID,
		Name:         p.Name,
		UnitPriceUSD: p.PriceUSD,
		Quantity:     1,
		ImageRef:     p.Image,
	}
}
