package domain

import "github.com/shopspring/decimal"

// Категории каталога.
const (
	CategoryMensClothing   = "mens-clothing"
	CategoryWomensClothing = "womens-clothing"
	CategoryKidsWear       = "kids-wear"
	CategoryCombo          = "combo"
	CategoryHoodies        = "hoodies"
)

// Product — запись каталога, цены хранятся в базовой валюте (USD).
type Product struct {
	ID          string
	Name        string
	Description string
	PriceUSD    decimal.Decimal
	// OriginalPriceUSD заполнена только у товаров со скидкой.
	OriginalPriceUSD decimal.NullDecimal
	Image            string
	Category         string
	IsTopSeller      bool
	IsSale           bool
	Stock            int
}

// Validate проверяет обязательные поля товара.
func (p Product) Validate() error {
	if p.ID == "" {
		return ErrProductIDRequired
	}
	if !p.PriceUSD.IsPositive() {
		return ErrProductPriceInvalid
	}
	return nil
}
