package domain

import "github.com/shopspring/decimal"

// Currency описывает валюту витрины и её курс относительно базовой валюты.
type Currency struct {
	Code   string
	Symbol string
	Name   string
	// Rate — сколько единиц валюты приходится на одну единицу базовой.
	Rate decimal.Decimal
}
