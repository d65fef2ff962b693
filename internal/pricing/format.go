package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const fallbackSymbol = "$"

var printer = message.NewPrinter(language.AmericanEnglish)

// Format выводит сумму в стиле en-US: символ валюты перед числом, группировка
// тысяч и ровно два знака после запятой. Для неизвестного кода используется "$".
func (t *Table) Format(amount decimal.Decimal, code string) string {
	symbol := fallbackSymbol
	if c, ok := t.Lookup(code); ok {
		symbol = c.Symbol
	}
	return formatWithSymbol(amount, symbol)
}

func formatWithSymbol(amount decimal.Decimal, symbol string) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + symbol + printer.Sprintf("%.2f", rounded.InexactFloat64())
}
