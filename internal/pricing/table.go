// Package pricing содержит таблицу курсов витрины, конвертацию и форматирование цен.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// BaseCurrency — валюта, в которой хранятся цены каталога.
const BaseCurrency = "USD"

// Table — неизменяемая таблица курсов относительно базовой валюты.
type Table struct {
	base       string
	currencies map[string]domain.Currency
	order      []string
}

// DefaultTable возвращает встроенную таблицу курсов.
func DefaultTable() *Table {
	t, err := NewTable(BaseCurrency, DefaultCurrencies())
	if err != nil {
		panic(fmt.Sprintf("default currency table: %v", err))
	}
	return t
}

// DefaultCurrencies возвращает валюты, которые витрина поддерживает из коробки.
func DefaultCurrencies() []domain.Currency {
	return []domain.Currency{
		{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: decimal.NewFromInt(1)},
		{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Rate: decimal.RequireFromString("82.97")},
		{Code: "EUR", Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.92")},
		{Code: "GBP", Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.79")},
	}
}

// NewTable проверяет инварианты и строит таблицу: коды уникальны и валидны по ISO 4217,
// курсы положительны, курс 1 ровно у одной валюты и это base.
func NewTable(base string, currencies []domain.Currency) (*Table, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return nil, fmt.Errorf("%w: base currency is required", domain.ErrCurrencyTableInvalid)
	}

	t := &Table{
		base:       base,
		currencies: make(map[string]domain.Currency, len(currencies)),
		order:      make([]string, 0, len(currencies)),
	}

	one := decimal.NewFromInt(1)
	unitRates := 0
	for _, c := range currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if _, err := currency.ParseISO(code); err != nil {
			return nil, fmt.Errorf("%w: code %q: %v", domain.ErrCurrencyTableInvalid, c.Code, err)
		}
		if _, dup := t.currencies[code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", domain.ErrCurrencyTableInvalid, code)
		}
		if !c.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: rate of %s must be positive", domain.ErrCurrencyTableInvalid, code)
		}
		if c.Rate.Equal(one) {
			unitRates++
			if code != base {
				return nil, fmt.Errorf("%w: %s has rate 1 but base is %s", domain.ErrCurrencyTableInvalid, code, base)
			}
		}
		c.Code = code
		t.currencies[code] = c
		t.order = append(t.order, code)
	}

	if _, ok := t.currencies[base]; !ok {
		return nil, fmt.Errorf("%w: base %s is not in the table", domain.ErrCurrencyTableInvalid, base)
	}
	if unitRates != 1 {
		return nil, fmt.Errorf("%w: expected exactly one currency with rate 1, got %d", domain.ErrCurrencyTableInvalid, unitRates)
	}

	return t, nil
}

// Base возвращает код базовой валюты.
func (t *Table) Base() string { return t.base }

// Lookup ищет валюту по коду без учёта регистра.
func (t *Table) Lookup(code string) (domain.Currency, bool) {
	c, ok := t.currencies[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Currencies возвращает валюты в порядке объявления.
func (t *Table) Currencies() []domain.Currency {
	result := make([]domain.Currency, 0, len(t.order))
	for _, code := range t.order {
		result = append(result, t.currencies[code])
	}
	return result
}

// Codes возвращает отсортированный список кодов.
func (t *Table) Codes() []string {
	codes := append([]string(nil), t.order...)
	sort.Strings(codes)
	return codes
}

// Convert переводит сумму через базовую валюту: amount / rate(from) * rate(to).
// Неизвестный код любой из сторон возвращает сумму без изменений.
func (t *Table) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	src, ok := t.Lookup(from)
	if !ok {
		return amount
	}
	dst, ok := t.Lookup(to)
	if !ok {
		return amount
	}
	if src.Code == dst.Code {
		return amount
	}
	return amount.Div(src.Rate).Mul(dst.Rate)
}

// FromBase переводит сумму из базовой валюты в code.
func (t *Table) FromBase(amount decimal.Decimal, code string) decimal.Decimal {
	return t.Convert(amount, t.base, code)
}
