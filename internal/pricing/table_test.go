package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	if table.Base() != "USD" {
		t.Fatalf("unexpected base: %s", table.Base())
	}
	inr, ok := table.Lookup("inr")
	if !ok {
		t.Fatal("expected INR in default table")
	}
	if !inr.Rate.Equal(d("82.97")) || inr.Symbol != "₹" {
		t.Fatalf("unexpected INR entry: %+v", inr)
	}
	if got := table.Codes(); len(got) != 4 || got[0] != "EUR" {
		t.Fatalf("unexpected codes: %v", got)
	}
	if got := table.Currencies(); got[0].Code != "USD" || got[1].Code != "INR" {
		t.Fatalf("expected declaration order, got %v", got)
	}
}

func TestNewTableRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name       string
		base       string
		currencies []domain.Currency
	}{
		{
			name: "empty base",
			base: "",
			currencies: []domain.Currency{
				{Code: "USD", Rate: d("1")},
			},
		},
		{
			name: "duplicate code",
			base: "USD",
			currencies: []domain.Currency{
				{Code: "USD", Rate: d("1")},
				{Code: "usd", Rate: d("1")},
			},
		},
		{
			name: "non-positive rate",
			base: "USD",
			currencies: []domain.Currency{
				{Code: "USD", Rate: d("1")},
				{Code: "EUR", Rate: d("0")},
			},
		},
		{
			name: "second unit rate",
			base: "USD",
			currencies: []domain.Currency{
				{Code: "USD", Rate: d("1")},
				{Code: "EUR", Rate: d("1")},
			},
		},
		{
			name: "base missing",
			base: "USD",
			currencies: []domain.Currency{
				{Code: "EUR", Rate: d("0.92")},
			},
		},
		{
			name: "base rate is not one",
			base: "USD",
			currencies: []domain.Currency{
				{Code: "USD", Rate: d("2")},
			},
		},
		{
			name: "not an iso code",
			base: "USD",
			currencies: []domain.Currency{
				{Code: "USD", Rate: d("1")},
				{Code: "XYZW", Rate: d("3")},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.base, tc.currencies)
			if !errors.Is(err, domain.ErrCurrencyTableInvalid) {
				t.Fatalf("expected ErrCurrencyTableInvalid, got %v", err)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	table := DefaultTable()

	got := table.Convert(d("10"), "USD", "INR")
	if !got.Equal(d("829.7")) {
		t.Fatalf("expected 829.7, got %s", got)
	}

	got = table.Convert(d("92"), "EUR", "USD")
	if !got.Equal(d("100")) {
		t.Fatalf("expected 100, got %s", got)
	}
}

func TestConvertIdentityIsExact(t *testing.T) {
	table := DefaultTable()
	amount := d("19.990000000000000001")

	for _, code := range table.Codes() {
		if got := table.Convert(amount, code, code); !got.Equal(amount) {
			t.Fatalf("%s: identity conversion changed %s to %s", code, amount, got)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	table := DefaultTable()
	tolerance := d("0.000000001")
	amounts := []decimal.Decimal{d("0"), d("0.01"), d("19.99"), d("49.99"), d("12345.67")}

	for _, a := range table.Codes() {
		for _, b := range table.Codes() {
			for _, x := range amounts {
				back := table.Convert(table.Convert(x, a, b), b, a)
				if back.Sub(x).Abs().GreaterThan(tolerance) {
					t.Fatalf("%s->%s->%s: %s became %s", a, b, a, x, back)
				}
			}
		}
	}
}

func TestConvertUnknownCodeReturnsAmount(t *testing.T) {
	table := DefaultTable()
	amount := d("42.5")

	if got := table.Convert(amount, "JPY", "USD"); !got.Equal(amount) {
		t.Fatalf("unknown source: expected %s, got %s", amount, got)
	}
	if got := table.Convert(amount, "USD", ""); !got.Equal(amount) {
		t.Fatalf("unknown target: expected %s, got %s", amount, got)
	}
}

func TestFromBase(t *testing.T) {
	table := DefaultTable()
	if got := table.FromBase(d("100"), "GBP"); !got.Equal(d("79")) {
		t.Fatalf("expected 79, got %s", got)
	}
}
