package shipping

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestCost(t *testing.T) {
	policy := DefaultPolicy()
	addresses := []domain.ShippingAddress{
		{},
		{Country: "India", State: "Goa", ZipCode: "403001", FullName: "A", Street: "B", City: "Panaji", Phone: "1"},
		{Country: "United Kingdom", City: "London"},
	}

	cases := []struct {
		subtotal string
		want     string
	}{
		{"60", "0"},
		{"40", "10"},
		{"50", "10"},
		{"50.01", "0"},
		{"39.98", "10"},
		{"69.98", "0"},
		{"0", "10"},
	}

	for _, tc := range cases {
		for _, addr := range addresses {
			got := policy.Cost(decimal.RequireFromString(tc.subtotal), addr)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("Cost(%s, %+v) = %s, want %s", tc.subtotal, addr, got, tc.want)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := Policy{FreeThreshold: decimal.NewFromInt(-1), FlatRate: decimal.NewFromInt(10)}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative threshold")
	}
	bad = Policy{FreeThreshold: decimal.NewFromInt(50), FlatRate: decimal.NewFromInt(-10)}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative rate")
	}
}
