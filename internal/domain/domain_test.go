package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func fullAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Country:  "India",
		State:    "Maharashtra",
		ZipCode:  "400001",
		FullName: "John Doe",
		Street:   "1 Marine Drive",
		City:     "Mumbai",
		Phone:    "+91 22 1234 5678",
	}
}

func TestShippingAddressComplete(t *testing.T) {
	addr := fullAddress()
	if !addr.Complete() {
		t.Fatal("expected filled address to be complete")
	}

	addr.Phone = "   "
	if addr.Complete() {
		t.Fatal("expected blank phone to make address incomplete")
	}

	if !(domain.ShippingAddress{}).IsZero() {
		t.Fatal("expected empty address to be zero")
	}
}

func TestDefaultAddress(t *testing.T) {
	if _, ok := domain.DefaultAddress(nil); ok {
		t.Fatal("expected no default in empty list")
	}

	list := []domain.SavedAddress{
		{ID: "a", ShippingAddress: fullAddress()},
		{ID: "b", IsDefault: true, ShippingAddress: fullAddress()},
	}
	got, ok := domain.DefaultAddress(list)
	if !ok || got.ID != "b" {
		t.Fatalf("expected default b, got %q (ok=%v)", got.ID, ok)
	}
}

func TestLineItemTotal(t *testing.T) {
	item := domain.NewLineItem(domain.Product{
		ID:       "1",
		Name:     "Classic White T-Shirt",
		PriceUSD: decimal.RequireFromString("19.99"),
		Image:    "/tshirt.png",
	})
	if item.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", item.Quantity)
	}
	item.Quantity = 2
	if !item.LineTotalUSD().Equal(decimal.RequireFromString("39.98")) {
		t.Fatalf("unexpected line total: %s", item.LineTotalUSD())
	}
}

func TestProductValidate(t *testing.T) {
	if err := (domain.Product{PriceUSD: decimal.NewFromInt(1)}).Validate(); !errors.Is(err, domain.ErrProductIDRequired) {
		t.Fatalf("expected ErrProductIDRequired, got %v", err)
	}
	if err := (domain.Product{ID: "1"}).Validate(); !errors.Is(err, domain.ErrProductPriceInvalid) {
		t.Fatalf("expected ErrProductPriceInvalid, got %v", err)
	}
	if err := (domain.Product{ID: "1", PriceUSD: decimal.NewFromInt(1)}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsCheckoutRejected(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", domain.ErrCheckoutInProgress)
	if !domain.IsCheckoutRejected(wrapped) {
		t.Fatal("expected wrapped in-progress error to be a rejection")
	}
	if domain.IsCheckoutRejected(domain.ErrCheckoutTimeout) {
		t.Fatal("timeout is a failure, not a rejection")
	}
}
