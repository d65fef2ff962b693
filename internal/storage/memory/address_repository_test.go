package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func sampleAddress(city string) domain.SavedAddress {
	return domain.SavedAddress{
		ShippingAddress: domain.ShippingAddress{
			Country:  "India",
			State:    "Karnataka",
			ZipCode:  "560001",
			FullName: "John Doe",
			Street:   "12 MG Road",
			City:     city,
			Phone:    "+91 80 1234 5678",
		},
	}
}

func TestAddressRepositoryFirstAddressIsDefault(t *testing.T) {
	ctx := context.Background()
	repo := NewAddressRepository(NewUserDirectory(SeedUsers()))

	first, err := repo.Add(ctx, "1", sampleAddress("Bengaluru"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == "" || first.Type != domain.AddressTypeShipping || !first.IsDefault {
		t.Fatalf("unexpected first address: %+v", first)
	}

	second, err := repo.Add(ctx, "1", sampleAddress("Mysuru"))
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.IsDefault {
		t.Fatal("second address should not become default")
	}

	list, _ := repo.List(ctx, "1")
	if len(list) != 2 || list[0].City != "Bengaluru" || list[1].City != "Mysuru" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestAddressRepositoryExplicitDefaultClearsOthers(t *testing.T) {
	ctx := context.Background()
	repo := NewAddressRepository(nil)

	_, _ = repo.Add(ctx, "1", sampleAddress("Bengaluru"))
	addr := sampleAddress("Chennai")
	addr.IsDefault = true
	_, _ = repo.Add(ctx, "1", addr)

	list, _ := repo.List(ctx, "1")
	def, ok := domain.DefaultAddress(list)
	if !ok || def.City != "Chennai" {
		t.Fatalf("expected Chennai to be default, got %+v", def)
	}
	if list[0].IsDefault {
		t.Fatal("previous default flag should be cleared")
	}
}

func TestAddressRepositoryAcceptsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewAddressRepository(nil)

	_, _ = repo.Add(ctx, "1", sampleAddress("Bengaluru"))
	_, _ = repo.Add(ctx, "1", sampleAddress("Bengaluru"))

	list, _ := repo.List(ctx, "1")
	if len(list) != 2 {
		t.Fatalf("expected duplicates to be kept, got %d", len(list))
	}
	if list[0].ID == list[1].ID {
		t.Fatal("expected distinct ids for duplicates")
	}
}

func TestAddressRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewAddressRepository(NewUserDirectory(SeedUsers()))

	if _, err := repo.Add(ctx, "", sampleAddress("X")); !errors.Is(err, domain.ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if _, err := repo.Add(ctx, "ghost", sampleAddress("X")); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.List(ctx, ""); !errors.Is(err, domain.ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired on list, got %v", err)
	}

	list, err := repo.List(ctx, "admin")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list for user without addresses, got %v (%v)", list, err)
	}
}
