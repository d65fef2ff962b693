package memory

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const placeholderImage = "/placeholder.svg?height=400&width=400"

// SeedProducts возвращает стартовый каталог витрины.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Classic White T-Shirt",
			Description: "Essential cotton t-shirt in classic white",
			PriceUSD:    decimal.RequireFromString("19.99"),
			Image:       placeholderImage,
			Category:    domain.CategoryMensClothing,
			IsTopSeller: true,
			Stock:       120,
		},
		{
			ID:               "2",
			Name:             "Floral Summer Dress",
			Description:      "Light and breezy floral print dress",
			PriceUSD:         decimal.RequireFromString("49.99"),
			OriginalPriceUSD: decimal.NewNullDecimal(decimal.RequireFromString("79.99")),
			Image:            placeholderImage,
			Category:         domain.CategoryWomensClothing,
			IsSale:           true,
			Stock:            45,
		},
		{
			ID:          "3",
			Name:        "Kids Dinosaur Hoodie",
			Description: "Fun dinosaur print hoodie for kids",
			PriceUSD:    decimal.RequireFromString("29.99"),
			Image:       placeholderImage,
			Category:    domain.CategoryKidsWear,
			IsTopSeller: true,
			Stock:       80,
		},
		{
			ID:               "4",
			Name:             "Family Pack - Basic Tees",
			Description:      "Set of 4 basic t-shirts for the whole family",
			PriceUSD:         decimal.RequireFromString("59.99"),
			OriginalPriceUSD: decimal.NewNullDecimal(decimal.RequireFromString("89.99")),
			Image:            placeholderImage,
			Category:         domain.CategoryCombo,
			IsSale:           true,
			Stock:            30,
		},
		{
			ID:          "5",
			Name:        "Premium Zip Hoodie",
			Description: "Comfortable zip-up hoodie in premium cotton",
			PriceUSD:    decimal.RequireFromString("44.99"),
			Image:       placeholderImage,
			Category:    domain.CategoryHoodies,
			IsTopSeller: true,
			Stock:       60,
		},
	}
}

// SeedUsers возвращает стартовый справочник пользователей.
func SeedUsers() []domain.User {
	return []domain.User{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Role: domain.RoleUser},
		{ID: "admin", Name: "NOORAURA Admin", Email: "admin@nooraura.com", Role: domain.RoleAdmin},
	}
}
