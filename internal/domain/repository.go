package domain

import "context"

// ProductCatalog описывает хранилище каталога товаров.
type ProductCatalog interface {
	// List возвращает все товары в порядке идентификаторов.
	List(ctx context.Context) ([]Product, error)
	// Get возвращает товар или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// Update заменяет запись товара; товар должен существовать.
	Update(ctx context.Context, product Product) error
	TopSellers(ctx context.Context) ([]Product, error)
	OnSale(ctx context.Context) ([]Product, error)
	ByCategory(ctx context.Context, category string) ([]Product, error)
}

// UserDirectory — справочник пользователей (identity/session).
type UserDirectory interface {
	// Get возвращает пользователя или ErrUserNotFound.
	Get(ctx context.Context, id string) (User, error)
}

// AddressRepository хранит сохранённые адреса пользователей.
type AddressRepository interface {
	// Add дописывает адрес в профиль пользователя. Дубликаты допускаются.
	Add(ctx context.Context, userID string, address SavedAddress) (SavedAddress, error)
	// List возвращает адреса пользователя в порядке добавления.
	List(ctx context.Context, userID string) ([]SavedAddress, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID string) ([]TimelineEvent, error)
}
