package cart

import (
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Wishlist — избранные товары сессии без количества.
type Wishlist struct {
	mu    sync.RWMutex
	items []domain.Product
}

// NewWishlist создаёт пустое избранное.
func NewWishlist() *Wishlist {
	return &Wishlist{}
}

// Add добавляет товар, если его ещё нет в избранном.
func (w *Wishlist) Add(product domain.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexOf(product.ID) >= 0 {
		return
	}
	w.items = append(w.items, product)
}

// Remove удаляет товар из избранного, отсутствие не считается ошибкой.
func (w *Wishlist) Remove(productID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if i := w.indexOf(productID); i >= 0 {
		w.items = append(w.items[:i], w.items[i+1:]...)
	}
}

// Contains сообщает, есть ли товар в избранном.
func (w *Wishlist) Contains(productID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.indexOf(productID) >= 0
}

// Items возвращает копию избранного.
func (w *Wishlist) Items() []domain.Product {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]domain.Product, len(w.items))
	copy(result, w.items)
	return result
}

// MoveToCart переносит товар в корзину. Возвращает false, если товара нет в избранном.
func (w *Wishlist) MoveToCart(productID string, cart *Store) bool {
	w.mu.Lock()
	i := w.indexOf(productID)
	if i < 0 {
		w.mu.Unlock()
		return false
	}
	product := w.items[i]
	w.items = append(w.items[:i], w.items[i+1:]...)
	w.mu.Unlock()

	cart.Add(product)
	return true
}

func (w *Wishlist) indexOf(productID string) int {
	for i := range w.items {
		if w.items[i].ID == productID {
			return i
		}
	}
	return -1
}
