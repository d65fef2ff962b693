// Package cart хранит корзину и избранное одной сессии в памяти процесса.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
)

// Операции корзины для метрик.
const (
	OpAdd         = "add"
	OpRemove      = "remove"
	OpSetQuantity = "set_quantity"
	OpClear       = "clear"
)

// MutationRecorder получает уведомления об изменениях корзины.
type MutationRecorder interface {
	RecordCartMutation(op string)
}

// Store — корзина сессии. Позиции упорядочены по времени добавления,
// ключ — ProductID. Итоги пересчитываются при каждом чтении.
type Store struct {
	mu      sync.RWMutex
	items   []domain.CartLineItem
	rates   *pricing.Table
	metrics MutationRecorder
}

// NewStore создаёт пустую корзину. rates используется для SubtotalIn.
func NewStore(rates *pricing.Table) *Store {
	if rates == nil {
		rates = pricing.DefaultTable()
	}
	return &Store{rates: rates}
}

// NewStoreWithMetrics создаёт корзину, которая сообщает об изменениях в recorder.
func NewStoreWithMetrics(rates *pricing.Table, recorder MutationRecorder) *Store {
	s := NewStore(rates)
	s.metrics = recorder
	return s
}

// Add увеличивает количество существующей позиции или добавляет новую с количеством 1.
func (s *Store) Add(product domain.Product) {
	s.mu.Lock()
	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, domain.NewLineItem(product))
	}
	s.mu.Unlock()
	s.record(OpAdd)
}

// Remove удаляет позицию. Отсутствующая позиция не считается ошибкой.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	removed := s.removeLocked(productID)
	s.mu.Unlock()
	if removed {
		s.record(OpRemove)
	}
}

// SetQuantity выставляет количество ровно в quantity. Значение меньше 1 удаляет позицию.
func (s *Store) SetQuantity(productID string, quantity int) {
	if quantity < 1 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	i := s.indexOf(productID)
	if i >= 0 {
		s.items[i].Quantity = quantity
	}
	s.mu.Unlock()
	if i >= 0 {
		s.record(OpSetQuantity)
	}
}

// Clear очищает корзину.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.record(OpClear)
}

// Items возвращает копию позиций.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CartLineItem, len(s.items))
	copy(result, s.items)
	return result
}

// Len возвращает количество позиций.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Count возвращает суммарное количество единиц товара.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal возвращает сумму позиций в базовой валюте.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotalUSD())
	}
	return total
}

// SubtotalIn возвращает сумму позиций в валюте отображения.
func (s *Store) SubtotalIn(code string) decimal.Decimal {
	return s.rates.FromBase(s.Subtotal(), code)
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(productID string) bool {
	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *Store) record(op string) {
	if s.metrics != nil {
		s.metrics.RecordCartMutation(op)
	}
}
