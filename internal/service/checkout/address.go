package checkout

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// SetAddress заменяет адрес в форме оформления.
func (o *Orchestrator) SetAddress(address domain.ShippingAddress) {
	o.mu.Lock()
	o.address = address
	o.mu.Unlock()
}

// Address возвращает адрес из формы оформления.
func (o *Orchestrator) Address() domain.ShippingAddress {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.address
}

// SavedAddresses возвращает адреса из профиля пользователя. Если форма ещё пустая,
// в неё подставляется адрес по умолчанию. Для гостя возвращается пустой список.
func (o *Orchestrator) SavedAddresses(ctx context.Context, user *domain.User) ([]domain.SavedAddress, error) {
	if user == nil {
		return nil, nil
	}

	addresses, err := o.addresses.List(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list saved addresses: %w", err)
	}

	if def, ok := domain.DefaultAddress(addresses); ok {
		o.mu.Lock()
		if o.address.IsZero() {
			o.address = def.ShippingAddress
		}
		o.mu.Unlock()
	}

	return addresses, nil
}

// SelectSavedAddress подставляет в форму сохранённый адрес с указанным id.
// Неизвестный id оставляет форму без изменений и возвращает false.
func (o *Orchestrator) SelectSavedAddress(ctx context.Context, user *domain.User, id string) (bool, error) {
	if user == nil {
		return false, nil
	}

	addresses, err := o.addresses.List(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("list saved addresses: %w", err)
	}

	for _, a := range addresses {
		if a.ID == id {
			o.SetAddress(a.ShippingAddress)
			return true, nil
		}
	}
	return false, nil
}

// Track возвращает события попытки оформления по номеру заказа.
func (o *Orchestrator) Track(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	return TrackOrder(ctx, o.timeline, orderID)
}

// TrackOrder читает timeline заказа. Пустой timeline означает неизвестный заказ.
func TrackOrder(ctx context.Context, timeline domain.TimelineRepository, orderID string) ([]domain.TimelineEvent, error) {
	if timeline == nil {
		return nil, domain.ErrOrderNotFound
	}
	events, err := timeline.List(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	if len(events) == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return events, nil
}
