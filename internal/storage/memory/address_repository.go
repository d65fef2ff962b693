package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// addressRepositoryInMemory хранит сохранённые адреса в памяти (сбрасываются при рестарте).
type addressRepositoryInMemory struct {
	mu        sync.RWMutex
	users     domain.UserDirectory
	addresses map[string][]domain.SavedAddress
}

// NewAddressRepository создаёт in-memory AddressRepository. Если users не nil,
// адреса неизвестных пользователей отклоняются с ErrUserNotFound.
func NewAddressRepository(users domain.UserDirectory) domain.AddressRepository {
	return &addressRepositoryInMemory{
		users:     users,
		addresses: make(map[string][]domain.SavedAddress),
	}
}

// Add дописывает адрес. Первый адрес пользователя или адрес с IsDefault
// становится адресом по умолчанию, у остальных флаг снимается.
func (r *addressRepositoryInMemory) Add(ctx context.Context, userID string, address domain.SavedAddress) (domain.SavedAddress, error) {
	if userID == "" {
		return domain.SavedAddress{}, domain.ErrUserIDRequired
	}
	if r.users != nil {
		if _, err := r.users.Get(ctx, userID); err != nil {
			return domain.SavedAddress{}, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.addresses[userID]
	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	if address.Type == "" {
		address.Type = domain.AddressTypeShipping
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}
	if address.IsDefault {
		for i := range existing {
			existing[i].IsDefault = false
		}
	}

	r.addresses[userID] = append(existing, address)
	return address, nil
}

// List возвращает адреса пользователя в порядке добавления.
func (r *addressRepositoryInMemory) List(_ context.Context, userID string) ([]domain.SavedAddress, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.addresses[userID]
	result := make([]domain.SavedAddress, len(items))
	copy(result, items)
	return result, nil
}

var _ domain.AddressRepository = (*addressRepositoryInMemory)(nil)
