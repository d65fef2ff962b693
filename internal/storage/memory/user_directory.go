package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type userDirectoryInMemory struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserDirectory создаёт справочник пользователей в памяти.
func NewUserDirectory(users []domain.User) domain.UserDirectory {
	items := make(map[string]domain.User, len(users))
	for _, u := range users {
		items[u.ID] = u
	}
	return &userDirectoryInMemory{users: items}
}

// Get возвращает пользователя или ErrUserNotFound.
func (d *userDirectoryInMemory) Get(_ context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrUserIDRequired
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

var _ domain.UserDirectory = (*userDirectoryInMemory)(nil)
