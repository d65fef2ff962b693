package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type userDirectory struct {
	db *sql.DB
}

// NewUserDirectory создаёт PostgreSQL-реализацию UserDirectory.
func NewUserDirectory(store *Store) domain.UserDirectory {
	return &userDirectory{db: store.DB()}
}

func (d *userDirectory) Get(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrUserIDRequired
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	var u domain.User
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, email, role FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

var _ domain.UserDirectory = (*userDirectory)(nil)
