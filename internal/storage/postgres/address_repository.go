package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type addressRepository struct {
	db *sql.DB
}

// NewAddressRepository создаёт PostgreSQL-реализацию AddressRepository.
func NewAddressRepository(store *Store) domain.AddressRepository {
	return &addressRepository{db: store.DB()}
}

// Add сохраняет адрес в транзакции. Строка пользователя блокируется,
// чтобы параллельные вставки не получили два адреса по умолчанию.
func (r *addressRepository) Add(ctx context.Context, userID string, address domain.SavedAddress) (domain.SavedAddress, error) {
	if userID == "" {
		return domain.SavedAddress{}, domain.ErrUserIDRequired
	}
	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	if address.Type == "" {
		address.Type = domain.AddressTypeShipping
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.SavedAddress{}, fmt.Errorf("begin add address tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lockedID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SavedAddress{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.SavedAddress{}, fmt.Errorf("lock user %s: %w", userID, err)
	}

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_addresses WHERE user_id = $1`, userID,
	).Scan(&existing); err != nil {
		return domain.SavedAddress{}, fmt.Errorf("count addresses: %w", err)
	}
	if existing == 0 {
		address.IsDefault = true
	}

	if address.IsDefault && existing > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE saved_addresses SET is_default = FALSE WHERE user_id = $1`, userID,
		); err != nil {
			return domain.SavedAddress{}, fmt.Errorf("reset default address: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO saved_addresses
			(id, user_id, type, is_default, country, state, zip_code, full_name, street, city, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, address.ID, userID, address.Type, address.IsDefault,
		address.Country, address.State, address.ZipCode, address.FullName,
		address.Street, address.City, address.Phone); err != nil {
		return domain.SavedAddress{}, fmt.Errorf("insert address: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.SavedAddress{}, fmt.Errorf("commit add address tx: %w", err)
	}
	return address, nil
}

// List возвращает адреса пользователя в порядке добавления.
func (r *addressRepository) List(ctx context.Context, userID string) ([]domain.SavedAddress, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, is_default, country, state, zip_code, full_name, street, city, phone
		FROM saved_addresses
		WHERE user_id = $1
		ORDER BY seq ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := make([]domain.SavedAddress, 0)
	for rows.Next() {
		var a domain.SavedAddress
		if err := rows.Scan(&a.ID, &a.Type, &a.IsDefault, &a.Country, &a.State, &a.ZipCode,
			&a.FullName, &a.Street, &a.City, &a.Phone); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return addresses, nil
}

var _ domain.AddressRepository = (*addressRepository)(nil)
