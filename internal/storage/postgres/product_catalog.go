package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const productColumns = `id, name, description, price_usd, original_price_usd, image, category, is_top_seller, is_sale, stock`

type productCatalog struct {
	db *sql.DB
}

// NewProductCatalog создаёт PostgreSQL-реализацию ProductCatalog.
func NewProductCatalog(store *Store) domain.ProductCatalog {
	return &productCatalog{db: store.DB()}
}

func (c *productCatalog) List(ctx context.Context) ([]domain.Product, error) {
	return c.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (c *productCatalog) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	row := c.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return product, nil
}

// Update заменяет запись товара целиком.
func (c *productCatalog) Update(ctx context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := c.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_usd = $4, original_price_usd = $5,
		    image = $6, category = $7, is_top_seller = $8, is_sale = $9, stock = $10,
		    updated_at = NOW()
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.PriceUSD, product.OriginalPriceUSD,
		product.Image, product.Category, product.IsTopSeller, product.IsSale, product.Stock)
	if err != nil {
		return fmt.Errorf("update product %s: %w", product.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product %s rows affected: %w", product.ID, err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (c *productCatalog) TopSellers(ctx context.Context) ([]domain.Product, error) {
	return c.query(ctx, `SELECT `+productColumns+` FROM products WHERE is_top_seller ORDER BY id`)
}

func (c *productCatalog) OnSale(ctx context.Context) ([]domain.Product, error) {
	return c.query(ctx, `SELECT `+productColumns+` FROM products WHERE is_sale ORDER BY id`)
}

func (c *productCatalog) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return c.query(ctx, `SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY id`, category)
}

func (c *productCatalog) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceUSD, &p.OriginalPriceUSD,
		&p.Image, &p.Category, &p.IsTopSeller, &p.IsSale, &p.Stock)
	return p, err
}

var _ domain.ProductCatalog = (*productCatalog)(nil)
