package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productCatalogInMemory — каталог товаров в памяти процесса.
type productCatalogInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductCatalog создаёт in-memory каталог с переданными товарами.
func NewProductCatalog(products []domain.Product) domain.ProductCatalog {
	items := make(map[string]domain.Product, len(products))
	for _, p := range products {
		items[p.ID] = p
	}
	return &productCatalogInMemory{items: items}
}

func (c *productCatalogInMemory) List(_ context.Context) ([]domain.Product, error) {
	return c.filter(func(domain.Product) bool { return true }), nil
}

// Get возвращает товар или ErrProductNotFound.
func (c *productCatalogInMemory) Get(_ context.Context, id string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// Update заменяет существующий товар.
func (c *productCatalogInMemory) Update(_ context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	c.items[product.ID] = product
	return nil
}

func (c *productCatalogInMemory) TopSellers(_ context.Context) ([]domain.Product, error) {
	return c.filter(func(p domain.Product) bool { return p.IsTopSeller }), nil
}

func (c *productCatalogInMemory) OnSale(_ context.Context) ([]domain.Product, error) {
	return c.filter(func(p domain.Product) bool { return p.IsSale }), nil
}

func (c *productCatalogInMemory) ByCategory(_ context.Context, category string) ([]domain.Product, error) {
	return c.filter(func(p domain.Product) bool { return p.Category == category }), nil
}

func (c *productCatalogInMemory) filter(keep func(domain.Product) bool) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Product, 0, len(c.items))
	for _, p := range c.items {
		if keep(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

var _ domain.ProductCatalog = (*productCatalogInMemory)(nil)
