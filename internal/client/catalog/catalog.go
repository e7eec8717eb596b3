package catalog

import (
	"context"
	"sync"

	"github.com/dmaia/balanco/internal/core/domain"
)

// Source provides the product list for an inventory, typically the
// server API.
type Source interface {
	ListProducts(ctx context.Context, inventoryID int64) ([]domain.Product, error)
}

// Cache is the scanner's product lookup: two indexes plus the inventory
// they were built for. Callers hold the instance; there is no ambient
// package-level state. Reload replaces both indexes atomically.
type Cache struct {
	source Source

	mu          sync.RWMutex
	inventoryID int64
	byBarcode   map[string]domain.Product
	byCode      map[string]domain.Product
}

func New(source Source) *Cache {
	return &Cache{source: source}
}

func (c *Cache) Reload(ctx context.Context, inventoryID int64) error {
	products, err := c.source.ListProducts(ctx, inventoryID)
	if err != nil {
		return err
	}

	byBarcode := make(map[string]domain.Product, len(products))
	byCode := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if p.Barcode != "" {
			byBarcode[p.Barcode] = p
		}
		if p.Code != "" {
			byCode[p.Code] = p
		}
	}

	c.mu.Lock()
	c.inventoryID = inventoryID
	c.byBarcode = byBarcode
	c.byCode = byCode
	c.mu.Unlock()
	return nil
}

func (c *Cache) LookupBarcode(barcode string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byBarcode[barcode]
	return p, ok
}

func (c *Cache) LookupCode(code string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byCode[code]
	return p, ok
}

// InventoryID reports which inventory the indexes were built for, zero
// before the first Reload.
func (c *Cache) InventoryID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inventoryID
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byCode)
}
