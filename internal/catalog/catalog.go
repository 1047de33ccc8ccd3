// Package catalog holds the in-memory product catalog cache. The catalog is
// fetched once per session, never persisted, and used to resolve cart
// entries into displayable line items and monetary totals.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/models"
)

// Cache is a read-mostly snapshot of the public product catalog.
type Cache struct {
	mu       sync.RWMutex
	products []models.Product
	byID     map[string]models.Product
}

// New creates an empty catalog cache.
func New() *Cache {
	return &Cache{byID: make(map[string]models.Product)}
}

// Load fetches the catalog and replaces the cached snapshot. On failure the
// previous snapshot is discarded; the catalog is rebuilt on the next load.
func (c *Cache) Load(ctx context.Context, client *api.Client) error {
	products, err := client.ListProducts(ctx)
	if err != nil {
		c.Replace(nil)
		return err
	}

	c.Replace(products)
	return nil
}

// Replace swaps the cached product list. Used directly by tests.
func (c *Cache) Replace(products []models.Product) {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.byID = byID
}

// Lookup resolves a product id against the cache.
func (c *Cache) Lookup(productID string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[productID]
	return p, ok
}

// All returns the cached products.
func (c *Cache) All() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of cached products.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// SortOrder controls Search result ordering.
type SortOrder string

const (
	SortRelevant  SortOrder = "relevant"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// Search filters the catalog client-side: a case-insensitive name match plus
// optional category name filters, the same filtering the storefront's
// collection view applies.
func (c *Cache) Search(term string, categories []string, order SortOrder) []models.Product {
	c.mu.RLock()
	products := c.products
	c.mu.RUnlock()

	term = strings.ToLower(strings.TrimSpace(term))

	var out []models.Product
	for _, p := range products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if len(categories) > 0 && !containsFold(categories, p.Category.Name) {
			continue
		}
		out = append(out, p)
	}

	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[j].Price.LessThan(out[i].Price) })
	}

	return out
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
