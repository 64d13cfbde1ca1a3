package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// catalogCache holds company-scoped product catalogs fetched from the ERP
// backend. Catalogs are reference data and change rarely; one fetch per
// company per process lifetime is enough, with explicit invalidation when a
// stale catalog is suspected.
type catalogCache struct {
	provider port.ReferenceDataProvider

	mu       sync.RWMutex
	catalogs map[string]map[string]*entity.CatalogProduct
}

func newCatalogCache(provider port.ReferenceDataProvider) *catalogCache {
	return &catalogCache{
		provider: provider,
		catalogs: make(map[string]map[string]*entity.CatalogProduct),
	}
}

// Get returns the catalog for a company keyed by product id, fetching it on
// first use.
func (c *catalogCache) Get(ctx context.Context, companyID string) (map[string]*entity.CatalogProduct, error) {
	c.mu.RLock()
	catalog, ok := c.catalogs[companyID]
	c.mu.RUnlock()
	if ok {
		return catalog, nil
	}

	products, err := c.provider.ListProductsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load catalog for company %s: %w", companyID, err)
	}

	catalog = make(map[string]*entity.CatalogProduct, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	c.mu.Lock()
	c.catalogs[companyID] = catalog
	c.mu.Unlock()

	return catalog, nil
}
