package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leafmatch/backend/internal/domain"
)

// CatalogStore reads the authoritative product catalog for index builds.
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore creates a catalog store over the given database handle.
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// AllEntries returns the full catalog snapshot in primary-key order, so
// repeated index builds over an unchanged catalog are deterministic.
func (s *CatalogStore) AllEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	var products []CatalogProduct
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}

	entries := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, domain.CatalogEntry{
			Name:        p.Name,
			Vendor:      p.Vendor,
			Brand:       p.Brand,
			ProductType: p.ProductType,
			Strain:      p.Strain,
			Lineage:     p.Lineage,
			Weight:      p.Weight,
			Price:       p.Price,
		})
	}
	return entries, nil
}
