package store

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"github.com/leafmatch/backend/internal/domain"
	"github.com/leafmatch/backend/internal/metrics"
)

// StrainStore answers aggregate queries over historical strain records.
// Aggregates are computed in Go over the strain's rows and memoized in an
// LRU since manifests repeat the same strains heavily.
type StrainStore struct {
	db    *gorm.DB
	cache *lru.Cache[string, *domain.AggregatedStrainInfo]
}

// NewStrainStore creates a strain store with an aggregate LRU of the given
// size.
func NewStrainStore(db *gorm.DB, cacheSize int) (*StrainStore, error) {
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, *domain.AggregatedStrainInfo](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create strain cache: %w", err)
	}
	return &StrainStore{db: db, cache: cache}, nil
}

// Aggregate returns the most frequent attributes observed for one strain
// name. Returns domain.ErrStrainNotFound when no records exist.
func (s *StrainStore) Aggregate(ctx context.Context, strainName string) (*domain.AggregatedStrainInfo, error) {
	key := strainKey(strainName)
	if key == "" {
		return nil, domain.ErrStrainNotFound
	}

	if info, ok := s.cache.Get(key); ok {
		metrics.StrainLookupsTotal.WithLabelValues("cached").Inc()
		return info, nil
	}

	var records []StrainRecord
	if err := s.db.WithContext(ctx).Where("strain_key = ?", key).Order("id").Find(&records).Error; err != nil {
		metrics.StrainLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("strain query failed: %w", err)
	}

	if len(records) == 0 {
		metrics.StrainLookupsTotal.WithLabelValues("miss").Inc()
		return nil, domain.ErrStrainNotFound
	}

	info := aggregateRecords(records)
	s.cache.Add(key, info)
	metrics.StrainLookupsTotal.WithLabelValues("hit").Inc()
	return info, nil
}

// strainKey normalizes a strain name to its lookup key.
func strainKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// aggregateRecords reduces a strain's rows to its most frequent brand,
// vendor, weight, price, and lineage, plus per-brand lineage overrides.
func aggregateRecords(records []StrainRecord) *domain.AggregatedStrainInfo {
	info := &domain.AggregatedStrainInfo{
		Strain:      records[0].Strain,
		Occurrences: len(records),
	}

	brands := newModeCounter()
	vendors := newModeCounter()
	weights := newModeCounter()
	lineages := newModeCounter()
	prices := newModeCounter()
	brandLineages := make(map[string]*modeCounter)

	for _, r := range records {
		brands.add(r.Brand)
		vendors.add(r.Vendor)
		weights.add(r.Weight)
		lineages.add(r.Lineage)
		if r.Price > 0 {
			prices.add(fmt.Sprintf("%.2f", r.Price))
		}
		if r.Brand != "" && r.Lineage != "" {
			if brandLineages[r.Brand] == nil {
				brandLineages[r.Brand] = newModeCounter()
			}
			brandLineages[r.Brand].add(r.Lineage)
		}
	}

	info.MostCommonBrand = brands.mode()
	info.MostCommonVendor = vendors.mode()
	info.MostCommonWeight = weights.mode()
	info.CanonicalLineage = lineages.mode()
	if p := prices.mode(); p != "" {
		fmt.Sscanf(p, "%f", &info.AggregatePrice)
	}

	if len(brandLineages) > 0 {
		info.BrandLineages = make(map[string]string, len(brandLineages))
		for brand, counter := range brandLineages {
			info.BrandLineages[brand] = counter.mode()
		}
	}

	return info
}

// modeCounter tracks the most frequent non-empty value, breaking frequency
// ties by first occurrence so aggregates are deterministic.
type modeCounter struct {
	counts map[string]int
	order  []string
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: make(map[string]int)}
}

func (m *modeCounter) add(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, seen := m.counts[value]; !seen {
		m.order = append(m.order, value)
	}
	m.counts[value]++
}

func (m *modeCounter) mode() string {
	best := ""
	bestCount := 0
	for _, value := range m.order {
		if m.counts[value] > bestCount {
			best = value
			bestCount = m.counts[value]
		}
	}
	return best
}
