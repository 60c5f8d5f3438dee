package usecase

import (
	"log"

	"github.com/leafmatch/backend/internal/domain"
)

// IndexStats carries diagnostics from one index build.
type IndexStats struct {
	Entries        int // entries indexed
	Skipped        int // entries excluded because their name normalized to empty
	DuplicateNames int // exact-name collisions (last write wins)
}

// CatalogIndex holds the three lookup structures built once per catalog
// snapshot. It is read-only after construction and safe for any number of
// concurrent readers; rebuilds produce a new instance that replaces the
// old one atomically.
type CatalogIndex struct {
	exactByName map[string]*domain.CatalogEntry
	byVendor    map[string][]*domain.CatalogEntry
	byToken     map[string][]*domain.CatalogEntry
	entries     []*domain.CatalogEntry
	stats       IndexStats
}

// BuildCatalogIndex normalizes and indexes a catalog snapshot. The input
// slice is copied; the index owns its entries and never mutates them after
// build. Returns ErrEmptyCatalog when there is nothing to index.
func BuildCatalogIndex(entries []domain.CatalogEntry) (*CatalogIndex, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	idx := &CatalogIndex{
		exactByName: make(map[string]*domain.CatalogEntry, len(entries)),
		byVendor:    make(map[string][]*domain.CatalogEntry),
		byToken:     make(map[string][]*domain.CatalogEntry),
		entries:     make([]*domain.CatalogEntry, 0, len(entries)),
	}

	for i := range entries {
		entry := entries[i] // copy; the index owns this snapshot

		entry.NormalizedName = NormalizeName(entry.Name)
		if entry.NormalizedName == "" {
			idx.stats.Skipped++
			continue
		}

		entry.NormalizedVendor = NormalizeVendor(entry.Vendor)
		entry.Tokens = Tokenize(entry.NormalizedName)
		entry.TypeTokens = ExtractTypeTokens(entry.Tokens)
		entry.StrainTokens = ExtractStrainTokens(entry.Tokens)
		if len(entry.TypeTokens) == 0 && entry.ProductType != "" {
			entry.TypeTokens = ExtractTypeTokens(Tokenize(NormalizeName(entry.ProductType)))
		}
		if len(entry.StrainTokens) == 0 && entry.Strain != "" {
			entry.StrainTokens = ExtractStrainTokens(Tokenize(NormalizeName(entry.Strain)))
		}

		e := &entry
		idx.entries = append(idx.entries, e)

		if _, dup := idx.exactByName[entry.NormalizedName]; dup {
			idx.stats.DuplicateNames++
		}
		idx.exactByName[entry.NormalizedName] = e

		if entry.NormalizedVendor != "" {
			idx.byVendor[entry.NormalizedVendor] = append(idx.byVendor[entry.NormalizedVendor], e)
		}

		// One posting per token per entry; Tokenize already dedupes
		// within a single name.
		for _, token := range entry.Tokens {
			idx.byToken[token] = append(idx.byToken[token], e)
		}
	}

	idx.stats.Entries = len(idx.entries)
	if idx.stats.Entries == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	if idx.stats.Skipped > 0 || idx.stats.DuplicateNames > 0 {
		log.Printf("[INDEX] Built with %d entries (%d skipped, %d duplicate names)",
			idx.stats.Entries, idx.stats.Skipped, idx.stats.DuplicateNames)
	}

	return idx, nil
}

// Stats returns build diagnostics.
func (idx *CatalogIndex) Stats() IndexStats {
	return idx.stats
}

// Size returns the number of indexed entries.
func (idx *CatalogIndex) Size() int {
	return len(idx.entries)
}

// LookupExact returns the entry whose normalized name equals the given
// normalized name, if any.
func (idx *CatalogIndex) LookupExact(normalizedName string) (*domain.CatalogEntry, bool) {
	e, ok := idx.exactByName[normalizedName]
	return e, ok
}

// LookupVendor returns all entries for a normalized vendor name.
func (idx *CatalogIndex) LookupVendor(normalizedVendor string) []*domain.CatalogEntry {
	return idx.byVendor[normalizedVendor]
}

// LookupToken returns all entries whose name contains the token.
func (idx *CatalogIndex) LookupToken(token string) []*domain.CatalogEntry {
	return idx.byToken[token]
}
