package usecase

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/leafmatch/backend/internal/domain"
)

// MatchService drives the matching cascade for manifest items: exact
// check, candidate scoring, threshold decision, fallback synthesis. The
// catalog index it matches against is an explicit, swappable handle so
// rebuilds never mutate state under in-flight requests and tests can
// construct isolated indices.
type MatchService struct {
	cfg      MatchConfig
	catalog  domain.Catalog
	fallback *FallbackSynthesizer
	index    atomic.Pointer[CatalogIndex]
	gen      atomic.Uint64 // bumps on every index swap; used to scope caches
}

// NewMatchService creates a match service. The index starts empty; call
// ReloadCatalog or UseIndex before matching.
func NewMatchService(catalog domain.Catalog, fallback *FallbackSynthesizer, cfg MatchConfig) *MatchService {
	return &MatchService{
		cfg:      cfg.withDefaults(),
		catalog:  catalog,
		fallback: fallback,
	}
}

// Config returns the effective (defaulted) matching configuration.
func (s *MatchService) Config() MatchConfig {
	return s.cfg
}

// ReloadCatalog fetches the catalog snapshot, builds a fresh index, and
// swaps it in atomically. In-flight matches keep the index they started
// with and complete safely.
func (s *MatchService) ReloadCatalog(ctx context.Context) (IndexStats, error) {
	entries, err := s.catalog.AllEntries(ctx)
	if err != nil {
		return IndexStats{}, err
	}

	idx, err := BuildCatalogIndex(entries)
	if err != nil {
		return IndexStats{}, err
	}

	s.index.Store(idx)
	s.gen.Add(1)
	log.Printf("[MATCH] Catalog index reloaded: %d entries", idx.Size())
	return idx.Stats(), nil
}

// Generation returns a counter that increments whenever the index is
// swapped. Cached match results embed it so a reload invalidates them.
func (s *MatchService) Generation() uint64 {
	return s.gen.Load()
}

// UseIndex swaps in a pre-built index. Used by tests and by callers that
// manage index lifecycle themselves.
func (s *MatchService) UseIndex(idx *CatalogIndex) {
	s.index.Store(idx)
	s.gen.Add(1)
}

// IndexSize returns the entry count of the current index, 0 when none.
func (s *MatchService) IndexSize() int {
	if idx := s.index.Load(); idx != nil {
		return idx.Size()
	}
	return 0
}

// MatchItems matches a slice of parsed items against the current index.
// Exactly one result is returned per input item, malformed ones included.
// Returns ErrCatalogNotReady before any per-item work when no index has
// been built; callers must check catalog readiness, not per-item errors.
func (s *MatchService) MatchItems(ctx context.Context, items []domain.ParsedItem) ([]domain.MatchResult, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, domain.ErrCatalogNotReady
	}

	results := make([]domain.MatchResult, 0, len(items))
	for i := range items {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		results = append(results, s.matchOne(ctx, idx, items[i]))
	}
	return results, nil
}

// MatchItem matches a single parsed item against the current index.
func (s *MatchService) MatchItem(ctx context.Context, item domain.ParsedItem) (domain.MatchResult, error) {
	idx := s.index.Load()
	if idx == nil {
		return domain.MatchResult{}, domain.ErrCatalogNotReady
	}
	return s.matchOne(ctx, idx, item), nil
}

// matchOne runs the per-item state flow: exact check, candidate scoring,
// threshold decision, fallback, unmatched. Never returns nothing: every
// item yields a record.
func (s *MatchService) matchOne(ctx context.Context, idx *CatalogIndex, parsed domain.ParsedItem) domain.MatchResult {
	if !parsed.Valid {
		note := parsed.Note
		if note == "" {
			note = "item is not a key/value mapping"
		}
		log.Printf("[MATCH] Malformed manifest item skipped matching: %s", note)
		return domain.MatchResult{
			Source:      stringifyValue(parsed.Raw),
			MatchSource: domain.MatchSourceUnmatched,
			Record: domain.OutputRecord{
				ProductName: stringifyValue(parsed.Raw),
				MatchSource: domain.MatchSourceUnmatched,
				Note:        note,
			},
		}
	}

	item := NormalizeItem(parsed.Item)

	candidates := generateCandidates(item, idx, s.cfg.MaxCandidates)

	// Exact stage short-circuits everything else.
	if len(candidates) == 1 && candidates[0].Strategy == strategyExact {
		entry := candidates[0].Entry
		if s.cfg.EnableDebugLogging {
			log.Printf("[MATCH] Exact hit: %q", entry.NormalizedName)
		}
		return domain.MatchResult{
			Source:      item.Name,
			MatchSource: domain.MatchSourceExact,
			Score:       1.0,
			Entry:       entry,
			Record:      s.resolveRecord(item, entry, domain.MatchSourceExact, 1.0),
		}
	}

	if best, ok := s.selectBest(item, candidates); ok && best.Score >= s.cfg.AcceptThreshold {
		if s.cfg.EnableDebugLogging {
			log.Printf("[MATCH] Fuzzy hit: %q -> %q (score %.2f, via %s)",
				item.Name, best.Entry.Name, best.Score, best.Strategy)
		}
		return domain.MatchResult{
			Source:      item.Name,
			MatchSource: domain.MatchSourceFuzzy,
			Score:       best.Score,
			Entry:       best.Entry,
			Record:      s.resolveRecord(item, best.Entry, domain.MatchSourceFuzzy, best.Score),
		}
	}

	if record := s.fallback.Synthesize(ctx, item); record != nil {
		record.MatchSource = domain.MatchSourceFallback
		return domain.MatchResult{
			Source:      item.Name,
			MatchSource: domain.MatchSourceFallback,
			Record:      *record,
		}
	}

	record := item.OriginalRecord()
	record.MatchSource = domain.MatchSourceUnmatched
	return domain.MatchResult{
		Source:      item.Name,
		MatchSource: domain.MatchSourceUnmatched,
		Record:      record,
	}
}

// selectBest scores every candidate and picks the maximum. Ties prefer the
// candidate whose vendor matches the item's, then the longer normalized
// name (the more specific product wins), then first seen.
func (s *MatchService) selectBest(item *NormalizedItem, candidates []MatchCandidate) (MatchCandidate, bool) {
	var best MatchCandidate
	found := false

	for _, c := range candidates {
		c.Score = scoreCandidate(s.cfg, item, c.Entry)

		if s.cfg.EnableDebugLogging {
			log.Printf("[MATCH] Candidate %q score %.3f (via %s)", c.Entry.NormalizedName, c.Score, c.Strategy)
		}

		if !found || s.better(item, c, best) {
			best = c
			found = true
		}
	}

	return best, found
}

// better reports whether candidate a beats the current best b under the
// tie-break ordering.
func (s *MatchService) better(item *NormalizedItem, a, b MatchCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}

	aVendor := item.NormalizedVendor != "" && a.Entry.NormalizedVendor == item.NormalizedVendor
	bVendor := item.NormalizedVendor != "" && b.Entry.NormalizedVendor == item.NormalizedVendor
	if aVendor != bVendor {
		return aVendor
	}

	return len(a.Entry.NormalizedName) > len(b.Entry.NormalizedName)
}

// resolveRecord builds the output record for a matched catalog entry,
// preferring resolved catalog fields and filling gaps from the item.
func (s *MatchService) resolveRecord(item *NormalizedItem, entry *domain.CatalogEntry, source string, score float64) domain.OutputRecord {
	record := domain.OutputRecord{
		ProductName: entry.Name,
		Vendor:      entry.Vendor,
		Brand:       entry.Brand,
		ProductType: entry.ProductType,
		Strain:      entry.Strain,
		Lineage:     entry.Lineage,
		Price:       entry.Price,
		Weight:      entry.Weight,
		MatchSource: source,
		MatchScore:  score,
	}

	if record.Vendor == "" {
		record.Vendor = item.Vendor
	}
	if record.Brand == "" {
		record.Brand = item.Brand
	}
	if record.ProductType == "" {
		record.ProductType = item.ProductType
	}
	if record.Strain == "" {
		record.Strain = item.Strain
	}
	if record.Lineage == "" {
		record.Lineage = item.Lineage
	}
	if record.Weight == "" {
		record.Weight = item.Weight
	}
	if record.Price == 0 && item.HasPrice {
		record.Price = item.Price
	}

	return record
}
