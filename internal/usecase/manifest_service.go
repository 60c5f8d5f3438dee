package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/leafmatch/backend/internal/domain"
	"github.com/leafmatch/backend/internal/metrics"
)

// manifestItemKeys are the vendor-defined envelope keys the item array has
// been observed under, in priority order. A top-level array needs no key.
var manifestItemKeys = []string{
	"inventory_transfer_items",
	"transfer_items",
	"line_items",
	"items",
	"inventory",
	"products",
	"packages",
	"data",
}

// ManifestServiceConfig holds configuration for manifest processing.
type ManifestServiceConfig struct {
	CacheTTL           time.Duration
	BatchSize          int
	EnableDebugLogging bool
}

// ManifestService parses vendor manifests and runs them through the match
// service in bounded batches, caching per-item results between requests.
type ManifestService struct {
	matcher   *MatchService
	cache     domain.CacheRepository
	cacheTTL  time.Duration
	batchSize int
	debug     bool
}

// NewManifestService creates a manifest service with dependencies.
func NewManifestService(matcher *MatchService, cache domain.CacheRepository, config ManifestServiceConfig) *ManifestService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &ManifestService{
		matcher:   matcher,
		cache:     cache,
		cacheTTL:  cacheTTL,
		batchSize: batchSize,
		debug:     config.EnableDebugLogging,
	}
}

// ParseManifest locates the item array in a manifest document and tags
// every element as valid or malformed exactly once. Supported shapes: a
// top-level array, or an object with the array under a known vendor key.
func ParseManifest(data []byte) (*domain.Manifest, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidManifest, err)
	}

	switch v := doc.(type) {
	case []interface{}:
		return &domain.Manifest{Items: tagItems(v)}, nil
	case map[string]interface{}:
		for _, key := range manifestItemKeys {
			raw, ok := v[key]
			if !ok {
				continue
			}
			arr, ok := raw.([]interface{})
			if !ok {
				continue
			}
			return &domain.Manifest{ItemsKey: key, Items: tagItems(arr)}, nil
		}
		return nil, domain.ErrInvalidManifest
	default:
		return nil, domain.ErrInvalidManifest
	}
}

// tagItems converts raw elements into the valid/malformed sum produced
// once at ingestion.
func tagItems(raw []interface{}) []domain.ParsedItem {
	items := make([]domain.ParsedItem, 0, len(raw))
	for _, element := range raw {
		if m, ok := element.(map[string]interface{}); ok {
			items = append(items, domain.ParsedItem{Item: domain.ManifestItem(m), Valid: true})
			continue
		}
		items = append(items, domain.ParsedItem{
			Raw:  element,
			Note: fmt.Sprintf("manifest item is %T, not a key/value mapping", element),
		})
	}
	return items
}

// ProcessManifest parses a raw manifest and matches every item, returning
// exactly one record per input item in input order.
func (s *ManifestService) ProcessManifest(ctx context.Context, data []byte) (*domain.MatchReport, error) {
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return s.MatchManifest(ctx, manifest)
}

// MatchManifest matches a parsed manifest in bounded batches.
func (s *ManifestService) MatchManifest(ctx context.Context, manifest *domain.Manifest) (*domain.MatchReport, error) {
	report := &domain.MatchReport{
		BatchID: uuid.NewString(),
		Total:   len(manifest.Items),
		Counts:  make(map[string]int),
		Records: make([]domain.OutputRecord, 0, len(manifest.Items)),
	}

	metrics.ManifestItemsTotal.Add(float64(len(manifest.Items)))

	for start := 0; start < len(manifest.Items); start += s.batchSize {
		end := start + s.batchSize
		if end > len(manifest.Items) {
			end = len(manifest.Items)
		}

		batchStart := time.Now()
		if err := s.matchBatch(ctx, manifest.Items[start:end], report); err != nil {
			return nil, err
		}
		metrics.MatchBatchDuration.Observe(time.Since(batchStart).Seconds())

		if s.debug {
			log.Printf("[MANIFEST] Batch %d-%d of %d done in %s",
				start, end, len(manifest.Items), time.Since(batchStart))
		}
	}

	log.Printf("[MANIFEST] Processed %d items (batch %s): %v", report.Total, report.BatchID, report.Counts)
	return report, nil
}

// matchBatch matches one bounded slice of items, consulting the per-item
// cache before invoking the engine.
func (s *ManifestService) matchBatch(ctx context.Context, items []domain.ParsedItem, report *domain.MatchReport) error {
	for _, parsed := range items {
		key := s.cacheKey(parsed)

		if key != "" {
			if record, ok := s.getCached(ctx, key); ok {
				report.Records = append(report.Records, record)
				report.Counts[record.MatchSource]++
				metrics.MatchesTotal.WithLabelValues(record.MatchSource).Inc()
				continue
			}
		}

		result, err := s.matcher.MatchItem(ctx, parsed)
		if err != nil {
			return err
		}

		report.Records = append(report.Records, result.Record)
		report.Counts[result.MatchSource]++
		metrics.MatchesTotal.WithLabelValues(result.MatchSource).Inc()

		// Only confident catalog resolutions are worth caching; fallback
		// and unmatched outcomes stay cheap to recompute and may improve
		// as the strain store grows.
		if key != "" && (result.MatchSource == domain.MatchSourceExact || result.MatchSource == domain.MatchSourceFuzzy) {
			if err := s.cache.Set(ctx, key, result.Record, s.cacheTTL); err != nil && s.debug {
				log.Printf("[MANIFEST] Cache set failed for %q: %v", key, err)
			}
		}
	}
	return nil
}

// cacheKey builds a generation-scoped key so a catalog reload invalidates
// previous results. Every resolved field that can steer scoring or fill a
// record gap participates: declared strain and product type feed the bonus
// subsets, and brand, weight, lineage, and price can all surface in the
// resolved record. Items differing in any of them must never share an
// entry. Malformed items are never cached.
func (s *ManifestService) cacheKey(parsed domain.ParsedItem) string {
	if s.cache == nil || !parsed.Valid {
		return ""
	}
	item := NormalizeItem(parsed.Item)
	if item.NormalizedName == "" {
		return ""
	}

	h := fnv.New64a()
	for _, field := range []string{
		item.NormalizedName,
		item.NormalizedVendor,
		item.Brand,
		item.ProductType,
		item.Strain,
		item.Weight,
		item.Lineage,
		strconv.FormatFloat(item.Price, 'g', -1, 64),
		strconv.FormatBool(item.HasPrice),
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("match:%d:%s:%016x", s.matcher.Generation(), item.NormalizedName, h.Sum64())
}

func (s *ManifestService) getCached(ctx context.Context, key string) (domain.OutputRecord, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return domain.OutputRecord{}, false
	}
	record, ok := value.(domain.OutputRecord)
	return record, ok
}
