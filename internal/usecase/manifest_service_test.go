package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leafmatch/backend/internal/domain"
)

// recordingCache is an in-memory CacheRepository that counts hits and sets.
type recordingCache struct {
	values map[string]interface{}
	gets   int
	hits   int
	sets   int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{values: make(map[string]interface{})}
}

func (c *recordingCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.gets++
	value, ok := c.values[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	c.hits++
	return value, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	c.values[key] = value
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *recordingCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.values[key]
	return ok, nil
}

func TestParseManifest(t *testing.T) {
	t.Run("top-level array", func(t *testing.T) {
		manifest, err := ParseManifest([]byte(`[{"product_name":"A"},{"product_name":"B"}]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if manifest.ItemsKey != "" {
			t.Errorf("ItemsKey = %q, want empty for a bare array", manifest.ItemsKey)
		}
		if len(manifest.Items) != 2 {
			t.Fatalf("items = %d, want 2", len(manifest.Items))
		}
		if !manifest.Items[0].Valid {
			t.Error("object element tagged malformed")
		}
	})

	t.Run("object with known envelope key", func(t *testing.T) {
		manifest, err := ParseManifest([]byte(`{"document_schema_version":"2.1.0","inventory_transfer_items":[{"product_name":"A"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if manifest.ItemsKey != "inventory_transfer_items" {
			t.Errorf("ItemsKey = %q, want inventory_transfer_items", manifest.ItemsKey)
		}
		if len(manifest.Items) != 1 {
			t.Errorf("items = %d, want 1", len(manifest.Items))
		}
	})

	t.Run("earlier envelope keys take priority", func(t *testing.T) {
		manifest, err := ParseManifest([]byte(`{"data":[{"product_name":"B"}],"transfer_items":[{"product_name":"A"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if manifest.ItemsKey != "transfer_items" {
			t.Errorf("ItemsKey = %q, want transfer_items", manifest.ItemsKey)
		}
	})

	t.Run("key holding a non-array is skipped", func(t *testing.T) {
		manifest, err := ParseManifest([]byte(`{"items":"not an array","line_items":[{"product_name":"A"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if manifest.ItemsKey != "line_items" {
			t.Errorf("ItemsKey = %q, want line_items", manifest.ItemsKey)
		}
	})

	t.Run("non-object elements tagged malformed with note", func(t *testing.T) {
		manifest, err := ParseManifest([]byte(`[{"product_name":"A"},"bare string",42,null]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(manifest.Items) != 4 {
			t.Fatalf("items = %d, want 4", len(manifest.Items))
		}
		for i := 1; i < 4; i++ {
			if manifest.Items[i].Valid {
				t.Errorf("item %d tagged valid, want malformed", i)
			}
			if manifest.Items[i].Note == "" {
				t.Errorf("item %d is missing its note", i)
			}
		}
	})

	t.Run("object without any item array", func(t *testing.T) {
		_, err := ParseManifest([]byte(`{"manifest_id":"xyz","status":"shipped"}`))
		if !errors.Is(err, domain.ErrInvalidManifest) {
			t.Errorf("error = %v, want ErrInvalidManifest", err)
		}
	})

	t.Run("scalar document", func(t *testing.T) {
		_, err := ParseManifest([]byte(`"just a string"`))
		if !errors.Is(err, domain.ErrInvalidManifest) {
			t.Errorf("error = %v, want ErrInvalidManifest", err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParseManifest([]byte(`{"items": [`))
		if !errors.Is(err, domain.ErrInvalidManifest) {
			t.Errorf("error = %v, want ErrInvalidManifest", err)
		}
	})
}

func newTestManifestService(t *testing.T, cache domain.CacheRepository, batchSize int) *ManifestService {
	t.Helper()
	matcher := newTestMatchService(t, []domain.CatalogEntry{
		{Name: "Blue Dream Flower 3.5g", Vendor: "Acme", Brand: "Acme Farms", Price: 30},
		{Name: "GMO Rosin 1g", Vendor: "Dank Czar"},
	}, nil)
	return NewManifestService(matcher, cache, ManifestServiceConfig{BatchSize: batchSize})
}

func TestProcessManifest(t *testing.T) {
	ctx := context.Background()

	t.Run("report carries counts and one record per item", func(t *testing.T) {
		svc := newTestManifestService(t, nil, 0)
		body := []byte(`{"inventory_transfer_items":[
			{"product_name":"Blue Dream Flower 3.5g","vendor":"Acme"},
			{"product_name":"Dank Czar GMO Rosin - 1g","vendor":"Dank Czar"},
			{"product_name":"Nothing Like Anything Here"},
			"oops"
		]}`)

		report, err := svc.ProcessManifest(ctx, body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.BatchID == "" {
			t.Error("report is missing a batch ID")
		}
		if report.Total != 4 || len(report.Records) != 4 {
			t.Fatalf("Total = %d, Records = %d, want 4/4", report.Total, len(report.Records))
		}
		if report.Counts[domain.MatchSourceExact] != 1 {
			t.Errorf("exact count = %d, want 1", report.Counts[domain.MatchSourceExact])
		}
		if report.Counts[domain.MatchSourceFuzzy] != 1 {
			t.Errorf("fuzzy count = %d, want 1", report.Counts[domain.MatchSourceFuzzy])
		}
		if report.Counts[domain.MatchSourceUnmatched] != 2 {
			t.Errorf("unmatched count = %d, want 2", report.Counts[domain.MatchSourceUnmatched])
		}
	})

	t.Run("records preserve manifest order across batches", func(t *testing.T) {
		svc := newTestManifestService(t, nil, 2)
		body := []byte(`[
			{"product_name":"Item One"},
			{"product_name":"Item Two"},
			{"product_name":"Item Three"},
			{"product_name":"Item Four"},
			{"product_name":"Item Five"}
		]`)

		report, err := svc.ProcessManifest(ctx, body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"Item One", "Item Two", "Item Three", "Item Four", "Item Five"}
		if len(report.Records) != len(want) {
			t.Fatalf("records = %d, want %d", len(report.Records), len(want))
		}
		for i, name := range want {
			if report.Records[i].ProductName != name {
				t.Errorf("record %d = %q, want %q", i, report.Records[i].ProductName, name)
			}
		}
	})

	t.Run("invalid manifest propagates before any matching", func(t *testing.T) {
		svc := newTestManifestService(t, nil, 0)
		_, err := svc.ProcessManifest(ctx, []byte(`{"status":"shipped"}`))
		if !errors.Is(err, domain.ErrInvalidManifest) {
			t.Errorf("error = %v, want ErrInvalidManifest", err)
		}
	})
}

func TestManifestCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated items hit the cache", func(t *testing.T) {
		cache := newRecordingCache()
		svc := newTestManifestService(t, cache, 0)
		body := []byte(`[
			{"product_name":"Blue Dream Flower 3.5g","vendor":"Acme"},
			{"product_name":"Blue Dream Flower 3.5g","vendor":"Acme"}
		]`)

		report, err := svc.ProcessManifest(ctx, body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.sets != 1 {
			t.Errorf("cache sets = %d, want 1", cache.sets)
		}
		if cache.hits != 1 {
			t.Errorf("cache hits = %d, want 1", cache.hits)
		}
		if report.Records[0] != report.Records[1] {
			t.Error("cached record differs from the freshly matched one")
		}
		if report.Counts[domain.MatchSourceExact] != 2 {
			t.Errorf("exact count = %d, want 2", report.Counts[domain.MatchSourceExact])
		}
	})

	t.Run("items sharing a name never share a cache entry", func(t *testing.T) {
		cache := newRecordingCache()
		matcher := newTestMatchService(t, []domain.CatalogEntry{
			{Name: "Gelato Premium Cart"},
		}, nil)
		svc := NewManifestService(matcher, cache, ManifestServiceConfig{})

		// The first item's declared strain and type earn bonuses that lift
		// it over the accept threshold; the bare second item must not be
		// served that outcome.
		body := []byte(`[
			{"product_name":"Premium Jar","strain":"Gelato","product_type":"Cart"},
			{"product_name":"Premium Jar"}
		]`)

		report, err := svc.ProcessManifest(ctx, body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Records[0].MatchSource != domain.MatchSourceFuzzy {
			t.Errorf("declared-field item = %q, want fuzzy", report.Records[0].MatchSource)
		}
		if report.Records[1].MatchSource != domain.MatchSourceUnmatched {
			t.Errorf("bare item = %q, want unmatched", report.Records[1].MatchSource)
		}
		if cache.hits != 0 {
			t.Errorf("cache hits = %d, want 0 across differing items", cache.hits)
		}
	})

	t.Run("unmatched outcomes are not cached", func(t *testing.T) {
		cache := newRecordingCache()
		svc := newTestManifestService(t, cache, 0)
		body := []byte(`[{"product_name":"No Catalog Overlap Whatsoever"}]`)

		if _, err := svc.ProcessManifest(ctx, body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.sets != 0 {
			t.Errorf("cache sets = %d, want 0", cache.sets)
		}
	})

	t.Run("malformed items never consult the cache", func(t *testing.T) {
		cache := newRecordingCache()
		svc := newTestManifestService(t, cache, 0)
		body := []byte(`["bare string", 7]`)

		if _, err := svc.ProcessManifest(ctx, body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.gets != 0 || cache.sets != 0 {
			t.Errorf("cache gets/sets = %d/%d, want 0/0", cache.gets, cache.sets)
		}
	})

	t.Run("catalog reload invalidates cached keys", func(t *testing.T) {
		cache := newRecordingCache()
		matcher := newTestMatchService(t, []domain.CatalogEntry{
			{Name: "Blue Dream Flower 3.5g", Vendor: "Acme"},
		}, nil)
		svc := NewManifestService(matcher, cache, ManifestServiceConfig{})
		body := []byte(`[{"product_name":"Blue Dream Flower 3.5g","vendor":"Acme"}]`)

		if _, err := svc.ProcessManifest(ctx, body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.sets != 1 {
			t.Fatalf("cache sets = %d, want 1", cache.sets)
		}

		matcher.UseIndex(buildTestIndex(t, []domain.CatalogEntry{
			{Name: "Blue Dream Flower 3.5g", Vendor: "Acme"},
		}))

		if _, err := svc.ProcessManifest(ctx, body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.hits != 0 {
			t.Errorf("cache hits = %d, want 0 after generation bump", cache.hits)
		}
		if cache.sets != 2 {
			t.Errorf("cache sets = %d, want a fresh entry under the new generation", cache.sets)
		}
	})
}
