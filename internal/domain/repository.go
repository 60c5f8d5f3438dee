package domain

import (
	"context"
	"time"
)

// Catalog provides the authoritative product snapshot the index is built from.
// Entries are returned in a stable order so index builds are deterministic.
type Catalog interface {
	AllEntries(ctx context.Context) ([]CatalogEntry, error)
}

// StrainStore answers aggregate queries over historical strain records.
// Returns ErrStrainNotFound when no records exist for the strain name.
// The matching engine only reads; it never writes back.
type StrainStore interface {
	Aggregate(ctx context.Context, strainName string) (*AggregatedStrainInfo, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ManifestFetcher retrieves a raw manifest document from a remote
// transfer system (e.g., a distributor's API) for server-side matching.
type ManifestFetcher interface {
	FetchManifest(ctx context.Context, manifestURL string) ([]byte, error)
}
