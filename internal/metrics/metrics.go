// Package metrics provides Prometheus metrics for the LeafMatch backend.
// Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leafmatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leafmatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Matching Metrics
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leafmatch_matches_total",
			Help: "Matched manifest items by classification",
		},
		[]string{"source"}, // "exact", "fuzzy", "fallback", "unmatched"
	)

	ManifestItemsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leafmatch_manifest_items_total",
			Help: "Total manifest items received for matching",
		},
	)

	MatchBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leafmatch_match_batch_duration_seconds",
			Help:    "Time taken to match one batch of manifest items",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Catalog Index Metrics
	CatalogIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leafmatch_catalog_index_size",
			Help: "Number of catalog entries in the active index",
		},
	)

	CatalogIndexRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leafmatch_catalog_index_rebuilds_total",
			Help: "Total catalog index rebuilds since process start",
		},
	)

	CatalogEntriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leafmatch_catalog_entries_skipped_total",
			Help: "Catalog entries excluded from indexing (empty normalized name)",
		},
	)

	// Strain Store Metrics
	StrainLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leafmatch_strain_lookups_total",
			Help: "Aggregate strain store lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "cached", "error"
	)
)
