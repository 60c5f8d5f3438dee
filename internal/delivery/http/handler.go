package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leafmatch/backend/internal/domain"
	"github.com/leafmatch/backend/internal/metrics"
	"github.com/leafmatch/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	manifests *usecase.ManifestService
	matcher   *usecase.MatchService
	fetcher   domain.ManifestFetcher
}

// NewHandler creates a new HTTP handler
func NewHandler(manifests *usecase.ManifestService, matcher *usecase.MatchService, fetcher domain.ManifestFetcher) *Handler {
	return &Handler{
		manifests: manifests,
		matcher:   matcher,
		fetcher:   fetcher,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "leafmatch-backend",
		"version":     "1.0.0",
		"catalogSize": h.matcher.IndexSize(),
	})
}

// MatchManifest accepts an inline JSON manifest and returns one output
// record per item, in input order.
func (h *Handler) MatchManifest(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON manifest"})
		return
	}

	report, err := h.manifests.ProcessManifest(c.Request.Context(), body)
	if err != nil {
		h.writeMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// fetchRequest is the body for server-side manifest retrieval.
type fetchRequest struct {
	URL string `json:"url" binding:"required"`
}

// FetchManifest retrieves a manifest from a remote transfer system and
// matches it in one call.
func (h *Handler) FetchManifest(c *gin.Context) {
	var req fetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	body, err := h.fetcher.FetchManifest(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[HTTP] Manifest fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch manifest"})
		return
	}

	report, err := h.manifests.ProcessManifest(c.Request.Context(), body)
	if err != nil {
		h.writeMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ReloadCatalog rebuilds the catalog index from the current catalog
// snapshot and swaps it in atomically.
func (h *Handler) ReloadCatalog(c *gin.Context) {
	stats, err := h.matcher.ReloadCatalog(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCatalog) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "catalog has no entries to index"})
			return
		}
		log.Printf("[HTTP] Catalog reload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog reload failed"})
		return
	}

	metrics.CatalogIndexRebuilds.Inc()
	metrics.CatalogIndexSize.Set(float64(stats.Entries))
	metrics.CatalogEntriesSkipped.Add(float64(stats.Skipped))

	c.JSON(http.StatusOK, gin.H{
		"entries":        stats.Entries,
		"skipped":        stats.Skipped,
		"duplicateNames": stats.DuplicateNames,
	})
}

// writeMatchError maps matching pipeline errors to HTTP statuses.
func (h *Handler) writeMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidManifest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "manifest contains no item array"})
	case errors.Is(err, domain.ErrCatalogNotReady), errors.Is(err, domain.ErrEmptyCatalog):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog index not ready"})
	default:
		log.Printf("[HTTP] Manifest processing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manifest processing failed"})
	}
}
