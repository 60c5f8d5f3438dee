package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/leafmatch/backend/config"
	httpDelivery "github.com/leafmatch/backend/internal/delivery/http"
	"github.com/leafmatch/backend/internal/domain"
	"github.com/leafmatch/backend/internal/infrastructure/cache"
	"github.com/leafmatch/backend/internal/infrastructure/store"
	"github.com/leafmatch/backend/internal/infrastructure/transfer"
	"github.com/leafmatch/backend/internal/metrics"
	"github.com/leafmatch/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting LeafMatch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Database: %s", cfg.Database.Path)

	// Initialize infrastructure dependencies
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	catalogStore := store.NewCatalogStore(db)
	strainStore, err := store.NewStrainStore(db, cfg.Cache.StrainLRUSize)
	if err != nil {
		log.Fatalf("Failed to create strain store: %v", err)
	}

	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	fetcher := transfer.NewClient(cfg.Transfer.APIKey, cfg.Transfer.Timeout)

	// Enable debug mode in development environment
	debug := cfg.Matching.EnableDebugLogging || cfg.Server.Environment == "development"
	if debug {
		fetcher.SetDebug(true)
		log.Printf("Debug logging enabled")
	}

	// Initialize usecase layer
	fallback := usecase.NewFallbackSynthesizer(strainStore, debug)
	matchService := usecase.NewMatchService(catalogStore, fallback, usecase.MatchConfig{
		AcceptThreshold:       cfg.Matching.AcceptThreshold,
		TermScoreCap:          cfg.Matching.TermScoreCap,
		VendorMatchBonus:      cfg.Matching.VendorMatchBonus,
		VendorMismatchPenalty: cfg.Matching.VendorMismatchPenalty,
		ProductTypeBonus:      cfg.Matching.ProductTypeBonus,
		StrainBonus:           cfg.Matching.StrainBonus,
		ScoreFloor:            cfg.Matching.ScoreFloor,
		MaxCandidates:         cfg.Matching.MaxCandidates,
		BatchSize:             cfg.Matching.BatchSize,
		EnableDebugLogging:    debug,
	})

	manifestService := usecase.NewManifestService(matchService, memoryCache, usecase.ManifestServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		BatchSize:          cfg.Matching.BatchSize,
		EnableDebugLogging: debug,
	})

	// Build the initial catalog index; an empty catalog is not fatal at
	// startup, matching stays unavailable until the first reload.
	if stats, err := matchService.ReloadCatalog(context.Background()); err != nil {
		if errors.Is(err, domain.ErrEmptyCatalog) {
			log.Printf("WARNING: catalog is empty - matching unavailable until catalog is loaded")
		} else {
			log.Fatalf("Failed to build catalog index: %v", err)
		}
	} else {
		metrics.CatalogIndexRebuilds.Inc()
		metrics.CatalogIndexSize.Set(float64(stats.Entries))
		log.Printf("Catalog index: %d entries (%d skipped, %d duplicates)",
			stats.Entries, stats.Skipped, stats.DuplicateNames)
	}

	log.Printf("Matching: threshold=%.2f, cap=%.2f, vendor=+%.2f/-%.2f, type=+%.2f, strain=+%.2f",
		cfg.Matching.AcceptThreshold, cfg.Matching.TermScoreCap,
		cfg.Matching.VendorMatchBonus, cfg.Matching.VendorMismatchPenalty,
		cfg.Matching.ProductTypeBonus, cfg.Matching.StrainBonus)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(manifestService, matchService, fetcher)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
