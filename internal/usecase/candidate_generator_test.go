package usecase

import (
	"testing"

	"github.com/leafmatch/backend/internal/domain"
)

func buildTestIndex(t *testing.T, entries []domain.CatalogEntry) *CatalogIndex {
	t.Helper()
	idx, err := BuildCatalogIndex(entries)
	if err != nil {
		t.Fatalf("BuildCatalogIndex error: %v", err)
	}
	return idx
}

func itemFromMap(m domain.ManifestItem) *NormalizedItem {
	return NormalizeItem(m)
}

func TestGenerateCandidates(t *testing.T) {
	idx := buildTestIndex(t, []domain.CatalogEntry{
		{Name: "Blue Dream Flower 3.5g", Vendor: "Acme"},
		{Name: "GMO Rosin 1g", Vendor: "Dank Czar"},
		{Name: "Sour Diesel Cart 1g", Vendor: "Dank Czar"},
		{Name: "Runtz Gummies 100mg", Vendor: "Sweet Co"},
	})

	t.Run("exact hit short-circuits with a single candidate", func(t *testing.T) {
		item := itemFromMap(domain.ManifestItem{"product_name": "Blue Dream Flower 3.5g", "vendor": "Someone Else"})
		candidates := generateCandidates(item, idx, 0)
		if len(candidates) != 1 {
			t.Fatalf("candidates = %d, want 1", len(candidates))
		}
		if candidates[0].Strategy != strategyExact || candidates[0].Score != 1.0 {
			t.Errorf("candidate = %+v, want exact with score 1.0", candidates[0])
		}
	})

	t.Run("vendor pool collected when vendor known", func(t *testing.T) {
		item := itemFromMap(domain.ManifestItem{"product_name": "Mystery Product", "vendor": "Dank Czar"})
		candidates := generateCandidates(item, idx, 0)
		if len(candidates) != 2 {
			t.Fatalf("candidates = %d, want 2 vendor entries", len(candidates))
		}
		for _, c := range candidates {
			if c.Strategy != strategyVendor {
				t.Errorf("strategy = %q, want vendor", c.Strategy)
			}
		}
	})

	t.Run("missing vendor does not abort matching", func(t *testing.T) {
		item := itemFromMap(domain.ManifestItem{"product_name": "Runtz Treats"})
		candidates := generateCandidates(item, idx, 0)
		if len(candidates) != 1 {
			t.Fatalf("candidates = %d, want 1 token entry", len(candidates))
		}
		if candidates[0].Strategy != strategyToken {
			t.Errorf("strategy = %q, want token", candidates[0].Strategy)
		}
	})

	t.Run("token stage unions entries outside the vendor pool", func(t *testing.T) {
		item := itemFromMap(domain.ManifestItem{"product_name": "Runtz Rosin", "vendor": "Dank Czar"})
		candidates := generateCandidates(item, idx, 0)
		// Vendor pool: GMO Rosin + Sour Diesel Cart; token "runtz" pulls in Sweet Co's gummies
		if len(candidates) != 3 {
			t.Fatalf("candidates = %d, want 3", len(candidates))
		}
		foundOutside := false
		for _, c := range candidates {
			if c.Entry.Vendor == "Sweet Co" {
				foundOutside = true
				if c.Strategy != strategyToken {
					t.Errorf("outside-vendor strategy = %q, want token", c.Strategy)
				}
			}
		}
		if !foundOutside {
			t.Error("token stage did not union in cross-vendor candidates")
		}
	})

	t.Run("candidates are deduplicated by entry identity", func(t *testing.T) {
		// "gmo" and "rosin" both point at the same entry, vendor pool too
		item := itemFromMap(domain.ManifestItem{"product_name": "GMO Rosin Special", "vendor": "Dank Czar"})
		candidates := generateCandidates(item, idx, 0)
		seen := make(map[*domain.CatalogEntry]bool)
		for _, c := range candidates {
			if seen[c.Entry] {
				t.Fatalf("entry %q appeared twice", c.Entry.Name)
			}
			seen[c.Entry] = true
		}
	})

	t.Run("candidate set is bounded", func(t *testing.T) {
		item := itemFromMap(domain.ManifestItem{"product_name": "Runtz Rosin", "vendor": "Dank Czar"})
		candidates := generateCandidates(item, idx, 2)
		if len(candidates) != 2 {
			t.Errorf("candidates = %d, want bound of 2", len(candidates))
		}
	})

	t.Run("no name and no vendor yields no candidates", func(t *testing.T) {
		item := itemFromMap(domain.ManifestItem{})
		if candidates := generateCandidates(item, idx, 0); len(candidates) != 0 {
			t.Errorf("candidates = %d, want 0", len(candidates))
		}
	})
}
