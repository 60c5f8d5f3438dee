package usecase

import "github.com/leafmatch/backend/internal/domain"

// Candidate generation strategies, recorded on each candidate for
// diagnostics and tests.
const (
	strategyExact  = "exact"
	strategyVendor = "vendor"
	strategyToken  = "token"
)

// MatchCandidate pairs a catalog entry with the strategy that surfaced it.
// Candidates are transient; they live for one orchestration pass.
type MatchCandidate struct {
	Entry    *domain.CatalogEntry
	Score    float64
	Strategy string
}

// generateCandidates runs the strategy cascade against the index and
// returns a bounded, deduplicated candidate set.
//
// Stage 1 (exact): a verbatim normalized-name hit short-circuits the whole
// cascade with a single score-1.0 candidate.
// Stage 2 (vendor): entries filed under the item's vendor form the primary
// pool; a missing or unknown vendor does not abort matching.
// Stage 3 (token): entries reachable through any of the item's tokens are
// unioned in regardless of the vendor stage, so cross-vendor candidates
// are still considered (scoring demotes them, generation does not).
func generateCandidates(item *NormalizedItem, idx *CatalogIndex, maxCandidates int) []MatchCandidate {
	if item.NormalizedName != "" {
		if entry, ok := idx.LookupExact(item.NormalizedName); ok {
			return []MatchCandidate{{Entry: entry, Score: 1.0, Strategy: strategyExact}}
		}
	}

	candidates := make([]MatchCandidate, 0, 16)
	seen := make(map[*domain.CatalogEntry]bool)

	add := func(entry *domain.CatalogEntry, strategy string) bool {
		if seen[entry] {
			return true
		}
		if maxCandidates > 0 && len(candidates) >= maxCandidates {
			return false
		}
		seen[entry] = true
		candidates = append(candidates, MatchCandidate{Entry: entry, Strategy: strategy})
		return true
	}

	if item.NormalizedVendor != "" {
		for _, entry := range idx.LookupVendor(item.NormalizedVendor) {
			if !add(entry, strategyVendor) {
				return candidates
			}
		}
	}

	for _, token := range item.Tokens {
		for _, entry := range idx.LookupToken(token) {
			if !add(entry, strategyToken) {
				return candidates
			}
		}
	}

	return candidates
}
