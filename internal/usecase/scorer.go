package usecase

import "github.com/leafmatch/backend/internal/domain"

// MatchConfig holds the matching engine's tuning knobs. Every value here
// is an empirically tuned heuristic, not a derived constant; they are
// surfaced as configuration so deployments can recalibrate against their
// own catalogs.
type MatchConfig struct {
	AcceptThreshold       float64 // minimum score accepted as a fuzzy match
	TermScoreCap          float64 // ceiling on pure token overlap
	VendorMatchBonus      float64 // both vendors non-empty and equal
	VendorMismatchPenalty float64 // both vendors non-empty and different
	ProductTypeBonus      float64 // type token subsets non-empty and equal
	StrainBonus           float64 // strain token subsets non-empty and equal
	ScoreFloor            float64 // minimum when any positive term overlap exists
	MaxCandidates         int     // candidate set bound per item
	BatchSize             int     // items per processing batch
	EnableDebugLogging    bool
}

// Defaults recovered from production tuning.
const (
	defaultAcceptThreshold       = 0.3
	defaultTermScoreCap          = 0.9
	defaultVendorMatchBonus      = 0.30
	defaultVendorMismatchPenalty = 0.20
	defaultProductTypeBonus      = 0.20
	defaultStrainBonus           = 0.30
	defaultScoreFloor            = 0.1
	defaultMaxCandidates         = 200
	defaultBatchSize             = 100
)

// withDefaults fills zero values so a partially specified config behaves.
func (c MatchConfig) withDefaults() MatchConfig {
	if c.AcceptThreshold <= 0 {
		c.AcceptThreshold = defaultAcceptThreshold
	}
	if c.TermScoreCap <= 0 {
		c.TermScoreCap = defaultTermScoreCap
	}
	if c.VendorMatchBonus <= 0 {
		c.VendorMatchBonus = defaultVendorMatchBonus
	}
	if c.VendorMismatchPenalty <= 0 {
		c.VendorMismatchPenalty = defaultVendorMismatchPenalty
	}
	if c.ProductTypeBonus <= 0 {
		c.ProductTypeBonus = defaultProductTypeBonus
	}
	if c.StrainBonus <= 0 {
		c.StrainBonus = defaultStrainBonus
	}
	if c.ScoreFloor <= 0 {
		c.ScoreFloor = defaultScoreFloor
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = defaultMaxCandidates
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	return c
}

// scoreCandidate computes the similarity between an item and a catalog
// entry as a weighted composite in [0,1].
//
// Token overlap alone produces too many false positives in this domain,
// so Jaccard overlap is capped and adjusted by additive vendor, product
// type, and strain signals. Additive rather than multiplicative: the
// bonuses must be able to rescue a low-overlap match (abbreviated names)
// when the contextual fields agree. A vendor mismatch demotes, never
// vetoes; with any positive term overlap the score floors above zero
// because vendor spelling is unreliable across sources.
func scoreCandidate(cfg MatchConfig, item *NormalizedItem, entry *domain.CatalogEntry) float64 {
	termScore, overlap := jaccard(item.Tokens, entry.Tokens)
	if termScore > cfg.TermScoreCap {
		termScore = cfg.TermScoreCap
	}

	score := termScore

	if item.NormalizedVendor != "" && entry.NormalizedVendor != "" {
		if item.NormalizedVendor == entry.NormalizedVendor {
			score += cfg.VendorMatchBonus
		} else {
			score -= cfg.VendorMismatchPenalty
		}
	}

	if len(item.TypeTokens) > 0 && len(entry.TypeTokens) > 0 &&
		sameTokenSet(item.TypeTokens, entry.TypeTokens) {
		score += cfg.ProductTypeBonus
	}

	if len(item.StrainTokens) > 0 && len(entry.StrainTokens) > 0 &&
		sameTokenSet(item.StrainTokens, entry.StrainTokens) {
		score += cfg.StrainBonus
	}

	if overlap > 0 && score < cfg.ScoreFloor {
		score = cfg.ScoreFloor
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// jaccard returns intersection-over-union of two token sets plus the raw
// intersection size.
func jaccard(a, b []string) (float64, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0
	}

	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}

	intersection := 0
	for _, t := range b {
		if set[t] {
			intersection++
		}
	}

	union := len(set) + countDistinct(b) - intersection
	if union == 0 {
		return 0, 0
	}
	return float64(intersection) / float64(union), intersection
}

func countDistinct(tokens []string) int {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return len(set)
}
