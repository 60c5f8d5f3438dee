package domain

// Match source classifications carried on every output record.
const (
	MatchSourceExact     = "exact"
	MatchSourceFuzzy     = "fuzzy"
	MatchSourceFallback  = "fallback"
	MatchSourceUnmatched = "unmatched"
)

// CatalogEntry is an immutable snapshot of one catalog product.
// The normalized fields and token sets are derived at index build time;
// entries are never mutated after the index that owns them is built.
type CatalogEntry struct {
	Name        string  `json:"name"`
	Vendor      string  `json:"vendor,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	ProductType string  `json:"productType,omitempty"`
	Strain      string  `json:"strain,omitempty"`
	Lineage     string  `json:"lineage,omitempty"`
	Weight      string  `json:"weight,omitempty"`
	Price       float64 `json:"price,omitempty"`

	// Derived at index build, empty until then
	NormalizedName   string   `json:"-"`
	NormalizedVendor string   `json:"-"`
	Tokens           []string `json:"-"`
	TypeTokens       []string `json:"-"`
	StrainTokens     []string `json:"-"`
}

// OutputRecord is one resolved line for the label renderer.
// Every manifest item produces exactly one of these.
type OutputRecord struct {
	ProductName string  `json:"product_name"`
	Vendor      string  `json:"vendor"`
	Brand       string  `json:"brand"`
	ProductType string  `json:"product_type"`
	Strain      string  `json:"strain,omitempty"`
	Lineage     string  `json:"lineage"`
	Price       float64 `json:"price"`
	Weight      string  `json:"weight"`
	MatchSource string  `json:"match_source"`
	MatchScore  float64 `json:"match_score"`
	Note        string  `json:"note,omitempty"`
}

// MatchResult pairs the source item with its resolution.
type MatchResult struct {
	Source      string        `json:"source,omitempty"` // original raw name for traceability
	MatchSource string        `json:"match_source"`
	Score       float64       `json:"match_score"`
	Entry       *CatalogEntry `json:"-"` // nil for fallback/unmatched
	Record      OutputRecord  `json:"record"`
}

// AggregatedStrainInfo is a read-only projection over historical strain
// records: the most frequently seen attributes for one strain name.
type AggregatedStrainInfo struct {
	Strain           string            `json:"strain"`
	CanonicalLineage string            `json:"canonicalLineage,omitempty"`
	BrandLineages    map[string]string `json:"brandLineages,omitempty"` // brand -> lineage override
	MostCommonBrand  string            `json:"mostCommonBrand,omitempty"`
	MostCommonVendor string            `json:"mostCommonVendor,omitempty"`
	MostCommonWeight string            `json:"mostCommonWeight,omitempty"`
	AggregatePrice   float64           `json:"aggregatePrice,omitempty"`
	Occurrences      int               `json:"occurrences"`
}

// MatchReport is the response for one processed manifest.
type MatchReport struct {
	BatchID string         `json:"batchId"`
	Total   int            `json:"total"`
	Counts  map[string]int `json:"counts"` // match_source -> count
	Records []OutputRecord `json:"records"`
}
