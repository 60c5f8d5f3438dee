package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/leafmatch/backend/internal/domain"
)

// typePriceEstimates are per-unit price guesses by product form, used only
// when a strain aggregate exists but carries no price. Rough retail
// midpoints, not market data.
var typePriceEstimates = map[string]float64{
	"cartridge":   30.0,
	"cart":        30.0,
	"disposable":  35.0,
	"rosin":       40.0,
	"resin":       35.0,
	"wax":         25.0,
	"shatter":     25.0,
	"distillate":  25.0,
	"concentrate": 30.0,
	"flower":      35.0,
	"eighth":      35.0,
	"preroll":     10.0,
	"pre-roll":    10.0,
	"joint":       10.0,
	"blunt":       15.0,
	"infused":     15.0,
	"edible":      20.0,
	"edibles":     20.0,
	"gummy":       20.0,
	"gummies":     20.0,
	"chocolate":   20.0,
	"tincture":    40.0,
	"topical":     30.0,
}

const defaultPriceEstimate = 25.0

// FallbackSynthesizer builds best-effort output records from aggregate
// strain statistics when no acceptable catalog candidate exists. It only
// reads from the strain store; nothing is ever written back.
type FallbackSynthesizer struct {
	strains domain.StrainStore
	debug   bool
}

// NewFallbackSynthesizer creates a synthesizer over the given strain store.
func NewFallbackSynthesizer(strains domain.StrainStore, debug bool) *FallbackSynthesizer {
	return &FallbackSynthesizer{strains: strains, debug: debug}
}

// Synthesize resolves a probable strain name from the item and builds a
// record from that strain's most common historical attributes. Returns nil
// when no strain can be resolved or no aggregate exists, signaling the
// caller to fall through to unmatched. Store failures are treated as "no
// aggregate found" so one bad lookup never aborts a batch.
func (f *FallbackSynthesizer) Synthesize(ctx context.Context, item *NormalizedItem) *domain.OutputRecord {
	if f == nil || f.strains == nil {
		return nil
	}

	strain := item.FallbackStrain()
	if strain == "" {
		return nil
	}

	info, err := f.strains.Aggregate(ctx, strain)
	if err != nil {
		if !errors.Is(err, domain.ErrStrainNotFound) {
			log.Printf("[FALLBACK] Aggregate lookup failed for %q: %v", strain, err)
		}
		return nil
	}
	if info == nil || info.Occurrences == 0 {
		return nil
	}

	if f.debug {
		log.Printf("[FALLBACK] Synthesizing %q from %d historical records", strain, info.Occurrences)
	}

	record := item.OriginalRecord()
	record.Strain = info.Strain
	record.Lineage = resolveLineage(info, item)

	if record.Brand == "" {
		record.Brand = info.MostCommonBrand
	}
	if record.Vendor == "" {
		record.Vendor = info.MostCommonVendor
	}
	if record.Weight == "" {
		record.Weight = info.MostCommonWeight
	}
	if !item.HasPrice {
		if info.AggregatePrice > 0 {
			record.Price = info.AggregatePrice
		} else {
			record.Price = estimatePrice(item.TypeTokens)
		}
	}

	return &record
}

// resolveLineage prefers a brand-specific lineage override when one exists
// for the record's brand, falling back to the canonical lineage.
func resolveLineage(info *domain.AggregatedStrainInfo, item *NormalizedItem) string {
	brand := item.Brand
	if brand == "" {
		brand = info.MostCommonBrand
	}
	if brand != "" {
		if override, ok := info.BrandLineages[brand]; ok && override != "" {
			return override
		}
	}
	return info.CanonicalLineage
}

// estimatePrice guesses a unit price from the item's product-form tokens.
func estimatePrice(typeTokens []string) float64 {
	for _, t := range typeTokens {
		if p, ok := typePriceEstimates[t]; ok {
			return p
		}
	}
	return defaultPriceEstimate
}
