package usecase

import "github.com/leafmatch/backend/internal/domain"

// NormalizedItem is the derived matching view of one valid manifest item.
// Created per request and discarded after matching.
type NormalizedItem struct {
	Name             string
	NormalizedName   string
	Vendor           string
	NormalizedVendor string
	Brand            string
	ProductType      string
	Strain           string
	Weight           string
	Unit             string
	Lineage          string
	Price            float64
	HasPrice         bool

	Tokens       []string
	TypeTokens   []string
	StrainTokens []string
}

// NormalizeItem resolves canonical fields through the alias table and
// derives the normalized name and token subsets used by matching.
func NormalizeItem(item domain.ManifestItem) *NormalizedItem {
	n := &NormalizedItem{}

	n.Name, _ = resolveField(item, fieldName)
	n.Vendor, _ = resolveField(item, fieldVendor)
	n.Brand, _ = resolveField(item, fieldBrand)
	n.ProductType, _ = resolveField(item, fieldProductType)
	n.Strain, _ = resolveField(item, fieldStrain)
	n.Weight, _ = resolveField(item, fieldWeight)
	n.Unit, _ = resolveField(item, fieldUnit)
	n.Lineage, _ = resolveField(item, fieldLineage)
	n.Price, n.HasPrice = resolvePriceField(item)

	n.NormalizedName = NormalizeName(n.Name)
	n.NormalizedVendor = NormalizeVendor(n.Vendor)
	n.Tokens = Tokenize(n.NormalizedName)
	n.TypeTokens = ExtractTypeTokens(n.Tokens)
	n.StrainTokens = ExtractStrainTokens(n.Tokens)

	// A declared product type counts toward the type subset even when the
	// name itself carries no type word.
	if len(n.TypeTokens) == 0 && n.ProductType != "" {
		n.TypeTokens = ExtractTypeTokens(Tokenize(NormalizeName(n.ProductType)))
	}
	// Same for a declared strain field.
	if len(n.StrainTokens) == 0 && n.Strain != "" {
		n.StrainTokens = ExtractStrainTokens(Tokenize(NormalizeName(n.Strain)))
	}

	return n
}

// FallbackStrain returns the best guess at the item's strain name: the
// declared strain field when present, otherwise the strain-vocabulary
// tokens found in the product name. Empty when neither exists.
func (n *NormalizedItem) FallbackStrain() string {
	if n.Strain != "" {
		return n.Strain
	}
	if len(n.StrainTokens) > 0 {
		joined := ""
		for i, t := range n.StrainTokens {
			if i > 0 {
				joined += " "
			}
			joined += t
		}
		return joined
	}
	return ""
}

// OriginalRecord builds an output record carrying only the item's own
// fields, used for unmatched results so no input is ever dropped.
func (n *NormalizedItem) OriginalRecord() domain.OutputRecord {
	return domain.OutputRecord{
		ProductName: n.Name,
		Vendor:      n.Vendor,
		Brand:       n.Brand,
		ProductType: n.ProductType,
		Strain:      n.Strain,
		Lineage:     n.Lineage,
		Price:       n.Price,
		Weight:      n.Weight,
	}
}
