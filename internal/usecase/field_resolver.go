package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leafmatch/backend/internal/domain"
)

// Canonical manifest fields. Vendors name these inconsistently, so every
// lookup goes through the alias table instead of ad hoc presence checks.
const (
	fieldName        = "name"
	fieldVendor      = "vendor"
	fieldBrand       = "brand"
	fieldProductType = "product_type"
	fieldStrain      = "strain"
	fieldWeight      = "weight"
	fieldUnit        = "unit"
	fieldPrice       = "price"
	fieldLineage     = "lineage"
)

// fieldAliases maps each canonical field to the key spellings observed
// across vendor manifests, in priority order.
var fieldAliases = map[string][]string{
	fieldName:        {"product_name", "item_name", "name", "product", "item", "description"},
	fieldVendor:      {"vendor", "vendor_name", "supplier", "supplier_name", "distributor", "shipper"},
	fieldBrand:       {"brand", "brand_name", "producer", "manufacturer"},
	fieldProductType: {"product_type", "item_type", "type", "category", "item_category", "inventory_type"},
	fieldStrain:      {"strain", "strain_name", "cultivar", "variety"},
	fieldWeight:      {"weight", "unit_weight", "net_weight", "item_weight", "size"},
	fieldUnit:        {"unit", "uom", "unit_of_measure", "weight_unit"},
	fieldPrice:       {"price", "unit_price", "item_price", "cost", "wholesale_price", "line_price"},
	fieldLineage:     {"lineage", "strain_type", "classification", "genetics"},
}

// resolveField returns the first non-empty value found under any alias of
// the canonical field, rendered as a trimmed string.
func resolveField(item domain.ManifestItem, canonical string) (string, bool) {
	for _, key := range fieldAliases[canonical] {
		raw, ok := item[key]
		if !ok {
			continue
		}
		if s := stringifyValue(raw); s != "" {
			return s, true
		}
	}
	return "", false
}

// resolvePriceField returns the first alias value parseable as a price.
// Currency symbols and thousands separators are tolerated.
func resolvePriceField(item domain.ManifestItem) (float64, bool) {
	for _, key := range fieldAliases[fieldPrice] {
		raw, ok := item[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(v))
			if cleaned == "" {
				continue
			}
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// stringifyValue renders a manifest value as a string without inventing
// content for nested structures.
func stringifyValue(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// JSON numbers decode as float64; print integers without a decimal
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
