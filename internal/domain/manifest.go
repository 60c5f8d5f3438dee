package domain

// ManifestItem is one raw manifest line as the vendor shipped it.
// Keys are not guaranteed; canonical fields are resolved through aliases.
type ManifestItem map[string]interface{}

// ParsedItem tags a raw manifest element as either a usable mapping or
// malformed input. It is produced once at ingestion so downstream code
// never re-checks the element's shape.
type ParsedItem struct {
	Raw   interface{}  `json:"raw,omitempty"`
	Item  ManifestItem `json:"item,omitempty"` // nil unless Valid
	Valid bool         `json:"valid"`
	Note  string       `json:"note,omitempty"` // why the item is malformed
}

// Manifest is one parsed inventory-transfer document.
type Manifest struct {
	ItemsKey string       `json:"itemsKey,omitempty"` // vendor key the items were found under
	Items    []ParsedItem `json:"items"`
}
