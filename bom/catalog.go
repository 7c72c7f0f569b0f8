package bom

import "errors"

// ErrEmptyCatalogPath is returned when a catalog loader is given no path.
var ErrEmptyCatalogPath = errors.New("empty catalog path")

// Price is the catalog data for one material code.
type Price struct {
	UnitCost            float64 `json:"unit_cost" yaml:"unit_cost"`
	WeightPerUnitLength float64 `json:"weight_per_unit_length" yaml:"weight_per_unit_length"`
}

// Catalog maps a material code to its price and weight. A missing entry is
// not an error; the corresponding BOM fields simply stay empty.
type Catalog interface {
	Lookup(material string) (Price, bool)
}

// MapCatalog is an in-memory Catalog. Material codes match case-insensitively.
type MapCatalog map[string]Price

// Lookup implements Catalog. Keys need not be normalized; a map built by hand
// with "cs" still answers for "CS".
func (m MapCatalog) Lookup(material string) (Price, bool) {
	if p, ok := m[material]; ok {
		return p, true
	}
	code := normalizeCode(material)
	if p, ok := m[code]; ok {
		return p, true
	}
	for k, p := range m {
		if normalizeCode(k) == code {
			return p, true
		}
	}
	return Price{}, false
}

// Normalize returns a copy of m with upper-cased, trimmed keys.
func (m MapCatalog) Normalize() MapCatalog {
	out := make(MapCatalog, len(m))
	for k, v := range m {
		out[normalizeCode(k)] = v
	}
	return out
}

// ApplyPricing returns a copy of items with UnitCost and WeightKg filled from
// catalog. Weight is weight-per-unit-length times quantity, so equipment
// carries its per-piece weight. A nil catalog leaves every item unpriced.
func ApplyPricing(items []Item, catalog Catalog) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	if catalog == nil {
		return out
	}
	for i := range out {
		price, ok := catalog.Lookup(out[i].Material)
		if !ok {
			out[i].UnitCost = nil
			out[i].WeightKg = nil
			continue
		}
		cost := price.UnitCost
		weight := price.WeightPerUnitLength * out[i].Quantity
		out[i].UnitCost = &cost
		out[i].WeightKg = &weight
	}
	return out
}
