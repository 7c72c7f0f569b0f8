// Package bom derives the bill of materials from a scene and attaches
// pricing and weight data from an injected catalog.
package bom

import (
	"fmt"
	"strings"

	"isopipe/core"
	"isopipe/geometry"
	"isopipe/scene"
)

// Item is one BOM line. Each item belongs to exactly one scene entity and
// shares its id.
type Item struct {
	ID          string   `json:"id"`
	Tag         string   `json:"tag"`
	Description string   `json:"description"`
	Material    string   `json:"material"`
	Size        string   `json:"size"`
	Quantity    float64  `json:"quantity"`
	WeightKg    *float64 `json:"weight_kg,omitempty"`
	UnitCost    *float64 `json:"unit_cost,omitempty"`
}

// TotalPrice returns unit cost times quantity, or false when the unit cost is unknown.
func (it Item) TotalPrice() (float64, bool) {
	if it.UnitCost == nil {
		return 0, false
	}
	return *it.UnitCost * it.Quantity, true
}

// Derive builds the BOM for s: pipes in creation order followed by equipment
// in creation order. Pipe quantity is the run length in grid units rounded to
// two decimals; equipment quantity is always 1. Pricing fields are left empty.
func Derive(s core.Scene, unit float64) []Item {
	items := make([]Item, 0, s.Len())
	for _, p := range s.Pipes {
		items = append(items, Item{
			ID:          p.ID,
			Tag:         p.Tag,
			Description: pipeDescription(p),
			Material:    p.Material,
			Size:        p.Size,
			Quantity:    geometry.Round2(scene.PipeLength(p, unit)),
		})
	}
	for _, e := range s.Equipment {
		items = append(items, Item{
			ID:          e.ID,
			Tag:         e.Tag,
			Description: equipmentDescription(e),
			Material:    e.Material,
			Size:        e.Size,
			Quantity:    1,
		})
	}
	return items
}

func pipeDescription(p core.PipeSegment) string {
	if p.Size == "" {
		return "Pipe"
	}
	return fmt.Sprintf("Pipe %s", p.Size)
}

func equipmentDescription(e core.Equipment) string {
	name := e.DisplayName()
	if e.Kind == "" || strings.EqualFold(name, e.Kind) {
		return name
	}
	if k, ok := core.LookupKind(e.Kind); ok && strings.EqualFold(k.DefaultSubtype, name) {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, e.Kind)
}

// Totals sums quantities per material and the known prices and weights.
type Totals struct {
	Items      int
	TotalPrice float64
	WeightKg   float64
	Unpriced   int // Items without a unit cost
}

// Summarize computes Totals for a priced item list.
func Summarize(items []Item) Totals {
	t := Totals{Items: len(items)}
	for _, it := range items {
		if price, ok := it.TotalPrice(); ok {
			t.TotalPrice += price
		} else {
			t.Unpriced++
		}
		if it.WeightKg != nil {
			t.WeightKg += *it.WeightKg
		}
	}
	t.TotalPrice = geometry.Round2(t.TotalPrice)
	t.WeightKg = geometry.Round2(t.WeightKg)
	return t
}
