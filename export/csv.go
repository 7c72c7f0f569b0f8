package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"isopipe/bom"
)

// CSVHeader is the fixed header row of a BOM export.
var CSVHeader = []string{"MARK", "QTY/LGTH", "SIZE", "DESCRIPTION", "MATERIAL", "UNIT_PRICE", "TOTAL_PRICE", "WEIGHT"}

// CSVExporter writes the bill of materials, one row per item in derivation order.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export renders doc.BOM. The scene is not consulted.
func (e *CSVExporter) Export(doc Document) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(CSVHeader); err != nil {
		return "", err
	}
	for i, item := range doc.BOM {
		if err := w.Write(CSVRow(i+1, item)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write bom csv: %w", err)
	}
	return b.String(), nil
}

// CSVRow formats one BOM item. Unknown prices and weights render as N/A.
func CSVRow(mark int, item bom.Item) []string {
	var total *float64
	if v, ok := item.TotalPrice(); ok {
		total = &v
	}
	return []string{
		strconv.Itoa(mark),
		strconv.FormatFloat(item.Quantity, 'f', -1, 64),
		item.Size,
		item.Description,
		item.Material,
		money(item.UnitCost),
		money(total),
		weight(item.WeightKg),
	}
}

func money(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func weight(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f kg", *v)
}

// GetFileExtension returns the file extension for CSV
func (e *CSVExporter) GetFileExtension() string {
	return ".csv"
}

// GetFormatName returns the format name
func (e *CSVExporter) GetFormatName() string {
	return "CSV"
}
