package export

import (
	"encoding/json"

	"isopipe/bom"
	"isopipe/core"
)

// jsonDocument is the on-disk layout of a JSON export.
type jsonDocument struct {
	Unit  float64    `json:"unit"`
	Scene core.Scene `json:"scene"`
	BOM   []bom.Item `json:"bom"`
}

// JSONExporter exports the scene and its BOM to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a document to JSON
func (e *JSONExporter) Export(doc Document) (string, error) {
	out := jsonDocument{Unit: doc.Unit, Scene: doc.Scene, BOM: doc.BOM}
	if out.Scene.Pipes == nil {
		out.Scene.Pipes = []core.PipeSegment{}
	}
	if out.Scene.Equipment == nil {
		out.Scene.Equipment = []core.Equipment{}
	}
	if out.BOM == nil {
		out.BOM = []bom.Item{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
