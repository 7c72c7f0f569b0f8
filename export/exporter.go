// Package export writes a piping scene and its bill of materials to files
package export

import (
	"errors"
	"fmt"
	"strings"

	"isopipe/bom"
	"isopipe/core"
)

// ErrUnsupportedFormat is returned for format names no exporter handles.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents an export format
type Format string

const (
	// FormatCSV exports the bill of materials as CSV
	FormatCSV Format = "csv"
	// FormatJSON exports the scene and bill of materials as JSON
	FormatJSON Format = "json"
	// FormatSVG exports a drawing of the scene
	FormatSVG Format = "svg"
)

// Document is everything an exporter may need.
type Document struct {
	Scene core.Scene
	BOM   []bom.Item
	Unit  float64 // Grid unit in world coordinates
}

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a document to the target format
	Export(doc Document) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatSVG:
		return NewSVGExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv", "bom":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatForPath picks a format from a file name extension.
func FormatForPath(path string) (Format, error) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", fmt.Errorf("%w: no extension in %q", ErrUnsupportedFormat, path)
	}
	return ParseFormat(path[i+1:])
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatCSV,
		FormatJSON,
		FormatSVG,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatCSV:  "Bill of materials (CSV)",
		FormatJSON: "Scene and bill of materials (JSON)",
		FormatSVG:  "Isometric drawing (SVG)",
	}
}
