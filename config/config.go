// Package config loads the editor settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultHistoryLimit is the number of scene snapshots kept for undo.
const DefaultHistoryLimit = 50

var (
	// ErrInvalidUnit is returned when the grid unit is not positive.
	ErrInvalidUnit = errors.New("grid_unit must be positive")
	// ErrInvalidZoom is returned when the zoom factor is not positive.
	ErrInvalidZoom = errors.New("zoom must be positive")
)

// Config holds every tunable of the editor.
type Config struct {
	GridUnit        float64 `yaml:"grid_unit"`        // World units between grid vertices
	HistoryLimit    int     `yaml:"history_limit"`    // Undo snapshots kept
	HitTolerancePx  float64 `yaml:"hit_tolerance_px"` // Pick distance for pipes, in screen pixels
	Zoom            float64 `yaml:"zoom"`             // Screen pixels per world unit
	EquipmentRadius float64 `yaml:"equipment_radius"` // Pick radius around equipment anchors, world units
	ShowGrid        bool    `yaml:"show_grid"`
	Snap            bool    `yaml:"snap"`

	DefaultPipeSize string `yaml:"default_pipe_size"`
	DefaultMaterial string `yaml:"default_material"`
	DefaultKind     string `yaml:"default_equipment_kind"`

	Catalog   string `yaml:"catalog"`    // YAML pricing catalog
	CatalogDB string `yaml:"catalog_db"` // SQLite pricing catalog
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GridUnit:        40,
		HistoryLimit:    DefaultHistoryLimit,
		HitTolerancePx:  10,
		Zoom:            1,
		EquipmentRadius: 15,
		ShowGrid:        true,
		Snap:            true,
		DefaultPipeSize: "4\"",
		DefaultMaterial: "CS",
		DefaultKind:     "valve",
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges. A non-positive history limit is replaced by
// the default rather than rejected.
func (c *Config) Validate() error {
	if c.GridUnit <= 0 {
		return ErrInvalidUnit
	}
	if c.Zoom <= 0 {
		return ErrInvalidZoom
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.HitTolerancePx < 0 {
		return fmt.Errorf("hit_tolerance_px must not be negative, got %v", c.HitTolerancePx)
	}
	if c.EquipmentRadius < 0 {
		return fmt.Errorf("equipment_radius must not be negative, got %v", c.EquipmentRadius)
	}
	return nil
}

