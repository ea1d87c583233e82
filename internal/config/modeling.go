package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NLRWindSystems/Ard/internal/density"
	"github.com/NLRWindSystems/Ard/internal/units"
)

// ModelingOptions is the root configuration for an eagle-density
// evaluation: the plant layout settings and the presence-density map
// produced by an upstream eagle movement simulation. The schema mirrors
// the modeling-options file the optimization driver hands to each of its
// components, so the same JSON serves both.
type ModelingOptions struct {
	Layout             LayoutOptions      `json:"layout"`
	PresenceDensityMap PresenceDensityMap `json:"presence_density_map"`
}

// LayoutOptions fixes the plant's turbine count for the whole run and
// the units incoming turbine coordinates are expressed in.
type LayoutOptions struct {
	NTurbines       int    `json:"n_turbines"`
	CoordinateUnits string `json:"coordinate_units,omitempty"` // defaults to metres
}

// PresenceDensityMap is the sampled normalized eagle presence density:
// strictly increasing x and y axes in metres, and one density row per x
// sample.
type PresenceDensityMap struct {
	X                         []float64   `json:"x"`
	Y                         []float64   `json:"y"`
	NormalizedPresenceDensity [][]float64 `json:"normalized_presence_density"`
}

// LoadModelingOptions loads a ModelingOptions from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadModelingOptions(path string) (*ModelingOptions, error) {
	// Validate the options file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("options file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 64MB; density maps can be large)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat options file: %w", err)
	}
	const maxFileSize = 64 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("options file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	opts := &ModelingOptions{}
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("failed to parse options JSON: %w", err)
	}

	// Validate the configuration
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid modeling options: %w", err)
	}

	return opts, nil
}

// Validate checks that the configuration values are valid. Full axis and
// shape validation of the density map happens in density.NewGrid; this
// catches the configuration-level mistakes.
func (o *ModelingOptions) Validate() error {
	if o.Layout.NTurbines <= 0 {
		return fmt.Errorf("layout.n_turbines must be positive, got %d", o.Layout.NTurbines)
	}
	if u := o.Layout.CoordinateUnits; u != "" && !units.IsValid(u) {
		return fmt.Errorf("layout.coordinate_units must be one of %s, got %q",
			units.GetValidUnitsString(), u)
	}
	if len(o.PresenceDensityMap.X) == 0 || len(o.PresenceDensityMap.Y) == 0 {
		return fmt.Errorf("presence_density_map must supply both axes")
	}
	if len(o.PresenceDensityMap.NormalizedPresenceDensity) == 0 {
		return fmt.Errorf("presence_density_map must supply the density matrix")
	}
	return nil
}

// GetCoordinateUnits returns the coordinate_units value or the default.
func (o *ModelingOptions) GetCoordinateUnits() string {
	if o.Layout.CoordinateUnits == "" {
		return units.M // default
	}
	return o.Layout.CoordinateUnits
}

// Grid builds the validated density grid from the presence-density map.
func (o *ModelingOptions) Grid() (*density.Grid, error) {
	return density.NewGrid(
		o.PresenceDensityMap.X,
		o.PresenceDensityMap.Y,
		o.PresenceDensityMap.NormalizedPresenceDensity,
	)
}
