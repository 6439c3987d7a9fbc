package config

import (
	"fmt"

	"github.com/kilianp07/courier/core/shipment"
	"github.com/kilianp07/courier/pkg/export"
)

// EstimateConfig tunes the shipment packer.
type EstimateConfig struct {
	// WeightResolution is the number of packer weight units per kilogram.
	WeightResolution int `json:"weight_resolution"`
}

// SetDefaults applies sane defaults.
func (c *EstimateConfig) SetDefaults() {
	if c.WeightResolution == 0 {
		c.WeightResolution = shipment.DefaultResolution
	}
}

// Validate bounds the resolution so the packer table stays small.
func (c EstimateConfig) Validate() error {
	if c.WeightResolution < 1 || c.WeightResolution > 10000 {
		return fmt.Errorf("estimate: weight_resolution must be between 1 and 10000")
	}
	return nil
}

// OutputConfig selects how estimates are printed.
type OutputConfig struct {
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = string(export.FormatText)
	}
}

// Validate checks the format name.
func (c OutputConfig) Validate() error {
	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}
