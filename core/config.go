package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidationConfig carries the construction-time parameters of the
// LOS validator. All values are immutable once the validator is built.
type ValidationConfig struct {
	// MinLOSDistanceM / MaxLOSDistanceM bound the accepted 3D link
	// length, in the projection's length units (metres).
	MinLOSDistanceM float64 `yaml:"min_los_distance_m"`
	MaxLOSDistanceM float64 `yaml:"max_los_distance_m"`

	// MaxElevationDeg is the largest accepted deviation of a link
	// from the horizontal plane, in degrees, strictly inside (0, 90).
	MaxElevationDeg float64 `yaml:"max_elevation_deg"`

	// ConfidenceThreshold in [0, 1] scales the inner (hard-block)
	// Fresnel radius.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// FrequencyMHz is the radio carrier frequency. The Fresnel radius
	// coefficient assumes metres and MHz.
	FrequencyMHz float64 `yaml:"frequency_mhz"`
}

// Validate enforces the construction-time invariants. Violations are
// fatal to the configuration, not silently corrected.
func (c ValidationConfig) Validate() error {
	if c.MinLOSDistanceM <= 0 || c.MinLOSDistanceM >= c.MaxLOSDistanceM {
		return fmt.Errorf("%w: need 0 < min LOS distance (%v) < max LOS distance (%v)",
			ErrInvalidConfig, c.MinLOSDistanceM, c.MaxLOSDistanceM)
	}
	if c.MaxElevationDeg <= 0 || c.MaxElevationDeg >= 90 {
		return fmt.Errorf("%w: max elevation deviation %v° outside (0, 90)",
			ErrInvalidConfig, c.MaxElevationDeg)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence threshold %v outside [0, 1]",
			ErrInvalidConfig, c.ConfidenceThreshold)
	}
	if c.FrequencyMHz <= 0 {
		return fmt.Errorf("%w: frequency %v MHz must be positive",
			ErrInvalidConfig, c.FrequencyMHz)
	}
	return nil
}

// PlannerConfig is the top-level YAML configuration of the planner CLI.
type PlannerConfig struct {
	Validation ValidationConfig `yaml:"validation"`

	// Workers bounds the evaluation fan-out; 0 lets the planner pick.
	Workers int `yaml:"workers"`

	// SurfaceCellSizeM is the grid pitch of the obstruction index;
	// 0 selects the default.
	SurfaceCellSizeM float64 `yaml:"surface_cell_size_m"`

	// MinReportConfidence filters the candidate-link report.
	MinReportConfidence float64 `yaml:"min_report_confidence"`
}

// DefaultPlannerConfig mirrors the parameter set we ship in
// configs/planner.yaml: a short-haul 60 GHz deployment profile.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		Validation: ValidationConfig{
			MinLOSDistanceM:     10,
			MaxLOSDistanceM:     500,
			MaxElevationDeg:     25,
			ConfidenceThreshold: 0.5,
			FrequencyMHz:        60000,
		},
		SurfaceCellSizeM:    DefaultSurfaceCellSizeM,
		MinReportConfidence: 0,
	}
}

// LoadPlannerConfig reads and validates a YAML configuration file.
// Fields absent from the file keep their default values.
func LoadPlannerConfig(path string) (PlannerConfig, error) {
	cfg := DefaultPlannerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read planner config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse planner config %q: %w", path, err)
	}
	if err := cfg.Validation.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("%w: workers %d must be non-negative", ErrInvalidConfig, cfg.Workers)
	}
	return cfg, nil
}
