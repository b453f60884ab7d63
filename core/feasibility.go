package core

import (
	"errors"
	"fmt"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

// RejectReason identifies which feasibility check failed, for metrics
// and reporting. Empty means the pair passed every check.
type RejectReason string

const (
	RejectNone       RejectReason = ""
	RejectCoBuilding RejectReason = "reject_co_building"
	RejectDistance   RejectReason = "reject_distance"
	RejectElevation  RejectReason = "reject_elevation"
	RejectExclusion  RejectReason = "reject_exclusion"
)

// ErrInvalidConfig is returned when construction-time invariants on
// the validation parameters are violated.
var ErrInvalidConfig = errors.New("invalid validation configuration")

// FeasibilityChecker runs the cheap geometric pre-filters ahead of
// any Fresnel-zone work: co-building, distance range, elevation
// deviation, and exclusion-zone intersection, in that order, with
// short-circuiting. It is immutable after construction and safe for
// concurrent use.
type FeasibilityChecker struct {
	minDistance     float64
	maxDistance     float64
	maxElevationDeg float64
	exclusions      *ExclusionIndex
}

// NewFeasibilityChecker validates the configured ranges and
// pre-indexes the exclusion zones. Range violations fail here, never
// silently corrected.
func NewFeasibilityChecker(minDistanceM, maxDistanceM, maxElevationDeg float64, zones []model.ExclusionZone) (*FeasibilityChecker, error) {
	if minDistanceM <= 0 || minDistanceM >= maxDistanceM {
		return nil, fmt.Errorf("%w: need 0 < min LOS distance (%v) < max LOS distance (%v)",
			ErrInvalidConfig, minDistanceM, maxDistanceM)
	}
	if maxElevationDeg <= 0 || maxElevationDeg >= 90 {
		return nil, fmt.Errorf("%w: max elevation deviation %v° outside (0, 90)",
			ErrInvalidConfig, maxElevationDeg)
	}
	ix, err := NewExclusionIndex(zones)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &FeasibilityChecker{
		minDistance:     minDistanceM,
		maxDistance:     maxDistanceM,
		maxElevationDeg: maxElevationDeg,
		exclusions:      ix,
	}, nil
}

// Passes reports whether the pair survives every pre-filter. The
// checks are pure and symmetric in site order.
func (fc *FeasibilityChecker) Passes(a, b *model.Site) bool {
	return fc.Check(a, b) == RejectNone
}

// Check runs the pre-filters in order and returns the first failure.
func (fc *FeasibilityChecker) Check(a, b *model.Site) RejectReason {
	// Links between rooftops of the same building are disallowed
	// outright.
	if a.Location == model.LocationRooftop && b.Location == model.LocationRooftop &&
		a.BuildingID != "" && a.BuildingID == b.BuildingID {
		return RejectCoBuilding
	}

	dist := distance3D(a, b)
	if dist < fc.minDistance || dist > fc.maxDistance {
		return RejectDistance
	}

	// The elevation deviation limit only applies when both heights
	// are known.
	if a.HasAltitude() && b.HasAltitude() {
		if elevationDegrees(*a.Altitude-*b.Altitude, dist) > fc.maxElevationDeg {
			return RejectElevation
		}
	}

	if fc.exclusions.SegmentBlocked(planarPosition(a), planarPosition(b)) {
		return RejectExclusion
	}
	return RejectNone
}
