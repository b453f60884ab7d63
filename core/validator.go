package core

import (
	"fmt"
	"math"
	"time"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

// LOSValidator scores the line-of-sight feasibility of a candidate
// wireless link. The confidence is 0 for infeasible or hard-blocked
// pairs, 1 for a fully clear first Fresnel zone, and the ratio of the
// narrowest unobstructed radius to the nominal radius in between.
//
// Routine infeasibility is a 0 score with a nil error; errors are
// reserved for configuration and contract violations (coincident
// endpoints, missing altitudes), since callers evaluate this over very
// large candidate batches.
type LOSValidator interface {
	ComputeConfidence(a, b *model.Site) (float64, error)
}

// Evaluation outcome labels reported to the EvaluationRecorder, in
// addition to the RejectReason values.
const (
	OutcomeClear   = "clear"
	OutcomePartial = "partial"
	OutcomeBlocked = "blocked"
	OutcomeError   = "error"
)

// EvaluationRecorder receives the outcome and duration of each
// confidence evaluation. Implementations must be safe for concurrent
// use; the Prometheus collector in internal/observability satisfies
// this interface.
type EvaluationRecorder interface {
	RecordEvaluation(outcome string, seconds float64)
}

// EllipsoidalValidator is the concrete ellipsoidal-footprint strategy:
// it runs the feasibility pre-filters, then scores obstruction samples
// against the first Fresnel zone ellipsoid. A sibling strategy with a
// cylindrical footprint satisfies the same LOSValidator interface.
//
// The validator is immutable after construction (the exclusion index
// is pre-built) and safe for arbitrary concurrent evaluations; set
// Recorder before the first call.
type EllipsoidalValidator struct {
	checker      *FeasibilityChecker
	frequencyMHz float64
	threshold    float64
	source       ObstructionSource

	// Recorder, when non-nil, is notified of every evaluation.
	Recorder EvaluationRecorder
}

// NewEllipsoidalValidator builds the validator from its configuration,
// pre-indexing the exclusion zones. source may be nil when no surface
// model is available; evaluations are then optimistic. Invalid
// parameters fail here rather than being corrected.
func NewEllipsoidalValidator(cfg ValidationConfig, zones []model.ExclusionZone, source ObstructionSource) (*EllipsoidalValidator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	checker, err := NewFeasibilityChecker(cfg.MinLOSDistanceM, cfg.MaxLOSDistanceM, cfg.MaxElevationDeg, zones)
	if err != nil {
		return nil, err
	}
	return &EllipsoidalValidator{
		checker:      checker,
		frequencyMHz: cfg.FrequencyMHz,
		threshold:    cfg.ConfidenceThreshold,
		source:       source,
	}, nil
}

// Checker exposes the feasibility pre-filter, mainly for callers that
// want to count candidate pairs before paying for geometry.
func (v *EllipsoidalValidator) Checker() *FeasibilityChecker { return v.checker }

// ComputeConfidence scores the pair a–b. The result is in [0, 1] and
// symmetric in argument order.
func (v *EllipsoidalValidator) ComputeConfidence(a, b *model.Site) (float64, error) {
	start := time.Now()
	outcome := OutcomeError
	defer func() {
		if v.Recorder != nil {
			v.Recorder.RecordEvaluation(outcome, time.Since(start).Seconds())
		}
	}()

	if reason := v.checker.Check(a, b); reason != RejectNone {
		outcome = string(reason)
		return 0, nil
	}

	// Absent surface data implies a clear path; the pre-filters are
	// then the only gate.
	if v.source == nil {
		outcome = OutcomeClear
		return 1, nil
	}

	fz, err := NewFresnelZone(a, b, v.frequencyMHz, v.threshold)
	if err != nil {
		return 0, fmt.Errorf("fresnel zone for %q–%q: %w", a.ID, b.ID, err)
	}

	outer := fz.OuterRadius()
	outerSq := outer * outer
	box := boundingBox(segmentRectangle(planarPosition(a), planarPosition(b), outer))

	samples := v.source.Query(box.X.Lo, box.Y.Lo, box.X.Hi, box.Y.Hi, func(x, y float64) bool {
		return fz.PointInEllipse(x, y, outerSq)
	})

	minRadius := outer
	for _, p := range samples {
		blocked, err := fz.ObstructsInnerZone(p)
		if err != nil {
			return 0, err
		}
		if blocked {
			outcome = OutcomeBlocked
			return 0, nil
		}
		r, err := fz.MaxClearRadius(p)
		if err != nil {
			return 0, err
		}
		minRadius = math.Min(minRadius, r)
	}

	confidence := minRadius / outer
	if confidence >= 1 {
		outcome = OutcomeClear
	} else {
		outcome = OutcomePartial
	}
	return confidence, nil
}
