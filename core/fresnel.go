package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

// FresnelRadiusCoefficient converts sqrt(metres / MHz) into the first
// Fresnel zone radius at the midpoint of a link, in metres. It is
// ½·√c with c in m/s, rescaled for distances in metres and carrier
// frequencies in MHz. The literal is load-bearing: downstream outputs
// are compared bit-for-bit against this value.
const FresnelRadiusCoefficient = 8.65725790883

var (
	// ErrCoincidentSites is returned when both endpoints share the
	// same planar position; such a link has no horizontal bearing.
	ErrCoincidentSites = errors.New("sites share the same planar position")

	// ErrMissingAltitude is returned when a site passed to the
	// ellipsoidal geometry carries no altitude.
	ErrMissingAltitude = errors.New("site altitude required for ellipsoidal geometry")

	// ErrDegenerateEllipsoid is returned when the ellipsoid height
	// quadratic loses its leading coefficient. This cannot happen for
	// a well-formed zone and indicates a configuration defect.
	ErrDegenerateEllipsoid = errors.New("ellipsoid height quadratic has non-positive leading coefficient")
)

// FresnelZone models the first Fresnel zone between two endpoints as
// a 3D ellipsoid, with a 2D horizontal-ellipse projection for
// top-view queries. An instance is derived per site pair, is
// immutable, and lives for exactly one confidence computation.
type FresnelZone struct {
	end1, end2 r2.Point

	frequencyMHz float64
	threshold    float64

	distance3D  float64
	outerRadius float64
	innerRadius float64

	// Rotation of the link's local frame: A is the azimuth about the
	// vertical axis, B the tilt about the horizontal axis
	// perpendicular to the link.
	sinA, cosA float64
	sinB, cosB float64

	midpoint r3.Vector

	// Squared semi-major-axis terms of the ellipsoid (3D) and the
	// projected ellipse (horizontal).
	halfDist3DSq    float64
	halfDistHorizSq float64

	// Supporting plane through both endpoints and the horizontal
	// perpendicular: above it the widest top-view silhouette of the
	// ellipsoid governs clearance.
	planeNormal r3.Vector
	planeOrigin r3.Vector
}

// NewFresnelZone derives the first Fresnel zone for the link a–b at
// the given carrier frequency. Both sites must carry an altitude and
// must not be planar-coincident; confidenceThreshold scales the inner
// (hard-block) radius and must lie in [0, 1].
func NewFresnelZone(a, b *model.Site, frequencyMHz, confidenceThreshold float64) (*FresnelZone, error) {
	if frequencyMHz <= 0 {
		return nil, fmt.Errorf("frequency %v MHz out of range", frequencyMHz)
	}
	if confidenceThreshold < 0 || confidenceThreshold > 1 {
		return nil, fmt.Errorf("confidence threshold %v out of range [0, 1]", confidenceThreshold)
	}
	if !a.HasAltitude() {
		return nil, fmt.Errorf("site %q: %w", a.ID, ErrMissingAltitude)
	}
	if !b.HasAltitude() {
		return nil, fmt.Errorf("site %q: %w", b.ID, ErrMissingAltitude)
	}

	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := *b.Altitude - *a.Altitude

	distHoriz := math.Hypot(dx, dy)
	if distHoriz == 0 {
		return nil, fmt.Errorf("sites %q and %q: %w", a.ID, b.ID, ErrCoincidentSites)
	}
	dist3D := math.Sqrt(dx*dx + dy*dy + dz*dz)

	outer := FresnelRadiusCoefficient * math.Sqrt(dist3D/frequencyMHz)

	origin := r3.Vector{X: a.X, Y: a.Y, Z: *a.Altitude}
	direction := r3.Vector{X: dx, Y: dy, Z: dz}
	// Third point sharing the first endpoint's altitude, offset along
	// the horizontal perpendicular; the plane it spans with the link
	// direction is the max-top-view supporting plane.
	horizPerp := r3.Vector{X: -dy, Y: dx, Z: 0}

	return &FresnelZone{
		end1:         planarPosition(a),
		end2:         planarPosition(b),
		frequencyMHz: frequencyMHz,
		threshold:    confidenceThreshold,
		distance3D:   dist3D,
		outerRadius:  outer,
		innerRadius:  outer * confidenceThreshold,
		sinA:         dy / distHoriz,
		cosA:         dx / distHoriz,
		sinB:         dz / dist3D,
		cosB:         distHoriz / dist3D,
		midpoint: r3.Vector{
			X: (a.X + b.X) / 2,
			Y: (a.Y + b.Y) / 2,
			Z: (*a.Altitude + *b.Altitude) / 2,
		},
		halfDist3DSq:    (dist3D / 2) * (dist3D / 2),
		halfDistHorizSq: (distHoriz / 2) * (distHoriz / 2),
		planeNormal:     direction.Cross(horizPerp),
		planeOrigin:     origin,
	}, nil
}

// OuterRadius returns the nominal first Fresnel zone radius in metres.
func (fz *FresnelZone) OuterRadius() float64 { return fz.outerRadius }

// InnerRadius returns the hard-block radius (outer scaled by the
// confidence threshold).
func (fz *FresnelZone) InnerRadius() float64 { return fz.innerRadius }

// Distance3D returns the straight-line endpoint distance in metres.
func (fz *FresnelZone) Distance3D() float64 { return fz.distance3D }

// rotatedHorizontal maps a planar position into the link's horizontal
// frame: along the azimuth, and across it.
func (fz *FresnelZone) rotatedHorizontal(x, y float64) (along, across float64) {
	px := x - fz.midpoint.X
	py := y - fz.midpoint.Y
	along = fz.cosA*px + fz.sinA*py
	across = -fz.sinA*px + fz.cosA*py
	return along, across
}

// PointInEllipse reports whether the planar position (x, y) lies
// inside (or on) the rotated horizontal ellipse with semi-axes
// (half horizontal distance, sqrt(radiusSq)). Callers pass the outer
// or inner squared radius explicitly.
func (fz *FresnelZone) PointInEllipse(x, y, radiusSq float64) bool {
	along, across := fz.rotatedHorizontal(x, y)
	return along*along/fz.halfDistHorizSq+across*across/radiusSq <= 1
}

// LowerEllipsoidHeight solves the zone's ellipsoid equation for the
// lower-root height at the planar position (x, y) and the given
// squared radius. It returns +Inf when the vertical line at (x, y)
// misses the ellipsoid entirely (non-positive discriminant).
func (fz *FresnelZone) LowerEllipsoidHeight(x, y, radiusSq float64) (float64, error) {
	px := x - fz.midpoint.X
	py := y - fz.midpoint.Y

	// Horizontal components in the azimuth frame; q tilts into the
	// ellipsoid's major axis together with the height offset, v is
	// already perpendicular to the link.
	q := fz.cosA*px + fz.sinA*py
	v := -fz.sinA*px + fz.cosA*py

	invA := 1 / fz.halfDist3DSq
	invR := 1 / radiusSq

	a := fz.sinB*fz.sinB*invA + fz.cosB*fz.cosB*invR
	if a <= 0 {
		return 0, fmt.Errorf("radius² %v: %w", radiusSq, ErrDegenerateEllipsoid)
	}
	b := 2 * q * fz.sinB * fz.cosB * (invA - invR)
	c := fz.cosB*fz.cosB*q*q*invA + (fz.sinB*fz.sinB*q*q+v*v)*invR - 1

	disc := b*b - 4*a*c
	if disc <= 0 {
		return math.Inf(1), nil
	}
	return fz.midpoint.Z + (-b-math.Sqrt(disc))/(2*a), nil
}

// maxTopViewHeight evaluates the supporting plane at (x, y). At or
// above this height the closest non-intersecting radius reduces to
// the 2D ellipse case.
func (fz *FresnelZone) maxTopViewHeight(x, y float64) float64 {
	n := fz.planeNormal
	return fz.planeOrigin.Z - (n.X*(x-fz.planeOrigin.X)+n.Y*(y-fz.planeOrigin.Y))/n.Z
}

// ObstructsInnerZone reports whether the sample hard-blocks the link:
// it lies inside the inner ellipse and at or above the inner
// ellipsoid's lower surface. Samples exactly at an endpoint's planar
// position never obstruct, and a zero confidence threshold makes the
// inner zone degenerate (never blocked).
func (fz *FresnelZone) ObstructsInnerZone(p r3.Vector) (bool, error) {
	if (p.X == fz.end1.X && p.Y == fz.end1.Y) || (p.X == fz.end2.X && p.Y == fz.end2.Y) {
		return false, nil
	}
	if fz.threshold <= 0 {
		return false, nil
	}
	innerSq := fz.innerRadius * fz.innerRadius
	if !fz.PointInEllipse(p.X, p.Y, innerSq) {
		return false, nil
	}
	height, err := fz.LowerEllipsoidHeight(p.X, p.Y, innerSq)
	if err != nil {
		return false, err
	}
	// Inclusive boundary: grazing the lower surface still obstructs.
	return p.Z >= height, nil
}

// MaxClearRadius returns the largest Fresnel radius, capped at the
// outer radius, whose zone boundary does not touch the sample. The
// sample must already be known not to hard-block the link.
func (fz *FresnelZone) MaxClearRadius(p r3.Vector) (float64, error) {
	outerSq := fz.outerRadius * fz.outerRadius

	height, err := fz.LowerEllipsoidHeight(p.X, p.Y, outerSq)
	if err != nil {
		return 0, err
	}
	if p.Z < height {
		// Below the zone at full radius: non-binding.
		return fz.outerRadius, nil
	}

	if p.Z >= fz.maxTopViewHeight(p.X, p.Y) {
		// Above the widest silhouette: only the lateral distance in
		// the top view constrains the radius.
		along, across := fz.rotatedHorizontal(p.X, p.Y)
		alongTerm := along * along / fz.halfDistHorizSq
		if alongTerm >= 1 {
			return fz.outerRadius, nil
		}
		r := math.Sqrt(across * across / (1 - alongTerm))
		return math.Min(r, fz.outerRadius), nil
	}

	// General case: isolate the radius term of the ellipsoid equation
	// in the link's fully rotated frame.
	px := p.X - fz.midpoint.X
	py := p.Y - fz.midpoint.Y
	pz := p.Z - fz.midpoint.Z

	q := fz.cosA*px + fz.sinA*py
	v := -fz.sinA*px + fz.cosA*py
	u := fz.cosB*q + fz.sinB*pz
	w := -fz.sinB*q + fz.cosB*pz

	alongTerm := u * u / fz.halfDist3DSq
	if alongTerm >= 1 {
		return fz.outerRadius, nil
	}
	r := math.Sqrt((v*v + w*w) / (1 - alongTerm))
	return math.Min(r, fz.outerRadius), nil
}
