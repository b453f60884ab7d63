package core

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

// ErrBadExclusionZone is returned when an exclusion polygon cannot be
// indexed (fewer than three vertices).
var ErrBadExclusionZone = errors.New("exclusion zone needs at least three vertices")

// preparedZone is an exclusion polygon with its ring and bounding box
// precomputed for repeated fast intersection tests.
type preparedZone struct {
	id    string
	ring  []r2.Point
	bound r2.Rect
}

// ExclusionIndex holds the prepared form of every exclusion zone. It
// is built once at validator construction and is read-only afterwards,
// so it can be shared across concurrent evaluations.
type ExclusionIndex struct {
	zones []preparedZone
}

// NewExclusionIndex prepares the given zones for intersection queries.
func NewExclusionIndex(zones []model.ExclusionZone) (*ExclusionIndex, error) {
	ix := &ExclusionIndex{zones: make([]preparedZone, 0, len(zones))}
	for _, z := range zones {
		if len(z.Vertices) < 3 {
			return nil, fmt.Errorf("zone %q: %w", z.ID, ErrBadExclusionZone)
		}
		ring := make([]r2.Point, len(z.Vertices))
		for i, v := range z.Vertices {
			ring[i] = r2.Point{X: v.X, Y: v.Y}
		}
		ix.zones = append(ix.zones, preparedZone{
			id:    z.ID,
			ring:  ring,
			bound: r2.RectFromPoints(ring...),
		})
	}
	return ix, nil
}

// Len returns the number of indexed zones.
func (ix *ExclusionIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.zones)
}

// SegmentBlocked reports whether the straight planar segment a–b
// intersects any indexed zone, including the case where the segment
// lies entirely inside a polygon.
func (ix *ExclusionIndex) SegmentBlocked(a, b r2.Point) bool {
	if ix == nil {
		return false
	}
	segBound := r2.RectFromPoints(a, b)
	for i := range ix.zones {
		z := &ix.zones[i]
		if !z.bound.Intersects(segBound) {
			continue
		}
		if z.segmentIntersects(a, b) {
			return true
		}
	}
	return false
}

func (z *preparedZone) segmentIntersects(a, b r2.Point) bool {
	// An endpoint inside the polygon covers segments that never cross
	// an edge.
	if z.containsPoint(a) || z.containsPoint(b) {
		return true
	}
	n := len(z.ring)
	for i := 0; i < n; i++ {
		if segmentsCross(a, b, z.ring[i], z.ring[(i+1)%n]) {
			return true
		}
	}
	return false
}

// containsPoint is a standard even-odd ray cast along +X.
func (z *preparedZone) containsPoint(p r2.Point) bool {
	if !z.bound.ContainsPoint(p) {
		return false
	}
	inside := false
	n := len(z.ring)
	for i := 0; i < n; i++ {
		v1 := z.ring[i]
		v2 := z.ring[(i+1)%n]
		if (v1.Y > p.Y) != (v2.Y > p.Y) {
			xCross := v1.X + (p.Y-v1.Y)/(v2.Y-v1.Y)*(v2.X-v1.X)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// segmentsCross reports whether segments p1–p2 and p3–p4 intersect,
// including touching and collinear-overlap cases.
func segmentsCross(p1, p2, p3, p4 r2.Point) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

// orientation returns the signed area of the triangle a–b–c: positive
// for counter-clockwise, negative for clockwise, zero for collinear.
func orientation(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment reports whether the collinear point p lies within the
// bounding box of segment a–b.
func onSegment(a, b r2.Point, p r2.Point) bool {
	return r2.RectFromPoints(a, b).ContainsPoint(p)
}
