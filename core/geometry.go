package core

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

// planarPosition returns the site's position in the horizontal plane.
func planarPosition(s *model.Site) r2.Point {
	return r2.Point{X: s.X, Y: s.Y}
}

// distance3D returns the straight-line distance between two sites in
// metres, including the altitude delta. A missing altitude on either
// side is treated as zero height; this keeps the distance check
// meaningful for 2D-only inputs and is the only place absence is
// interpreted that way.
func distance3D(a, b *model.Site) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.AltitudeOrZero() - b.AltitudeOrZero()
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// elevationDegrees returns the deviation of the link from the
// horizontal plane, in degrees. The asin argument is clamped to 1 to
// absorb floating-point overshoot on near-vertical links.
func elevationDegrees(deltaAlt, distance float64) float64 {
	if distance == 0 {
		return 90
	}
	ratio := math.Abs(deltaAlt) / distance
	if ratio > 1 {
		ratio = 1
	}
	return math.Asin(ratio) * 180.0 / math.Pi
}

// segmentRectangle returns the four corners of the rectangle of width
// 2r centred on the segment p1–p2 and aligned with its direction. The
// perpendicular offset regresses on whichever axis has the larger
// extent, so the slope stays bounded for near-vertical and
// near-horizontal segments. Corner order: both corners on the p1 side
// first, then the p2 side.
func segmentRectangle(p1, p2 r2.Point, r float64) [4]r2.Point {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	var ox, oy float64
	if math.Abs(dx) >= math.Abs(dy) {
		m := dy / dx
		s := math.Sqrt(1 + m*m)
		ox = -m * r / s
		oy = r / s
	} else {
		n := dx / dy
		s := math.Sqrt(1 + n*n)
		ox = -r / s
		oy = n * r / s
	}

	return [4]r2.Point{
		{X: p1.X + ox, Y: p1.Y + oy},
		{X: p1.X - ox, Y: p1.Y - oy},
		{X: p2.X + ox, Y: p2.Y + oy},
		{X: p2.X - ox, Y: p2.Y - oy},
	}
}

// boundingBox returns the axis-aligned bounding box of the corners.
func boundingBox(corners [4]r2.Point) r2.Rect {
	return r2.RectFromPoints(corners[0], corners[1], corners[2], corners[3])
}
