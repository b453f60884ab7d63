package core

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/terragraph/terragraph-planner-sub002/model"
)

func site(id string, x, y, alt float64) *model.Site {
	return &model.Site{ID: id, X: x, Y: y, Altitude: &alt, Location: model.LocationRooftop}
}

func TestNewFresnelZone_OuterRadiusFixture(t *testing.T) {
	// Regression fixture: UTM (5, 8) alt 6 to (225, 13) alt 10 at 60 GHz.
	fz, err := NewFresnelZone(site("a", 5, 8, 6), site("b", 225, 13, 10), 6e4, 0.5)
	if err != nil {
		t.Fatalf("NewFresnelZone: %v", err)
	}
	const want = 0.524333983
	if math.Abs(fz.OuterRadius()-want) > 1e-6 {
		t.Errorf("outer radius = %.9f, want %.9f", fz.OuterRadius(), want)
	}
	if math.Abs(fz.InnerRadius()-want/2) > 1e-6 {
		t.Errorf("inner radius = %.9f, want %.9f", fz.InnerRadius(), want/2)
	}
}

func TestNewFresnelZone_RotationFixture(t *testing.T) {
	fz, err := NewFresnelZone(site("a", 1, 1.5, 1.5), site("b", 4, 2.8, 2.8), 6e4, 0.5)
	if err != nil {
		t.Fatalf("NewFresnelZone: %v", err)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"sinA", fz.sinA, 0.397607},
		{"cosA", fz.cosA, 0.917556},
		{"sinB", fz.sinB, 0.369473},
		{"cosB", fz.cosB, 0.929241},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-6 {
			t.Errorf("%s = %.6f, want %.6f", c.name, c.got, c.want)
		}
	}
}

func TestNewFresnelZone_CoincidentSites(t *testing.T) {
	_, err := NewFresnelZone(site("a", 7, 7, 5), site("b", 7, 7, 25), 6e4, 0.5)
	if !errors.Is(err, ErrCoincidentSites) {
		t.Fatalf("err = %v, want ErrCoincidentSites", err)
	}
}

func TestNewFresnelZone_MissingAltitude(t *testing.T) {
	a := &model.Site{ID: "a", X: 0, Y: 0}
	_, err := NewFresnelZone(a, site("b", 100, 0, 10), 6e4, 0.5)
	if !errors.Is(err, ErrMissingAltitude) {
		t.Fatalf("err = %v, want ErrMissingAltitude", err)
	}
}

func TestNewFresnelZone_BadParameters(t *testing.T) {
	if _, err := NewFresnelZone(site("a", 0, 0, 10), site("b", 100, 0, 10), 0, 0.5); err == nil {
		t.Error("expected error for non-positive frequency")
	}
	if _, err := NewFresnelZone(site("a", 0, 0, 10), site("b", 100, 0, 10), 6e4, 1.5); err == nil {
		t.Error("expected error for threshold above 1")
	}
}

// levelZone builds a horizontal 200 m link at 60 GHz between altitudes
// of 10 m. Its geometry is easy to reason about: sinA = sinB = 0,
// midpoint (100, 0, 10).
func levelZone(t *testing.T, threshold float64) *FresnelZone {
	t.Helper()
	fz, err := NewFresnelZone(site("a", 0, 0, 10), site("b", 200, 0, 10), 6e4, threshold)
	if err != nil {
		t.Fatalf("NewFresnelZone: %v", err)
	}
	return fz
}

func TestPointInEllipse(t *testing.T) {
	fz := levelZone(t, 0.5)
	outerSq := fz.OuterRadius() * fz.OuterRadius()

	if !fz.PointInEllipse(100, 0, outerSq) {
		t.Error("midpoint should be inside the outer ellipse")
	}
	if !fz.PointInEllipse(0, 0, outerSq) {
		t.Error("an endpoint lies on the ellipse boundary and should count as inside")
	}
	if fz.PointInEllipse(100, fz.OuterRadius()*1.01, outerSq) {
		t.Error("point just beyond the minor axis should be outside")
	}
	if fz.PointInEllipse(210, 0, outerSq) {
		t.Error("point beyond the major axis should be outside")
	}
}

func TestLowerEllipsoidHeight(t *testing.T) {
	fz := levelZone(t, 0.5)
	outer := fz.OuterRadius()
	outerSq := outer * outer

	// At the midpoint of a level link the lower surface sits exactly
	// one radius below the axis.
	h, err := fz.LowerEllipsoidHeight(100, 0, outerSq)
	if err != nil {
		t.Fatalf("LowerEllipsoidHeight: %v", err)
	}
	if math.Abs(h-(10-outer)) > 1e-9 {
		t.Errorf("lower height at midpoint = %v, want %v", h, 10-outer)
	}

	// Far off-axis the vertical line misses the ellipsoid entirely.
	h, err = fz.LowerEllipsoidHeight(100, 5, outerSq)
	if err != nil {
		t.Fatalf("LowerEllipsoidHeight: %v", err)
	}
	if !math.IsInf(h, 1) {
		t.Errorf("lower height off-axis = %v, want +Inf", h)
	}
}

func TestObstructsInnerZone(t *testing.T) {
	fz := levelZone(t, 0.5)

	blocked, err := fz.ObstructsInnerZone(r3.Vector{X: 100, Y: 0, Z: 10})
	if err != nil {
		t.Fatalf("ObstructsInnerZone: %v", err)
	}
	if !blocked {
		t.Error("sample on the link axis should hard-block")
	}

	// A sample below the inner zone's lower surface does not block.
	blocked, err = fz.ObstructsInnerZone(r3.Vector{X: 100, Y: 0, Z: 9})
	if err != nil {
		t.Fatalf("ObstructsInnerZone: %v", err)
	}
	if blocked {
		t.Error("sample below the inner zone should not block")
	}
}

func TestObstructsInnerZone_BoundaryInclusive(t *testing.T) {
	fz := levelZone(t, 0.5)
	innerSq := fz.InnerRadius() * fz.InnerRadius()

	h, err := fz.LowerEllipsoidHeight(100, 0, innerSq)
	if err != nil {
		t.Fatalf("LowerEllipsoidHeight: %v", err)
	}
	blocked, err := fz.ObstructsInnerZone(r3.Vector{X: 100, Y: 0, Z: h})
	if err != nil {
		t.Fatalf("ObstructsInnerZone: %v", err)
	}
	if !blocked {
		t.Error("sample grazing the lower inner surface should block (inclusive boundary)")
	}
}

func TestObstructsInnerZone_EndpointExempt(t *testing.T) {
	fz := levelZone(t, 0.5)
	for _, p := range []r3.Vector{
		{X: 0, Y: 0, Z: 1000},
		{X: 200, Y: 0, Z: 1000},
	} {
		blocked, err := fz.ObstructsInnerZone(p)
		if err != nil {
			t.Fatalf("ObstructsInnerZone: %v", err)
		}
		if blocked {
			t.Errorf("sample at endpoint planar position %v must never obstruct", p)
		}
	}
}

func TestObstructsInnerZone_ZeroThreshold(t *testing.T) {
	fz := levelZone(t, 0)
	blocked, err := fz.ObstructsInnerZone(r3.Vector{X: 100, Y: 0, Z: 10})
	if err != nil {
		t.Fatalf("ObstructsInnerZone: %v", err)
	}
	if blocked {
		t.Error("a degenerate inner zone (threshold 0) must never block")
	}
}

func TestMaxClearRadius(t *testing.T) {
	fz := levelZone(t, 0.5)
	outer := fz.OuterRadius()

	tests := []struct {
		name string
		p    r3.Vector
		want float64
	}{
		// Well below the zone: non-binding.
		{"below zone", r3.Vector{X: 100, Y: 0, Z: 5}, outer},
		// Level with the axis, laterally offset: top-view (2D) case,
		// clear radius equals the lateral distance.
		{"lateral at axis height", r3.Vector{X: 100, Y: 0.3, Z: 10}, 0.3},
		// Slightly below the axis on the centreline: 3D case, clear
		// radius equals the depth below the axis.
		{"below axis on centreline", r3.Vector{X: 100, Y: 0, Z: 9.7}, 0.3},
		// Outside the footprint entirely: non-binding.
		{"outside footprint", r3.Vector{X: 100, Y: 5, Z: 10}, outer},
	}
	for _, tc := range tests {
		got, err := fz.MaxClearRadius(tc.p)
		if err != nil {
			t.Fatalf("%s: MaxClearRadius: %v", tc.name, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: MaxClearRadius = %v, want %v", tc.name, got, tc.want)
		}
	}
}
