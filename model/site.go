package model

// LocationType classifies where a site sits relative to the built
// environment. The co-building feasibility check only applies to
// rooftop sites.
type LocationType string

const (
	LocationRooftop     LocationType = "rooftop"
	LocationStreetLevel LocationType = "street_level"
	LocationUnknown     LocationType = "unknown"
)

// Site is the read-only line-of-sight view of a candidate link
// endpoint. Coordinates are planar (X east, Y north) in a shared
// projected coordinate system, in metres. The topology layer owns the
// full site record; the LOS engine never mutates this view.
type Site struct {
	ID string

	X float64
	Y float64

	// Altitude is the site height in metres above the projection
	// datum. nil means the surface model carried no height for this
	// site; the ellipsoidal geometry requires it, while the simple
	// distance check treats it as zero.
	Altitude *float64

	Location LocationType

	// BuildingID identifies the structure a rooftop site sits on,
	// when known. Empty for street-level and unclassified sites.
	BuildingID string
}

// HasAltitude reports whether the site carries a height.
func (s *Site) HasAltitude() bool {
	return s != nil && s.Altitude != nil
}

// AltitudeOrZero returns the site height, or 0 when absent.
func (s *Site) AltitudeOrZero() float64 {
	if s == nil || s.Altitude == nil {
		return 0
	}
	return *s.Altitude
}
