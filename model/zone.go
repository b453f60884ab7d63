package model

// Vertex is a planar polygon vertex in the shared projected
// coordinate system (metres).
type Vertex struct {
	X float64
	Y float64
}

// ExclusionZone is a user-defined polygon within which links are
// disallowed regardless of geometry. Vertices describe the ring in
// order; the closing edge back to the first vertex is implicit.
type ExclusionZone struct {
	ID       string
	Vertices []Vertex
}
