package core

import (
	"math"

	"github.com/golang/geo/r3"
)

// ObstructionSource supplies obstruction samples whose planar position
// lies inside the query window and satisfies the filter. Implementations
// must support concurrent read queries; the validator only ever reads.
type ObstructionSource interface {
	Query(minX, minY, maxX, maxY float64, filter func(x, y float64) bool) []r3.Vector
}

// DefaultSurfaceCellSizeM is the grid pitch used when a surface model
// is built without an explicit cell size. Fresnel windows for typical
// carrier frequencies span a few metres, so cells of this size keep
// queries to a handful of buckets.
const DefaultSurfaceCellSizeM = 8.0

type surfaceCell struct {
	cx, cy int
}

// SurfaceModel is an immutable uniform-grid index over obstruction
// samples from a digital surface model. It is built once and is safe
// for concurrent queries.
type SurfaceModel struct {
	cellSize float64
	cells    map[surfaceCell][]r3.Vector
	count    int
}

// NewSurfaceModel buckets the samples into grid cells of the given
// pitch (metres). A non-positive pitch selects the default.
func NewSurfaceModel(samples []r3.Vector, cellSizeM float64) *SurfaceModel {
	if cellSizeM <= 0 {
		cellSizeM = DefaultSurfaceCellSizeM
	}
	sm := &SurfaceModel{
		cellSize: cellSizeM,
		cells:    make(map[surfaceCell][]r3.Vector),
		count:    len(samples),
	}
	for _, p := range samples {
		key := sm.cellOf(p.X, p.Y)
		sm.cells[key] = append(sm.cells[key], p)
	}
	return sm
}

func (sm *SurfaceModel) cellOf(x, y float64) surfaceCell {
	return surfaceCell{
		cx: int(math.Floor(x / sm.cellSize)),
		cy: int(math.Floor(y / sm.cellSize)),
	}
}

// Len returns the number of indexed samples.
func (sm *SurfaceModel) Len() int {
	if sm == nil {
		return 0
	}
	return sm.count
}

// Query returns the samples whose planar position lies in the window
// [minX, maxX] × [minY, maxY] and satisfies filter. A nil filter
// accepts everything.
func (sm *SurfaceModel) Query(minX, minY, maxX, maxY float64, filter func(x, y float64) bool) []r3.Vector {
	if sm == nil || sm.count == 0 || minX > maxX || minY > maxY {
		return nil
	}
	lo := sm.cellOf(minX, minY)
	hi := sm.cellOf(maxX, maxY)

	var out []r3.Vector
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for _, p := range sm.cells[surfaceCell{cx: cx, cy: cy}] {
				if p.X < minX || p.X > maxX || p.Y < minY || p.Y > maxY {
					continue
				}
				if filter != nil && !filter(p.X, p.Y) {
					continue
				}
				out = append(out, p)
			}
		}
	}
	return out
}
