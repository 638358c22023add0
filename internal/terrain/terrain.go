// Package terrain derives a deterministic elevation field for a world
// using layered simplex noise, and classifies points into coarse hints
// (coastal, lowland, highland, mountain) for the constraint planner.
// Hints are context for reasoning, never numerically validated.
package terrain

import (
	"hash/fnv"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/grimechristopher/llm-adventure/internal/geo"
)

// Hint names for a point's terrain class.
const (
	HintCoastal  = "coastal"
	HintLowland  = "lowland"
	HintHighland = "highland"
	HintMountain = "mountain"
)

// Elevation thresholds on the normalized [0,1] field.
const (
	seaLevel    = 0.30
	coastBand   = 0.06 // elevations within this band above sea level read as coastal
	mountainLvl = 0.72
)

// Field is a deterministic elevation field over the world sphere.
type Field struct {
	noise opensimplex.Noise
}

// NewField builds the elevation field for a world. The same world ID
// always yields the same field.
func NewField(worldID string) *Field {
	return &Field{noise: opensimplex.NewNormalized(seedFor(worldID))}
}

func seedFor(worldID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(worldID))
	return int64(h.Sum64())
}

// ElevationAt samples the normalized elevation in [0, 1] at a point.
// Multi-octave noise over a cylindrical unwrap of the bounded sphere;
// sampling on the unit circle in longitude keeps the field continuous
// across the dateline.
func (f *Field) ElevationAt(p geo.Point) float64 {
	lon := p.Lon * math.Pi / 180
	x := math.Cos(lon)
	z := math.Sin(lon)
	y := p.Lat / geo.MaxLat // -1..1 across the world band

	e := f.noise.Eval3(x*1.5, y*1.5, z*1.5)*0.6 +
		f.noise.Eval3(x*3.0, y*3.0, z*3.0)*0.3 +
		f.noise.Eval3(x*6.0, y*6.0, z*6.0)*0.1

	return math.Max(0, math.Min(1, e))
}

// HintAt classifies a point for the planner snapshot.
func (f *Field) HintAt(p geo.Point) string {
	e := f.ElevationAt(p)
	switch {
	case e < seaLevel+coastBand:
		return HintCoastal
	case e >= mountainLvl:
		return HintMountain
	case e >= (seaLevel+mountainLvl)/2:
		return HintHighland
	default:
		return HintLowland
	}
}
