package mapper

import (
	"log/slog"
	"math"

	"github.com/grimechristopher/llm-adventure/internal/geo"
	"github.com/grimechristopher/llm-adventure/internal/model"
)

// SpreadMode selects how the anchor spiral scales longitude.
type SpreadMode int

const (
	// SpreadCompressed keeps anchors inside ±40° longitude, reusing the
	// latitude scale factor. Default.
	SpreadCompressed SpreadMode = iota
	// SpreadFull spreads anchors over the world's full ±180° longitude.
	SpreadFull
)

// goldenAngle drives the Fibonacci spiral.
var goldenAngle = math.Pi * (3.0 - math.Sqrt(5.0))

// distributeAnchors places anchors evenly: the first at the world origin,
// the rest on a golden-angle spiral rescaled into the world band. The
// layout is a pure function of the ordered anchor list, so re-runs on the
// same set reproduce it exactly.
func (m *Mapper) distributeAnchors(anchors []*model.Location) {
	if len(anchors) == 0 {
		return
	}

	slog.Info("distributing anchor locations", "count", len(anchors))

	for i, anchor := range anchors {
		p := anchorPoint(i, len(anchors), m.cfg.Spread)
		assign(anchor, p, model.SourceAnchor)
		slog.Debug("anchor location positioned",
			"name", anchor.Name,
			"latitude", p.Lat,
			"longitude", p.Lon,
		)
	}
}

// anchorPoint computes the i-th of total anchor slots. Slot 0 is the
// origin by convention; later slots come from the unit-sphere Fibonacci
// spiral, with latitude rescaled from ±90° into ±40° and longitude from
// ±180° into the mode's band.
func anchorPoint(index, total int, mode SpreadMode) geo.Point {
	if index == 0 {
		return geo.Point{}
	}

	y := 1 - (float64(index)/float64(total-1))*2 // 1 .. -1 down the spiral
	radius := math.Sqrt(1 - y*y)
	theta := goldenAngle * float64(index)

	x := math.Cos(theta) * radius
	z := math.Sin(theta) * radius

	lonScale := 40.0 / 180.0
	if mode == SpreadFull {
		lonScale = 1.0
	}

	lat := (math.Asin(y) * 180 / math.Pi) * (40.0 / 90.0)
	lon := (math.Atan2(z, x) * 180 / math.Pi) * lonScale

	return geo.Clamp(geo.Point{Lat: lat, Lon: lon})
}
