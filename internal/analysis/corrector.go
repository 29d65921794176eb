// Package analysis resolves gaze samples against the target catalog,
// aggregates the per-target statistics and writes the text outputs of a
// run.
package analysis

import (
	"github.com/banshee-data/gaze.report/internal/samples"
	"github.com/banshee-data/gaze.report/internal/targets"
)

// Point is an angular position in degrees.
type Point struct {
	X float64
	Y float64
}

// Correct shifts a raw reading into screen space by adding the target's
// base offset. A missing angle counts as zero unless both are missing, in
// which case there is nothing to plot. A nil target yields no point.
func Correct(t *targets.Target, yaw, pitch samples.OptionalFloat) (Point, bool) {
	if t == nil {
		return Point{}, false
	}
	if !yaw.Valid() && !pitch.Valid() {
		return Point{}, false
	}
	return Point{
		X: yaw.Or(0) + t.Offset.X,
		Y: pitch.Or(0) + t.Offset.Y,
	}, true
}
