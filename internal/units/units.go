// Package units provides shared angle constants and conversions
package units

import "math"

// Angle unit constants
const (
	Degrees = "deg"
	Radians = "rad"
)

// ValidAngleUnits contains all valid angle unit values
var ValidAngleUnits = []string{Degrees, Radians}

// IsValidAngleUnit checks if the given unit is in the list of valid angle units
func IsValidAngleUnit(unit string) bool {
	for _, validUnit := range ValidAngleUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// ToDegrees converts an angle in the given units to degrees.
// Unknown units are assumed to already be degrees.
func ToDegrees(angle float64, unit string) float64 {
	switch unit {
	case Radians:
		return RadToDeg(angle)
	default:
		return angle
	}
}

// PolarToXY decomposes a magnitude at the given bearing (degrees,
// measured from the +Y axis towards +X) into X and Y components.
// A bearing of 45° splits the magnitude evenly between both axes.
func PolarToXY(magnitude, bearingDeg float64) (x, y float64) {
	rad := DegToRad(bearingDeg)
	return magnitude * math.Sin(rad), magnitude * math.Cos(rad)
}
