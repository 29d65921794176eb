package units

import (
	"math"
	"testing"
)

func TestDegToRad(t *testing.T) {
	tests := []struct {
		name     string
		deg      float64
		expected float64
	}{
		{"zero", 0, 0},
		{"right angle", 90, math.Pi / 2},
		{"half turn", 180, math.Pi},
		{"negative", -45, -math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DegToRad(tt.deg)
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("DegToRad(%f) = %f, want %f", tt.deg, result, tt.expected)
			}
			if back := RadToDeg(result); math.Abs(back-tt.deg) > 1e-9 {
				t.Errorf("RadToDeg(DegToRad(%f)) = %f", tt.deg, back)
			}
		})
	}
}

func TestToDegrees(t *testing.T) {
	if got := ToDegrees(math.Pi, Radians); math.Abs(got-180) > 1e-9 {
		t.Errorf("ToDegrees(pi, rad) = %f, want 180", got)
	}
	if got := ToDegrees(12.5, Degrees); got != 12.5 {
		t.Errorf("ToDegrees(12.5, deg) = %f, want 12.5", got)
	}
	if got := ToDegrees(3, "unknown"); got != 3 {
		t.Errorf("ToDegrees(3, unknown) = %f, want 3", got)
	}
}

func TestIsValidAngleUnit(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid deg", Degrees, true},
		{"valid rad", Radians, true},
		{"invalid unit", "grad", false},
		{"empty string", "", false},
		{"case sensitive", "DEG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsValidAngleUnit(tt.unit); result != tt.expected {
				t.Errorf("IsValidAngleUnit(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestPolarToXY(t *testing.T) {
	x, y := PolarToXY(35, 45)
	want := 35 * math.Sqrt2 / 2
	if math.Abs(x-want) > 1e-9 || math.Abs(y-want) > 1e-9 {
		t.Errorf("PolarToXY(35, 45) = (%f, %f), want (%f, %f)", x, y, want, want)
	}

	x, y = PolarToXY(35, 90)
	if math.Abs(x-35) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("PolarToXY(35, 90) = (%f, %f), want (35, 0)", x, y)
	}
}
