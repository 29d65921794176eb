package samples

import (
	"math"
	"testing"
)

func TestParseOptionalFloat(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    float64
		present bool
	}{
		{"integer", "5", 5, true},
		{"negative", "-3.25", -3.25, true},
		{"padded", "  12.5 ", 12.5, true},
		{"scientific", "1e-3", 0.001, true},
		{"blank", "", 0, false},
		{"spaces", "   ", 0, false},
		{"null_literal", "null", 0, false},
		{"nan_literal", "NaN", 0, false},
		{"inf_literal", "Inf", 0, false},
		{"text", "abc", 0, false},
		{"comma_decimal", "1,5", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseOptionalFloat(tc.input)
			v, ok := got.Get()
			if ok != tc.present {
				t.Fatalf("ParseOptionalFloat(%q) present = %v, want %v", tc.input, ok, tc.present)
			}
			if ok && v != tc.want {
				t.Errorf("ParseOptionalFloat(%q) = %v, want %v", tc.input, v, tc.want)
			}
		})
	}
}

func TestOptionalFloat_Or(t *testing.T) {
	if got := None().Or(7); got != 7 {
		t.Errorf("None().Or(7) = %v, want 7", got)
	}
	if got := Some(2).Or(7); got != 2 {
		t.Errorf("Some(2).Or(7) = %v, want 2", got)
	}
	if Some(math.NaN()).Valid() {
		t.Error("Some(NaN) should be absent")
	}
}

func TestOptionalFloat_String(t *testing.T) {
	if s := None().String(); s != "" {
		t.Errorf("None().String() = %q, want empty", s)
	}
	if s := Some(-3.5).String(); s != "-3.5" {
		t.Errorf("Some(-3.5).String() = %q", s)
	}
}
