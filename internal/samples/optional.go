package samples

import (
	"math"
	"strconv"
	"strings"
)

// OptionalFloat is a numeric CSV cell that may be absent. Absent cells are
// never represented as NaN.
type OptionalFloat struct {
	value float64
	valid bool
}

// Some returns a present value. Non-finite inputs are treated as absent.
func Some(v float64) OptionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalFloat{}
	}
	return OptionalFloat{value: v, valid: true}
}

// None returns an absent value.
func None() OptionalFloat {
	return OptionalFloat{}
}

// ParseOptionalFloat coerces a CSV cell to a number. Blank, "null", "NaN",
// infinities and anything else strconv rejects become absent.
func ParseOptionalFloat(s string) OptionalFloat {
	s = strings.TrimSpace(s)
	if s == "" {
		return None()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None()
	}
	return Some(v)
}

// Get returns the value and whether it is present.
func (o OptionalFloat) Get() (float64, bool) {
	return o.value, o.valid
}

// Valid reports whether the value is present.
func (o OptionalFloat) Valid() bool {
	return o.valid
}

// Or returns the value, or def when absent.
func (o OptionalFloat) Or(def float64) float64 {
	if !o.valid {
		return def
	}
	return o.value
}

func (o OptionalFloat) String() string {
	if !o.valid {
		return ""
	}
	return strconv.FormatFloat(o.value, 'f', -1, 64)
}
