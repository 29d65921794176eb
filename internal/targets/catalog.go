// Package targets holds the fixed set of canonical gaze targets and the
// logic that resolves free-text labels from experiment logs onto them.
package targets

import (
	"fmt"

	"github.com/banshee-data/gaze.report/internal/units"
)

// Canonical target keys, in catalog enumeration order.
const (
	MiddleMiddle = "middle middle"
	MiddleTop    = "middle top"
	RightTop     = "right top"
	RightMiddle  = "right middle"
	RightBottom  = "right bottom"
	MiddleBottom = "middle bottom"
	LeftBottom   = "left bottom"
	LeftMiddle   = "left middle"
	LeftTop      = "left top"
)

// RingRadiusDeg is the angular distance of every non-centre target from
// the centre target.
const RingRadiusDeg = 35.0

// CatalogSize is the number of canonical targets.
const CatalogSize = 9

// Offset is a (yaw, pitch) angular offset in degrees.
type Offset struct {
	X float64
	Y float64
}

// Target is a canonical screen position.
type Target struct {
	Key    string
	Offset Offset
}

func (t Target) String() string {
	return fmt.Sprintf("%s (%.2f°, %.2f°)", t.Key, t.Offset.X, t.Offset.Y)
}

// Catalog is the immutable set of canonical targets. The zero value is
// empty; use NewCatalog.
type Catalog struct {
	targets []Target
	index   map[string]int
}

// NewCatalog builds the 3×3 target grid: the centre, four cardinal targets
// RingRadiusDeg away along one axis, and four diagonal targets whose axis
// components come from a 45° decomposition of the same radius.
func NewCatalog() *Catalog {
	r := RingRadiusDeg
	dx, dy := units.PolarToXY(r, 45)

	return newCatalog([]Target{
		{Key: MiddleMiddle, Offset: Offset{0, 0}},
		{Key: MiddleTop, Offset: Offset{0, r}},
		{Key: RightTop, Offset: Offset{dx, dy}},
		{Key: RightMiddle, Offset: Offset{r, 0}},
		{Key: RightBottom, Offset: Offset{dx, -dy}},
		{Key: MiddleBottom, Offset: Offset{0, -r}},
		{Key: LeftBottom, Offset: Offset{-dx, -dy}},
		{Key: LeftMiddle, Offset: Offset{-r, 0}},
		{Key: LeftTop, Offset: Offset{-dx, dy}},
	})
}

func newCatalog(entries []Target) *Catalog {
	c := &Catalog{
		targets: make([]Target, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(c.targets, entries)
	for i, t := range c.targets {
		c.index[t.Key] = i
	}
	return c
}

// Lookup returns the target with the given normalized key.
func (c *Catalog) Lookup(key string) (Target, bool) {
	i, ok := c.index[key]
	if !ok {
		return Target{}, false
	}
	return c.targets[i], true
}

// Targets returns a copy of the catalog in enumeration order.
func (c *Catalog) Targets() []Target {
	out := make([]Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// Keys returns the target keys in enumeration order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.targets))
	for i, t := range c.targets {
		keys[i] = t.Key
	}
	return keys
}

// Len returns the number of targets.
func (c *Catalog) Len() int {
	return len(c.targets)
}
