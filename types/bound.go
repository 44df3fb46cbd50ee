package types

import (
	"fmt"

	"github.com/chewxy/math32"
)

// A Bound is an axis-aligned box in raster space. The X and Y components
// describe a 2D footprint in pixels while Z holds the depth range.
type Bound struct {
	Min Vec3
	Max Vec3
}

// Create an empty bound that any call to Extend will overwrite.
func EmptyBound() Bound {
	inf := math32.Inf(1)
	return Bound{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Create a bound spanning the two points.
func NewBound(p0, p1 Vec3) Bound {
	return Bound{Min: MinVec3(p0, p1), Max: MaxVec3(p0, p1)}
}

// Grow the bound to include p.
func (b Bound) Extend(p Vec3) Bound {
	return Bound{Min: MinVec3(b.Min, p), Max: MaxVec3(b.Max, p)}
}

// Grow the bound to include b2.
func (b Bound) Union(b2 Bound) Bound {
	return Bound{Min: MinVec3(b.Min, b2.Min), Max: MaxVec3(b.Max, b2.Max)}
}

// Returns true if the 2D footprint of b2 lies entirely inside the footprint of b.
func (b Bound) Contains2D(b2 Bound) bool {
	return b2.Min[0] >= b.Min[0] && b2.Max[0] <= b.Max[0] &&
		b2.Min[1] >= b.Min[1] && b2.Max[1] <= b.Max[1]
}

// Returns true if the 2D footprint of b overlaps the closed [min, max] rectangle.
func (b Bound) Intersects2D(min, max Vec2) bool {
	return b.Min[0] <= max[0] && b.Max[0] >= min[0] &&
		b.Min[1] <= max[1] && b.Max[1] >= min[1]
}

// Returns true if p lies inside the closed 2D footprint.
func (b Bound) ContainsPoint2D(p Vec2) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

func (b Bound) String() string {
	return fmt.Sprintf(
		"[(%3.3f, %3.3f, %3.3f) - (%3.3f, %3.3f, %3.3f)]",
		b.Min[0], b.Min[1], b.Min[2],
		b.Max[0], b.Max[1], b.Max[2],
	)
}
