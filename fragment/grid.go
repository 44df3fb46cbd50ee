package fragment

import (
	"github.com/achilleasa/hider/occlusion"
	"github.com/achilleasa/hider/types"
)

var _ occlusion.Fragment = (*Micropolygon)(nil)

// A Grid is a batch of micropolygons produced by dicing one surface. All
// micropolygons of a grid share the same visibility attributes.
type Grid struct {
	Name string

	Micropolygons []*Micropolygon

	// Matte objects punch holes into the image; their hits are flagged
	// accordingly.
	Matte bool

	// Grids that are not cullable are always sampled even if hidden.
	Cullable bool

	// Opaque hits of occluding grids hide anything behind them.
	Occludes bool

	// The grid moves during the shutter interval. Its micropolygons only
	// exist in TimeRange.
	MotionBlur bool
	TimeRange  [2]float32

	// The grid is sampled separately for each lens class.
	DepthOfField bool

	// The grid is only visible to samples whose detail level falls in
	// DetailRange.
	LevelOfDetail bool
	DetailRange   [2]float32
}

// Get the raster bound of every micropolygon in the grid.
func (g *Grid) Bound() types.Bound {
	bound := types.EmptyBound()
	for _, mp := range g.Micropolygons {
		bound = bound.Union(g.MicropolygonBound(mp, -1))
	}
	return bound
}

// Clear the motion vectors of every micropolygon unless the grid uses motion
// blur. Static grids are bounded at t = 0, so their point tests must not move
// the vertices either.
func (g *Grid) DropStaticMotion() {
	if g.MotionBlur {
		return
	}
	for _, mp := range g.Micropolygons {
		mp.Motion = [4]types.Vec3{}
	}
}

// Get the bound of mp as seen by the samples of a single lens class. A
// negative lensIndex covers all lens classes.
func (g *Grid) MicropolygonBound(mp *Micropolygon, lensIndex int) types.Bound {
	if !g.DepthOfField {
		lensIndex = len(mp.LensOffsets)
	}
	t0, t1 := float32(0), float32(0)
	if g.MotionBlur {
		t0, t1 = g.TimeRange[0], g.TimeRange[1]
	}
	return mp.Bound(t0, t1, lensIndex)
}

// Append the sampling queries for mp to dst. Grids with depth of field
// produce one query per lens class (at least one), all others a single
// query.
func (g *Grid) AppendQueries(dst []occlusion.Query, mp *Micropolygon, lensClasses int) []occlusion.Query {
	q := occlusion.Query{
		MotionBlur:    g.MotionBlur,
		TimeRange:     g.TimeRange,
		LevelOfDetail: g.LevelOfDetail,
		DetailRange:   g.DetailRange,
		Cullable:      g.Cullable,
	}

	if !g.DepthOfField {
		q.Bound = g.MicropolygonBound(mp, -1)
		return append(dst, q)
	}

	q.DepthOfField = true
	for lens := 0; lens < max(lensClasses, 1); lens++ {
		q.LensIndex = lens
		q.Bound = g.MicropolygonBound(mp, lens)
		dst = append(dst, q)
	}
	return dst
}

// Get the values recorded into the samples hit by mp.
func (g *Grid) Shading(mp *Micropolygon) occlusion.Shading {
	return occlusion.Shading{
		Color:    mp.Color,
		Opacity:  mp.Opacity,
		Opaque:   mp.IsOpaque(),
		Occludes: g.Occludes,
		Matte:    g.Matte,
	}
}
