package sampler

import (
	"fmt"
	"math/rand"

	"github.com/achilleasa/hider/types"
)

// The Layout of a region describes its dimensions in pixels and the number
// of sub-samples taken along each pixel axis. Regions with equal layouts
// share the same sample pattern shape.
type Layout struct {
	Width    int
	Height   int
	XSamples int
	YSamples int
}

// Get the number of samples taken per pixel.
func (l Layout) SamplesPerPixel() int {
	return l.XSamples * l.YSamples
}

// Get the total number of samples in a region with this layout.
func (l Layout) NumSamples() int {
	return l.Width * l.Height * l.SamplesPerPixel()
}

// Returns true if all layout dimensions are non-negative and the sub-sample
// counts are positive. Zero sized regions are valid.
func (l Layout) Valid() bool {
	return l.Width >= 0 && l.Height >= 0 && l.XSamples > 0 && l.YSamples > 0
}

func (l Layout) String() string {
	return fmt.Sprintf("%dx%d px @ %dx%d spp", l.Width, l.Height, l.XSamples, l.YSamples)
}

// Params control how sample content is generated for each region.
type Params struct {
	// Shutter interval.
	ShutterOpen  float32
	ShutterClose float32

	// Number of depth of field lens offset classes.
	LensClasses int

	// Range of generated detail levels.
	MinDetail float32
	MaxDetail float32

	// If false, samples are placed at sub-cell centers.
	Jitter bool
}

// DefaultParams returns params for a static, pinhole, single detail level render.
func DefaultParams() Params {
	return Params{
		ShutterOpen:  0,
		ShutterClose: 1,
		LensClasses:  1,
		MinDetail:    0,
		MaxDetail:    1,
		Jitter:       true,
	}
}

// A Region (bucket) is a rectangular tile of the frame and the storage for
// all of its samples.
type Region struct {
	// Origin of the region in frame pixels.
	X, Y int

	Samples []Sample

	layout Layout
	schema *Schema
}

// Allocate a region with the given layout. The schema defines the payload
// size of the recorded hits and may be nil.
func NewRegion(layout Layout, schema *Schema) (*Region, error) {
	if !layout.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLayout, layout)
	}

	r := &Region{
		Samples: make([]Sample, layout.NumSamples()),
		layout:  layout,
		schema:  schema,
	}
	for i := range r.Samples {
		r.Samples[i].Clear(schema.Size())
	}
	return r, nil
}

// Get the region layout.
func (r *Region) Layout() Layout {
	return r.layout
}

// Get the output schema used for hit payloads.
func (r *Region) Schema() *Schema {
	return r.schema
}

// Get the index of sub-sample sub of the pixel at (px, py), relative to the
// region origin.
func (r *Region) Index(px, py, sub int) int {
	return (py*r.layout.Width+px)*r.layout.SamplesPerPixel() + sub
}

// Get the samples belonging to the pixel at (px, py), relative to the region origin.
func (r *Region) PixelSamples(px, py int) []Sample {
	start := r.Index(px, py, 0)
	return r.Samples[start : start+r.layout.SamplesPerPixel()]
}

// Get the raster-space footprint of the region.
func (r *Region) Bound() types.Bound {
	return types.NewBound(
		types.XYZ(float32(r.X), float32(r.Y), 0),
		types.XYZ(float32(r.X+r.layout.Width), float32(r.Y+r.layout.Height), 0),
	)
}

// Move the region to a new frame origin and regenerate its sample content.
func (r *Region) Reset(x, y int, rng *rand.Rand, params Params) {
	r.X, r.Y = x, y
	r.Populate(rng, params)
}

// Generate per-sample position, time, lens class and detail level and clear
// any recorded hits. Positions are stratified inside each pixel.
func (r *Region) Populate(rng *rand.Rand, params Params) {
	xs, ys := r.layout.XSamples, r.layout.YSamples
	invXs, invYs := 1.0/float32(xs), 1.0/float32(ys)
	shutter := params.ShutterClose - params.ShutterOpen
	detail := params.MaxDetail - params.MinDetail
	payloadSize := r.schema.Size()

	for py := 0; py < r.layout.Height; py++ {
		for px := 0; px < r.layout.Width; px++ {
			for sy := 0; sy < ys; sy++ {
				for sx := 0; sx < xs; sx++ {
					jx, jy := float32(0.5), float32(0.5)
					if params.Jitter {
						jx, jy = rng.Float32(), rng.Float32()
					}

					s := &r.Samples[r.Index(px, py, sy*xs+sx)]
					s.Position = types.XY(
						float32(r.X+px)+(float32(sx)+jx)*invXs,
						float32(r.Y+py)+(float32(sy)+jy)*invYs,
					)
					s.Time = params.ShutterOpen + rng.Float32()*shutter
					s.LensIndex = 0
					if params.LensClasses > 1 {
						s.LensIndex = rng.Intn(params.LensClasses)
					}
					s.DetailLevel = params.MinDetail + rng.Float32()*detail
					s.Clear(payloadSize)
				}
			}
		}
	}
}
