package occlusion

import (
	"math/rand"

	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
)

// A test fragment covering an axis-aligned rectangle at a constant depth.
type rectFragment struct {
	min, max types.Vec2
	depth    float32

	// Only samples whose time lies in this range are covered if set.
	timeRange *[2]float32

	outputs map[string][]float32

	hits   int
	tested []*sampler.Sample
}

func newRectFragment(minX, minY, maxX, maxY, depth float32) *rectFragment {
	return &rectFragment{
		min:   types.XY(minX, minY),
		max:   types.XY(maxX, maxY),
		depth: depth,
	}
}

func (f *rectFragment) Sample(s *sampler.Sample, _ bool) (bool, float32) {
	f.tested = append(f.tested, s)
	if f.timeRange != nil && (s.Time < f.timeRange[0] || s.Time > f.timeRange[1]) {
		return false, 0
	}
	p := s.Position
	if p[0] < f.min[0] || p[0] > f.max[0] || p[1] < f.min[1] || p[1] > f.max[1] {
		return false, 0
	}
	return true, f.depth
}

func (f *rectFragment) MarkHit() {
	f.hits++
}

func (f *rectFragment) Output(name string) ([]float32, bool) {
	v, ok := f.outputs[name]
	return v, ok
}

func (f *rectFragment) bound() types.Bound {
	return types.NewBound(f.min.Vec3(f.depth), f.max.Vec3(f.depth))
}

func (f *rectFragment) query() Query {
	return Query{Bound: f.bound(), Cullable: true}
}

var opaqueShading = Shading{
	Color:    types.XYZ(1, 1, 1),
	Opacity:  types.XYZ(1, 1, 1),
	Opaque:   true,
	Occludes: true,
}

// Create samples at the given positions with cleared hit state.
func samplesAt(positions ...types.Vec2) []sampler.Sample {
	samples := make([]sampler.Sample, len(positions))
	for i, p := range positions {
		samples[i].Position = p
		samples[i].Clear(sampler.BaseChannels)
	}
	return samples
}

// Create a jittered region of the given size.
func jitteredRegion(w, h, spp int, rng *rand.Rand) *sampler.Region {
	region, err := sampler.NewRegion(sampler.Layout{Width: w, Height: h, XSamples: spp, YSamples: spp}, nil)
	if err != nil {
		panic(err)
	}
	region.Populate(rng, sampler.DefaultParams())
	return region
}

// Snapshot the occlusion depth of every node.
func occlusionDepths(t *Tree) []float32 {
	out := make([]float32, len(t.nodes))
	for i := range t.nodes {
		out[i] = t.nodes[i].occlusionDepth
	}
	return out
}
