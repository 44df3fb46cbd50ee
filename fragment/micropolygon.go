package fragment

import (
	"sync/atomic"

	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
	"github.com/chewxy/math32"
)

// A Micropolygon is a flat shaded quad in raster space. Vertices are stored
// in winding order (v0, v1, v2, v3); the quad is tested as the two triangles
// (v0, v1, v2) and (v0, v2, v3). The Z component of each vertex holds its
// depth.
type Micropolygon struct {
	Vertices [4]types.Vec3

	// Per-vertex displacement per unit of shutter time. The vertex position
	// at time t is Vertices[i] + Motion[i] * t.
	Motion [4]types.Vec3

	// Raster offset applied for each lens class when sampling with depth
	// of field. Lens classes without an entry use a zero offset.
	LensOffsets []types.Vec2

	Color   types.Vec3
	Opacity types.Vec3

	// Shader output values keyed by output name.
	Outputs map[string][]float32

	hits atomic.Uint32
}

// Create a static micropolygon from four vertices.
func NewMicropolygon(v0, v1, v2, v3 types.Vec3, color, opacity types.Vec3) *Micropolygon {
	return &Micropolygon{
		Vertices: [4]types.Vec3{v0, v1, v2, v3},
		Color:    color,
		Opacity:  opacity,
	}
}

// Returns true if any vertex has a non-zero motion vector.
func (m *Micropolygon) Moving() bool {
	for _, d := range m.Motion {
		if d != (types.Vec3{}) {
			return true
		}
	}
	return false
}

// Returns true if the micropolygon fully blocks light on every channel.
func (m *Micropolygon) IsOpaque() bool {
	return m.Opacity[0] >= 1 && m.Opacity[1] >= 1 && m.Opacity[2] >= 1
}

// Get the vertices at time t shifted by offset.
func (m *Micropolygon) verticesAt(t float32, offset types.Vec2) [4]types.Vec3 {
	var out [4]types.Vec3
	for i, v := range m.Vertices {
		v = v.Add(m.Motion[i].Mul(t))
		v[0] += offset[0]
		v[1] += offset[1]
		out[i] = v
	}
	return out
}

func (m *Micropolygon) lensOffset(lensIndex int) types.Vec2 {
	if lensIndex < 0 || lensIndex >= len(m.LensOffsets) {
		return types.Vec2{}
	}
	return m.LensOffsets[lensIndex]
}

// Get the raster bound of the micropolygon over the time interval
// [t0, t1] for all lens classes. Passing a negative lensIndex covers every
// lens offset; otherwise only the offset of that lens class is used.
func (m *Micropolygon) Bound(t0, t1 float32, lensIndex int) types.Bound {
	offsets := []types.Vec2{m.lensOffset(lensIndex)}
	if lensIndex < 0 {
		offsets = append(offsets, m.LensOffsets...)
	}

	times := []float32{t0}
	if m.Moving() && t1 != t0 {
		times = append(times, t1)
	}

	bound := types.EmptyBound()
	for _, t := range times {
		for _, offset := range offsets {
			for _, v := range m.verticesAt(t, offset) {
				bound = bound.Extend(v)
			}
		}
	}
	return bound
}

// Test whether the micropolygon covers the sample at the sample's time and,
// when usingDof is set, after applying the offset of the sample's lens
// class. Returns the interpolated depth of the hit.
func (m *Micropolygon) Sample(s *sampler.Sample, usingDof bool) (bool, float32) {
	var offset types.Vec2
	if usingDof {
		offset = m.lensOffset(s.LensIndex)
	}

	t := float32(0)
	if m.Moving() {
		t = s.Time
	}
	v := m.verticesAt(t, offset)

	if hit, depth := triangleHit(s.Position, v[0], v[1], v[2]); hit {
		return true, depth
	}
	return triangleHit(s.Position, v[0], v[2], v[3])
}

// Record that the micropolygon contributed to at least one sample.
func (m *Micropolygon) MarkHit() {
	m.hits.Add(1)
}

// Get the number of times the micropolygon was recorded into a sample.
func (m *Micropolygon) Hits() uint32 {
	return m.hits.Load()
}

// Get the value of a shader output.
func (m *Micropolygon) Output(name string) ([]float32, bool) {
	v, ok := m.Outputs[name]
	return v, ok
}

// Signed parallelogram area of (a, b, p). Positive when p lies to the left
// of the directed edge a->b in a y-up frame.
func edge(a, b types.Vec3, p types.Vec2) float32 {
	return (p[0]-a[0])*(b[1]-a[1]) - (p[1]-a[1])*(b[0]-a[0])
}

// Test p against the triangle (v0, v1, v2) using edge functions and
// interpolate the vertex depths with the resulting barycentric weights.
// Either winding is accepted; points on an edge are inside.
func triangleHit(p types.Vec2, v0, v1, v2 types.Vec3) (bool, float32) {
	area := edge(v0, v1, v2.Vec2())
	if area == 0 || math32.IsNaN(area) {
		return false, 0
	}

	w0 := edge(v1, v2, p)
	w1 := edge(v2, v0, p)
	w2 := edge(v0, v1, p)
	if area < 0 {
		area, w0, w1, w2 = -area, -w0, -w1, -w2
	}
	if w0 < 0 || w1 < 0 || w2 < 0 {
		return false, 0
	}

	depth := (w0*v0[2] + w1*v1[2] + w2*v2[2]) / area
	return true, depth
}
