package occlusion

import (
	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
	"github.com/chewxy/math32"
)

// The Fragment interface is implemented by shaded micropolygons that can be
// tested against individual samples.
type Fragment interface {
	// Test whether the fragment covers sample s at the sample's time (and
	// lens class if usingDof is set) and return the depth of the hit.
	Sample(s *sampler.Sample, usingDof bool) (hit bool, depth float32)

	// Called whenever the fragment contributes to at least one sample.
	MarkHit()

	// Get the value of a named shader output. The second return value is
	// false if the fragment does not provide the output.
	Output(name string) ([]float32, bool)
}

// A Query describes which samples a fragment may touch.
type Query struct {
	// 2D footprint and depth range of the fragment.
	Bound types.Bound

	// Motion blur: only samples whose time falls in TimeRange are touched.
	MotionBlur bool
	TimeRange  [2]float32

	// Depth of field: only samples of this lens class are touched.
	DepthOfField bool
	LensIndex    int

	// Level of detail: only samples whose detail level falls in DetailRange
	// are touched.
	LevelOfDetail bool
	DetailRange   [2]float32

	// If set, subtrees already known to be hidden are skipped.
	Cullable bool
}

// Shading holds the per-fragment values recorded into each hit.
type Shading struct {
	Color   types.Vec3
	Opacity types.Vec3

	// Opaque fragments replace the nearest opaque hit of a sample, all
	// others are appended to the sample's partial hits.
	Opaque bool

	Occludes bool
	Matte    bool
}

// Disable any axis whose range is empty or inverted. Such fragments must be
// sampled against every sample along that axis.
func (q Query) normalized() Query {
	if q.MotionBlur && !validRange(q.TimeRange) {
		q.MotionBlur = false
	}
	if q.LevelOfDetail && !validRange(q.DetailRange) {
		q.LevelOfDetail = false
	}
	if q.DepthOfField && q.LensIndex < 0 {
		q.DepthOfField = false
	}
	return q
}

func validRange(r [2]float32) bool {
	return !math32.IsNaN(r[0]) && !math32.IsNaN(r[1]) && r[0] <= r[1]
}
