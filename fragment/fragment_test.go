package fragment

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/hider/occlusion"
	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
	"github.com/chewxy/math32"
)

func unitQuad(depth float32) *Micropolygon {
	return NewMicropolygon(
		types.XYZ(0, 0, depth), types.XYZ(1, 0, depth), types.XYZ(1, 1, depth), types.XYZ(0, 1, depth),
		types.XYZ(1, 0, 0), types.XYZ(1, 1, 1),
	)
}

func sampleAt(x, y, time float32, lens int) *sampler.Sample {
	s := &sampler.Sample{Position: types.XY(x, y), Time: time, LensIndex: lens}
	s.Clear(sampler.BaseChannels)
	return s
}

func TestMicropolygonSample(t *testing.T) {
	// Depth varies linearly along x.
	mp := NewMicropolygon(
		types.XYZ(0, 0, 1), types.XYZ(2, 0, 3), types.XYZ(2, 2, 3), types.XYZ(0, 2, 1),
		types.XYZ(1, 1, 1), types.XYZ(1, 1, 1),
	)

	type spec struct {
		x, y     float32
		expHit   bool
		expDepth float32
	}
	specs := []spec{
		{0.5, 0.25, true, 1.5},
		{1.5, 1.75, true, 2.5},
		{1, 1, true, 2},
		{0, 0, true, 1},
		{2, 2, true, 3},
		{-0.1, 1, false, 0},
		{1, 2.1, false, 0},
		{3, 3, false, 0},
	}

	for index, s := range specs {
		hit, depth := mp.Sample(sampleAt(s.x, s.y, 0, 0), false)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && math32.Abs(depth-s.expDepth) > 1e-5 {
			t.Fatalf("[spec %d] expected depth %f; got %f", index, s.expDepth, depth)
		}
	}
}

func TestMicropolygonWinding(t *testing.T) {
	cw := NewMicropolygon(
		types.XYZ(0, 0, 1), types.XYZ(0, 1, 1), types.XYZ(1, 1, 1), types.XYZ(1, 0, 1),
		types.XYZ(1, 1, 1), types.XYZ(1, 1, 1),
	)
	if hit, _ := cw.Sample(sampleAt(0.5, 0.5, 0, 0), false); !hit {
		t.Fatal("expected a reversed winding quad to be hit")
	}

	degenerate := NewMicropolygon(
		types.XYZ(0, 0, 1), types.XYZ(1, 1, 1), types.XYZ(2, 2, 1), types.XYZ(3, 3, 1),
		types.XYZ(1, 1, 1), types.XYZ(1, 1, 1),
	)
	if hit, _ := degenerate.Sample(sampleAt(1, 1, 0, 0), false); hit {
		t.Fatal("expected a degenerate quad never to be hit")
	}
}

func TestMicropolygonMotion(t *testing.T) {
	mp := unitQuad(1)
	for i := range mp.Motion {
		mp.Motion[i] = types.XYZ(4, 0, 0)
	}

	if hit, _ := mp.Sample(sampleAt(0.5, 0.5, 0, 0), false); !hit {
		t.Fatal("expected a hit at shutter open")
	}
	if hit, _ := mp.Sample(sampleAt(0.5, 0.5, 1, 0), false); hit {
		t.Fatal("expected no hit at shutter close")
	}
	if hit, _ := mp.Sample(sampleAt(4.5, 0.5, 1, 0), false); !hit {
		t.Fatal("expected a hit at the displaced position")
	}

	bound := mp.Bound(0, 1, -1)
	if bound.Min != types.XYZ(0, 0, 1) || bound.Max != types.XYZ(5, 1, 1) {
		t.Fatalf("expected bound to cover both motion end points; got %s", bound)
	}
}

func TestMicropolygonLensOffsets(t *testing.T) {
	mp := unitQuad(1)
	mp.LensOffsets = []types.Vec2{{0, 0}, {2, 0}}

	if hit, _ := mp.Sample(sampleAt(2.5, 0.5, 0, 1), true); !hit {
		t.Fatal("expected lens class 1 to see the shifted quad")
	}
	if hit, _ := mp.Sample(sampleAt(2.5, 0.5, 0, 1), false); hit {
		t.Fatal("expected the offset to be ignored without depth of field")
	}
	if hit, _ := mp.Sample(sampleAt(0.5, 0.5, 0, 7), true); !hit {
		t.Fatal("expected lens classes without an offset to see the quad in place")
	}

	if bound := mp.Bound(0, 0, 1); bound.Min[0] != 2 || bound.Max[0] != 3 {
		t.Fatalf("expected lens class 1 bound to span x=[2, 3]; got %s", bound)
	}
	if bound := mp.Bound(0, 0, -1); bound.Min[0] != 0 || bound.Max[0] != 3 {
		t.Fatalf("expected the all-lens bound to span x=[0, 3]; got %s", bound)
	}
}

func TestMicropolygonHits(t *testing.T) {
	mp := unitQuad(1)
	mp.Outputs = map[string][]float32{"id": {3}}

	mp.MarkHit()
	mp.MarkHit()
	if mp.Hits() != 2 {
		t.Fatalf("expected 2 hits; got %d", mp.Hits())
	}
	if v, ok := mp.Output("id"); !ok || v[0] != 3 {
		t.Fatalf("expected output id=[3]; got %v (%t)", v, ok)
	}
	if _, ok := mp.Output("N"); ok {
		t.Fatal("expected missing output lookup to fail")
	}
}

func TestGridQueries(t *testing.T) {
	mp := unitQuad(2)
	mp.LensOffsets = []types.Vec2{{0, 0}, {1, 0}, {0, 1}}

	g := &Grid{
		Micropolygons: []*Micropolygon{mp},
		Cullable:      true,
		LevelOfDetail: true,
		DetailRange:   [2]float32{0, 0.5},
	}
	queries := g.AppendQueries(nil, mp, 3)
	if len(queries) != 1 {
		t.Fatalf("expected 1 query; got %d", len(queries))
	}
	if queries[0].DepthOfField || !queries[0].LevelOfDetail || !queries[0].Cullable {
		t.Fatalf("unexpected query flags %+v", queries[0])
	}
	if queries[0].Bound.Max[0] != 1 {
		t.Fatalf("expected lens offsets to be ignored without depth of field; got %s", queries[0].Bound)
	}

	g.DepthOfField = true
	queries = g.AppendQueries(queries[:0], mp, 3)
	if len(queries) != 3 {
		t.Fatalf("expected 1 query per lens class; got %d", len(queries))
	}
	for lens, q := range queries {
		if !q.DepthOfField || q.LensIndex != lens {
			t.Fatalf("[lens %d] unexpected query %+v", lens, q)
		}
		off := mp.LensOffsets[lens]
		if q.Bound.Min[0] != off[0] || q.Bound.Min[1] != off[1] {
			t.Fatalf("[lens %d] expected bound at the lens offset; got %s", lens, q.Bound)
		}
	}

	if bound := g.Bound(); bound.Max[0] != 2 || bound.Max[1] != 2 {
		t.Fatalf("expected grid bound to cover all lens offsets; got %s", bound)
	}
}

func TestGridQueriesWithoutLensClasses(t *testing.T) {
	mp := unitQuad(2)
	g := &Grid{Micropolygons: []*Micropolygon{mp}, DepthOfField: true}

	for _, lensClasses := range []int{0, -1} {
		queries := g.AppendQueries(nil, mp, lensClasses)
		if len(queries) != 1 {
			t.Fatalf("[lensClasses %d] expected 1 query; got %d", lensClasses, len(queries))
		}
		if !queries[0].DepthOfField || queries[0].LensIndex != 0 {
			t.Fatalf("[lensClasses %d] expected a query for lens class 0; got %+v", lensClasses, queries[0])
		}
	}
}

func TestGridDropStaticMotion(t *testing.T) {
	mp := unitQuad(1)
	for i := range mp.Motion {
		mp.Motion[i] = types.XYZ(4, 0, 0)
	}
	g := &Grid{Micropolygons: []*Micropolygon{mp}}

	g.DropStaticMotion()
	if mp.Moving() {
		t.Fatal("expected static grid micropolygons to lose their motion")
	}
	bound := g.MicropolygonBound(mp, -1)
	s := sampleAt(0.5, 0.5, 1, 0)
	if !bound.ContainsPoint2D(s.Position) {
		t.Fatalf("expected bound %s to contain %v", bound, s.Position)
	}
	if hit, _ := mp.Sample(s, false); !hit {
		t.Fatal("expected a hit at the t = 0 position for any sample time")
	}

	moving := unitQuad(1)
	moving.Motion[0] = types.XYZ(4, 0, 0)
	blurred := &Grid{Micropolygons: []*Micropolygon{moving}, MotionBlur: true, TimeRange: [2]float32{0, 1}}
	blurred.DropStaticMotion()
	if !moving.Moving() {
		t.Fatal("expected motion blurred grids to keep their motion")
	}
}

func TestGridShading(t *testing.T) {
	mp := unitQuad(1)
	g := &Grid{Matte: true, Occludes: true}

	sh := g.Shading(mp)
	if !sh.Opaque || !sh.Matte || !sh.Occludes {
		t.Fatalf("unexpected shading %+v", sh)
	}

	mp.Opacity = types.XYZ(1, 0.5, 1)
	if g.Shading(mp).Opaque {
		t.Fatal("expected a partially transparent micropolygon not to be opaque")
	}
}

func TestGenerate(t *testing.T) {
	params := DefaultGeneratorParams()
	params.Layers = 2
	params.GridsPerLayer = 5
	params.GridSize = 3
	params.MotionBlurRatio = 1
	params.DepthOfFieldRatio = 1
	params.Outputs = []sampler.OutputDef{{Name: "N", Kind: sampler.NormalOutput}}

	grids, err := Generate(params, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(grids) != 10 {
		t.Fatalf("expected 10 grids; got %d", len(grids))
	}

	for index, g := range grids {
		if len(g.Micropolygons) != 9 {
			t.Fatalf("[grid %d] expected 9 micropolygons; got %d", index, len(g.Micropolygons))
		}
		if !g.MotionBlur || !g.DepthOfField {
			t.Fatalf("[grid %d] expected motion blur and depth of field", index)
		}
		for _, mp := range g.Micropolygons {
			if len(mp.LensOffsets) != params.LensClasses {
				t.Fatalf("[grid %d] expected %d lens offsets; got %d", index, params.LensClasses, len(mp.LensOffsets))
			}
			if v, ok := mp.Output("N"); !ok || len(v) != 3 {
				t.Fatalf("[grid %d] expected a 3 component N output; got %v", index, v)
			}
		}

		// Layers are emitted front to back.
		expMin := float32(1 + index/params.GridsPerLayer)
		if d := g.Micropolygons[0].Vertices[0][2]; d < expMin || d > expMin+0.5 {
			t.Fatalf("[grid %d] expected depth in [%f, %f]; got %f", index, expMin, expMin+0.5, d)
		}
	}

	if _, err = Generate(GeneratorParams{}, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected an error for empty frame dimensions")
	}
}

// A covered region culls grids placed behind it.
func TestGridCullingEndToEnd(t *testing.T) {
	region, err := sampler.NewRegion(sampler.Layout{Width: 4, Height: 4, XSamples: 2, YSamples: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	region.Populate(rand.New(rand.NewSource(1)), sampler.DefaultParams())

	ctrl := occlusion.NewController(occlusion.DefaultOptions())
	if err = ctrl.Prepare(region); err != nil {
		t.Fatal(err)
	}

	front := &Grid{Cullable: true, Occludes: true}
	front.Micropolygons = []*Micropolygon{NewMicropolygon(
		types.XYZ(-1, -1, 1), types.XYZ(5, -1, 1), types.XYZ(5, 5, 1), types.XYZ(-1, 5, 1),
		types.XYZ(1, 1, 1), types.XYZ(1, 1, 1),
	)}
	for _, mp := range front.Micropolygons {
		for _, q := range front.AppendQueries(nil, mp, 1) {
			ctrl.SampleFragment(mp, q, front.Shading(mp))
		}
	}
	if front.Micropolygons[0].Hits() != uint32(len(region.Samples)) {
		t.Fatalf("expected %d hits; got %d", len(region.Samples), front.Micropolygons[0].Hits())
	}

	behind := unitQuad(2)
	if !ctrl.CanCull(behind.Bound(0, 0, -1)) {
		t.Fatal("expected a micropolygon behind the covering grid to be culled")
	}
}
