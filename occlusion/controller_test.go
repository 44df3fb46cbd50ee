package occlusion

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
	"github.com/chewxy/math32"
)

func TestControllerUnprepared(t *testing.T) {
	ctrl := NewController(DefaultOptions())

	if ctrl.Prepared() {
		t.Fatal("expected a new controller not to be prepared")
	}
	if ctrl.CanCull(types.NewBound(types.XYZ(0, 0, 100), types.XYZ(1, 1, 100))) {
		t.Fatal("expected CanCull to return false before Prepare")
	}

	frag := newRectFragment(0, 0, 1, 1, 1)
	ctrl.SampleFragment(frag, frag.query(), opaqueShading)
	if len(frag.tested) != 0 {
		t.Fatalf("expected SampleFragment to be a no-op before Prepare; got %d tests", len(frag.tested))
	}

	if _, err := ctrl.OcclusionDepth(); err != ErrNotPrepared {
		t.Fatalf("expected to get ErrNotPrepared; got %v", err)
	}
	if err := ctrl.WriteTree(&bytes.Buffer{}); err != ErrNotPrepared {
		t.Fatalf("expected to get ErrNotPrepared; got %v", err)
	}
}

func TestControllerNilRegion(t *testing.T) {
	ctrl := NewController(DefaultOptions())
	if err := ctrl.Prepare(nil); err != ErrNilRegion {
		t.Fatalf("expected to get ErrNilRegion; got %v", err)
	}
}

func TestControllerFanOutDefault(t *testing.T) {
	ctrl := NewController(Options{FanOut: 1})
	region := jitteredRegion(2, 2, 2, rand.New(rand.NewSource(1)))
	if err := ctrl.Prepare(region); err != nil {
		t.Fatal(err)
	}
	if ctrl.tree.FanOut() != DefaultFanOut {
		t.Fatalf("expected fan-out %d; got %d", DefaultFanOut, ctrl.tree.FanOut())
	}
}

func TestControllerReuseTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ctrl := NewController(DefaultOptions())
	region := jitteredRegion(4, 4, 2, rng)

	if err := ctrl.Prepare(region); err != nil {
		t.Fatal(err)
	}
	tree := ctrl.tree

	// Cover everything so the next region has something to forget.
	frag := newRectFragment(0, 0, 4, 4, 1)
	ctrl.SampleFragment(frag, frag.query(), opaqueShading)
	if depth, _ := ctrl.OcclusionDepth(); depth != 1 {
		t.Fatalf("expected region occlusion depth 1; got %f", depth)
	}

	region.Reset(4, 0, rng, sampler.DefaultParams())
	if err := ctrl.Prepare(region); err != nil {
		t.Fatal(err)
	}
	if ctrl.tree != tree {
		t.Fatal("expected the tree topology to be reused")
	}
	if depth, _ := ctrl.OcclusionDepth(); !math32.IsInf(depth, 1) {
		t.Fatalf("expected occlusion depth to reset to +Inf; got %f", depth)
	}

	root := &ctrl.tree.nodes[rootNode]
	if root.min[0] < 4 || root.max[0] > 8 {
		t.Fatalf("expected root bound to follow the new region content; got [%v - %v]", root.min, root.max)
	}

	stats := ctrl.Stats()
	if stats.TreesBuilt != 1 || stats.RegionsPrepared != 2 {
		t.Fatalf("expected 1 tree build and 2 prepared regions; got %d and %d", stats.TreesBuilt, stats.RegionsPrepared)
	}
}

func TestControllerLayoutMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ctrl := NewController(DefaultOptions())

	if err := ctrl.Prepare(jitteredRegion(4, 4, 2, rng)); err != nil {
		t.Fatal(err)
	}

	err := ctrl.Prepare(jitteredRegion(3, 4, 2, rng))
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("expected to get ErrLayoutMismatch; got %v", err)
	}
	if ctrl.Prepared() {
		t.Fatal("expected controller not to be prepared after a failed Prepare")
	}

	// Releasing the tree allows a different layout.
	ctrl.Shutdown()
	if err = ctrl.Prepare(jitteredRegion(3, 4, 2, rng)); err != nil {
		t.Fatalf("expected Prepare after Shutdown to succeed; got %v", err)
	}
	if ctrl.Stats().TreesBuilt != 2 {
		t.Fatalf("expected 2 tree builds; got %d", ctrl.Stats().TreesBuilt)
	}
}

func TestControllerRebuildPerRegion(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ctrl := NewController(Options{FanOut: 4, Policy: RebuildPerRegion})

	for _, w := range []int{4, 3, 5} {
		if err := ctrl.Prepare(jitteredRegion(w, 2, 2, rng)); err != nil {
			t.Fatal(err)
		}
		if ctrl.tree.NumSamples() != w*2*4 {
			t.Fatalf("expected tree over %d samples; got %d", w*2*4, ctrl.tree.NumSamples())
		}
	}
	if ctrl.Stats().TreesBuilt != 3 {
		t.Fatalf("expected 3 tree builds; got %d", ctrl.Stats().TreesBuilt)
	}
}

func TestControllerEmptyRegion(t *testing.T) {
	region, err := sampler.NewRegion(sampler.Layout{Width: 0, Height: 0, XSamples: 1, YSamples: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctrl := NewController(DefaultOptions())
	if err = ctrl.Prepare(region); err != nil {
		t.Fatal(err)
	}
	if ctrl.CanCull(types.NewBound(types.XYZ(0, 0, 100), types.XYZ(1, 1, 100))) {
		t.Fatal("expected CanCull on an empty region to return false")
	}

	frag := newRectFragment(0, 0, 1, 1, 1)
	ctrl.SampleFragment(frag, frag.query(), opaqueShading)
	if len(frag.tested) != 0 {
		t.Fatalf("expected SampleFragment on an empty region to be a no-op; got %d tests", len(frag.tested))
	}
}

func TestParsePolicy(t *testing.T) {
	specs := []struct {
		in     string
		exp    Policy
		expErr bool
	}{
		{"", ReuseTopology, false},
		{"reuse", ReuseTopology, false},
		{"rebuild", RebuildPerRegion, false},
		{"sometimes", ReuseTopology, true},
	}

	for index, s := range specs {
		policy, err := ParsePolicy(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		if policy != s.exp {
			t.Fatalf("[spec %d] expected policy %s; got %s", index, s.exp, policy)
		}
		if s.in != "" && policy.String() != s.in {
			t.Fatalf("[spec %d] expected String() to return %q; got %q", index, s.in, policy.String())
		}
	}
}

func TestWriteTree(t *testing.T) {
	ctrl := NewController(DefaultOptions())
	region, err := sampler.NewRegion(sampler.Layout{Width: 1, Height: 1, XSamples: 2, YSamples: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	region.Populate(rand.New(rand.NewSource(1)), sampler.Params{ShutterClose: 1, LensClasses: 1, MaxDetail: 1})
	if err = ctrl.Prepare(region); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = ctrl.WriteTree(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected a header and 5 node lines; got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "# nodes: 5, samples: 4, fanOut: 4") {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "node 0 ") {
		t.Fatalf("expected the root on the first node line; got %q", lines[1])
	}
	for _, line := range lines[2:] {
		if !strings.HasPrefix(line, "  leaf ") {
			t.Fatalf("expected an indented leaf line; got %q", line)
		}
	}
}

func TestStatsRates(t *testing.T) {
	var s Stats
	if s.CullRate() != 0 || s.HitRate() != 0 {
		t.Fatal("expected zero rates for empty stats")
	}

	s.Add(Stats{CullTests: 4, Culled: 1, SampleTests: 10, SampleHits: 5})
	s.Add(Stats{CullTests: 4, Culled: 3})
	if s.CullRate() != 0.5 {
		t.Fatalf("expected cull rate 0.5; got %f", s.CullRate())
	}
	if s.HitRate() != 0.5 {
		t.Fatalf("expected hit rate 0.5; got %f", s.HitRate())
	}
}
