package renderer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/fragment"
	"github.com/achilleasa/hider/types"
)

func TestDumpBucketTree(t *testing.T) {
	sc := &scene.Scene{
		Width:  8,
		Height: 8,
		Grids:  []*fragment.Grid{quadGrid(-1, -1, 9, 9, 3, types.XYZ(1, 1, 1))},
	}
	opts := DefaultOptions()
	opts.XSamples, opts.YSamples = 1, 1

	var buf bytes.Buffer
	if err := DumpBucketTree(sc, opts, Bucket{W: 2, H: 2}, &buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "# bucket 0 at (0, 0)") {
		t.Fatalf("unexpected dump header:\n%s", out)
	}
	if !strings.Contains(out, "node 0 ") || !strings.Contains(out, "occlusion=3") {
		t.Fatalf("expected the root to be covered at depth 3; got:\n%s", out)
	}
}

func TestDumpEmptyBucketTree(t *testing.T) {
	var buf bytes.Buffer
	if err := DumpBucketTree(nil, DefaultOptions(), Bucket{W: 1, H: 1}, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "occlusion=+Inf") {
		t.Fatalf("expected an uncovered tree; got:\n%s", buf.String())
	}
}
