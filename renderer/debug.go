package renderer

import (
	"fmt"
	"io"

	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/sampler"
)

// Process a single bucket of the scene and write the resulting occlusion
// tree to out. A nil scene dumps the tree of an empty bucket.
func DumpBucketTree(sc *scene.Scene, opts Options, b Bucket, out io.Writer) error {
	if sc == nil {
		sc = &scene.Scene{}
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if b.W < 0 || b.H < 0 {
		return fmt.Errorf("%w: bucket dimensions %dx%d", ErrInvalidOptions, b.W, b.H)
	}

	schema, err := sc.Schema()
	if err != nil {
		return fmt.Errorf("renderer: invalid scene outputs: %w", err)
	}
	w := newWorker(0, sc, prepareGrids(sc), schema, opts)
	if err = w.process(b, NewFrame(b.X+b.W, b.Y+b.H)); err != nil {
		return err
	}

	layout := sampler.Layout{Width: b.W, Height: b.H, XSamples: opts.XSamples, YSamples: opts.YSamples}
	ctrl := w.controllers[layout]
	stats := ctrl.Stats()
	fmt.Fprintf(out, "# bucket %d at (%d, %d) %s: %d cull tests, %d culled, %d sample hits\n",
		b.Index, b.X, b.Y, layout, stats.CullTests, stats.Culled, stats.SampleHits)
	return ctrl.WriteTree(out)
}
