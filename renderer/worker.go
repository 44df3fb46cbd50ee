package renderer

import (
	"math/rand"
	"time"

	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/log"
	"github.com/achilleasa/hider/occlusion"
	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
)

// A worker renders buckets sequentially. It owns its region buffers and
// one occlusion controller per bucket layout; nothing it owns is shared
// with other workers.
type worker struct {
	id     int
	logger log.Logger
	opts   Options

	scene     *scene.Scene
	gridBound []types.Bound
	schema    *sampler.Schema

	rng         *rand.Rand
	regions     map[sampler.Layout]*sampler.Region
	controllers map[sampler.Layout]*occlusion.Controller

	// Scratch buffer for micropolygon queries.
	queries []occlusion.Query

	stats WorkerStat
}

func newWorker(id int, sc *scene.Scene, gridBound []types.Bound, schema *sampler.Schema, opts Options) *worker {
	return &worker{
		id:          id,
		logger:      log.New("worker"),
		opts:        opts,
		scene:       sc,
		gridBound:   gridBound,
		schema:      schema,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		regions:     make(map[sampler.Layout]*sampler.Region),
		controllers: make(map[sampler.Layout]*occlusion.Controller),
		stats:       WorkerStat{Id: id},
	}
}

// Get the region buffer and controller for a bucket layout. Border buckets
// are smaller than interior ones so each layout gets its own tree.
func (w *worker) regionFor(layout sampler.Layout) (*sampler.Region, *occlusion.Controller, error) {
	if region, ok := w.regions[layout]; ok {
		return region, w.controllers[layout], nil
	}

	region, err := sampler.NewRegion(layout, w.schema)
	if err != nil {
		return nil, nil, err
	}
	ctrl := occlusion.NewController(w.opts.EngineOptions())
	w.regions[layout] = region
	w.controllers[layout] = ctrl
	w.logger.Debugf("worker %d: allocated region buffers for layout %s", w.id, layout)
	return region, ctrl, nil
}

// Populate the bucket samples, run every overlapping grid through the
// occlusion engine and resolve the result into the frame.
func (w *worker) process(b Bucket, frame *Frame) error {
	start := time.Now()
	layout := sampler.Layout{
		Width:    b.W,
		Height:   b.H,
		XSamples: w.opts.XSamples,
		YSamples: w.opts.YSamples,
	}
	region, ctrl, err := w.regionFor(layout)
	if err != nil {
		return err
	}

	w.rng.Seed(w.opts.Seed + int64(b.Index))
	region.Reset(b.X, b.Y, w.rng, w.opts.SamplerParams())
	if err = ctrl.Prepare(region); err != nil {
		return err
	}

	bucketBound := region.Bound()
	for gridIndex, g := range w.scene.Grids {
		gb := w.gridBound[gridIndex]
		if !gb.Intersects2D(bucketBound.Min.Vec2(), bucketBound.Max.Vec2()) {
			continue
		}
		if g.Cullable && ctrl.CanCull(gb) {
			w.stats.GridsCulled++
			continue
		}

		for _, mp := range g.Micropolygons {
			w.queries = g.AppendQueries(w.queries[:0], mp, w.opts.lensClasses())
			shading := g.Shading(mp)
			for _, q := range w.queries {
				if !q.Bound.Intersects2D(bucketBound.Min.Vec2(), bucketBound.Max.Vec2()) {
					continue
				}
				if q.Cullable && ctrl.CanCull(q.Bound) {
					w.stats.QueriesCulled++
					continue
				}
				ctrl.SampleFragment(mp, q, shading)
				w.stats.QueriesSampled++
			}
		}
	}

	frame.Resolve(region)
	w.stats.Buckets++
	w.stats.RenderTime += time.Since(start)
	w.logger.Debugf("worker %d: bucket %d at (%d, %d) done in %s", w.id, b.Index, b.X, b.Y, time.Since(start))
	return nil
}

// Sum the engine counters of every controller owned by the worker.
func (w *worker) engineStats() occlusion.Stats {
	var stats occlusion.Stats
	for _, ctrl := range w.controllers {
		stats.Add(ctrl.Stats())
	}
	return stats
}
