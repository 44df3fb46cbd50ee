package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/log"
	"github.com/achilleasa/hider/types"
	"golang.org/x/sync/errgroup"
)

type Renderer interface {
	// Render frame.
	Render(ctx context.Context) error

	// Get the last rendered frame.
	Frame() *Frame

	// Get render statistics.
	Stats() FrameStats
}

type defaultRenderer struct {
	logger    log.Logger
	opts      Options
	scene     *scene.Scene
	scheduler BucketScheduler

	frame   *Frame
	workers []*worker
	stats   FrameStats
}

// Create a renderer that splits the frame into buckets and processes them
// with opts.Workers concurrent workers.
func NewDefault(sc *scene.Scene, scheduler BucketScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.FrameW == 0 {
		opts.FrameW = sc.Width
	}
	if opts.FrameH == 0 {
		opts.FrameH = sc.Height
	}
	if scheduler == nil {
		scheduler = RowScheduler()
	}

	schema, err := sc.Schema()
	if err != nil {
		return nil, fmt.Errorf("renderer: invalid scene outputs: %w", err)
	}

	gridBound := prepareGrids(sc)

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		opts:      opts,
		scene:     sc,
		scheduler: scheduler,
		frame:     NewFrame(opts.FrameW, opts.FrameH),
	}
	for id := 0; id < opts.Workers; id++ {
		r.workers = append(r.workers, newWorker(id, sc, gridBound, schema, opts))
	}
	return r, nil
}

// Render frame. Buckets are handed out to the workers in scheduler order;
// the first worker error or a cancelled context stops the render.
func (r *defaultRenderer) Render(ctx context.Context) error {
	start := time.Now()
	buckets := r.scheduler.Schedule(r.opts.FrameW, r.opts.FrameH, r.opts.BucketW, r.opts.BucketH)
	r.logger.Infof("rendering %dx%d frame: %d buckets, %d workers", r.opts.FrameW, r.opts.FrameH, len(buckets), len(r.workers))

	for _, w := range r.workers {
		w.stats = WorkerStat{Id: w.id}
	}

	work := make(chan Bucket)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for _, b := range buckets {
			select {
			case work <- b:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for _, w := range r.workers {
		g.Go(func() error {
			for b := range work {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := w.process(b, r.frame); err != nil {
					return fmt.Errorf("worker %d: bucket %d: %w", w.id, b.Index, err)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	r.collectStats(time.Since(start))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		return err
	}

	r.logger.Noticef("rendered frame in %s", r.stats.RenderTime)
	return nil
}

func (r *defaultRenderer) collectStats(renderTime time.Duration) {
	frameArea := float32(r.opts.FrameW * r.opts.FrameH)
	bucketArea := float32(r.opts.BucketW * r.opts.BucketH)

	r.stats = FrameStats{RenderTime: renderTime}
	for _, w := range r.workers {
		stat := w.stats
		stat.Layouts = len(w.controllers)
		if frameArea > 0 {
			stat.FramePercent = min(100, 100*float32(stat.Buckets)*bucketArea/frameArea)
		}
		r.stats.Workers = append(r.stats.Workers, stat)
		r.stats.Engine.Add(w.engineStats())
	}
}

func (r *defaultRenderer) Frame() *Frame {
	return r.frame
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Drop stray motion from static grids and compute the bound of every grid.
func prepareGrids(sc *scene.Scene) []types.Bound {
	sc.DropStaticMotion()
	gridBound := make([]types.Bound, len(sc.Grids))
	for i, g := range sc.Grids {
		gridBound[i] = g.Bound()
	}
	return gridBound
}
