package renderer

import (
	"time"

	"github.com/achilleasa/hider/occlusion"
)

type WorkerStat struct {
	// The worker id.
	Id int

	// Buckets processed and the percentage of total frame area they represent.
	Buckets      int
	FramePercent float32

	// Grids and micropolygon queries skipped because they were hidden.
	GridsCulled   uint64
	QueriesCulled uint64

	// Micropolygon queries handed to the occlusion engine.
	QueriesSampled uint64

	// Number of distinct bucket layouts, each with its own occlusion tree.
	Layouts int

	// Time spent processing buckets.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Engine counters over all workers and all frames rendered so far.
	Engine occlusion.Stats

	// Total render time for entire frame.
	RenderTime time.Duration
}
