package renderer

import (
	"fmt"
	"slices"
)

// A Bucket is a rectangular tile of the frame processed as one region.
type Bucket struct {
	// Position of the bucket in the row-major bucket grid.
	Index int

	// Origin and dims in pixels.
	X, Y int
	W, H int
}

// The BucketScheduler interface is implemented by all bucket ordering
// algorithms.
type BucketScheduler interface {
	// Split the frame into buckets of at most bucketW x bucketH pixels
	// and return them in processing order. Buckets along the right and
	// bottom frame edges are clipped to the frame.
	Schedule(frameW, frameH, bucketW, bucketH int) []Bucket
}

// Split the frame into buckets in row-major order.
func splitFrame(frameW, frameH, bucketW, bucketH int) []Bucket {
	if frameW <= 0 || frameH <= 0 || bucketW <= 0 || bucketH <= 0 {
		return nil
	}

	cols := (frameW + bucketW - 1) / bucketW
	rows := (frameH + bucketH - 1) / bucketH
	buckets := make([]Bucket, 0, cols*rows)
	for y := 0; y < frameH; y += bucketH {
		for x := 0; x < frameW; x += bucketW {
			buckets = append(buckets, Bucket{
				Index: len(buckets),
				X:     x,
				Y:     y,
				W:     min(bucketW, frameW-x),
				H:     min(bucketH, frameH-y),
			})
		}
	}
	return buckets
}

// The row scheduler processes buckets left to right, top to bottom.
type rowScheduler struct{}

// Create a new row scheduler instance.
func RowScheduler() BucketScheduler {
	return rowScheduler{}
}

func (rowScheduler) Schedule(frameW, frameH, bucketW, bucketH int) []Bucket {
	return splitFrame(frameW, frameH, bucketW, bucketH)
}

// The center scheduler processes the buckets closest to the frame center
// first. Ties keep row-major order.
type centerScheduler struct{}

// Create a new center scheduler instance.
func CenterScheduler() BucketScheduler {
	return centerScheduler{}
}

func (centerScheduler) Schedule(frameW, frameH, bucketW, bucketH int) []Bucket {
	buckets := splitFrame(frameW, frameH, bucketW, bucketH)

	// Compare squared distances in doubled coordinates to stay in integers.
	cx, cy := frameW, frameH
	dist := func(b Bucket) int {
		dx := 2*b.X + b.W - cx
		dy := 2*b.Y + b.H - cy
		return dx*dx + dy*dy
	}
	slices.SortStableFunc(buckets, func(a, b Bucket) int {
		return dist(a) - dist(b)
	})
	return buckets
}

// Get a scheduler by name.
func ParseScheduler(name string) (BucketScheduler, error) {
	switch name {
	case "row", "":
		return RowScheduler(), nil
	case "center":
		return CenterScheduler(), nil
	}
	return nil, fmt.Errorf("renderer: unknown bucket scheduler %q", name)
}
