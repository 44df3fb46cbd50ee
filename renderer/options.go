package renderer

import (
	"fmt"

	"github.com/achilleasa/hider/occlusion"
	"github.com/achilleasa/hider/sampler"
)

type Options struct {
	// Frame dims. Zero values use the scene dimensions.
	FrameW int `yaml:"width"`
	FrameH int `yaml:"height"`

	// Bucket dims.
	BucketW int `yaml:"bucket_width"`
	BucketH int `yaml:"bucket_height"`

	// Stratified samples per pixel along each axis.
	XSamples int `yaml:"x_samples"`
	YSamples int `yaml:"y_samples"`

	// Shutter interval for motion blur.
	ShutterOpen  float32 `yaml:"shutter_open"`
	ShutterClose float32 `yaml:"shutter_close"`

	// Number of depth of field lens classes.
	LensClasses int `yaml:"lens_classes"`

	// Range of the per-sample detail level.
	MinDetail float32 `yaml:"min_detail"`
	MaxDetail float32 `yaml:"max_detail"`

	// Occlusion tree settings.
	FanOut int              `yaml:"fan_out"`
	Policy occlusion.Policy `yaml:"-"`

	// Number of concurrent bucket workers.
	Workers int `yaml:"workers"`

	// Seed for the sample jitter. Each bucket derives its own stream so
	// the output does not depend on the worker count.
	Seed int64 `yaml:"seed"`
}

func DefaultOptions() Options {
	return Options{
		BucketW:      16,
		BucketH:      16,
		XSamples:     2,
		YSamples:     2,
		ShutterOpen:  0,
		ShutterClose: 1,
		LensClasses:  4,
		MinDetail:    0,
		MaxDetail:    1,
		FanOut:       occlusion.DefaultFanOut,
		Policy:       occlusion.ReuseTopology,
		Workers:      1,
		Seed:         1,
	}
}

// Check the options for values the renderer cannot work with.
func (o Options) Validate() error {
	switch {
	case o.FrameW < 0 || o.FrameH < 0:
		return fmt.Errorf("%w: frame dimensions %dx%d", ErrInvalidOptions, o.FrameW, o.FrameH)
	case o.BucketW <= 0 || o.BucketH <= 0:
		return fmt.Errorf("%w: bucket dimensions %dx%d", ErrInvalidOptions, o.BucketW, o.BucketH)
	case o.XSamples <= 0 || o.YSamples <= 0:
		return fmt.Errorf("%w: pixel samples %dx%d", ErrInvalidOptions, o.XSamples, o.YSamples)
	case o.ShutterClose < o.ShutterOpen:
		return fmt.Errorf("%w: shutter [%f, %f]", ErrInvalidOptions, o.ShutterOpen, o.ShutterClose)
	case o.MaxDetail < o.MinDetail:
		return fmt.Errorf("%w: detail range [%f, %f]", ErrInvalidOptions, o.MinDetail, o.MaxDetail)
	case o.Workers <= 0:
		return fmt.Errorf("%w: %d workers", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// Get the number of lens classes shared by sample generation and fragment
// queries. Anything below one means a single class.
func (o Options) lensClasses() int {
	return max(o.LensClasses, 1)
}

// Get the sample generation parameters.
func (o Options) SamplerParams() sampler.Params {
	return sampler.Params{
		ShutterOpen:  o.ShutterOpen,
		ShutterClose: o.ShutterClose,
		LensClasses:  o.lensClasses(),
		MinDetail:    o.MinDetail,
		MaxDetail:    o.MaxDetail,
		Jitter:       true,
	}
}

// Get the occlusion engine options.
func (o Options) EngineOptions() occlusion.Options {
	return occlusion.Options{
		FanOut: o.FanOut,
		Policy: o.Policy,
	}
}
