package occlusion

import (
	"fmt"
	"io"

	"github.com/achilleasa/hider/log"
	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
)

// Policy controls how the controller treats the tree between regions.
type Policy uint8

const (
	// Build the tree once from the first region and refresh its bounds for
	// every following region. Regions must share the same layout.
	ReuseTopology Policy = iota

	// Build a fresh tree for every region.
	RebuildPerRegion
)

func (p Policy) String() string {
	switch p {
	case ReuseTopology:
		return "reuse"
	case RebuildPerRegion:
		return "rebuild"
	}
	return fmt.Sprintf("Policy(%d)", p)
}

// Parse a policy name as returned by Policy.String.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "reuse", "":
		return ReuseTopology, nil
	case "rebuild":
		return RebuildPerRegion, nil
	}
	return ReuseTopology, fmt.Errorf("occlusion: unknown tree policy %q", name)
}

type Options struct {
	// Max children per internal node.
	FanOut int

	Policy Policy
}

func DefaultOptions() Options {
	return Options{
		FanOut: DefaultFanOut,
		Policy: ReuseTopology,
	}
}

// The Controller owns the occlusion tree for a sequence of regions. Prepare
// must be called for each region before it is culled or sampled; until then
// CanCull always reports false and SampleFragment does nothing.
//
// A Controller must not be shared between goroutines. Workers that process
// regions concurrently each need their own instance.
type Controller struct {
	logger log.Logger
	opts   Options

	tree   *Tree
	layout sampler.Layout

	// Set while a region is bound to the tree.
	prepared bool

	stats Stats
}

// Create a new controller.
func NewController(opts Options) *Controller {
	if opts.FanOut < minFanOut {
		opts.FanOut = DefaultFanOut
	}
	return &Controller{
		logger: log.New("occlusion"),
		opts:   opts,
	}
}

// Bind the controller to a region whose sample content has already been
// populated. The tree is built on first use (or for every region under the
// RebuildPerRegion policy) and its bounds are refreshed from the region's
// samples, discarding all occlusion information from previous regions.
func (c *Controller) Prepare(region *sampler.Region) error {
	c.prepared = false
	if region == nil {
		return ErrNilRegion
	}

	layout := region.Layout()
	if c.tree != nil && c.opts.Policy == ReuseTopology && layout != c.layout {
		return fmt.Errorf("%w: built for %s; got %s", ErrLayoutMismatch, c.layout, layout)
	}

	if c.tree == nil || c.opts.Policy == RebuildPerRegion {
		c.tree = Build(region.Samples, c.opts.FanOut)
		c.tree.stats = &c.stats
		c.layout = layout
		c.stats.TreesBuilt++
		c.logger.Debugf("built occlusion tree for layout %s (%d nodes)", layout, c.tree.NumNodes())
	}

	c.tree.bind(region.Samples, region.Schema())
	c.tree.UpdateBounds()
	c.prepared = true
	c.stats.RegionsPrepared++
	return nil
}

// Returns true if a region is currently bound.
func (c *Controller) Prepared() bool {
	return c.prepared
}

// Check whether a fragment with the given bound is hidden. Always false if
// the controller has not been prepared.
func (c *Controller) CanCull(bound types.Bound) bool {
	if !c.prepared {
		return false
	}
	return c.tree.CanCull(bound)
}

// Test a fragment against the samples of the prepared region. Does nothing
// if the controller has not been prepared.
func (c *Controller) SampleFragment(frag Fragment, q Query, shading Shading) {
	if !c.prepared {
		return
	}
	c.tree.SampleFragment(frag, q, shading)
}

// Get the occlusion depth of the whole prepared region.
func (c *Controller) OcclusionDepth() (float32, error) {
	if !c.prepared {
		return posInf, ErrNotPrepared
	}
	return c.tree.OcclusionDepth(), nil
}

// Release the tree. A following Prepare call builds a new one.
func (c *Controller) Shutdown() {
	if c.tree != nil {
		c.logger.Debugf("releasing occlusion tree (%d nodes)", c.tree.NumNodes())
	}
	c.tree = nil
	c.layout = sampler.Layout{}
	c.prepared = false
}

// Get the engine counters accumulated since the controller was created.
func (c *Controller) Stats() Stats {
	return c.stats
}

// Write a text dump of the tree hierarchy.
func (c *Controller) WriteTree(w io.Writer) error {
	if c.tree == nil {
		return ErrNotPrepared
	}
	return c.tree.Dump(w)
}
