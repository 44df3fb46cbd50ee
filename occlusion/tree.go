package occlusion

import (
	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
)

const (
	// Marks an absent child slot or the parent of the root.
	noNode = -1

	// The index of the root node in the node arena.
	rootNode = 0

	// The default number of child slots per internal node.
	DefaultFanOut = 4

	// Fan-out values below this are clamped.
	minFanOut = 2
)

// A node of the occlusion tree. Nodes live in a contiguous arena owned by
// the Tree and refer to each other by index.
type node struct {
	// Indices into the bound sample slice. Leaves own exactly one sample.
	samples []int

	// Min/max over the owned samples along each sample axis.
	min, max             types.Vec2
	minTime, maxTime     float32
	minLens, maxLens     int
	minDetail, maxDetail float32

	// Every sample in this node's footprint is known to have an opaque hit
	// at or nearer than this depth.
	occlusionDepth float32

	parent int

	// Child slots; len == fan-out. Absent slots hold noNode.
	children []int

	// The spatial axis (0 or 1) used to partition this node's samples.
	axis int
}

func (n *node) isLeaf() bool {
	for _, child := range n.children {
		if child != noNode {
			return false
		}
	}
	return true
}

// The Tree is a bounded fan-out spatial partition over the samples of one
// region. It is not safe for concurrent use.
type Tree struct {
	nodes  []node
	fanOut int

	// The samples of the currently bound region.
	samples []sampler.Sample
	schema  *sampler.Schema

	stats *Stats
}

// Bind the tree to the sample content of a region with the same layout as
// the one used to build the tree.
func (t *Tree) bind(samples []sampler.Sample, schema *sampler.Schema) {
	t.samples = samples
	t.schema = schema
}

// Get the number of nodes in the tree.
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// Get the number of samples the tree partitions.
func (t *Tree) NumSamples() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return len(t.nodes[rootNode].samples)
}

// Get the configured fan-out.
func (t *Tree) FanOut() int {
	return t.fanOut
}

// Get the occlusion depth of the root node. Every sample of the region has
// an opaque hit at or nearer than this depth.
func (t *Tree) OcclusionDepth() float32 {
	if len(t.nodes) == 0 {
		return posInf
	}
	return t.nodes[rootNode].occlusionDepth
}

// Invoke fn with the sample indices owned by each leaf.
func (t *Tree) VisitLeaves(fn func(sampleIndices []int)) {
	for idx := range t.nodes {
		n := &t.nodes[idx]
		if n.isLeaf() && len(n.samples) > 0 {
			fn(n.samples)
		}
	}
}
