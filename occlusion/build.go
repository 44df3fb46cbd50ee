package occlusion

import (
	"cmp"
	"slices"
	"time"

	"github.com/achilleasa/hider/log"
	"github.com/achilleasa/hider/sampler"
)

// A set of samples waiting to be attached to a parent node.
type workItem struct {
	samples []int
	axis    int
}

type buildStats struct {
	nodes    int
	leafs    int
	maxDepth int
}

type builder struct {
	logger log.Logger

	fanOut  int
	samples []sampler.Sample

	// Node arena. Children are always appended after their parent.
	nodes []node

	stats buildStats
}

// Construct an occlusion tree over samples using a breadth-first median
// split. Each internal node has at most fanOut children; values below 2 are
// clamped to 2.
//
// The returned tree is bound to samples and has its bounds initialised.
// An empty sample list yields a tree with a single empty leaf.
func Build(samples []sampler.Sample, fanOut int) *Tree {
	if fanOut < minFanOut {
		fanOut = minFanOut
	}

	b := &builder{
		logger:  log.New("occlusion builder"),
		fanOut:  fanOut,
		samples: samples,
		nodes:   make([]node, 0, 2*len(samples)+1),
	}

	start := time.Now()
	indices := make([]int, len(samples))
	for i := range indices {
		indices[i] = i
	}
	b.addNode(workItem{samples: indices}, noNode)
	b.expand(rootNode, 0)

	b.logger.Debugf(
		"occlusion tree build time: %d us, samples: %d, fanOut: %d, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Microseconds(), len(samples), fanOut,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)

	t := &Tree{
		nodes:  b.nodes,
		fanOut: fanOut,
		stats:  &Stats{},
	}
	t.bind(samples, nil)
	t.InitialiseBounds()
	return t
}

// Append a node for item to the arena and return its index.
func (b *builder) addNode(item workItem, parent int) int {
	children := make([]int, b.fanOut)
	for i := range children {
		children[i] = noNode
	}

	b.nodes = append(b.nodes, node{
		samples:        item.samples,
		parent:         parent,
		children:       children,
		axis:           item.axis,
		occlusionDepth: posInf,
	})
	b.stats.nodes++
	if len(item.samples) <= 1 {
		b.stats.leafs++
	}

	idx := len(b.nodes) - 1
	b.nodes[idx].refreshFromSamples(b.samples)
	return idx
}

// Partition the samples of the node at nodeIndex into at most fanOut
// children and recursively expand each child that owns more than one sample.
func (b *builder) expand(nodeIndex, depth int) {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	root := b.nodes[nodeIndex]
	if len(root.samples) <= 1 {
		return
	}

	// Keep splitting the queue head until either every queued item is a
	// single sample or we have enough items to fill the child slots.
	queue := []workItem{{samples: root.samples, axis: root.axis}}
	nonLeafCount := 1
	for nonLeafCount > 0 && len(queue) < b.fanOut {
		item := queue[0]
		queue = queue[1:]
		if len(item.samples) <= 1 {
			queue = append(queue, item)
			continue
		}

		nonLeafCount--
		left, right := b.split(item)
		for _, half := range [2]workItem{left, right} {
			if len(half.samples) == 0 {
				continue
			}
			queue = append(queue, half)
			if len(half.samples) > 1 {
				nonLeafCount++
			}
		}
	}

	slot := 0
	for _, item := range queue {
		if len(item.samples) == 0 {
			continue
		}
		childIndex := b.addNode(item, nodeIndex)
		b.nodes[nodeIndex].children[slot] = childIndex
		slot++
	}

	for _, childIndex := range b.nodes[nodeIndex].children {
		if childIndex != noNode && len(b.nodes[childIndex].samples) > 1 {
			b.expand(childIndex, depth+1)
		}
	}
}

// Sort the item samples along its split axis and split them at the median.
// Both halves use the next spatial axis. The halves are windows into the
// item's sample slice.
func (b *builder) split(item workItem) (left, right workItem) {
	axis := item.axis
	slices.SortStableFunc(item.samples, func(i, j int) int {
		return cmp.Compare(b.samples[i].Position[axis], b.samples[j].Position[axis])
	})

	median := len(item.samples) / 2
	nextAxis := (axis + 1) % 2
	left = workItem{samples: item.samples[:median:median], axis: nextAxis}
	right = workItem{samples: item.samples[median:], axis: nextAxis}
	return left, right
}
