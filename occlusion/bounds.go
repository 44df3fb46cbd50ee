package occlusion

import (
	"math"

	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
	"github.com/chewxy/math32"
)

var (
	posInf = math32.Inf(1)
	negInf = math32.Inf(-1)
)

// Reset all per-axis bounds so that any union overwrites them.
func (n *node) resetBounds() {
	n.min = types.Vec2{posInf, posInf}
	n.max = types.Vec2{negInf, negInf}
	n.minTime, n.maxTime = posInf, negInf
	n.minLens, n.maxLens = math.MaxInt, math.MinInt
	n.minDetail, n.maxDetail = posInf, negInf
}

// Grow the node bounds to include sample s.
func (n *node) extendSample(s *sampler.Sample) {
	n.min = types.MinVec2(n.min, s.Position)
	n.max = types.MaxVec2(n.max, s.Position)
	n.minTime = math32.Min(n.minTime, s.Time)
	n.maxTime = math32.Max(n.maxTime, s.Time)
	n.minLens = min(n.minLens, s.LensIndex)
	n.maxLens = max(n.maxLens, s.LensIndex)
	n.minDetail = math32.Min(n.minDetail, s.DetailLevel)
	n.maxDetail = math32.Max(n.maxDetail, s.DetailLevel)
}

// Grow the node bounds to include the bounds of other.
func (n *node) extendNode(other *node) {
	n.min = types.MinVec2(n.min, other.min)
	n.max = types.MaxVec2(n.max, other.max)
	n.minTime = math32.Min(n.minTime, other.minTime)
	n.maxTime = math32.Max(n.maxTime, other.maxTime)
	n.minLens = min(n.minLens, other.minLens)
	n.maxLens = max(n.maxLens, other.maxLens)
	n.minDetail = math32.Min(n.minDetail, other.minDetail)
	n.maxDetail = math32.Max(n.maxDetail, other.maxDetail)
}

// Recompute the node bounds from its own samples.
func (n *node) refreshFromSamples(samples []sampler.Sample) {
	n.resetBounds()
	for _, sampleIndex := range n.samples {
		n.extendSample(&samples[sampleIndex])
	}
}

// Seed the bounds of every node from the samples it owns and forget any
// occlusion information.
func (t *Tree) InitialiseBounds() {
	for idx := range t.nodes {
		n := &t.nodes[idx]
		n.refreshFromSamples(t.samples)
		n.occlusionDepth = posInf
	}
}

// Refresh the bounds of every node bottom-up from the current content of
// the bound samples and forget any occlusion information. Leaves reseed from
// their sample while internal nodes union their children.
func (t *Tree) UpdateBounds() {
	// Children are stored after their parents so a reverse scan visits
	// every child before its parent.
	for idx := len(t.nodes) - 1; idx >= 0; idx-- {
		n := &t.nodes[idx]
		n.occlusionDepth = posInf

		if n.isLeaf() {
			n.refreshFromSamples(t.samples)
			continue
		}

		n.resetBounds()
		for _, child := range n.children {
			if child != noNode {
				n.extendNode(&t.nodes[child])
			}
		}
	}
}
