package occlusion

import (
	"github.com/achilleasa/hider/sampler"
	"github.com/chewxy/math32"
)

// Test a fragment against every sample it may touch and record the hits.
//
// Subtrees are pruned when they fail any of the axes the query uses or, for
// cullable queries, when they are already known to be hidden at the
// fragment's minimum depth. Opaque hits that lower a leaf's occlusion depth
// are propagated towards the root.
func (t *Tree) SampleFragment(frag Fragment, q Query, shading Shading) {
	if len(t.nodes) == 0 || t.NumSamples() == 0 {
		return
	}
	t.stats.FragmentsSampled++

	// Children are filtered by their parent; a root leaf has no parent.
	q = q.normalized()
	if root := &t.nodes[rootNode]; root.isLeaf() && !root.accepts(q) {
		return
	}
	t.sampleNode(rootNode, frag, q, &shading)
}

func (t *Tree) sampleNode(nodeIndex int, frag Fragment, q Query, shading *Shading) {
	n := &t.nodes[nodeIndex]
	if len(n.samples) == 1 {
		t.sampleLeaf(nodeIndex, frag, q, shading)
		return
	}

	minDepth := q.Bound.Min[2]
	for _, childIndex := range n.children {
		if childIndex == noNode {
			continue
		}
		child := &t.nodes[childIndex]
		if !child.accepts(q) {
			continue
		}
		if q.Cullable && minDepth > child.occlusionDepth {
			continue
		}

		t.sampleNode(childIndex, frag, q, shading)
	}
}

// Returns true if the node may own samples that the query touches.
func (n *node) accepts(q Query) bool {
	if q.DepthOfField && (q.LensIndex < n.minLens || q.LensIndex > n.maxLens) {
		return false
	}
	if q.MotionBlur && (q.TimeRange[0] > n.maxTime || q.TimeRange[1] < n.minTime) {
		return false
	}
	if q.LevelOfDetail && (q.DetailRange[0] > n.maxDetail || q.DetailRange[1] < n.minDetail) {
		return false
	}
	return q.Bound.Intersects2D(n.min, n.max)
}

func (t *Tree) sampleLeaf(nodeIndex int, frag Fragment, q Query, shading *Shading) {
	leaf := &t.nodes[nodeIndex]
	s := &t.samples[leaf.samples[0]]

	t.stats.SampleTests++
	hit, depth := frag.Sample(s, q.DepthOfField)
	if !hit || math32.IsNaN(depth) {
		return
	}

	// Already occluded at this exact sample by something nearer.
	if shading.Opaque && s.Opaque.Has(sampler.Valid) && s.Opaque.Depth() <= depth {
		return
	}

	t.stats.SampleHits++
	frag.MarkHit()

	var hitRecord *sampler.Hit
	if shading.Opaque {
		hitRecord = &s.Opaque
		if len(hitRecord.Data) < t.schema.Size() {
			*hitRecord = sampler.NewHit(t.schema.Size())
		}
	} else {
		partial := sampler.NewHit(t.schema.Size())
		hitRecord = &partial
	}

	hitRecord.SetColor(shading.Color)
	hitRecord.SetOpacity(shading.Opacity)
	hitRecord.SetDepth(depth)
	t.storeOutputs(frag, hitRecord)

	hitRecord.Flags = 0
	if shading.Occludes {
		hitRecord.Flags |= sampler.Occludes
	}
	if shading.Matte {
		hitRecord.Flags |= sampler.Matte
	}

	if !shading.Opaque {
		s.Partial = append(s.Partial, *hitRecord)
		t.stats.PartialHits++
		return
	}

	hitRecord.Flags |= sampler.Valid
	t.stats.OpaqueUpdates++
	if depth < leaf.occlusionDepth {
		leaf.occlusionDepth = depth
		t.propagate(nodeIndex)
	}
}

// Copy the registered shader outputs provided by the fragment into the hit
// payload.
func (t *Tree) storeOutputs(frag Fragment, hit *sampler.Hit) {
	for _, entry := range t.schema.Entries() {
		values, ok := frag.Output(entry.Name)
		if !ok {
			continue
		}
		count := min(entry.Arity, len(values))
		copy(hit.Data[entry.Offset:entry.Offset+count], values[:count])
	}
}

// Walk from a leaf whose occlusion depth decreased towards the root,
// updating each ancestor to the max over its children. Stops at the first
// ancestor whose value does not decrease.
func (t *Tree) propagate(leafIndex int) {
	for idx := t.nodes[leafIndex].parent; idx != noNode; {
		n := &t.nodes[idx]

		maxDepth := negInf
		for _, child := range n.children {
			if child != noNode {
				maxDepth = math32.Max(maxDepth, t.nodes[child].occlusionDepth)
			}
		}

		if maxDepth >= n.occlusionDepth {
			return
		}
		n.occlusionDepth = maxDepth
		idx = n.parent
	}
}
