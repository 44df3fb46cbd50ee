package occlusion

import "github.com/achilleasa/hider/types"

// Check whether a fragment with the given bound is guaranteed to be hidden
// behind already recorded opaque geometry. The bound's Z range holds the
// fragment depth; only its minimum is used.
//
// The test is conservative: it may fail to cull a hidden fragment but never
// culls one that could affect a sample inside the bound's 2D footprint.
func (t *Tree) CanCull(bound types.Bound) bool {
	if len(t.nodes) == 0 {
		return false
	}
	t.stats.CullTests++

	// The root represents the whole region and is always treated as
	// containing the query.
	var buf [64]int
	stack := append(buf[:0], rootNode)
	for len(stack) > 0 {
		n := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if bound.Min[2] > n.occlusionDepth {
			t.stats.Culled++
			return true
		}

		for _, child := range n.children {
			if child == noNode {
				continue
			}
			if t.ownsFootprint(n, child, bound) {
				stack = append(stack, child)
			}
		}
	}

	return false
}

// Returns true if the child's spatial bound fully contains the bound's
// footprint and no sibling's spatial bound intersects it. When both hold,
// every sample of the parent that lies inside the footprint belongs to the
// child.
func (t *Tree) ownsFootprint(parent *node, child int, bound types.Bound) bool {
	c := &t.nodes[child]
	if !c.containsFootprint(bound) {
		return false
	}

	for _, sibling := range parent.children {
		if sibling == noNode || sibling == child {
			continue
		}
		s := &t.nodes[sibling]
		if bound.Intersects2D(s.min, s.max) {
			return false
		}
	}
	return true
}

func (n *node) containsFootprint(bound types.Bound) bool {
	return bound.Min[0] >= n.min[0] && bound.Max[0] <= n.max[0] &&
		bound.Min[1] >= n.min[1] && bound.Max[1] <= n.max[1]
}
