package occlusion

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write the node hierarchy to w, one node per line, indented by depth.
func (t *Tree) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# nodes: %d, samples: %d, fanOut: %d\n", len(t.nodes), t.NumSamples(), t.fanOut)
	if len(t.nodes) > 0 {
		t.dumpNode(bw, rootNode, 0)
	}
	return bw.Flush()
}

func (t *Tree) dumpNode(w io.Writer, nodeIndex, depth int) {
	n := &t.nodes[nodeIndex]

	kind := "node"
	if n.isLeaf() {
		kind = "leaf"
	}

	fmt.Fprintf(
		w,
		"%s%s %d axis=%d samples=%d xy=[(%.3f, %.3f) - (%.3f, %.3f)] time=[%.3f, %.3f] lens=[%d, %d] detail=[%.3f, %.3f] occlusion=%g\n",
		strings.Repeat("  ", depth), kind, nodeIndex, n.axis, len(n.samples),
		n.min[0], n.min[1], n.max[0], n.max[1],
		n.minTime, n.maxTime,
		n.minLens, n.maxLens,
		n.minDetail, n.maxDetail,
		n.occlusionDepth,
	)

	for _, child := range n.children {
		if child != noNode {
			t.dumpNode(w, child, depth+1)
		}
	}
}
