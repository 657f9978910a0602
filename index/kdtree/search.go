package kdtree

import (
	"fmt"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/spatial"
)

// FindNearest returns the stored point closest to query. It returns
// index.NotFound and false when the tree is empty.
func (t *Tree) FindNearest(query spatial.Point) (index.Neighbor, bool) {
	if t.root == noNode {
		return index.NotFound, false
	}
	best := index.NotFound
	t.visit(t.root, query, &best)
	return best, true
}

// visit searches the subtree at, shrinking best as closer entries are found.
func (t *Tree) visit(at int, query spatial.Point, best *index.Neighbor) {
	n := &t.nodes[at]
	switch n.kind {
	case leafNode:
		for _, e := range n.entries[:n.count] {
			if d := t.metric(query, e.Position); d < best.Distance {
				*best = index.Neighbor{ID: e.ID, Distance: d}
			}
		}
	case splitNode:
		near, far := n.left, n.right
		if query[n.axis] > n.threshold {
			near, far = far, near
		}
		t.visit(near, query, best)
		// the far side can only hold a closer point if the splitting plane
		// cuts the search sphere
		if t.metric(query, query.WithAxis(n.axis, n.threshold)) < best.Distance {
			t.visit(far, query, best)
		}
	default:
		panic(fmt.Sprintf("kdtree: unrecognized node kind %d", n.kind))
	}
}
