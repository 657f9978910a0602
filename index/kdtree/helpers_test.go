package kdtree

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viant/bluenoise/spatial"
)

func randomPoints(rng *rand.Rand, n int, scale float32) []spatial.Point {
	points := make([]spatial.Point, n)
	for i := range points {
		points[i] = spatial.NewPoint(
			(rng.Float32()*2-1)*scale,
			(rng.Float32()*2-1)*scale,
			(rng.Float32()*2-1)*scale,
		)
	}
	return points
}

// gridPoints returns every integer point of a side^3 grid in random order.
func gridPoints(rng *rand.Rand, side int) []spatial.Point {
	var points []spatial.Point
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				points = append(points, spatial.NewPoint(float32(x), float32(y), float32(z)))
			}
		}
	}
	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
	return points
}

type bound struct {
	axis      int
	threshold float32
	left      bool
}

// checkInvariants walks the whole arena from the root and verifies the split
// and bucket invariants. It returns the ids found.
func checkInvariants(t *testing.T, tree *Tree) map[int]spatial.Point {
	t.Helper()
	seen := make(map[int]spatial.Point)
	if tree.root == noNode {
		require.Zero(t, tree.Len())
		return seen
	}
	// entries equal to a threshold may sit right of it only when the tree
	// stores the same position more than once
	positions := make(map[spatial.Point]int)
	for _, n := range tree.nodes {
		if n.kind == leafNode {
			for _, e := range n.entries[:n.count] {
				positions[e.Position]++
			}
		}
	}
	shared := len(positions) < tree.Len()

	var walk func(at, depth int, bounds []bound)
	walk = func(at, depth int, bounds []bound) {
		n := tree.nodes[at]
		switch n.kind {
		case splitNode:
			require.Equal(t, depth%spatial.Dimensions, n.axis, "split axis at depth %d", depth)
			walk(n.left, depth+1, append(bounds[:len(bounds):len(bounds)], bound{n.axis, n.threshold, true}))
			walk(n.right, depth+1, append(bounds[:len(bounds):len(bounds)], bound{n.axis, n.threshold, false}))
		case leafNode:
			require.Len(t, n.entries, tree.leafCapacity)
			require.LessOrEqual(t, n.count, tree.leafCapacity)
			for i, e := range n.entries {
				if i >= n.count {
					require.Equal(t, sentinel, e, "unused slot %d must hold the sentinel", i)
					continue
				}
				for _, b := range bounds {
					if b.left {
						require.LessOrEqual(t, e.Position[b.axis], b.threshold, "entry %d left of plane", e.ID)
					} else {
						if shared {
							require.GreaterOrEqual(t, e.Position[b.axis], b.threshold, "entry %d right of plane", e.ID)
						} else {
							require.Greater(t, e.Position[b.axis], b.threshold, "entry %d right of plane", e.ID)
						}
					}
				}
				_, dup := seen[e.ID]
				require.False(t, dup, "id %d stored twice", e.ID)
				seen[e.ID] = e.Position
			}
		default:
			t.Fatalf("node %d has kind %d", at, n.kind)
		}
	}
	walk(tree.root, 0, nil)
	require.Len(t, seen, tree.Len())
	for id := 0; id < tree.Len(); id++ {
		require.Contains(t, seen, id)
	}
	return seen
}
