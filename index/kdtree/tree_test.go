package kdtree

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/index/bruteforce"
	"github.com/viant/bluenoise/spatial"
)

func TestTree_ThreePointScenario(t *testing.T) {
	tree, err := New(3, spatial.SqEuclidean)
	require.NoError(t, err)
	require.Equal(t, 2, tree.LeafCapacity())

	for _, p := range []spatial.Point{
		spatial.NewPoint(0, 0, 0),
		spatial.NewPoint(10, 0, 0),
		spatial.NewPoint(0, 10, 0),
	} {
		_, err := tree.Insert(p)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tree.Splits())
	assert.Equal(t, splitNode, tree.nodes[tree.root].kind)
	checkInvariants(t, tree)

	got, ok := tree.FindNearest(spatial.NewPoint(1, 0, 0))
	require.True(t, ok)
	assert.Equal(t, index.Neighbor{ID: 0, Distance: 1}, got)
}

func TestTree_EmptyQuery(t *testing.T) {
	tree, err := New(10, spatial.SqEuclidean)
	require.NoError(t, err)

	got, ok := tree.FindNearest(spatial.Origin())
	assert.False(t, ok)
	assert.Equal(t, index.NoID, got.ID)
	assert.True(t, math.IsInf(float64(got.Distance), 1))
}

func TestTree_LeafCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		opts     []Option
		leaf     int
		pivot    int
	}{
		{"tiny", 1, nil, 2, 1},
		{"below one percent of 200", 199, nil, 2, 1},
		{"three", 300, nil, 3, 2},
		{"thousand", 1000, nil, 10, 5},
		{"override", 1000, []Option{WithLeafCapacity(7)}, 7, 4},
		{"override raised", 1000, []Option{WithLeafCapacity(1)}, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := New(tt.capacity, spatial.SqEuclidean, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.leaf, tree.LeafCapacity())
			assert.Equal(t, tt.pivot, tree.pivot)
			assert.Equal(t, tt.capacity, tree.Capacity())
		})
	}
}

func TestTree_MonotonicIDsAndInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	points := randomPoints(rng, 2000, 50)
	tree, err := New(len(points), spatial.SqEuclidean, WithLeafCapacity(8))
	require.NoError(t, err)

	for i, p := range points {
		id, err := tree.Insert(p)
		require.NoError(t, err)
		require.Equal(t, i, id)
		if i%250 == 0 {
			checkInvariants(t, tree)
		}
	}
	stored := checkInvariants(t, tree)
	for id, p := range stored {
		assert.Equal(t, points[id], p)
	}
	assert.Positive(t, tree.Splits())
}

func TestTree_IdempotentQuery(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	tree, err := New(500, spatial.Euclidean)
	require.NoError(t, err)
	for _, p := range randomPoints(rng, 500, 10) {
		_, err := tree.Insert(p)
		require.NoError(t, err)
	}
	for _, q := range randomPoints(rng, 50, 12) {
		first, ok := tree.FindNearest(q)
		require.True(t, ok)
		second, _ := tree.FindNearest(q)
		assert.Equal(t, first, second)
	}
}

func TestTree_DegenerateAxisSplits(t *testing.T) {
	t.Run("incoming below shared coordinate", func(t *testing.T) {
		tree, err := New(10, spatial.SqEuclidean, WithLeafCapacity(2))
		require.NoError(t, err)
		for _, p := range []spatial.Point{
			spatial.NewPoint(1, 0, 0),
			spatial.NewPoint(1, 5, 0),
			spatial.NewPoint(0, 2, 0),
			spatial.NewPoint(1, 9, 9),
		} {
			_, err := tree.Insert(p)
			require.NoError(t, err)
		}
		root := tree.nodes[tree.root]
		require.Equal(t, splitNode, root.kind)
		assert.Equal(t, float32(0), root.threshold)
		checkInvariants(t, tree)

		got, ok := tree.FindNearest(spatial.NewPoint(0, 2, 0.5))
		require.True(t, ok)
		assert.Equal(t, 2, got.ID)
	})

	t.Run("incoming on shared coordinate", func(t *testing.T) {
		tree, err := New(10, spatial.SqEuclidean, WithLeafCapacity(2))
		require.NoError(t, err)
		for _, p := range []spatial.Point{
			spatial.NewPoint(1, 0, 0),
			spatial.NewPoint(1, 5, 0),
			spatial.NewPoint(1, 3, 0),
		} {
			_, err := tree.Insert(p)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, tree.Splits())
		checkInvariants(t, tree)

		got, ok := tree.FindNearest(spatial.NewPoint(1, 3.2, 0))
		require.True(t, ok)
		assert.Equal(t, 2, got.ID)
	})

	t.Run("integer grid", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(21, 34))
		points := gridPoints(rng, 6)
		tree, err := New(len(points), spatial.Chebyshev, WithLeafCapacity(4))
		require.NoError(t, err)
		for _, p := range points {
			_, err := tree.Insert(p)
			require.NoError(t, err)
		}
		checkInvariants(t, tree)
		for id, p := range points {
			got, ok := tree.FindNearest(p)
			require.True(t, ok)
			assert.Equal(t, id, got.ID)
			assert.Zero(t, got.Distance)
		}
	})
}

func TestTree_DuplicatePoints(t *testing.T) {
	tree, err := New(64, spatial.SqEuclidean, WithLeafCapacity(2))
	require.NoError(t, err)
	brute, err := bruteforce.New(64, spatial.SqEuclidean)
	require.NoError(t, err)

	p := spatial.NewPoint(2, 2, 2)
	q := spatial.NewPoint(2, 2, 3)
	sequence := []spatial.Point{p, p, p, q, p, q, q, p, spatial.Origin(), p, p, q}
	for i := 0; i < 3; i++ {
		sequence = append(sequence, sequence...)
	}
	sequence = sequence[:64]

	queries := []spatial.Point{p, q, spatial.Origin(), spatial.NewPoint(2, 2, 2.4), spatial.NewPoint(2, 2, 2.6), spatial.NewPoint(9, 9, 9)}
	for i, pt := range sequence {
		id, err := tree.Insert(pt)
		require.NoError(t, err, "insert %d", i)
		assert.Equal(t, i, id)
		_, err = brute.Insert(pt)
		require.NoError(t, err)

		for _, query := range queries {
			got, ok := tree.FindNearest(query)
			require.True(t, ok)
			want, _ := brute.FindNearest(query)
			assert.Equal(t, want.Distance, got.Distance, "query %v after %d inserts", query, i+1)
			assert.Equal(t, got.Distance, spatial.SqEuclidean(query, sequence[got.ID]))
		}
	}
	assert.Equal(t, len(sequence), tree.Len())
	assert.Positive(t, tree.Splits())
	stored := checkInvariants(t, tree)
	for id, pt := range sequence {
		assert.Equal(t, pt, stored[id])
	}
}

func TestTree_EquidistantTie(t *testing.T) {
	points := []spatial.Point{spatial.NewPoint(-1, 0, 0), spatial.NewPoint(1, 0, 0), spatial.NewPoint(5, 0, 0)}
	tree, err := New(len(points), spatial.SqEuclidean, WithLeafCapacity(2))
	require.NoError(t, err)
	brute, err := bruteforce.New(len(points), spatial.SqEuclidean)
	require.NoError(t, err)
	for _, p := range points {
		_, err := tree.Insert(p)
		require.NoError(t, err)
		_, err = brute.Insert(p)
		require.NoError(t, err)
	}

	got, ok := tree.FindNearest(spatial.Origin())
	require.True(t, ok)
	want, _ := brute.FindNearest(spatial.Origin())
	assert.Equal(t, index.Neighbor{ID: 0, Distance: 1}, want, "linear scan keeps the lowest id")
	assert.Equal(t, want.Distance, got.Distance)
	assert.Contains(t, []int{0, 1}, got.ID, "either equidistant point may be returned")
}

func TestTree_Errors(t *testing.T) {
	_, err := New(0, spatial.SqEuclidean)
	assert.Error(t, err)
	_, err = New(10, nil)
	assert.Error(t, err)

	tree, err := New(2, spatial.SqEuclidean)
	require.NoError(t, err)

	_, err = tree.Insert(spatial.NewPoint(float32(math.NaN()), 0, 0))
	assert.ErrorIs(t, err, index.ErrInvalidPoint)
	assert.Zero(t, tree.Len())

	for i := 0; i < 2; i++ {
		_, err := tree.Insert(spatial.NewPoint(float32(i), 0, 0))
		require.NoError(t, err)
	}
	_, err = tree.Insert(spatial.NewPoint(5, 0, 0))
	assert.ErrorIs(t, err, index.ErrCapacityExceeded)
	assert.Equal(t, 2, tree.Len())
	assert.NoError(t, tree.Build())
}

func TestTree_UnrecognizedNodeKindPanics(t *testing.T) {
	tree, err := New(10, spatial.SqEuclidean)
	require.NoError(t, err)
	_, err = tree.Insert(spatial.Origin())
	require.NoError(t, err)

	tree.nodes[tree.root].kind = 0
	assert.Panics(t, func() { tree.FindNearest(spatial.Origin()) })
	assert.Panics(t, func() { _, _ = tree.Insert(spatial.NewPoint(1, 1, 1)) })
}
