package kdtree

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/spatial"
)

const (
	// SentinelID marks an unused bucket slot.
	SentinelID = math.MaxInt

	// leafFraction sizes leaf buckets relative to the expected capacity.
	leafFraction = 0.01
	minLeafSize  = 2

	noNode = -1
)

// Entry is a stored point and its id.
type Entry struct {
	ID       int
	Position spatial.Point
}

var sentinel = Entry{ID: SentinelID, Position: spatial.Infinity()}

type nodeKind uint8

const (
	leafNode nodeKind = iota + 1
	splitNode
)

// node is a tagged union: leaf buckets use entries/count, split nodes use
// axis/threshold/left/right.
type node struct {
	kind nodeKind

	entries []Entry
	count   int

	axis      int
	threshold float32
	left      int
	right     int
}

func (n *node) add(e Entry) bool {
	if n.count == len(n.entries) {
		return false
	}
	n.entries[n.count] = e
	n.count++
	return true
}

type options struct {
	leafCapacity int
}

// Option configures a Tree.
type Option func(*options)

// WithLeafCapacity overrides the bucket size derived from the capacity.
// Values below 2 are raised to 2.
func WithLeafCapacity(n int) Option {
	return func(o *options) { o.leafCapacity = n }
}

// Tree is a bucketed point k-d tree. It is not safe for concurrent use.
type Tree struct {
	nodes        []node
	root         int
	capacity     int
	leafCapacity int
	pivot        int
	metric       spatial.Metric
	size         int
	splits       int
	scratch      []Entry
}

// New creates a tree expecting at most capacity points compared with metric.
func New(capacity int, metric spatial.Metric, opts ...Option) (*Tree, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("kdtree: invalid capacity %d", capacity)
	}
	if metric == nil {
		return nil, errors.New("kdtree: metric is nil")
	}
	o := options{leafCapacity: int(math.Floor(float64(capacity) * leafFraction))}
	for _, opt := range opts {
		opt(&o)
	}
	leafCapacity := max(minLeafSize, o.leafCapacity)
	return &Tree{
		root:         noNode,
		capacity:     capacity,
		leafCapacity: leafCapacity,
		pivot:        (leafCapacity + 1) / 2,
		metric:       metric,
		scratch:      make([]Entry, 0, leafCapacity),
	}, nil
}

// Capacity returns the maximum number of points.
func (t *Tree) Capacity() int { return t.capacity }

// LeafCapacity returns the number of slots in each leaf bucket.
func (t *Tree) LeafCapacity() int { return t.leafCapacity }

// Len returns the number of stored points.
func (t *Tree) Len() int { return t.size }

// Splits returns how many leaf buckets have been split so far.
func (t *Tree) Splits() int { return t.splits }

// Build is a no-op; the tree is maintained incrementally.
func (t *Tree) Build() error { return nil }

// Insert stores position and returns its id.
func (t *Tree) Insert(position spatial.Point) (int, error) {
	if !position.IsFinite() {
		return index.NoID, fmt.Errorf("kdtree: insert %v: %w", position, index.ErrInvalidPoint)
	}
	if t.size == t.capacity {
		return index.NoID, fmt.Errorf("kdtree: insert beyond %d points: %w", t.capacity, index.ErrCapacityExceeded)
	}
	e := Entry{ID: t.size, Position: position}
	if t.root == noNode {
		t.root = t.newLeaf(nil)
		t.nodes[t.root].add(e)
	} else {
		t.insert(e)
	}
	t.size++
	return e.ID, nil
}

func (t *Tree) insert(e Entry) {
	at, depth := t.root, 0
	for {
		n := &t.nodes[at]
		switch n.kind {
		case splitNode:
			if e.Position[n.axis] > n.threshold {
				at = n.right
			} else {
				at = n.left
			}
			depth++
		case leafNode:
			if n.add(e) {
				return
			}
			// at becomes a split node; the next iteration descends into it.
			t.split(at, depth%spatial.Dimensions, e.Position)
		default:
			panic(fmt.Sprintf("kdtree: unrecognized node kind %d", n.kind))
		}
	}
}

// newLeaf appends a sentinel-filled bucket holding entries to the arena.
func (t *Tree) newLeaf(entries []Entry) int {
	slots := make([]Entry, t.leafCapacity)
	for i := range slots {
		slots[i] = sentinel
	}
	copy(slots, entries)
	t.nodes = append(t.nodes, node{kind: leafNode, entries: slots, count: len(entries)})
	return len(t.nodes) - 1
}

// split replaces the full leaf at with a split node on axis and two leaves
// holding its entries.
func (t *Tree) split(at, axis int, incoming spatial.Point) {
	leaf := &t.nodes[at]
	live := leaf.entries[:leaf.count]
	sorted := append(t.scratch[:0], live...)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Position[axis], b.Position[axis]), cmp.Compare(a.ID, b.ID))
	})
	var cut int
	var threshold float32
	if coincident(live, incoming) {
		// no plane separates copies of one point: split by rank and let the
		// right child hold entries equal to the threshold
		cut, threshold = t.pivot, incoming[axis]
	} else {
		cut, threshold = t.cut(sorted, axis, incoming[axis])
	}
	left := t.newLeaf(sorted[:cut])
	right := t.newLeaf(sorted[cut:])
	t.nodes[at] = node{kind: splitNode, axis: axis, threshold: threshold, left: left, right: right}
	t.scratch = sorted
	t.splits++
}

// cut returns how many of the sorted entries go to the left child and the
// threshold separating them: left <= threshold < right.
func (t *Tree) cut(sorted []Entry, axis int, incoming float32) (int, float32) {
	n := len(sorted)
	cut := t.pivot
	threshold := sorted[cut-1].Position[axis]
	// entries tying the threshold stay left
	for cut < n && sorted[cut].Position[axis] == threshold {
		cut++
	}
	if cut < n {
		return cut, threshold
	}
	// the tie run reaches the end; cut in front of it instead
	for cut > 0 && sorted[cut-1].Position[axis] == threshold {
		cut--
	}
	switch {
	case cut > 0:
		return cut, sorted[cut-1].Position[axis]
	case incoming < threshold:
		// the whole bucket shares one coordinate; leave the left child empty
		// for the incoming point
		return 0, incoming
	default:
		return n, threshold
	}
}

func coincident(entries []Entry, p spatial.Point) bool {
	for _, e := range entries {
		if e.Position != p {
			return false
		}
	}
	return true
}

var _ index.Index = (*Tree)(nil)
