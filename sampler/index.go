package sampler

import (
	"fmt"
	"strings"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/index/bruteforce"
	"github.com/viant/bluenoise/index/kdtree"
	"github.com/viant/bluenoise/spatial"
)

// IndexKind selects the index implementation.
type IndexKind string

const (
	IndexAuto       IndexKind = "auto"
	IndexBruteForce IndexKind = "brute"
	IndexKdTree     IndexKind = "kdtree"
)

// AutoKdTreeMinPoints is the point count from which IndexAuto picks the k-d
// tree; below it the linear scan is cheaper.
const AutoKdTreeMinPoints = 256

// ParseIndexKind resolves an index kind name. The empty string means auto.
func ParseIndexKind(s string) (IndexKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return IndexAuto, nil
	case "brute", "bruteforce", "brute_force":
		return IndexBruteForce, nil
	case "kdtree", "kd", "kd_tree":
		return IndexKdTree, nil
	}
	return "", fmt.Errorf("%w: unsupported index %q", ErrInvalidConfig, s)
}

// ResolveIndexKind replaces IndexAuto by a concrete kind for count points.
func ResolveIndexKind(kind IndexKind, count int) IndexKind {
	switch kind {
	case IndexBruteForce, IndexKdTree:
		return kind
	}
	if count >= AutoKdTreeMinPoints {
		return IndexKdTree
	}
	return IndexBruteForce
}

// NewIndex builds an empty index of the given kind for capacity points.
func NewIndex(kind IndexKind, capacity int, metric spatial.Metric) (index.Index, error) {
	if ResolveIndexKind(kind, capacity) == IndexKdTree {
		tree, err := kdtree.New(capacity, metric)
		if err != nil {
			return nil, err
		}
		return tree, nil
	}
	brute, err := bruteforce.New(capacity, metric)
	if err != nil {
		return nil, err
	}
	return brute, nil
}
