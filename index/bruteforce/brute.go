package bruteforce

import (
	"errors"
	"fmt"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/spatial"
)

// Index is a brute-force point index. The id of a point is its position in
// the list.
type Index struct {
	positions []spatial.Point
	capacity  int
	metric    spatial.Metric
}

// New creates an index holding at most capacity points compared with metric.
func New(capacity int, metric spatial.Metric) (*Index, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("bruteforce: invalid capacity %d", capacity)
	}
	if metric == nil {
		return nil, errors.New("bruteforce: metric is nil")
	}
	return &Index{
		positions: make([]spatial.Point, 0, capacity),
		capacity:  capacity,
		metric:    metric,
	}, nil
}

// Insert appends position and returns its id.
func (i *Index) Insert(position spatial.Point) (int, error) {
	if !position.IsFinite() {
		return index.NoID, fmt.Errorf("bruteforce: insert %v: %w", position, index.ErrInvalidPoint)
	}
	if len(i.positions) == i.capacity {
		return index.NoID, fmt.Errorf("bruteforce: insert beyond %d points: %w", i.capacity, index.ErrCapacityExceeded)
	}
	i.positions = append(i.positions, position)
	return len(i.positions) - 1, nil
}

// FindNearest scans every stored point. Ties keep the lowest id.
func (i *Index) FindNearest(query spatial.Point) (index.Neighbor, bool) {
	if len(i.positions) == 0 {
		return index.NotFound, false
	}
	best := index.NotFound
	for id, position := range i.positions {
		if d := i.metric(query, position); d < best.Distance {
			best = index.Neighbor{ID: id, Distance: d}
		}
	}
	return best, true
}

// Build is a no-op; the list is always ready to query.
func (i *Index) Build() error { return nil }

// Len returns the number of stored points.
func (i *Index) Len() int { return len(i.positions) }

// Position returns the stored position for id.
func (i *Index) Position(id int) (spatial.Point, bool) {
	if id < 0 || id >= len(i.positions) {
		return spatial.Point{}, false
	}
	return i.positions[id], true
}

var _ index.Index = (*Index)(nil)
