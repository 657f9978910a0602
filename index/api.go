package index

import (
	"errors"
	"math"

	"github.com/viant/bluenoise/spatial"
)

// NoID is the id reported when a query finds no stored point.
const NoID = -1

var (
	// ErrCapacityExceeded is returned by Insert once the configured capacity
	// is used up. Callers must size the capacity up front.
	ErrCapacityExceeded = errors.New("index: capacity exceeded")

	// ErrInvalidPoint is returned when inserting a point with a NaN or
	// infinite coordinate.
	ErrInvalidPoint = errors.New("index: point has non-finite coordinates")
)

// Neighbor is the result of a nearest-neighbor query.
type Neighbor struct {
	ID       int
	Distance float32
}

// NotFound is the result of querying an empty index.
var NotFound = Neighbor{ID: NoID, Distance: float32(math.Inf(1))}

// Index defines the capability contract of a point index that supports
// interleaved insertion and nearest-neighbor search under an injected metric.
// Implementations are not safe for concurrent use.
type Index interface {
	// Insert stores position and returns its id. Ids start at 0 and increase
	// by one per successful insert.
	Insert(position spatial.Point) (int, error)

	// FindNearest returns the stored point closest to query under the index
	// metric. It returns NotFound and false when the index is empty.
	FindNearest(query spatial.Point) (Neighbor, bool)

	// Build finalizes the index after a batch of inserts.
	Build() error

	// Len returns the number of stored points.
	Len() int
}
