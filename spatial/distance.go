package spatial

import (
	"fmt"
	"strings"

	"github.com/viant/vec/search"
)

// Metric computes a distance (or squared distance) between two points. It
// must be non-negative and symmetric, and the value between a point and its
// projection onto an axis-aligned plane must never exceed the value between
// that point and anything on the far side of the plane.
type Metric func(a, b Point) float32

// DistanceFunction names a supported metric.
type DistanceFunction string

const (
	DistanceFunctionSqEuclidean   DistanceFunction = "sq_euclidean"
	DistanceFunctionEuclidean     DistanceFunction = "euclidean"
	DistanceFunctionSqRectilinear DistanceFunction = "sq_rectilinear"
	DistanceFunctionRectilinear   DistanceFunction = "rectilinear"
	DistanceFunctionChebyshev     DistanceFunction = "chebyshev"
	DistanceFunctionSqChebyshev   DistanceFunction = "sq_chebyshev"
)

// DistanceFunctions lists every supported metric name.
var DistanceFunctions = []DistanceFunction{
	DistanceFunctionSqEuclidean,
	DistanceFunctionEuclidean,
	DistanceFunctionSqRectilinear,
	DistanceFunctionRectilinear,
	DistanceFunctionChebyshev,
	DistanceFunctionSqChebyshev,
}

// Function resolves the callable metric, or nil for an unknown name.
func (d DistanceFunction) Function() Metric {
	switch d {
	case DistanceFunctionSqEuclidean:
		return SqEuclidean
	case DistanceFunctionEuclidean:
		return Euclidean
	case DistanceFunctionSqRectilinear:
		return SqRectilinear
	case DistanceFunctionRectilinear:
		return Rectilinear
	case DistanceFunctionChebyshev:
		return Chebyshev
	case DistanceFunctionSqChebyshev:
		return SqChebyshev
	default:
		return nil
	}
}

// ParseDistanceFunction resolves a metric name, accepting a few common aliases.
func ParseDistanceFunction(name string) (DistanceFunction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sq_euclidean", "sqeuclidean", "sq_l2", "l2sq":
		return DistanceFunctionSqEuclidean, nil
	case "euclidean", "l2":
		return DistanceFunctionEuclidean, nil
	case "sq_rectilinear", "sqrectilinear", "sq_manhattan":
		return DistanceFunctionSqRectilinear, nil
	case "rectilinear", "manhattan", "l1":
		return DistanceFunctionRectilinear, nil
	case "chebyshev", "linf":
		return DistanceFunctionChebyshev, nil
	case "sq_chebyshev", "sqchebyshev":
		return DistanceFunctionSqChebyshev, nil
	}
	return "", fmt.Errorf("spatial: unsupported distance function %q", name)
}

// SqEuclidean returns the squared Euclidean distance.
func SqEuclidean(a, b Point) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}

// Euclidean returns the Euclidean distance.
func Euclidean(a, b Point) float32 {
	return search.Float32s(a[:]).EuclideanDistance(b[:])
}

// Rectilinear returns the Manhattan (L1) distance.
func Rectilinear(a, b Point) float32 {
	return abs(a[0]-b[0]) + abs(a[1]-b[1]) + abs(a[2]-b[2])
}

// SqRectilinear returns the square of the Manhattan distance.
func SqRectilinear(a, b Point) float32 {
	d := Rectilinear(a, b)
	return d * d
}

// Chebyshev returns the largest per-axis absolute difference.
func Chebyshev(a, b Point) float32 {
	return max(abs(a[0]-b[0]), abs(a[1]-b[1]), abs(a[2]-b[2]))
}

// SqChebyshev returns the square of the Chebyshev distance.
func SqChebyshev(a, b Point) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return max(dx*dx, dy*dy, dz*dz)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
