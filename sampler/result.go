package sampler

import (
	"math"
	"time"

	"github.com/viant/bluenoise/spatial"
)

// Stats holds sampling counters.
type Stats struct {
	Points  int
	Queries int
	Elapsed time.Duration
}

// Result is a completed point set.
type Result struct {
	// Points are in acceptance order, the seed first.
	Points []spatial.Point
	// IDs are the index ids of Points.
	IDs   []int
	Stats Stats
}

// MinSeparation returns the smallest pairwise distance under metric, or +Inf
// for fewer than two points.
func (r *Result) MinSeparation(metric spatial.Metric) float32 {
	closest := float32(math.Inf(1))
	for i := range r.Points {
		for j := i + 1; j < len(r.Points); j++ {
			if d := metric(r.Points[i], r.Points[j]); d < closest {
				closest = d
			}
		}
	}
	return closest
}
