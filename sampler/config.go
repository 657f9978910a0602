package sampler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/bluenoise/spatial"
)

// ErrInvalidConfig is returned for configurations that cannot be sampled.
var ErrInvalidConfig = errors.New("sampler: invalid config")

const (
	DefaultTargetCount      = 512
	DefaultSampleMultiplier = 1
	DefaultRegionRadius     = 50
	DefaultRegionHeight     = 5
)

// Config describes one sampling run.
type Config struct {
	// TargetCount is the total number of points, seed included.
	TargetCount int
	// SampleMultiplier scales the candidate batch: slot i draws
	// i*SampleMultiplier+1 candidates.
	SampleMultiplier int
	// RegionRadius is the radius of the disc in the x/z plane.
	RegionRadius float32
	// RegionHeight is the extent along y, centered on 0.
	RegionHeight float32
	// Seed is the first point, inserted unconditionally.
	Seed spatial.Point

	// Index and Distance select the index built by Generate.
	Index    IndexKind
	Distance spatial.DistanceFunction
}

// DefaultConfig returns the default configuration: 512 points in a cylinder
// of radius 50 and height 5, seeded at the origin, squared Euclidean
// distance, index chosen automatically.
func DefaultConfig() Config {
	return Config{
		TargetCount:      DefaultTargetCount,
		SampleMultiplier: DefaultSampleMultiplier,
		RegionRadius:     DefaultRegionRadius,
		RegionHeight:     DefaultRegionHeight,
		Seed:             spatial.Origin(),
		Index:            IndexAuto,
		Distance:         spatial.DistanceFunctionSqEuclidean,
	}
}

// Validate reports whether c can be sampled.
func (c Config) Validate() error {
	switch {
	case c.TargetCount < 1:
		return fmt.Errorf("%w: target count %d", ErrInvalidConfig, c.TargetCount)
	case c.SampleMultiplier < 0:
		return fmt.Errorf("%w: sample multiplier %d", ErrInvalidConfig, c.SampleMultiplier)
	case c.RegionRadius < 0 || c.RegionHeight < 0:
		return fmt.Errorf("%w: region radius %v, height %v", ErrInvalidConfig, c.RegionRadius, c.RegionHeight)
	case !c.Seed.IsFinite():
		return fmt.Errorf("%w: seed %v", ErrInvalidConfig, c.Seed)
	}
	if _, err := ParseIndexKind(string(c.Index)); err != nil {
		return err
	}
	if c.Distance.Function() == nil {
		return fmt.Errorf("%w: distance function %q", ErrInvalidConfig, c.Distance)
	}
	return nil
}

// ParseConfig builds a Config from DefaultConfig and key=value arguments:
//
//	count=1024 multiplier=2 radius=50 height=5 seed=0,0,0 index=kdtree metric=euclidean
func ParseConfig(args []string) (Config, error) {
	cfg := DefaultConfig()
	for _, raw := range args {
		a := strings.TrimSpace(raw)
		if a == "" {
			continue
		}
		key, val, ok := strings.Cut(a, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidConfig, a)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		var err error
		switch key {
		case "count", "n":
			cfg.TargetCount, err = strconv.Atoi(val)
		case "multiplier", "sample_multiplier":
			cfg.SampleMultiplier, err = strconv.Atoi(val)
		case "radius":
			cfg.RegionRadius, err = parseFloat32(val)
		case "height":
			cfg.RegionHeight, err = parseFloat32(val)
		case "seed":
			cfg.Seed, err = spatial.ParsePoint(val)
		case "index":
			cfg.Index, err = ParseIndexKind(val)
		case "metric", "distance":
			cfg.Distance, err = spatial.ParseDistanceFunction(val)
		default:
			err = fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, a, err)
		}
	}
	return cfg, cfg.Validate()
}

func parseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}
