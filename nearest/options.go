package nearest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/bluenoise/sampler"
	"github.com/viant/bluenoise/spatial"
	"github.com/viant/bluenoise/store"
)

// DefaultCapacity is the index capacity used when none is configured.
const DefaultCapacity = 1 << 16

type options struct {
	source   string
	kind     sampler.IndexKind
	metric   spatial.DistanceFunction
	capacity int
}

func defaultOptions() options {
	return options{
		source:   store.PointsTable,
		kind:     sampler.IndexAuto,
		metric:   spatial.DistanceFunctionSqEuclidean,
		capacity: DefaultCapacity,
	}
}

// parseOptions reads key=value module arguments:
// table, index, metric and capacity.
func parseOptions(args []string) (options, error) {
	opts := defaultOptions()
	for _, raw := range args {
		a := strings.TrimSpace(raw)
		if a == "" {
			continue
		}
		key, val, ok := strings.Cut(a, "=")
		if !ok {
			return opts, fmt.Errorf("bn_nearest: expected key=value, got %q", a)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.Trim(strings.TrimSpace(val), `'"`)
		switch key {
		case "table", "source":
			if val == "" || sanitizeName(val) != val {
				return opts, fmt.Errorf("bn_nearest: invalid table name %q", val)
			}
			opts.source = val
		case "index":
			kind, err := sampler.ParseIndexKind(val)
			if err != nil {
				return opts, fmt.Errorf("bn_nearest: %w", err)
			}
			opts.kind = kind
		case "metric", "distance":
			fn, err := spatial.ParseDistanceFunction(val)
			if err != nil {
				return opts, fmt.Errorf("bn_nearest: %w", err)
			}
			opts.metric = fn
		case "capacity":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return opts, fmt.Errorf("bn_nearest: invalid capacity %q", val)
			}
			opts.capacity = n
		default:
			return opts, fmt.Errorf("bn_nearest: unknown option %q", key)
		}
	}
	return opts, nil
}

// sanitizeName keeps identifier characters and the schema separator.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
