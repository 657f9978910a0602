package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	sqlite "modernc.org/sqlite"

	"github.com/viant/bluenoise/spatial"
)

// DistanceFunctionName is the SQL name of the scalar distance function:
//
//	bn_distance(metric TEXT, a BLOB, b BLOB) -> REAL
//
// metric is a spatial.DistanceFunction name and a, b are points encoded with
// spatial.EncodePoint. NULL points yield NULL.
const DistanceFunctionName = "bn_distance"

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterDistanceFunctions registers bn_distance with the driver so it is
// available on connections opened after this call. It is safe to call more
// than once.
func RegisterDistanceFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction(DistanceFunctionName, 3, distanceImpl)
	})
	return registerErr
}

func distanceImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("%s: expected 3 arguments, got %d", DistanceFunctionName, len(args))
	}
	name, err := asText(args[0])
	if err != nil {
		return nil, err
	}
	metric := spatial.DistanceFunction(name).Function()
	if metric == nil {
		return nil, fmt.Errorf("%s: unsupported metric %q", DistanceFunctionName, name)
	}
	a, ok, err := asPoint(args[1])
	if err != nil || !ok {
		return nil, err
	}
	b, ok, err := asPoint(args[2])
	if err != nil || !ok {
		return nil, err
	}
	return float64(metric(a, b)), nil
}

func asText(arg driver.Value) (string, error) {
	switch v := arg.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s: unsupported metric argument type %T; want TEXT", DistanceFunctionName, arg)
	}
}

func asPoint(arg driver.Value) (spatial.Point, bool, error) {
	switch v := arg.(type) {
	case nil:
		return spatial.Point{}, false, nil
	case []byte:
		p, err := spatial.DecodePoint(v)
		return p, err == nil, err
	default:
		return spatial.Point{}, false, fmt.Errorf("%s: unsupported argument type %T for point; want BLOB", DistanceFunctionName, arg)
	}
}
