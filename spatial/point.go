package spatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dimensions is the number of coordinates in a Point.
const Dimensions = 3

// Point is a 3D coordinate (x, y, z). The y axis is "up"; the sampler draws
// its disc in the x/z plane.
type Point [Dimensions]float32

// NewPoint constructs a point from its coordinates.
func NewPoint(x, y, z float32) Point { return Point{x, y, z} }

// Origin returns the point (0, 0, 0).
func Origin() Point { return Point{} }

// Infinity returns the point with +Inf on every axis. Index buckets use it to
// fill unused slots so they never win a nearest-neighbor comparison.
func Infinity() Point {
	inf := float32(math.Inf(1))
	return Point{inf, inf, inf}
}

func (p Point) X() float32 { return p[0] }
func (p Point) Y() float32 { return p[1] }
func (p Point) Z() float32 { return p[2] }

// WithAxis returns a copy of p with the coordinate on axis replaced by v.
func (p Point) WithAxis(axis int, v float32) Point {
	p[axis] = v
	return p
}

// IsFinite reports whether every coordinate is neither NaN nor infinite.
func (p Point) IsFinite() bool {
	for _, v := range p {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	return "(" + format(p[0]) + "," + format(p[1]) + "," + format(p[2]) + ")"
}

func format(v float32) string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }

// ParsePoint parses "x,y,z", optionally wrapped in parentheses or brackets.
func ParsePoint(s string) (Point, error) {
	var p Point
	raw := strings.Trim(strings.TrimSpace(s), "()[]")
	parts := strings.Split(raw, ",")
	if len(parts) != Dimensions {
		return p, fmt.Errorf("spatial: point %q must have %d comma separated coordinates", s, Dimensions)
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return p, fmt.Errorf("spatial: point %q: %w", s, err)
		}
		p[i] = float32(v)
	}
	return p, nil
}
