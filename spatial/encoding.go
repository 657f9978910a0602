package spatial

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodedSize is the length in bytes of an encoded Point.
const EncodedSize = Dimensions * 4

// EncodePoint encodes p as a little-endian sequence of three IEEE 754
// float32 values, suitable for a SQLite BLOB column.
func EncodePoint(p Point) []byte {
	b := make([]byte, EncodedSize)
	for i, v := range p {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodePoint decodes a BLOB produced by EncodePoint.
func DecodePoint(b []byte) (Point, error) {
	var p Point
	if len(b) != EncodedSize {
		return p, fmt.Errorf("spatial: invalid point blob length %d, want %d", len(b), EncodedSize)
	}
	for i := range p {
		p[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return p, nil
}
