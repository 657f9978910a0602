package store

import (
	"context"
	"errors"

	"github.com/viant/bluenoise/spatial"
)

// ErrNotFound is returned when resolving an id that was never placed.
var ErrNotFound = errors.New("store: object not found")

// Object is the external representation placed for an index id.
type Object struct {
	ID       int
	Position spatial.Point
}

// Store defines the object-store collaborator of a point index.
type Store interface {
	// Place records the object for id at position. Ids are placed in the
	// order the index assigned them.
	Place(ctx context.Context, id int, position spatial.Point) error

	// Resolve returns the object placed for id, or ErrNotFound.
	Resolve(ctx context.Context, id int) (Object, error)

	// Len returns the number of placed objects.
	Len(ctx context.Context) (int, error)
}
