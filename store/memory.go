package store

import (
	"context"
	"fmt"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/spatial"
)

// MemoryStore keeps objects in a fixed-capacity slice indexed by id.
type MemoryStore struct {
	objects []Object
}

// NewMemoryStore creates a store for at most capacity objects.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{objects: make([]Object, 0, capacity)}
}

// Place appends the object for id; id must be the next sequential id.
func (s *MemoryStore) Place(_ context.Context, id int, position spatial.Point) error {
	if len(s.objects) == cap(s.objects) {
		return fmt.Errorf("store: place %d: %w", id, index.ErrCapacityExceeded)
	}
	if id != len(s.objects) {
		return fmt.Errorf("store: place %d out of order, next id is %d", id, len(s.objects))
	}
	s.objects = append(s.objects, Object{ID: id, Position: position})
	return nil
}

// Resolve returns the object placed for id.
func (s *MemoryStore) Resolve(_ context.Context, id int) (Object, error) {
	if id < 0 || id >= len(s.objects) {
		return Object{}, fmt.Errorf("store: resolve %d: %w", id, ErrNotFound)
	}
	return s.objects[id], nil
}

// Len returns the number of placed objects.
func (s *MemoryStore) Len(context.Context) (int, error) { return len(s.objects), nil }

// Objects returns the placed objects in id order.
func (s *MemoryStore) Objects() []Object { return append([]Object(nil), s.objects...) }

var _ Store = (*MemoryStore)(nil)
