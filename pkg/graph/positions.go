package graph

import "github.com/notegraph/notegraph/pkg/model"

// PositionSource looks up a remembered position for a node
type PositionSource interface {
	Get(id string) (model.Point, bool)
}

// PositionStore owns the session's node positions. Entries for notes that
// no longer exist are never read again and are left in place.
type PositionStore struct {
	pos map[string]model.Point
}

// NewPositionStore creates an empty store
func NewPositionStore() *PositionStore {
	return &PositionStore{pos: make(map[string]model.Point)}
}

// Get returns the stored position for id
func (s *PositionStore) Get(id string) (model.Point, bool) {
	p, ok := s.pos[id]
	return p, ok
}

// Set overwrites the position for id
func (s *PositionStore) Set(id string, p model.Point) {
	s.pos[id] = p
}

// SetAll overwrites every entry in positions and leaves the rest untouched
func (s *PositionStore) SetAll(positions map[string]model.Point) {
	for id, p := range positions {
		s.pos[id] = p
	}
}

// RebuildMissing fills in a position for every id that has none
func (s *PositionStore) RebuildMissing(ids []string, defaultFn func(index int) model.Point) {
	for i, id := range ids {
		if _, ok := s.pos[id]; !ok {
			s.pos[id] = defaultFn(i)
		}
	}
}

// Len returns the number of stored entries, stale ones included
func (s *PositionStore) Len() int {
	return len(s.pos)
}
