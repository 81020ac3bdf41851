package memory

import (
	"context"
	"sync"

	"github.com/dogmatiq/filejournal/journal"
)

// VersionStore is an implementation of [journal.VersionStore] that keeps the
// version in memory.
type VersionStore struct {
	m       sync.Mutex
	version int
	saves   int

	// BeforeSave, if non-nil, is called before the version is saved. If it
	// returns an error the version is not saved and the error is returned.
	BeforeSave func(v int) error
}

var _ journal.VersionStore = (*VersionStore)(nil)

// NewVersionStore returns a version store that is pre-populated with the
// given version.
func NewVersionStore(v int) *VersionStore {
	return &VersionStore{version: v}
}

// LoadVersion returns the persisted version.
func (s *VersionStore) LoadVersion(ctx context.Context) (int, error) {
	s.m.Lock()
	defer s.m.Unlock()

	return s.version, ctx.Err()
}

// SaveVersion persists the version.
func (s *VersionStore) SaveVersion(ctx context.Context, v int) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.BeforeSave != nil {
		if err := s.BeforeSave(v); err != nil {
			return err
		}
	}

	s.version = v
	s.saves++

	return ctx.Err()
}

// Saves returns the number of times the version has been saved.
func (s *VersionStore) Saves() int {
	s.m.Lock()
	defer s.m.Unlock()

	return s.saves
}
