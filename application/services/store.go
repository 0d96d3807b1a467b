package services

import (
	"sync"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

// Store holds the current snapshot of every dataset, one cell per dataset.
// It is the single source of truth for reads; the snapshot store behind the
// gateway may lag behind it after a failed write.
type Store struct {
	mu    sync.RWMutex
	cells map[valueobjects.DatasetName]aggregates.Snapshot
	// versions counts the changes of each cell.
	versions map[valueobjects.DatasetName]uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		cells:    make(map[valueobjects.DatasetName]aggregates.Snapshot),
		versions: make(map[valueobjects.DatasetName]uint64),
	}
}

// Get returns the current snapshot. A dataset never loaded is empty.
func (s *Store) Get(dataset valueobjects.DatasetName) aggregates.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.cells[dataset]
	if !ok {
		return aggregates.EmptySnapshot()
	}
	return snap
}

// Set replaces a cell wholesale.
func (s *Store) Set(dataset valueobjects.DatasetName, snap aggregates.Snapshot) {
	s.mu.Lock()
	s.cells[dataset] = snap
	s.versions[dataset]++
	s.mu.Unlock()
}

// Swap derives the next value of a cell under the write lock. When fn
// fails the cell keeps its current value.
func (s *Store) Swap(dataset valueobjects.DatasetName, fn func(aggregates.Snapshot) (aggregates.Snapshot, error)) (aggregates.Snapshot, error) {
	next, _, err := s.SwapVersion(dataset, fn)
	return next, err
}

// SwapVersion is Swap that also returns the version of the cell after the
// swap, for a later Restore.
func (s *Store) SwapVersion(dataset valueobjects.DatasetName, fn func(aggregates.Snapshot) (aggregates.Snapshot, error)) (aggregates.Snapshot, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.cells[dataset]
	if !ok {
		cur = aggregates.EmptySnapshot()
	}
	next, err := fn(cur)
	if err != nil {
		return cur, s.versions[dataset], err
	}
	s.cells[dataset] = next
	s.versions[dataset]++
	return next, s.versions[dataset], nil
}

// Restore sets a cell back to snap only if it has not changed since
// version. It reports whether it did.
func (s *Store) Restore(dataset valueobjects.DatasetName, version uint64, snap aggregates.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions[dataset] != version {
		return false
	}
	s.cells[dataset] = snap
	s.versions[dataset]++
	return true
}

// Loaded reports whether the dataset has been seeded.
func (s *Store) Loaded(dataset valueobjects.DatasetName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cells[dataset]
	return ok
}
