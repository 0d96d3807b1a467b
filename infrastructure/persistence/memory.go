package persistence

import (
	"context"
	"sync"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// MemoryStore keeps snapshots in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[valueobjects.DatasetName]aggregates.Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[valueobjects.DatasetName]aggregates.Snapshot)}
}

func (m *MemoryStore) Load(_ context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.data[dataset]
	if !ok {
		return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
	}
	return snap.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[dataset] = snap.Clone()
	m.mu.Unlock()
	return nil
}
