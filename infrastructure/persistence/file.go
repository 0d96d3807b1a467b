package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// FileStore writes each dataset to <dir>/<dataset>.json. A save replaces
// the file atomically: temp file in the same directory, fsync, rename.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: data directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file backing a dataset.
func (s *FileStore) Path(dataset valueobjects.DatasetName) string {
	return filepath.Join(s.dir, string(dataset)+".json")
}

func (s *FileStore) Load(_ context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	data, err := os.ReadFile(s.Path(dataset))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
		}
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	snap, err := codec.Decode(data)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	return snap, nil
}

func (s *FileStore) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := codec.Encode(snap)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(s.Path(dataset), data); err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
