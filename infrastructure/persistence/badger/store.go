// Package badger persists dataset snapshots in an embedded BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

const keyPrefix = "snapshot/"

// Config holds BadgerDB settings.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string
	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool
	// SyncWrites makes every commit durable before returning.
	SyncWrites bool
	// Logger receives BadgerDB's internal log lines. Nil disables them.
	Logger *zap.Logger
}

// DefaultConfig returns an on-disk configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts zap to BadgerDB's Logger interface.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.s.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.s.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.s.Infof(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.s.Debugf(format, args...) }

// Store keeps each snapshot under key snapshot/<dataset>.
type Store struct {
	db *badger.DB
}

// Open opens the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("badger: path required unless in-memory")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{s: cfg.Logger.Named("badger").Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func key(dataset valueobjects.DatasetName) []byte {
	return []byte(keyPrefix + string(dataset))
}

func (s *Store) Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return aggregates.Snapshot{}, err
	}
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(dataset))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
	}
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	snap, err := codec.Decode(payload)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := codec.Encode(snap)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(dataset), data)
	}); err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	return nil
}

// Datasets lists the datasets that have a stored snapshot.
func (s *Store) Datasets(ctx context.Context) ([]valueobjects.DatasetName, error) {
	var out []valueobjects.DatasetName
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			k := string(it.Item().Key())
			out = append(out, valueobjects.DatasetName(k[len(keyPrefix):]))
		}
		return nil
	})
	return out, err
}
