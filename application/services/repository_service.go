package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// Reload sources.
const (
	SourceStore = "store"
	SourceSeed  = "seed"
)

// Target addresses one category list of one dataset.
type Target struct {
	Dataset  valueobjects.Dataset
	Category valueobjects.CategoryKey
}

// Validate rejects categories that do not belong to the dataset or that
// route to the gallery.
func (t Target) Validate() error {
	if t.Dataset == nil {
		return pkgerrors.NewValidationError("dataset is required")
	}
	if !valueobjects.Has(t.Dataset, t.Category) {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("category %q in dataset %q", t.Category, t.Dataset.Name()))
	}
	if valueobjects.IsGallery(t.Dataset, t.Category) {
		return pkgerrors.NewValidationError(fmt.Sprintf("category %q holds no records", t.Category))
	}
	return nil
}

// RepositoryService applies mutation intents to the in-memory store and
// hands every resulting snapshot to the persistence gateway.
type RepositoryService struct {
	store     *Store
	snapshots ports.SnapshotStore
	seeds     ports.Seeder
	gateway   ports.PersistenceGateway
	publisher ports.EventPublisher
	metrics   ports.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewRepositoryService creates a new repository service
func NewRepositoryService(
	store *Store,
	snapshots ports.SnapshotStore,
	seeds ports.Seeder,
	gateway ports.PersistenceGateway,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) *RepositoryService {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &RepositoryService{
		store:     store,
		snapshots: snapshots,
		seeds:     seeds,
		gateway:   gateway,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Bootstrap loads every dataset into the store.
func (s *RepositoryService) Bootstrap(ctx context.Context) error {
	for _, d := range valueobjects.Datasets() {
		if _, err := s.Reload(ctx, d.Name()); err != nil {
			return fmt.Errorf("bootstrap %s: %w", d.Name(), err)
		}
	}
	return nil
}

// Ready reports whether every dataset has been loaded.
func (s *RepositoryService) Ready() bool {
	for _, d := range valueobjects.Datasets() {
		if !s.store.Loaded(d.Name()) {
			return false
		}
	}
	return true
}

// Snapshot returns the current in-memory snapshot of a dataset.
func (s *RepositoryService) Snapshot(dataset valueobjects.DatasetName) aggregates.Snapshot {
	return s.store.Get(dataset)
}

// List projects one category of the current snapshot.
func (s *RepositoryService) List(target Target) []entities.Record {
	return s.store.Get(target.Dataset.Name()).List(target.Category)
}

// Apply runs one mutation against the target list. Destructive mutations
// ask confirmer first; a declined or missing confirmation leaves the store
// untouched. The new snapshot is handed to the gateway without waiting, so
// a failed write never rolls the edit back.
func (s *RepositoryService) Apply(ctx context.Context, target Target, m aggregates.Mutation, confirmer ports.Confirmer) ([]entities.Record, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	dataset := target.Dataset.Name()

	if m.Destructive() {
		if err := s.confirm(ctx, m, confirmer); err != nil {
			return nil, err
		}
	}

	// Enqueue under the cell lock so writes reach the gateway in the
	// order the snapshots were produced.
	next, err := s.store.Swap(dataset, func(cur aggregates.Snapshot) (aggregates.Snapshot, error) {
		next, err := m.Apply(cur, target.Category)
		if err != nil {
			return cur, err
		}
		s.gateway.Sync(ctx, dataset, next)
		return next, nil
	})
	if err != nil {
		s.logger.Debug("Mutation rejected",
			zap.String("dataset", string(dataset)),
			zap.String("category", string(target.Category)),
			zap.String("op", m.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordMutation(string(dataset), m.Name())
	s.logger.Info("Mutation applied",
		zap.String("dataset", string(dataset)),
		zap.String("category", string(target.Category)),
		zap.String("op", m.Name()),
		zap.Int("length", next.Len(target.Category)),
	)
	event := events.NewRecordsMutated(dataset, target.Category, m.Name(), next.Len(target.Category), s.now())
	event.Structural = m.Structural()
	s.publish(ctx, event)
	return next.List(target.Category), nil
}

func (s *RepositoryService) confirm(ctx context.Context, m aggregates.Mutation, confirmer ports.Confirmer) error {
	prompt := m.ConfirmPrompt()
	if confirmer == nil {
		return pkgerrors.NewConfirmationRequiredError(prompt)
	}
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return pkgerrors.Wrap(err, "confirmation prompt failed")
	}
	if !ok {
		return pkgerrors.NewConfirmationRequiredError(prompt)
	}
	return nil
}

// Replace overwrites a whole dataset. The write is queued and the cell
// swapped under the cell lock, so mutations that follow build on the
// replacement and their writes land after it. Replace then waits for its
// own write. When that write fails and the cell did not change since, it
// goes back to its previous value.
func (s *RepositoryService) Replace(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	var (
		prev aggregates.Snapshot
		done <-chan error
	)
	_, version, err := s.store.SwapVersion(dataset, func(cur aggregates.Snapshot) (aggregates.Snapshot, error) {
		var err error
		if done, err = s.gateway.Submit(ctx, dataset, snap); err != nil {
			return cur, err
		}
		prev = cur
		return snap, nil
	})
	if err != nil {
		return err
	}

	select {
	case err = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err != nil {
		if s.store.Restore(dataset, version, prev) {
			s.logger.Warn("Replace failed, previous dataset restored", zap.String("dataset", string(dataset)))
		}
		return err
	}

	s.logger.Info("Dataset replaced",
		zap.String("dataset", string(dataset)),
		zap.Int("records", snap.Count()),
	)
	s.publish(ctx, events.NewDatasetReplaced(dataset, snap.Count(), s.now()))
	return nil
}

// Reload re-reads a dataset from the snapshot store, falling back to the
// bundled seed when nothing was stored yet.
func (s *RepositoryService) Reload(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	snap, source, err := s.load(ctx, dataset)
	if err != nil {
		return aggregates.Snapshot{}, err
	}
	s.store.Set(dataset, snap)
	s.logger.Info("Dataset loaded",
		zap.String("dataset", string(dataset)),
		zap.String("source", source),
		zap.Int("records", snap.Count()),
	)
	s.publish(ctx, events.NewDatasetReloaded(dataset, source, s.now()))
	return snap, nil
}

// ReloadIfChanged reloads a dataset only when the stored value differs from
// memory and none of our writes is still pending. A pending write means the
// store is behind memory and will be overwritten anyway, so our own writes
// never trigger a reload.
func (s *RepositoryService) ReloadIfChanged(ctx context.Context, dataset valueobjects.DatasetName) (bool, error) {
	changed := false
	_, err := s.store.Swap(dataset, func(cur aggregates.Snapshot) (aggregates.Snapshot, error) {
		if n := s.gateway.Pending(dataset); n > 0 {
			s.logger.Debug("Skipping reload while writes are pending",
				zap.String("dataset", string(dataset)),
				zap.Int("pending", n),
			)
			return cur, nil
		}
		stored, err := s.snapshots.Load(ctx, dataset)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return cur, nil
			}
			return cur, err
		}
		if stored.Equal(cur) {
			return cur, nil
		}
		changed = true
		return stored, nil
	})
	if err != nil || !changed {
		return false, err
	}
	s.logger.Info("Dataset changed on disk, reloaded", zap.String("dataset", string(dataset)))
	s.publish(ctx, events.NewDatasetReloaded(dataset, SourceStore, s.now()))
	return true, nil
}

func (s *RepositoryService) load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, string, error) {
	snap, err := s.snapshots.Load(ctx, dataset)
	if err == nil {
		return snap, SourceStore, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return aggregates.Snapshot{}, "", pkgerrors.Wrapf(err, "load %s", dataset)
	}
	if s.seeds == nil {
		return aggregates.EmptySnapshot(), SourceSeed, nil
	}
	seed, err := s.seeds.Seed(dataset)
	if err != nil {
		return aggregates.Snapshot{}, "", fmt.Errorf("seed %s: %w", dataset, err)
	}
	return seed, SourceSeed, nil
}

func (s *RepositoryService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}
