package ports

import (
	"context"
	"time"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
)

// SnapshotStore is durable storage for whole datasets.
// Load returns a NOT_FOUND AppError when nothing has been stored yet.
type SnapshotStore interface {
	Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error)
	Save(ctx context.Context, dataset valueobjects.DatasetName, snapshot aggregates.Snapshot) error
}

// Seeder provides the bundled starting snapshot of a dataset.
type Seeder interface {
	Seed(dataset valueobjects.DatasetName) (aggregates.Snapshot, error)
}

// Confirmer is the blocking yes/no prompt asked before destructive mutations.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Confirmed answers every prompt with the given value.
func Confirmed(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return answer, nil })
}

// Notifier surfaces a failed save to the user. It must not block for long.
type Notifier interface {
	Notify(ctx context.Context, dataset valueobjects.DatasetName, message string, cause error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// PersistenceGateway turns snapshots into durable writes.
type PersistenceGateway interface {
	// Sync schedules a write and returns immediately.
	Sync(ctx context.Context, dataset valueobjects.DatasetName, snapshot aggregates.Snapshot)
	// Submit schedules a write behind any pending ones. The channel yields
	// its result once the write finished.
	Submit(ctx context.Context, dataset valueobjects.DatasetName, snapshot aggregates.Snapshot) (<-chan error, error)
	// Pending counts the scheduled writes of dataset that have not finished.
	Pending(dataset valueobjects.DatasetName) int
}

// Metrics is the subset of instrumentation the application layer records.
type Metrics interface {
	RecordMutation(dataset, op string)
	RecordPersist(dataset, status string, duration time.Duration)
	SetQueueDepth(dataset string, depth int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordMutation(string, string)               {}
func (NopMetrics) RecordPersist(string, string, time.Duration) {}
func (NopMetrics) SetQueueDepth(string, int)                   {}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, events.DomainEvent) error { return nil }
