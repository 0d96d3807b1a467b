package persistence

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// TraceStore wraps a snapshot store with tracing
func TraceStore(inner ports.SnapshotStore, driver string) ports.SnapshotStore {
	return &tracedStore{
		inner:  inner,
		driver: driver,
		tracer: otel.Tracer("qbank/persistence"),
	}
}

type tracedStore struct {
	inner  ports.SnapshotStore
	driver string
	tracer trace.Tracer
}

func (s *tracedStore) Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "store.Load",
		trace.WithAttributes(
			attribute.String("store.driver", s.driver),
			attribute.String("dataset", string(dataset)),
		),
	)
	defer span.End()

	snap, err := s.inner.Load(ctx, dataset)
	if err != nil && !pkgerrors.IsNotFound(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
	}
	return snap, err
}

func (s *tracedStore) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "store.Save",
		trace.WithAttributes(
			attribute.String("store.driver", s.driver),
			attribute.String("dataset", string(dataset)),
			attribute.Int("records", snap.Count()),
		),
	)
	defer span.End()

	err := s.inner.Save(ctx, dataset, snap)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
	}
	return err
}
