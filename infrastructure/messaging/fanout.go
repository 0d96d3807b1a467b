// Package messaging delivers domain events to subscribers inside and outside
// the process.
package messaging

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
)

// FanOut publishes every event to all of its targets. A failing target does
// not stop delivery to the others.
type FanOut struct {
	targets []ports.EventPublisher
	logger  *zap.Logger
}

// NewFanOut creates a publisher over targets. Nil targets are skipped.
func NewFanOut(logger *zap.Logger, targets ...ports.EventPublisher) *FanOut {
	f := &FanOut{logger: logger}
	for _, t := range targets {
		if t != nil {
			f.targets = append(f.targets, t)
		}
	}
	return f
}

// Publish implements ports.EventPublisher
func (f *FanOut) Publish(ctx context.Context, event events.DomainEvent) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Publish(ctx, event); err != nil {
			f.logger.Warn("Event delivery failed",
				zap.String("eventType", event.GetEventType()),
				zap.String("dataset", event.GetAggregateID()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
