package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
)

// EventNotifier surfaces failed saves as dataset.save_failed events, which
// the websocket stream shows to the user as an alert.
type EventNotifier struct {
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventNotifier creates a notifier publishing through publisher
func NewEventNotifier(publisher ports.EventPublisher, logger *zap.Logger) *EventNotifier {
	return &EventNotifier{publisher: publisher, logger: logger, now: time.Now}
}

// Notify implements ports.Notifier
func (n *EventNotifier) Notify(ctx context.Context, dataset valueobjects.DatasetName, message string, cause error) {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}

	n.logger.Error(message,
		zap.String("dataset", string(dataset)),
		zap.Error(cause),
	)

	event := events.NewDatasetSaveFailed(dataset, message, reason, n.now())
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("Failed to publish save failure", zap.Error(err))
	}
}
