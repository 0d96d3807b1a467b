package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/commands"
	"github.com/YuDongZhang/InterviewQuestion/application/commands/bus"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
)

// RecordHandler maps every record command onto a mutation of the
// repository service.
type RecordHandler struct {
	service *services.RepositoryService
	logger  *zap.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(service *services.RepositoryService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{service: service, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *RecordHandler) Handle(ctx context.Context, cmd bus.Command) error {
	rc, ok := cmd.(commands.RecordCommand)
	if !ok {
		return fmt.Errorf("unsupported command %T", cmd)
	}

	target, err := rc.Target()
	if err != nil {
		return err
	}

	records, err := h.service.Apply(ctx, target, rc.Mutation(), rc.Confirmer())
	if err != nil {
		return err
	}
	rc.SetResult(records)
	return nil
}

// Register binds the handler to every record command on b.
func (h *RecordHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		(*commands.UpdateRecordCommand)(nil),
		(*commands.AddRecordCommand)(nil),
		(*commands.InsertRecordCommand)(nil),
		(*commands.DeleteRecordCommand)(nil),
		(*commands.BatchDeleteRecordsCommand)(nil),
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}
