package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/commands"
	"github.com/YuDongZhang/InterviewQuestion/application/commands/bus"
	"github.com/YuDongZhang/InterviewQuestion/pkg/api"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// RecordHandler turns record requests into commands.
type RecordHandler struct {
	commandBus *bus.CommandBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(commandBus *bus.CommandBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{commandBus: commandBus, errors: errors, logger: logger}
}

// UpdateRecordRequest is the body of PUT .../records/{index}
type UpdateRecordRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Detail   string `json:"detail"`
}

// ConfirmRequest is the optional body of destructive requests.
type ConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

// BatchDeleteRequest is the body of POST .../records/batch-delete
type BatchDeleteRequest struct {
	Indices   []int `json:"indices"`
	Confirmed bool  `json:"confirmed"`
}

func target(r *http.Request, confirmed bool) commands.TargetFields {
	return commands.TargetFields{
		Dataset:   chi.URLParam(r, "dataset"),
		Category:  chi.URLParam(r, "category"),
		Confirmed: confirmed || confirmedQuery(r),
	}
}

// send runs cmd and answers with the resulting list.
func (h *RecordHandler) send(w http.ResponseWriter, r *http.Request, status int, cmd commands.RecordCommand, fields *commands.TargetFields) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	api.Success(w, status, RecordsResponse{
		Dataset:  fields.Dataset,
		Category: fields.Category,
		Records:  fields.Result,
	})
}

// AddRecord handles POST .../records
func (h *RecordHandler) AddRecord(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.AddRecordCommand{TargetFields: target(r, false)}
	h.send(w, r, http.StatusCreated, cmd, &cmd.TargetFields)
}

// UpdateRecord handles PUT .../records/{index}
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var req UpdateRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := &commands.UpdateRecordCommand{
		TargetFields: target(r, false),
		Index:        index,
		Question:     req.Question,
		Answer:       req.Answer,
		Detail:       req.Detail,
	}
	h.send(w, r, http.StatusOK, cmd, &cmd.TargetFields)
}

// InsertAfter handles POST .../records/{index}/insert-after
func (h *RecordHandler) InsertAfter(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	cmd := &commands.InsertRecordCommand{TargetFields: target(r, false), Index: index}
	h.send(w, r, http.StatusCreated, cmd, &cmd.TargetFields)
}

// DeleteRecord handles DELETE .../records/{index}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var req ConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := &commands.DeleteRecordCommand{TargetFields: target(r, req.Confirmed), Index: index}
	h.send(w, r, http.StatusOK, cmd, &cmd.TargetFields)
}

// BatchDelete handles POST .../records/batch-delete
func (h *RecordHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := &commands.BatchDeleteRecordsCommand{TargetFields: target(r, req.Confirmed), Indices: req.Indices}
	h.send(w, r, http.StatusOK, cmd, &cmd.TargetFields)
}
