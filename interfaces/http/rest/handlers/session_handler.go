package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/application/session"
	"github.com/YuDongZhang/InterviewQuestion/pkg/api"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
	"github.com/YuDongZhang/InterviewQuestion/pkg/utils"
)

// SessionHandler exposes the editing session: navigation, item state,
// batch selection and the reset action.
type SessionHandler struct {
	service *session.Service
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *session.Service, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{service: service, errors: errors, logger: logger}
}

// SwitchDatasetRequest is the body of PUT /api/session/dataset
type SwitchDatasetRequest struct {
	Dataset string `json:"dataset" validate:"required"`
}

// SelectCategoryRequest is the body of PUT /api/session/category
type SelectCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

// SetFieldRequest is the body of PUT /api/session/items/{index}/field
type SetFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=question answer detail"`
	Value string `json:"value"`
}

func (h *SessionHandler) view(w http.ResponseWriter, r *http.Request, v session.View, err error) {
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, v)
}

// decodeValid decodes a required body and validates it.
func decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return utils.ValidateStruct(dst)
}

// GetState handles GET /api/session
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.service.State())
}

// GetView handles GET /api/session/view
func (h *SessionHandler) GetView(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.service.View())
}

// SwitchDataset handles PUT /api/session/dataset
func (h *SessionHandler) SwitchDataset(w http.ResponseWriter, r *http.Request) {
	var req SwitchDatasetRequest
	if err := decodeValid(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	v, err := h.service.SwitchDataset(req.Dataset)
	h.view(w, r, v, err)
}

// SelectCategory handles PUT /api/session/category
func (h *SessionHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req SelectCategoryRequest
	if err := decodeValid(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	v, err := h.service.SelectCategory(req.Category)
	h.view(w, r, v, err)
}

// itemAction adapts a session operation on one item to a handler.
func (h *SessionHandler) itemAction(fn func(index int) (session.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := indexParam(r)
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		v, err := fn(index)
		h.view(w, r, v, err)
	}
}

// ToggleItem handles POST /api/session/items/{index}/toggle
func (h *SessionHandler) ToggleItem() http.HandlerFunc { return h.itemAction(h.service.ToggleItem) }

// Click handles POST /api/session/items/{index}/click
func (h *SessionHandler) Click() http.HandlerFunc { return h.itemAction(h.service.Click) }

// ToggleDetail handles POST /api/session/items/{index}/detail
func (h *SessionHandler) ToggleDetail() http.HandlerFunc {
	return h.itemAction(h.service.ToggleDetail)
}

// BeginEdit handles POST /api/session/items/{index}/edit
func (h *SessionHandler) BeginEdit() http.HandlerFunc { return h.itemAction(h.service.BeginEdit) }

// CancelEdit handles POST /api/session/items/{index}/cancel
func (h *SessionHandler) CancelEdit() http.HandlerFunc { return h.itemAction(h.service.CancelEdit) }

// SetField handles PUT /api/session/items/{index}/field
func (h *SessionHandler) SetField(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var req SetFieldRequest
	if err := decodeValid(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	v, err := h.service.SetField(index, req.Field, req.Value)
	h.view(w, r, v, err)
}

// SaveItem handles POST /api/session/items/{index}/save
func (h *SessionHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	v, err := h.service.SaveItem(r.Context(), index)
	h.view(w, r, v, err)
}

// AddItem handles POST /api/session/items
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Add(r.Context())
	h.view(w, r, v, err)
}

// InsertAfter handles POST /api/session/items/{index}/insert-after
func (h *SessionHandler) InsertAfter(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	v, err := h.service.InsertAfter(r.Context(), index)
	h.view(w, r, v, err)
}

// DeleteItem handles DELETE /api/session/items/{index}
func (h *SessionHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
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
	v, err := h.service.Delete(r.Context(), index, confirmer(r, req.Confirmed))
	h.view(w, r, v, err)
}

// ToggleBatch handles POST /api/session/batch/toggle
func (h *SessionHandler) ToggleBatch(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.service.ToggleBatchMode())
}

// ToggleSelected handles POST /api/session/batch/items/{index}
func (h *SessionHandler) ToggleSelected() http.HandlerFunc {
	return h.itemAction(h.service.ToggleSelected)
}

// SelectAll handles POST /api/session/batch/select-all
func (h *SessionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.SelectAll()
	h.view(w, r, v, err)
}

// BatchDelete handles POST /api/session/batch/delete
func (h *SessionHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	v, err := h.service.BatchDelete(r.Context(), confirmer(r, req.Confirmed))
	h.view(w, r, v, err)
}

// Reset handles POST /api/session/reset, the fault-boundary recovery.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Reset(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, res)
}

// confirmer answers yes when the caller confirmed up front. A nil result
// makes destructive operations fail with CONFIRMATION_REQUIRED.
func confirmer(r *http.Request, confirmed bool) ports.Confirmer {
	if confirmed || confirmedQuery(r) {
		return ports.Confirmed(true)
	}
	return nil
}
