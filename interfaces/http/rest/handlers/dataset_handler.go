package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YuDongZhang/InterviewQuestion/application/queries"
	querybus "github.com/YuDongZhang/InterviewQuestion/application/queries/bus"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	"github.com/YuDongZhang/InterviewQuestion/pkg/api"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// DatasetHandler serves the read side.
type DatasetHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{queryBus: queryBus, errors: errors}
}

// ListDatasets handles GET /api/datasets
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	out, err := h.queryBus.Ask(r.Context(), queries.ListDatasetsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]interface{}{"datasets": out})
}

// GetDataset handles GET /api/datasets/{dataset}. The body is the same
// mapping the persist endpoint accepts.
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	out, err := h.queryBus.Ask(r.Context(), queries.GetDatasetQuery{Dataset: chi.URLParam(r, "dataset")})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	data, err := codec.Encode(out.(aggregates.Snapshot))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewInternalError("encode dataset").WithCause(err))
		return
	}
	w.Header().Set("Content-Type", codec.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// RecordsResponse is one category list.
type RecordsResponse struct {
	Dataset  string            `json:"dataset"`
	Category string            `json:"category"`
	Records  []entities.Record `json:"records"`
}

// ListRecords handles GET /api/datasets/{dataset}/categories/{category}/records
func (h *DatasetHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := queries.ListRecordsQuery{
		Dataset:  chi.URLParam(r, "dataset"),
		Category: chi.URLParam(r, "category"),
	}
	out, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, RecordsResponse{
		Dataset:  q.Dataset,
		Category: q.Category,
		Records:  out.([]entities.Record),
	})
}
