package handlers

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	"github.com/YuDongZhang/InterviewQuestion/pkg/api"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// SaveFailedError is the body text of a failed persist request.
const SaveFailedError = "Failed to save data"

// PersistHandler serves the persist endpoints: each overwrites a whole
// dataset with the posted mapping.
type PersistHandler struct {
	service *services.RepositoryService
	logger  *zap.Logger
}

// NewPersistHandler creates a new persist handler
func NewPersistHandler(service *services.RepositoryService, logger *zap.Logger) *PersistHandler {
	return &PersistHandler{service: service, logger: logger}
}

// Handler returns the POST handler for dataset d.
func (h *PersistHandler) Handler(d valueobjects.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.save(w, r, d)
	}
}

func (h *PersistHandler) save(w http.ResponseWriter, r *http.Request, d valueobjects.Dataset) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	snap, err := codec.Decode(body)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := checkCategories(d, snap); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Replace(r.Context(), d.Name(), snap); err != nil {
		h.logger.Error("Failed to save data",
			zap.String("dataset", string(d.Name())),
			zap.Error(err),
		)
		status := http.StatusInternalServerError
		if pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable) {
			status = http.StatusServiceUnavailable
		}
		api.Error(w, status, SaveFailedError)
		return
	}

	api.Success(w, http.StatusOK, api.Saved{Success: true})
}

// checkCategories rejects keys the dataset does not define and the gallery
// key, which never holds records.
func checkCategories(d valueobjects.Dataset, snap aggregates.Snapshot) error {
	for _, key := range snap.Categories() {
		if !valueobjects.Has(d, key) {
			return fmt.Errorf("unknown category %q for dataset %q", key, d.Name())
		}
		if valueobjects.IsGallery(d, key) {
			return fmt.Errorf("category %q holds no records", key)
		}
	}
	return nil
}
