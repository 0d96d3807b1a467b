package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		errType    ErrorType
		httpStatus int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"invalid index", NewInvalidIndexError("update", 3, 2), ErrorTypeInvalidIndex, http.StatusBadRequest},
		{"not found", NewNotFoundError("dataset"), ErrorTypeNotFound, http.StatusNotFound},
		{"confirmation", NewConfirmationRequiredError("sure?"), ErrorTypeConfirmationRequired, http.StatusPreconditionRequired},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"unavailable", NewUnavailableError("s3"), ErrorTypeUnavailable, http.StatusServiceUnavailable},
		{"persistence", NewPersistenceError("save", fmt.Errorf("disk full")), ErrorTypePersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.StackTrace)
			assert.True(t, IsType(tt.err, tt.errType))
		})
	}
}

func TestInvalidIndexError(t *testing.T) {
	err := NewInvalidIndexError("delete", 5, 2)

	assert.True(t, IsInvalidIndex(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "delete", err.Code)
	assert.Equal(t, 5, err.Details["index"])
	assert.Equal(t, 2, err.Details["length"])
	assert.Contains(t, err.Error(), "index 5 out of range")
}

func TestWrap(t *testing.T) {
	t.Run("NilStaysNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("AppErrorKeepsType", func(t *testing.T) {
		err := Wrap(NewNotFoundError("category"), "lookup")
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "lookup: category not found")
	})

	t.Run("PlainErrorBecomesInternal", func(t *testing.T) {
		cause := errors.New("raw")
		err := Wrapf(cause, "step %d", 2)
		assert.True(t, IsType(err, ErrorTypeInternal))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("DetectedThroughFmtWrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NewConfirmationRequiredError("sure?"))
		assert.True(t, IsConfirmationRequired(err))
		assert.True(t, IsAppError(err))
	})
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)

	t.Run("AppErrorUsesItsStatus", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/records/9", nil)

		handler.Handle(w, r, NewInvalidIndexError("update", 9, 1))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(ErrorTypeInvalidIndex), resp.Type)
		assert.Contains(t, resp.Error, "out of range")
	})

	t.Run("GenericErrorIsMasked", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		handler.Handle(w, r, errors.New("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})

	t.Run("MiddlewareRecoversPanic", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		handler.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		})).ServeHTTP(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})
}
