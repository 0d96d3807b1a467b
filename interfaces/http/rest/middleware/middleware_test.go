package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFaultBoundary(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := FaultBoundary(zap.New(core), "drops everything", false)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("render failed")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/view", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp FaultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ResetRoute, resp.Recovery.Action)
	assert.Equal(t, "drops everything", resp.Recovery.Scope)
	assert.NotContains(t, resp.Error, "render failed")
	assert.Equal(t, 1, logs.FilterMessage("Recovered from panic").Len())
}

func TestFaultBoundary_DebugShowsPanic(t *testing.T) {
	h := FaultBoundary(zap.NewNop(), "scope", true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("render failed")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "panic: render failed")
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/datasets", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusTeapot), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}
