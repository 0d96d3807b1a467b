package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// ResetRoute is the only recovery action offered after a fault.
const ResetRoute = "POST /api/session/reset"

// Recovery describes the recovery action of a fault response.
type Recovery struct {
	Action string `json:"action"`
	Scope  string `json:"scope"`
}

// FaultResponse replaces the response of a request that panicked.
type FaultResponse struct {
	pkgerrors.ErrorResponse
	Recovery Recovery `json:"recovery"`
}

// FaultBoundary recovers panics and answers with a diagnostic payload that
// names the reset action and what it destroys. resetScope is shown to the
// user verbatim.
func FaultBoundary(logger *zap.Logger, resetScope string, debugMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := middleware.GetReqID(r.Context())
				logger.Error("Recovered from panic",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", requestID),
					zap.ByteString("stack", debug.Stack()),
				)

				resp := FaultResponse{
					ErrorResponse: pkgerrors.ErrorResponse{
						Error:     "Something went wrong",
						Type:      string(pkgerrors.ErrorTypeInternal),
						Code:      "fault",
						RequestID: requestID,
					},
					Recovery: Recovery{Action: ResetRoute, Scope: resetScope},
				}
				if debugMode {
					resp.Error = fmt.Sprintf("panic: %v", rec)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
