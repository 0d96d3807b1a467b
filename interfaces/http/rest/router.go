package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/commands/bus"
	querybus "github.com/YuDongZhang/InterviewQuestion/application/queries/bus"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/application/session"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/observability"
	"github.com/YuDongZhang/InterviewQuestion/interfaces/http/rest/handlers"
	"github.com/YuDongZhang/InterviewQuestion/interfaces/http/rest/middleware"
	"github.com/YuDongZhang/InterviewQuestion/interfaces/websocket"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// Options configures the router.
type Options struct {
	ServiceName string
	Debug       bool
	EnableCORS  bool
	CORSOrigins []string
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	repository *services.RepositoryService
	session    *session.Service
	websocket  *websocket.Server
	metrics    *observability.Collector
	options    Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance. ws and metrics may be nil, in
// which case /ws and /metrics are not served.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	repository *services.RepositoryService,
	sessionService *session.Service,
	ws *websocket.Server,
	metrics *observability.Collector,
	options Options,
	logger *zap.Logger,
) *Router {
	if options.ServiceName == "" {
		options.ServiceName = "qbank"
	}
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		repository: repository,
		session:    sessionService,
		websocket:  ws,
		metrics:    metrics,
		options:    options,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.options.Debug)

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.FaultBoundary(rt.logger, session.ResetScope, rt.options.Debug))
	router.Use(observability.TracingMiddleware(rt.options.ServiceName))
	if rt.metrics != nil {
		router.Use(observability.MetricsMiddleware(rt.metrics))
	}

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.options.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Trace-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}
	if rt.websocket != nil {
		router.Get("/ws", rt.websocket.HandleWebSocket)
	}

	// Persist endpoints
	persistHandler := handlers.NewPersistHandler(rt.repository, rt.logger)
	for _, d := range valueobjects.Datasets() {
		router.Post(d.SaveRoute(), persistHandler.Handler(d))
	}

	router.Route("/api/datasets", func(r chi.Router) {
		datasetHandler := handlers.NewDatasetHandler(rt.queryBus, errorHandler)
		recordHandler := handlers.NewRecordHandler(rt.commandBus, errorHandler, rt.logger)

		r.Get("/", datasetHandler.ListDatasets)
		r.Get("/{dataset}", datasetHandler.GetDataset)
		r.Route("/{dataset}/categories/{category}/records", func(r chi.Router) {
			r.Get("/", datasetHandler.ListRecords)
			r.Post("/", recordHandler.AddRecord)
			r.Post("/batch-delete", recordHandler.BatchDelete)
			r.Put("/{index}", recordHandler.UpdateRecord)
			r.Delete("/{index}", recordHandler.DeleteRecord)
			r.Post("/{index}/insert-after", recordHandler.InsertAfter)
		})
	})

	router.Route("/api/session", func(r chi.Router) {
		sessionHandler := handlers.NewSessionHandler(rt.session, errorHandler, rt.logger)

		r.Get("/", sessionHandler.GetState)
		r.Get("/view", sessionHandler.GetView)
		r.Put("/dataset", sessionHandler.SwitchDataset)
		r.Put("/category", sessionHandler.SelectCategory)
		r.Post("/reset", sessionHandler.Reset)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", sessionHandler.AddItem)
			r.Delete("/{index}", sessionHandler.DeleteItem)
			r.Post("/{index}/toggle", sessionHandler.ToggleItem())
			r.Post("/{index}/click", sessionHandler.Click())
			r.Post("/{index}/detail", sessionHandler.ToggleDetail())
			r.Post("/{index}/edit", sessionHandler.BeginEdit())
			r.Put("/{index}/field", sessionHandler.SetField)
			r.Post("/{index}/save", sessionHandler.SaveItem)
			r.Post("/{index}/cancel", sessionHandler.CancelEdit())
			r.Post("/{index}/insert-after", sessionHandler.InsertAfter)
		})

		r.Route("/batch", func(r chi.Router) {
			r.Post("/toggle", sessionHandler.ToggleBatch)
			r.Post("/items/{index}", sessionHandler.ToggleSelected())
			r.Post("/select-all", sessionHandler.SelectAll)
			r.Post("/delete", sessionHandler.BatchDelete)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once every dataset is in memory.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !rt.repository.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"loading"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
