package di

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/YuDongZhang/InterviewQuestion/application/commands/bus"
	cmdhandlers "github.com/YuDongZhang/InterviewQuestion/application/commands/handlers"
	"github.com/YuDongZhang/InterviewQuestion/application/gateway"
	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	querybus "github.com/YuDongZhang/InterviewQuestion/application/queries/bus"
	queryhandlers "github.com/YuDongZhang/InterviewQuestion/application/queries/handlers"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/application/session"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/config"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/messaging"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/observability"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/seed"
	"github.com/YuDongZhang/InterviewQuestion/interfaces/http/rest"
	"github.com/YuDongZhang/InterviewQuestion/interfaces/websocket"
)

// ServiceName identifies the service in traces and metrics.
const ServiceName = "qbank"

// ProvideLogger creates a new logger instance at the configured level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", ServiceName)), nil
}

// ProvideTracing initializes the global tracer provider.
func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(ctx, ServiceName, cfg.Environment, cfg.OTELEndpoint)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down tracer provider", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideCollector creates the prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(ServiceName)
}

// ProvideMetrics exposes the collector to the application layer, or
// discards everything when metrics are disabled.
func ProvideMetrics(cfg *config.Config, collector *observability.Collector) ports.Metrics {
	if !cfg.EnableMetrics {
		return ports.NopMetrics{}
	}
	return collector
}

// ProvideBackend opens the configured snapshot store
func ProvideBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*persistence.Backend, func(), error) {
	backend, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("Failed to close snapshot store", zap.Error(err))
		}
	}
	return backend, cleanup, nil
}

// ProvideSnapshotStore unwraps the store of the backend
func ProvideSnapshotStore(backend *persistence.Backend) ports.SnapshotStore {
	return backend.Store
}

// ProvideSeeder provides the bundled seed data
func ProvideSeeder() ports.Seeder {
	return seed.New()
}

// ProvideHub starts the websocket hub
func ProvideHub(logger *zap.Logger, collector *observability.Collector) (*websocket.Hub, func()) {
	hub := websocket.NewHub(logger, collector)
	go hub.Run()
	return hub, hub.Stop
}

// ProvideEventPublisher fans events out to the websocket hub, the session
// tracker and, when a bus is configured, EventBridge.
func ProvideEventPublisher(
	ctx context.Context,
	cfg *config.Config,
	hub *websocket.Hub,
	tracker *session.Tracker,
	logger *zap.Logger,
) (ports.EventPublisher, error) {
	targets := []ports.EventPublisher{hub, tracker}

	if cfg.EventBusName != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := awseventbridge.NewFromConfig(awsCfg)
		targets = append(targets, messaging.NewEventBridgePublisher(client, cfg.EventBusName, logger))
	}

	return messaging.NewFanOut(logger, targets...), nil
}

// ProvideNotifier turns failed saves into events
func ProvideNotifier(publisher ports.EventPublisher, logger *zap.Logger) ports.Notifier {
	return messaging.NewEventNotifier(publisher, logger)
}

// ProvideGateway creates the persistence gateway. Its cleanup drains
// pending writes.
func ProvideGateway(
	cfg *config.Config,
	store ports.SnapshotStore,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*gateway.Gateway, func()) {
	g := gateway.New(store, notifier, publisher, metrics, logger, gateway.Config{
		WriteTimeout: cfg.WriteTimeout,
		QueueSize:    cfg.QueueSize,
	})
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := g.Close(ctx); err != nil {
			logger.Error("Pending writes were not drained", zap.Error(err))
		}
	}
	return g, cleanup
}

// ProvidePersistenceGateway exposes the gateway as a port
func ProvidePersistenceGateway(g *gateway.Gateway) ports.PersistenceGateway {
	return g
}

// ProvideRepositoryService creates the repository and loads every dataset
func ProvideRepositoryService(
	ctx context.Context,
	store *services.Store,
	snapshots ports.SnapshotStore,
	seeds ports.Seeder,
	gw ports.PersistenceGateway,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*services.RepositoryService, error) {
	repo := services.NewRepositoryService(store, snapshots, seeds, gw, publisher, metrics, logger)
	if err := repo.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(repo *services.RepositoryService, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger.Sugar()))
	if err := cmdhandlers.NewRecordHandler(repo, logger).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(repo *services.RepositoryService) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	if err := queryhandlers.NewDatasetHandler(repo).Register(queryBus); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideWebSocketServer creates the event stream endpoint
func ProvideWebSocketServer(hub *websocket.Hub, logger *zap.Logger) *websocket.Server {
	return websocket.NewServer(hub, websocket.DefaultServerConfig(), logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	repo *services.RepositoryService,
	sessionService *session.Service,
	ws *websocket.Server,
	collector *observability.Collector,
	logger *zap.Logger,
) *rest.Router {
	if !cfg.EnableMetrics {
		collector = nil
	}
	return rest.NewRouter(commandBus, queryBus, repo, sessionService, ws, collector, rest.Options{
		ServiceName: ServiceName,
		Debug:       cfg.IsDevelopment(),
		EnableCORS:  cfg.EnableCORS,
		CORSOrigins: cfg.CORSOrigins,
	}, logger)
}

// ProvideDataWatcher watches the data directory of the file store. It
// returns nil when watching is off or the store has no directory.
func ProvideDataWatcher(
	cfg *config.Config,
	backend *persistence.Backend,
	repo *services.RepositoryService,
	logger *zap.Logger,
) (*config.DataWatcher, func(), error) {
	if !cfg.WatchData || backend.Dir == "" {
		return nil, func() {}, nil
	}
	w, err := config.NewDataWatcher(backend.Dir, repo.ReloadIfChanged, logger)
	if err != nil {
		return nil, nil, err
	}
	return w, w.Stop, nil
}
