//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/commands/bus"
	"github.com/YuDongZhang/InterviewQuestion/application/gateway"
	querybus "github.com/YuDongZhang/InterviewQuestion/application/queries/bus"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/application/session"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/config"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/observability"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence"
	"github.com/YuDongZhang/InterviewQuestion/interfaces/http/rest"
	"github.com/YuDongZhang/InterviewQuestion/interfaces/websocket"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Tracing    *observability.TracerProvider
	Metrics    *observability.Collector
	Backend    *persistence.Backend
	Hub        *websocket.Hub
	Gateway    *gateway.Gateway
	Repository *services.RepositoryService
	Session    *session.Service
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Router     *rest.Router
	Watcher    *config.DataWatcher
}

// InfrastructureSet provides logging, observability, storage and messaging
var InfrastructureSet = wire.NewSet(
	ProvideLogger,
	ProvideTracing,
	ProvideCollector,
	ProvideMetrics,
	ProvideBackend,
	ProvideSnapshotStore,
	ProvideSeeder,
	ProvideHub,
	ProvideEventPublisher,
	ProvideNotifier,
)

// ApplicationSet provides the repository, gateway, session and buses
var ApplicationSet = wire.NewSet(
	services.NewStore,
	session.NewTracker,
	session.NewService,
	ProvideGateway,
	ProvidePersistenceGateway,
	ProvideRepositoryService,
	ProvideCommandBus,
	ProvideQueryBus,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	InfrastructureSet,
	ApplicationSet,
	ProvideWebSocketServer,
	ProvideRouter,
	ProvideDataWatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The cleanup stops
// the watcher, drains pending writes and closes the store.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
