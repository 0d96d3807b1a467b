package persistence

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/config"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/badger"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/dynamodb"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/remote"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/s3"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/sqlite"
)

// Backend is an opened snapshot store plus what callers need to manage it.
type Backend struct {
	Store  ports.SnapshotStore
	Driver string
	// Dir is set for the file driver so the data directory can be watched.
	Dir   string
	close func() error
}

// Close releases the underlying store.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open builds the snapshot store selected by cfg.StoreDriver. Network
// backed drivers sit behind a circuit breaker, and every driver is traced.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{Driver: cfg.StoreDriver}
	var inner ports.SnapshotStore
	networked := false

	switch cfg.StoreDriver {
	case config.DriverFile:
		fs, err := NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		inner, b.Dir = fs, fs.Dir()

	case config.DriverMemory:
		inner = NewMemoryStore()

	case config.DriverSQLite:
		st, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		inner, b.close = st, st.Close

	case config.DriverBadger:
		bc := badger.DefaultConfig(cfg.BadgerPath)
		bc.Logger = logger
		st, err := badger.Open(bc)
		if err != nil {
			return nil, err
		}
		inner, b.close = st, st.Close

	case config.DriverS3:
		st, err := s3.New(ctx, s3.Config{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open s3 store: %w", err)
		}
		inner, networked = st, true

	case config.DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		inner = dynamodb.NewStore(awsdynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger)
		networked = true

	case config.DriverRemote:
		inner, networked = remote.NewClient(cfg.RemoteURL, nil), true

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if networked {
		inner = NewBreakerStore(inner, DefaultBreakerConfig(cfg.StoreDriver), logger)
	}
	b.Store = TraceStore(inner, cfg.StoreDriver)

	logger.Info("Snapshot store opened",
		zap.String("driver", cfg.StoreDriver),
		zap.Bool("circuit_breaker", networked),
	)
	return b, nil
}
