package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// BreakerConfig holds configuration for the store circuit breaker
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the configuration used for remote stores
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// BreakerStore guards a remote snapshot store with a circuit breaker. While
// the breaker is open calls fail fast with an UNAVAILABLE error.
type BreakerStore struct {
	inner  ports.SnapshotStore
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *zap.Logger
}

// NewBreakerStore wraps inner.
func NewBreakerStore(inner ports.SnapshotStore, cfg BreakerConfig, logger *zap.Logger) *BreakerStore {
	b := &BreakerStore{inner: inner, name: cfg.Name, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Store circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A missing snapshot is an answer, not a failure of the backend.
		IsSuccessful: func(err error) bool {
			return err == nil || pkgerrors.IsNotFound(err)
		},
	})
	return b
}

// State exposes the breaker state for readiness checks.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Load(ctx, dataset)
	})
	if err != nil {
		return aggregates.Snapshot{}, b.translate(err)
	}
	return out.(aggregates.Snapshot), nil
}

func (b *BreakerStore) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Save(ctx, dataset, snap)
	})
	return b.translate(err)
}

func (b *BreakerStore) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.NewUnavailableError(b.name).WithCause(err)
	}
	return err
}
