package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// SaveFailedMessage is the user-facing text for a failed write.
const SaveFailedMessage = "保存失败，请检查控制台"

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("gateway closed")

// Config tunes the gateway.
type Config struct {
	// WriteTimeout bounds a single store write.
	WriteTimeout time.Duration
	// QueueSize is the per-dataset buffer of pending writes.
	QueueSize int
}

// DefaultConfig returns the defaults used when no config is supplied.
func DefaultConfig() Config {
	return Config{WriteTimeout: 10 * time.Second, QueueSize: 64}
}

type job struct {
	ctx      context.Context
	snapshot aggregates.Snapshot
	done     chan error
}

// Gateway serializes whole-dataset writes through one writer goroutine per
// dataset. Writes for one dataset reach the store in submission order.
// Failed writes are reported, never retried and never rolled back.
type Gateway struct {
	store     ports.SnapshotStore
	notifier  ports.Notifier
	publisher ports.EventPublisher
	metrics   ports.Metrics
	logger    *zap.Logger
	tracer    trace.Tracer
	cfg       Config

	mu     sync.Mutex
	queues map[valueobjects.DatasetName]chan job
	closed bool
	wg     sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[valueobjects.DatasetName]int
}

// New creates a gateway writing into store.
func New(
	store ports.SnapshotStore,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
	cfg Config,
) *Gateway {
	def := DefaultConfig()
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Gateway{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer("qbank/gateway"),
		cfg:       cfg,
		queues:    make(map[valueobjects.DatasetName]chan job),
		pending:   make(map[valueobjects.DatasetName]int),
	}
}

// Sync schedules a write of the whole dataset and returns once it is
// queued. The caller's cancellation does not reach the write.
func (g *Gateway) Sync(ctx context.Context, dataset valueobjects.DatasetName, snapshot aggregates.Snapshot) {
	if err := g.enqueue(dataset, job{ctx: context.WithoutCancel(ctx), snapshot: snapshot}); err != nil {
		g.logger.Warn("Dropping write after shutdown", zap.String("dataset", string(dataset)))
	}
}

// Submit schedules a write behind every pending one without waiting. The
// returned channel yields the result of the write once it finished.
func (g *Gateway) Submit(ctx context.Context, dataset valueobjects.DatasetName, snapshot aggregates.Snapshot) (<-chan error, error) {
	done := make(chan error, 1)
	if err := g.enqueue(dataset, job{ctx: context.WithoutCancel(ctx), snapshot: snapshot, done: done}); err != nil {
		return nil, pkgerrors.NewUnavailableError("persistence gateway").WithCause(err)
	}
	return done, nil
}

// Write schedules a write behind every pending one and waits for it.
func (g *Gateway) Write(ctx context.Context, dataset valueobjects.DatasetName, snapshot aggregates.Snapshot) error {
	done, err := g.Submit(ctx, dataset, snapshot)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of writes of dataset that were scheduled and
// have not finished yet.
func (g *Gateway) Pending(dataset valueobjects.DatasetName) int {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()
	return g.pending[dataset]
}

func (g *Gateway) addPending(dataset valueobjects.DatasetName, delta int) {
	g.pendingMu.Lock()
	g.pending[dataset] += delta
	g.pendingMu.Unlock()
}

// Close stops accepting writes and waits for queued ones to drain.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if !g.closed {
		g.closed = true
		for _, q := range g.queues {
			close(q)
		}
	}
	g.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) enqueue(dataset valueobjects.DatasetName, j job) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}

	q, ok := g.queues[dataset]
	if !ok {
		q = make(chan job, g.cfg.QueueSize)
		g.queues[dataset] = q
		g.wg.Add(1)
		go g.run(dataset, q)
	}
	// Holding mu while blocked on a full queue keeps ordering across
	// producers and makes Close wait for the send.
	g.addPending(dataset, 1)
	q <- j
	g.metrics.SetQueueDepth(string(dataset), len(q))
	return nil
}

func (g *Gateway) run(dataset valueobjects.DatasetName, q chan job) {
	defer g.wg.Done()
	for j := range q {
		err := g.write(j.ctx, dataset, j.snapshot)
		g.addPending(dataset, -1)
		g.metrics.SetQueueDepth(string(dataset), len(q))
		if j.done != nil {
			j.done <- err
			continue
		}
		if err != nil && g.notifier != nil {
			g.notifier.Notify(j.ctx, dataset, SaveFailedMessage, err)
		}
	}
}

func (g *Gateway) write(ctx context.Context, dataset valueobjects.DatasetName, snapshot aggregates.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.WriteTimeout)
	defer cancel()

	ctx, span := g.tracer.Start(ctx, "gateway.write",
		trace.WithAttributes(
			attribute.String("dataset", string(dataset)),
			attribute.Int("records", snapshot.Count()),
		),
	)
	defer span.End()

	start := time.Now()
	err := g.store.Save(ctx, dataset, snapshot)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		g.metrics.RecordPersist(string(dataset), "error", elapsed)
		g.logger.Error("Failed to save dataset",
			zap.String("dataset", string(dataset)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		if !pkgerrors.IsAppError(err) {
			err = pkgerrors.NewPersistenceError("save", err)
		}
		return err
	}

	g.metrics.RecordPersist(string(dataset), "ok", elapsed)
	g.logger.Debug("Dataset saved",
		zap.String("dataset", string(dataset)),
		zap.Duration("duration", elapsed),
	)
	if perr := g.publisher.Publish(ctx, events.NewDatasetSaved(dataset, snapshot.Count(), time.Now())); perr != nil {
		g.logger.Warn("Failed to publish event", zap.String("event_type", events.TypeDatasetSaved), zap.Error(perr))
	}
	return nil
}
