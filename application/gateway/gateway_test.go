package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

type recordingStore struct {
	mu    sync.Mutex
	saved map[valueobjects.DatasetName][]aggregates.Snapshot
	fail  error
	delay time.Duration
	gate  chan struct{}
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saved: map[valueobjects.DatasetName][]aggregates.Snapshot{}}
}

func (s *recordingStore) Load(context.Context, valueobjects.DatasetName) (aggregates.Snapshot, error) {
	return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot")
}

func (s *recordingStore) Save(_ context.Context, d valueobjects.DatasetName, snap aggregates.Snapshot) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saved[d] = append(s.saved[d], snap)
	return nil
}

func (s *recordingStore) history(d valueobjects.DatasetName) []aggregates.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]aggregates.Snapshot(nil), s.saved[d]...)
}

type notification struct {
	dataset valueobjects.DatasetName
	message string
	cause   error
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *recordingNotifier) Notify(_ context.Context, d valueobjects.DatasetName, msg string, cause error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{d, msg, cause})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.calls...)
}

func snapshotWithAdds(n int) aggregates.Snapshot {
	s := aggregates.EmptySnapshot()
	for i := 0; i < n; i++ {
		s = s.Add("android")
	}
	return s
}

func TestGateway_SyncPreservesOrder(t *testing.T) {
	store := newRecordingStore()
	store.delay = time.Millisecond
	g := New(store, &recordingNotifier{}, nil, nil, zap.NewNop(), Config{QueueSize: 4})

	for i := 1; i <= 10; i++ {
		g.Sync(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(i))
	}
	require.NoError(t, g.Close(context.Background()))

	saved := store.history(valueobjects.DatasetQuestions)
	require.Len(t, saved, 10)
	for i, snap := range saved {
		assert.Equal(t, i+1, snap.Len("android"))
	}
}

func TestGateway_SyncIgnoresCallerCancellation(t *testing.T) {
	store := newRecordingStore()
	g := New(store, &recordingNotifier{}, nil, nil, zap.NewNop(), DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	g.Sync(ctx, valueobjects.DatasetKnowledge, snapshotWithAdds(1))
	cancel()

	require.NoError(t, g.Close(context.Background()))
	assert.Len(t, store.history(valueobjects.DatasetKnowledge), 1)
}

func TestGateway_FailureNotifies(t *testing.T) {
	store := newRecordingStore()
	store.fail = errors.New("disk full")
	notifier := &recordingNotifier{}
	g := New(store, notifier, nil, nil, zap.NewNop(), DefaultConfig())

	g.Sync(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(1))
	require.NoError(t, g.Close(context.Background()))

	calls := notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, valueobjects.DatasetQuestions, calls[0].dataset)
	assert.Equal(t, SaveFailedMessage, calls[0].message)
	assert.True(t, pkgerrors.IsPersistence(calls[0].cause))
}

func TestGateway_Write(t *testing.T) {
	t.Run("WaitsForResult", func(t *testing.T) {
		store := newRecordingStore()
		g := New(store, nil, nil, nil, zap.NewNop(), DefaultConfig())
		defer g.Close(context.Background())

		require.NoError(t, g.Write(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(2)))
		assert.Len(t, store.history(valueobjects.DatasetQuestions), 1)
	})

	t.Run("ReturnsFailureWithoutNotifying", func(t *testing.T) {
		store := newRecordingStore()
		store.fail = errors.New("denied")
		notifier := &recordingNotifier{}
		g := New(store, notifier, nil, nil, zap.NewNop(), DefaultConfig())
		defer g.Close(context.Background())

		err := g.Write(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(1))
		assert.True(t, pkgerrors.IsPersistence(err))
		assert.Empty(t, notifier.all())
	})

	t.Run("AfterClose", func(t *testing.T) {
		g := New(newRecordingStore(), nil, nil, nil, zap.NewNop(), DefaultConfig())
		require.NoError(t, g.Close(context.Background()))

		err := g.Write(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(1))
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestGateway_Pending(t *testing.T) {
	store := newRecordingStore()
	store.gate = make(chan struct{})
	g := New(store, nil, nil, nil, zap.NewNop(), DefaultConfig())

	g.Sync(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(1))
	done, err := g.Submit(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(2))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Pending(valueobjects.DatasetQuestions))
	assert.Zero(t, g.Pending(valueobjects.DatasetKnowledge))

	store.gate <- struct{}{}
	store.gate <- struct{}{}
	require.NoError(t, <-done)
	assert.Zero(t, g.Pending(valueobjects.DatasetQuestions), "counted down before the result is sent")
	assert.Len(t, store.history(valueobjects.DatasetQuestions), 2)
	require.NoError(t, g.Close(context.Background()))
}

func TestGateway_DatasetsAreIndependent(t *testing.T) {
	store := newRecordingStore()
	g := New(store, nil, nil, nil, zap.NewNop(), DefaultConfig())

	g.Sync(context.Background(), valueobjects.DatasetQuestions, snapshotWithAdds(1))
	g.Sync(context.Background(), valueobjects.DatasetKnowledge, snapshotWithAdds(2))
	require.NoError(t, g.Close(context.Background()))

	assert.Len(t, store.history(valueobjects.DatasetQuestions), 1)
	assert.Len(t, store.history(valueobjects.DatasetKnowledge), 1)
}
