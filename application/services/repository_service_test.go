package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/gateway"
	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

type fakeSnapshots struct {
	mu   sync.Mutex
	data map[valueobjects.DatasetName]aggregates.Snapshot
	fail error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: map[valueobjects.DatasetName]aggregates.Snapshot{}}
}

func (f *fakeSnapshots) Load(_ context.Context, d valueobjects.DatasetName) (aggregates.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.data[d]
	if !ok {
		return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot")
	}
	return snap, nil
}

func (f *fakeSnapshots) Save(_ context.Context, d valueobjects.DatasetName, snap aggregates.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.data[d] = snap
	return nil
}

type fakeSeeder map[valueobjects.DatasetName]aggregates.Snapshot

func (f fakeSeeder) Seed(d valueobjects.DatasetName) (aggregates.Snapshot, error) {
	return f[d], nil
}

type recordingGateway struct {
	mu     sync.Mutex
	synced []aggregates.Snapshot
}

func (g *recordingGateway) Sync(_ context.Context, _ valueobjects.DatasetName, snap aggregates.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.synced = append(g.synced, snap)
}

func (g *recordingGateway) Submit(context.Context, valueobjects.DatasetName, aggregates.Snapshot) (<-chan error, error) {
	done := make(chan error, 1)
	done <- nil
	return done, nil
}

func (g *recordingGateway) Pending(valueobjects.DatasetName) int { return 0 }

type capturePublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

func seeded() fakeSeeder {
	return fakeSeeder{
		valueobjects.DatasetQuestions: aggregates.NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
			"android": {{Question: "Q1", Answer: "A1"}, {Question: "Q2"}, {Question: "Q3"}},
			"kotlin":  {{Question: "K1"}},
		}),
		valueobjects.DatasetKnowledge: aggregates.NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
			"go": {{Question: "G1"}},
		}),
	}
}

func newTestService(t *testing.T) (*RepositoryService, *recordingGateway, *capturePublisher) {
	t.Helper()
	gw := &recordingGateway{}
	pub := &capturePublisher{}
	svc := NewRepositoryService(NewStore(), newFakeSnapshots(), seeded(), gw, pub, nil, zap.NewNop())
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, gw, pub
}

var androidTarget = Target{Dataset: valueobjects.PrimaryDataset{}, Category: "android"}

func TestRepositoryService_Apply(t *testing.T) {
	t.Run("AddSyncsWholeDataset", func(t *testing.T) {
		svc, gw, pub := newTestService(t)

		list, err := svc.Apply(context.Background(), androidTarget, aggregates.AddRecord{}, nil)
		require.NoError(t, err)
		assert.Len(t, list, 4)
		assert.Equal(t, entities.DefaultRecord(), list[0])

		require.Len(t, gw.synced, 1)
		assert.Equal(t, 1, gw.synced[0].Len("kotlin"), "other categories are part of the write")
		assert.Contains(t, pub.types(), events.TypeRecordsMutated)
	})

	t.Run("SecondaryDatasetPersistsToo", func(t *testing.T) {
		svc, gw, _ := newTestService(t)
		target := Target{Dataset: valueobjects.SecondaryDataset{}, Category: "go"}

		_, err := svc.Apply(context.Background(), target, aggregates.InsertRecordAfter{Index: 0}, nil)
		require.NoError(t, err)
		assert.Len(t, gw.synced, 1)
	})

	t.Run("DestructiveWithoutConfirmer", func(t *testing.T) {
		svc, gw, _ := newTestService(t)

		_, err := svc.Apply(context.Background(), androidTarget, aggregates.DeleteRecord{Index: 0}, nil)
		assert.True(t, pkgerrors.IsConfirmationRequired(err))
		assert.Equal(t, 3, len(svc.List(androidTarget)))
		assert.Empty(t, gw.synced)
	})

	t.Run("DeclinedConfirmation", func(t *testing.T) {
		svc, gw, _ := newTestService(t)
		var asked string
		confirmer := ports.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
			asked = prompt
			return false, nil
		})

		_, err := svc.Apply(context.Background(), androidTarget, aggregates.BatchDeleteRecords{Indices: []int{0, 2}}, confirmer)
		assert.True(t, pkgerrors.IsConfirmationRequired(err))
		assert.Equal(t, "确定要删除选中的 2 道题目吗？", asked)
		assert.Empty(t, gw.synced)
	})

	t.Run("ConfirmedBatchDelete", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		list, err := svc.Apply(context.Background(), androidTarget, aggregates.BatchDeleteRecords{Indices: []int{0, 2}}, ports.Confirmed(true))
		require.NoError(t, err)
		assert.Equal(t, []entities.Record{{Question: "Q2"}}, list)
	})

	t.Run("EmptyBatchNeedsNoConfirmation", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		list, err := svc.Apply(context.Background(), androidTarget, aggregates.BatchDeleteRecords{}, nil)
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("InvalidIndexLeavesStore", func(t *testing.T) {
		svc, gw, _ := newTestService(t)
		before := svc.Snapshot(valueobjects.DatasetQuestions)

		_, err := svc.Apply(context.Background(), androidTarget, aggregates.UpdateRecord{Index: 3}, nil)
		assert.True(t, pkgerrors.IsInvalidIndex(err))
		assert.True(t, before.Equal(svc.Snapshot(valueobjects.DatasetQuestions)))
		assert.Empty(t, gw.synced)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		target := Target{Dataset: valueobjects.SecondaryDataset{}, Category: "android"}

		_, err := svc.Apply(context.Background(), target, aggregates.AddRecord{}, nil)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("GalleryHoldsNoRecords", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		target := Target{Dataset: valueobjects.PrimaryDataset{}, Category: valueobjects.GalleryCategory}

		_, err := svc.Apply(context.Background(), target, aggregates.AddRecord{}, nil)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestRepositoryService_FailedWriteKeepsEdit(t *testing.T) {
	snapshots := newFakeSnapshots()
	notified := make(chan string, 1)
	notifier := notifyFunc(func(_ context.Context, _ valueobjects.DatasetName, msg string, _ error) {
		notified <- msg
	})
	gw := gateway.New(snapshots, notifier, nil, nil, zap.NewNop(), gateway.DefaultConfig())
	svc := NewRepositoryService(NewStore(), snapshots, seeded(), gw, nil, nil, zap.NewNop())
	require.NoError(t, svc.Bootstrap(context.Background()))

	snapshots.mu.Lock()
	snapshots.fail = errors.New("write refused")
	snapshots.mu.Unlock()

	edited := entities.Record{Question: "edited", Answer: "kept"}
	_, err := svc.Apply(context.Background(), androidTarget, aggregates.UpdateRecord{Index: 0, Record: edited}, nil)
	require.NoError(t, err)
	require.NoError(t, gw.Close(context.Background()))

	assert.Equal(t, gateway.SaveFailedMessage, <-notified)
	assert.Equal(t, edited, svc.List(androidTarget)[0])
}

type notifyFunc func(ctx context.Context, d valueobjects.DatasetName, msg string, cause error)

func (f notifyFunc) Notify(ctx context.Context, d valueobjects.DatasetName, msg string, cause error) {
	f(ctx, d, msg, cause)
}

func TestRepositoryService_Reload(t *testing.T) {
	t.Run("PrefersStoredSnapshot", func(t *testing.T) {
		snapshots := newFakeSnapshots()
		stored := aggregates.NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
			"android": {{Question: "from disk"}},
		})
		snapshots.data[valueobjects.DatasetQuestions] = stored

		svc := NewRepositoryService(NewStore(), snapshots, seeded(), &recordingGateway{}, nil, nil, zap.NewNop())
		require.NoError(t, svc.Bootstrap(context.Background()))

		assert.True(t, stored.Equal(svc.Snapshot(valueobjects.DatasetQuestions)))
		assert.Equal(t, 1, svc.Snapshot(valueobjects.DatasetKnowledge).Count(), "seed fallback")
	})

	t.Run("ReloadIfChanged", func(t *testing.T) {
		snapshots := newFakeSnapshots()
		svc := NewRepositoryService(NewStore(), snapshots, seeded(), &recordingGateway{}, nil, nil, zap.NewNop())
		require.NoError(t, svc.Bootstrap(context.Background()))

		changed, err := svc.ReloadIfChanged(context.Background(), valueobjects.DatasetQuestions)
		require.NoError(t, err)
		assert.False(t, changed, "nothing stored yet")

		snapshots.data[valueobjects.DatasetQuestions] = svc.Snapshot(valueobjects.DatasetQuestions)
		changed, err = svc.ReloadIfChanged(context.Background(), valueobjects.DatasetQuestions)
		require.NoError(t, err)
		assert.False(t, changed, "same content as memory")

		snapshots.data[valueobjects.DatasetQuestions] = aggregates.EmptySnapshot().Add("kotlin")
		changed, err = svc.ReloadIfChanged(context.Background(), valueobjects.DatasetQuestions)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 1, svc.Snapshot(valueobjects.DatasetQuestions).Count())
	})
}

func TestRepositoryService_Replace(t *testing.T) {
	svc, _, pub := newTestService(t)
	next := aggregates.EmptySnapshot().Add("flutter")

	require.NoError(t, svc.Replace(context.Background(), valueobjects.DatasetKnowledge, next))
	assert.True(t, next.Equal(svc.Snapshot(valueobjects.DatasetKnowledge)))
	assert.Contains(t, pub.types(), events.TypeDatasetReplaced)
}

func TestRepositoryService_Ready(t *testing.T) {
	svc := NewRepositoryService(NewStore(), newFakeSnapshots(), seeded(), &recordingGateway{}, nil, nil, zap.NewNop())
	assert.False(t, svc.Ready())

	_, err := svc.Reload(context.Background(), valueobjects.DatasetQuestions)
	require.NoError(t, err)
	assert.False(t, svc.Ready(), "knowledge not loaded yet")

	require.NoError(t, svc.Bootstrap(context.Background()))
	assert.True(t, svc.Ready())
}

// gatedSnapshots holds every Save until the test releases it.
type gatedSnapshots struct {
	*fakeSnapshots
	entered chan aggregates.Snapshot
	release chan struct{}
	saved   chan struct{}
}

func newGatedSnapshots() *gatedSnapshots {
	return &gatedSnapshots{
		fakeSnapshots: newFakeSnapshots(),
		entered:       make(chan aggregates.Snapshot, 8),
		release:       make(chan struct{}),
		saved:         make(chan struct{}, 8),
	}
}

func (g *gatedSnapshots) Save(ctx context.Context, d valueobjects.DatasetName, snap aggregates.Snapshot) error {
	g.entered <- snap
	<-g.release
	err := g.fakeSnapshots.Save(ctx, d, snap)
	g.saved <- struct{}{}
	return err
}

func (g *gatedSnapshots) stored(t *testing.T, d valueobjects.DatasetName) aggregates.Snapshot {
	t.Helper()
	snap, err := g.fakeSnapshots.Load(context.Background(), d)
	require.NoError(t, err)
	return snap
}

func newGatedService(t *testing.T) (*RepositoryService, *gatedSnapshots, *gateway.Gateway) {
	t.Helper()
	snapshots := newGatedSnapshots()
	gw := gateway.New(snapshots, nil, nil, nil, zap.NewNop(), gateway.DefaultConfig())
	svc := NewRepositoryService(NewStore(), snapshots, seeded(), gw, nil, nil, zap.NewNop())
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, snapshots, gw
}

func TestRepositoryService_ReplaceOrdersWithApply(t *testing.T) {
	ctx := context.Background()
	svc, snapshots, gw := newGatedService(t)
	replacement := aggregates.NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
		"android": {{Question: "R"}},
	})

	replaced := make(chan error, 1)
	go func() { replaced <- svc.Replace(ctx, valueobjects.DatasetQuestions, replacement) }()
	<-snapshots.entered

	list, err := svc.Apply(ctx, androidTarget, aggregates.AddRecord{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []entities.Record{entities.DefaultRecord(), {Question: "R"}}, list, "builds on the replacement")

	snapshots.release <- struct{}{}
	snapshots.release <- struct{}{}
	require.NoError(t, <-replaced)
	require.NoError(t, gw.Close(ctx))

	memory := svc.Snapshot(valueobjects.DatasetQuestions)
	assert.True(t, memory.Equal(snapshots.stored(t, valueobjects.DatasetQuestions)), "memory and store agree")
	assert.Equal(t, list, memory.List("android"))
}

func TestRepositoryService_ReplaceFailure(t *testing.T) {
	t.Run("RestoresPreviousDataset", func(t *testing.T) {
		snapshots := newFakeSnapshots()
		snapshots.fail = errors.New("disk full")
		gw := gateway.New(snapshots, nil, nil, nil, zap.NewNop(), gateway.DefaultConfig())
		defer gw.Close(context.Background())
		svc := NewRepositoryService(NewStore(), snapshots, seeded(), gw, nil, nil, zap.NewNop())
		require.NoError(t, svc.Bootstrap(context.Background()))
		before := svc.Snapshot(valueobjects.DatasetQuestions)

		err := svc.Replace(context.Background(), valueobjects.DatasetQuestions, aggregates.EmptySnapshot())
		assert.True(t, pkgerrors.IsPersistence(err))
		assert.True(t, before.Equal(svc.Snapshot(valueobjects.DatasetQuestions)))
	})

	t.Run("KeepsEditsMadeMeanwhile", func(t *testing.T) {
		ctx := context.Background()
		svc, snapshots, gw := newGatedService(t)
		snapshots.fakeSnapshots.fail = errors.New("disk full")

		replaced := make(chan error, 1)
		go func() { replaced <- svc.Replace(ctx, valueobjects.DatasetQuestions, aggregates.EmptySnapshot()) }()
		<-snapshots.entered

		_, err := svc.Apply(ctx, androidTarget, aggregates.AddRecord{}, nil)
		require.NoError(t, err)

		snapshots.release <- struct{}{}
		require.Error(t, <-replaced)
		snapshots.release <- struct{}{}
		require.NoError(t, gw.Close(ctx))

		assert.Equal(t, []entities.Record{entities.DefaultRecord()}, svc.List(androidTarget))
	})
}

func TestRepositoryService_ReloadIgnoresOwnQueuedWrites(t *testing.T) {
	ctx := context.Background()
	svc, snapshots, gw := newGatedService(t)
	a := entities.Record{Question: "A"}
	b := entities.Record{Question: "B"}

	_, err := svc.Apply(ctx, androidTarget, aggregates.UpdateRecord{Index: 0, Record: a}, nil)
	require.NoError(t, err)
	<-snapshots.entered
	_, err = svc.Apply(ctx, androidTarget, aggregates.UpdateRecord{Index: 0, Record: b}, nil)
	require.NoError(t, err)

	snapshots.release <- struct{}{}
	<-snapshots.saved
	assert.Equal(t, a, snapshots.stored(t, valueobjects.DatasetQuestions).List("android")[0])

	// The file watcher fires for the first write while the second is queued.
	changed, err := svc.ReloadIfChanged(ctx, valueobjects.DatasetQuestions)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, b, svc.List(androidTarget)[0])

	snapshots.release <- struct{}{}
	require.NoError(t, gw.Close(ctx))
	assert.True(t, svc.Snapshot(valueobjects.DatasetQuestions).Equal(snapshots.stored(t, valueobjects.DatasetQuestions)))

	changed, err = svc.ReloadIfChanged(ctx, valueobjects.DatasetQuestions)
	require.NoError(t, err)
	assert.False(t, changed, "last write matches memory")
}
