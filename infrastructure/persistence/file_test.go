package persistence

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

func sample() aggregates.Snapshot {
	return aggregates.NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
		"android": {{Question: "Q1", Answer: "A1"}},
	})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	t.Run("MissingFileIsNotFound", func(t *testing.T) {
		_, err := s.Load(ctx, valueobjects.DatasetQuestions)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("WritesPrettyJSON", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, valueobjects.DatasetQuestions, sample()))

		raw, err := os.ReadFile(filepath.Join(dir, "questions.json"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(raw), "{\n  \"android\": [\n    {"))

		got, err := s.Load(ctx, valueobjects.DatasetQuestions)
		require.NoError(t, err)
		assert.True(t, got.Equal(sample()))
	})

	t.Run("LeavesNoTempFiles", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, s.Save(ctx, valueobjects.DatasetKnowledge, aggregates.EmptySnapshot().Add("go")))
		}
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), e.Name())
		}
	})

	t.Run("CorruptFileIsPersistenceError", func(t *testing.T) {
		require.NoError(t, os.WriteFile(s.Path(valueobjects.DatasetKnowledge), []byte("not json"), 0o644))
		_, err := s.Load(ctx, valueobjects.DatasetKnowledge)
		assert.True(t, pkgerrors.IsPersistence(err))
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, s.Save(cctx, valueobjects.DatasetQuestions, sample()))
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Load(ctx, valueobjects.DatasetQuestions)
	assert.True(t, pkgerrors.IsNotFound(err))

	require.NoError(t, m.Save(ctx, valueobjects.DatasetQuestions, sample()))
	got, err := m.Load(ctx, valueobjects.DatasetQuestions)
	require.NoError(t, err)
	assert.True(t, got.Equal(sample()))
}
