package seed

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

func TestBundled_Seed(t *testing.T) {
	s := New()

	t.Run("Questions", func(t *testing.T) {
		snap, err := s.Seed(valueobjects.DatasetQuestions)
		require.NoError(t, err)

		assert.Positive(t, snap.Len("android"))
		assert.False(t, snap.Has(valueobjects.GalleryCategory))
		for _, c := range (valueobjects.PrimaryDataset{}).Categories() {
			if !c.Gallery {
				assert.True(t, snap.Has(c.Key), "category %s", c.Key)
			}
		}
	})

	t.Run("Knowledge", func(t *testing.T) {
		snap, err := s.Seed(valueobjects.DatasetKnowledge)
		require.NoError(t, err)

		assert.Positive(t, snap.Len("flutter"))
		assert.True(t, snap.Has("go"))
	})

	t.Run("UnknownDataset", func(t *testing.T) {
		_, err := s.Seed("notes")
		assert.Error(t, err)
	})

	t.Run("SeedsAreIndependentCopies", func(t *testing.T) {
		a, err := s.Seed(valueobjects.DatasetQuestions)
		require.NoError(t, err)
		changed, err := a.Delete("android", 0)
		require.NoError(t, err)

		b, err := s.Seed(valueobjects.DatasetQuestions)
		require.NoError(t, err)
		assert.Equal(t, a.Len("android"), b.Len("android"))
		assert.Equal(t, changed.Len("android")+1, b.Len("android"))
	})
}

func TestBundled_RejectsForeignCategory(t *testing.T) {
	fsys := fstest.MapFS{
		"data/knowledge.json": {Data: []byte(`{"android": []}`)},
	}
	s := &Bundled{fsys: fsys}

	_, err := s.Seed(valueobjects.DatasetKnowledge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected category")
}
