package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRecord(t *testing.T) {
	rec := DefaultRecord()

	assert.Equal(t, "新题目", rec.Question)
	assert.Empty(t, rec.Answer)
	assert.Empty(t, rec.Detail)
	assert.False(t, rec.HasDetail())
}

func TestRecord_WithField(t *testing.T) {
	base := Record{Question: "Q1", Answer: "A1"}

	t.Run("KnownFields", func(t *testing.T) {
		got, ok := base.WithField(FieldAnswer, "A2")
		assert.True(t, ok)
		assert.Equal(t, Record{Question: "Q1", Answer: "A2"}, got)

		got, ok = got.WithField(FieldDetail, "more")
		assert.True(t, ok)
		assert.True(t, got.HasDetail())
	})

	t.Run("OriginalUntouched", func(t *testing.T) {
		_, _ = base.WithField(FieldQuestion, "changed")
		assert.Equal(t, "Q1", base.Question)
	})

	t.Run("UnknownField", func(t *testing.T) {
		got, ok := base.WithField("title", "x")
		assert.False(t, ok)
		assert.Equal(t, base, got)
	})
}
