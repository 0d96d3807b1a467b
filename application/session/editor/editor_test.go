package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

var q1 = entities.Record{Question: "Q1", Answer: "A1", Detail: "D1"}

func TestItem_Lifecycle(t *testing.T) {
	it := NewItem(q1)
	assert.Equal(t, Collapsed, it.Phase())

	require.NoError(t, it.Toggle())
	assert.Equal(t, Expanded, it.Phase())

	it.BeginEdit()
	assert.Equal(t, Editing, it.Phase())
	assert.Equal(t, q1, it.Scratch())
	assert.False(t, it.Dirty())

	require.NoError(t, it.SetField(entities.FieldAnswer, "A1'"))
	assert.True(t, it.Dirty())
	assert.Equal(t, "A1", it.Record().Answer, "committed record untouched while editing")

	pending, err := it.Pending()
	require.NoError(t, err)
	assert.Equal(t, "A1'", pending.Answer)

	it.Commit(pending)
	assert.Equal(t, Expanded, it.Phase())
	assert.Equal(t, pending, it.Record())
}

func TestItem_BeginEditOpensCollapsedItem(t *testing.T) {
	it := NewItem(q1)
	it.BeginEdit()
	assert.Equal(t, Editing, it.Phase())

	require.NoError(t, it.Cancel())
	assert.Equal(t, Expanded, it.Phase())
}

func TestItem_CancelRevertsScratch(t *testing.T) {
	it := NewItem(q1)
	it.BeginEdit()
	require.NoError(t, it.SetField(entities.FieldQuestion, "changed"))

	require.NoError(t, it.Cancel())
	assert.Equal(t, q1, it.Record())
	assert.Equal(t, q1, it.Scratch())

	it.BeginEdit()
	assert.Equal(t, "Q1", it.Scratch().Question, "a new edit starts from the committed record")
}

func TestItem_GuardsWhileEditing(t *testing.T) {
	it := NewItem(q1)
	it.BeginEdit()

	assert.True(t, pkgerrors.IsValidation(it.Toggle()))
	assert.True(t, pkgerrors.IsValidation(it.ToggleDetail()))
	assert.Equal(t, Editing, it.Phase())
	assert.False(t, it.DetailShown())
}

func TestItem_GuardsWhileNotEditing(t *testing.T) {
	it := NewItem(q1)

	assert.Error(t, it.SetField(entities.FieldQuestion, "x"))
	assert.Error(t, it.Cancel())
	_, err := it.Pending()
	assert.Error(t, err)
}

func TestItem_UnknownField(t *testing.T) {
	it := NewItem(q1)
	it.BeginEdit()

	err := it.SetField("title", "x")
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, q1, it.Scratch())
}

func TestItem_DetailToggleIsIndependent(t *testing.T) {
	it := NewItem(q1)

	require.NoError(t, it.ToggleDetail())
	assert.True(t, it.DetailShown())
	assert.Equal(t, Collapsed, it.Phase())

	require.NoError(t, it.Toggle())
	assert.True(t, it.DetailShown())

	require.NoError(t, it.ToggleDetail())
	assert.False(t, it.DetailShown())
}

func TestItem_Refresh(t *testing.T) {
	q2 := entities.Record{Question: "Q2"}

	t.Run("Idle", func(t *testing.T) {
		it := NewItem(q1)
		it.Refresh(q2)
		assert.Equal(t, q2, it.Record())
		assert.Equal(t, q2, it.Scratch())
	})

	t.Run("EditingKeepsScratch", func(t *testing.T) {
		it := NewItem(q1)
		it.BeginEdit()
		require.NoError(t, it.SetField(entities.FieldDetail, "mine"))

		it.Refresh(q2)
		assert.Equal(t, q2, it.Record())
		assert.Equal(t, "mine", it.Scratch().Detail)
	})
}

func TestSelection(t *testing.T) {
	t.Run("InactiveRejectsChanges", func(t *testing.T) {
		s := NewSelection()
		assert.Error(t, s.Toggle(0))
		assert.Error(t, s.SelectAll(3))
		assert.Zero(t, s.Len())
	})

	t.Run("ToggleMembership", func(t *testing.T) {
		s := NewSelection()
		s.SetActive(true)

		require.NoError(t, s.Toggle(2))
		require.NoError(t, s.Toggle(0))
		assert.Equal(t, []int{0, 2}, s.Indices())

		require.NoError(t, s.Toggle(2))
		assert.Equal(t, []int{0}, s.Indices())
		assert.True(t, s.Contains(0))
		assert.False(t, s.Contains(2))
	})

	t.Run("NegativeIndex", func(t *testing.T) {
		s := NewSelection()
		s.SetActive(true)
		assert.True(t, pkgerrors.IsInvalidIndex(s.Toggle(-1)))
	})

	t.Run("SelectAllToggles", func(t *testing.T) {
		s := NewSelection()
		s.SetActive(true)
		require.NoError(t, s.Toggle(1))

		require.NoError(t, s.SelectAll(3))
		assert.Equal(t, []int{0, 1, 2}, s.Indices())

		require.NoError(t, s.SelectAll(3))
		assert.Empty(t, s.Indices())
	})

	t.Run("SelectAllOnEmptyList", func(t *testing.T) {
		s := NewSelection()
		s.SetActive(true)
		require.NoError(t, s.SelectAll(0))
		assert.Zero(t, s.Len())
	})

	t.Run("LeavingBatchModeClears", func(t *testing.T) {
		s := NewSelection()
		s.ToggleMode()
		require.NoError(t, s.Toggle(4))

		s.ToggleMode()
		assert.False(t, s.Active())
		assert.Zero(t, s.Len())

		s.ToggleMode()
		assert.True(t, s.Active())
		assert.Zero(t, s.Len(), "entering batch mode starts empty")
	})
}
