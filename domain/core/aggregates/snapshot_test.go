package aggregates

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

const (
	android valueobjects.CategoryKey = "android"
	kotlin  valueobjects.CategoryKey = "kotlin"
)

func rec(q string) entities.Record {
	return entities.Record{Question: q, Answer: "A" + q[1:]}
}

func fixture(n int) Snapshot {
	list := make([]entities.Record, n)
	for i := range list {
		list[i] = rec("Q" + string(rune('1'+i)))
	}
	return NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
		android: list,
		kotlin:  {rec("K1"), rec("K2")},
	})
}

// sameBacking reports whether two lists share storage.
func sameBacking(a, b []entities.Record) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

func TestSnapshot_Add(t *testing.T) {
	t.Run("PrependsDefault", func(t *testing.T) {
		start := NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
			android: {{Question: "Q1", Answer: "A1", Detail: ""}},
		})

		next := start.Add(android)

		want := NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
			android: {
				{Question: "新题目", Answer: "", Detail: ""},
				{Question: "Q1", Answer: "A1", Detail: ""},
			},
		})
		assert.True(t, next.Equal(want))
		assert.Equal(t, 1, start.Len(android), "receiver must stay untouched")
	})

	t.Run("LengthAndTail", func(t *testing.T) {
		start := fixture(3)
		next := start.Add(android)

		got := next.List(android)
		assert.Len(t, got, 4)
		assert.Equal(t, entities.DefaultRecord(), got[0])
		assert.Equal(t, start.List(android), got[1:])
	})

	t.Run("MissingCategoryCreated", func(t *testing.T) {
		next := EmptySnapshot().Add("go")
		assert.Equal(t, []entities.Record{entities.DefaultRecord()}, next.List("go"))
	})
}

func TestSnapshot_Update(t *testing.T) {
	start := fixture(3)
	edited := entities.Record{Question: "new", Answer: "ans", Detail: "d"}

	t.Run("OnlyTargetChanges", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			next, err := start.Update(android, i, edited)
			require.NoError(t, err)

			before, after := start.List(android), next.List(android)
			for j := range before {
				if j == i {
					assert.Equal(t, edited, after[j])
				} else {
					assert.Equal(t, before[j], after[j])
				}
			}
			assert.Equal(t, start.List(kotlin), next.List(kotlin))
			assert.True(t, sameBacking(start.lists[kotlin], next.lists[kotlin]), "untouched lists are shared")
			assert.False(t, sameBacking(start.lists[android], next.lists[android]))
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 100} {
			next, err := start.Update(android, idx, edited)
			assert.True(t, pkgerrors.IsInvalidIndex(err))
			assert.True(t, next.Equal(start))
		}
	})

	t.Run("EmptyCategory", func(t *testing.T) {
		_, err := start.Update("flutter", 0, edited)
		assert.True(t, pkgerrors.IsInvalidIndex(err))
	})
}

func TestSnapshot_InsertAfter(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		start := NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
			android: {rec("Q1"), rec("Q2")},
		})

		next, err := start.InsertAfter(android, 0)
		require.NoError(t, err)
		assert.Equal(t, []entities.Record{rec("Q1"), entities.DefaultRecord(), rec("Q2")}, next.List(android))
	})

	t.Run("EveryValidIndex", func(t *testing.T) {
		start := fixture(3)
		for i := -1; i < 3; i++ {
			next, err := start.InsertAfter(android, i)
			require.NoError(t, err)

			got := next.List(android)
			require.Len(t, got, 4)
			assert.Equal(t, entities.DefaultRecord(), got[i+1])

			rest := append(append([]entities.Record{}, got[:i+1]...), got[i+2:]...)
			assert.Equal(t, start.List(android), rest)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		start := fixture(2)
		for _, idx := range []int{-2, 2} {
			_, err := start.InsertAfter(android, idx)
			assert.True(t, pkgerrors.IsInvalidIndex(err))
		}
	})

	t.Run("FrontOfEmptyList", func(t *testing.T) {
		next, err := EmptySnapshot().InsertAfter(android, -1)
		require.NoError(t, err)
		assert.Equal(t, 1, next.Len(android))
	})
}

func TestSnapshot_Delete(t *testing.T) {
	t.Run("PreservesOthers", func(t *testing.T) {
		start := fixture(4)
		for i := 0; i < 4; i++ {
			next, err := start.Delete(android, i)
			require.NoError(t, err)

			want := append(append([]entities.Record{}, start.List(android)[:i]...), start.List(android)[i+1:]...)
			assert.Equal(t, want, next.List(android))
		}
	})

	t.Run("FromEndEmptiesList", func(t *testing.T) {
		s := fixture(5)
		var err error
		for i := s.Len(android) - 1; i >= 0; i-- {
			s, err = s.Delete(android, i)
			require.NoError(t, err)
		}
		assert.Equal(t, 0, s.Len(android))
		assert.True(t, s.Has(android))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := fixture(1).Delete(android, 1)
		assert.True(t, pkgerrors.IsInvalidIndex(err))
	})
}

func TestSnapshot_BatchDelete(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		start := NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
			android: {rec("Q1"), rec("Q2"), rec("Q3")},
		})

		next, err := start.BatchDelete(android, []int{0, 2})
		require.NoError(t, err)
		assert.Equal(t, []entities.Record{rec("Q2")}, next.List(android))
	})

	t.Run("EmptySetIsIdentity", func(t *testing.T) {
		start := fixture(3)
		next, err := start.BatchDelete(android, nil)
		require.NoError(t, err)
		assert.True(t, next.Equal(start))
		assert.True(t, sameBacking(start.lists[android], next.lists[android]))
	})

	t.Run("EquivalentToDescendingDeletes", func(t *testing.T) {
		sets := [][]int{{1}, {0, 3}, {4, 2, 0}, {3, 3, 1}, {0, 1, 2, 3, 4}}
		for _, set := range sets {
			start := fixture(5)
			batched, err := start.BatchDelete(android, set)
			require.NoError(t, err)

			uniq := map[int]struct{}{}
			for _, i := range set {
				uniq[i] = struct{}{}
			}
			desc := make([]int, 0, len(uniq))
			for i := range uniq {
				desc = append(desc, i)
			}
			sort.Sort(sort.Reverse(sort.IntSlice(desc)))

			stepwise := start
			for _, i := range desc {
				stepwise, err = stepwise.Delete(android, i)
				require.NoError(t, err)
			}
			assert.True(t, batched.Equal(stepwise), "set %v", set)
		}
	})

	t.Run("OutOfRangeRejectsWholeBatch", func(t *testing.T) {
		start := fixture(3)
		next, err := start.BatchDelete(android, []int{0, 3})
		assert.True(t, pkgerrors.IsInvalidIndex(err))
		assert.True(t, next.Equal(start))
	})
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	start := NewSnapshot(map[valueobjects.CategoryKey][]entities.Record{
		android: {{Question: "Q1", Answer: "A1", Detail: "见 \"文档\""}, rec("Q2")},
		kotlin:  {},
		"go":    {{Question: "<tag>&", Answer: "multi\nline"}},
	})

	data, err := json.Marshal(start)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kotlin":[]`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(start))
	assert.Equal(t, start.Categories(), back.Categories())
}

func TestSnapshot_ListIsACopy(t *testing.T) {
	start := fixture(2)
	l := start.List(android)
	l[0].Question = "mutated"

	assert.NotEqual(t, "mutated", start.List(android)[0].Question)
	assert.Empty(t, start.List("missing"))
}
