package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
)

func TestMutation_Apply(t *testing.T) {
	start := fixture(3)

	tests := []struct {
		name        string
		m           Mutation
		wantLen     int
		destructive bool
		structural  bool
	}{
		{"update", UpdateRecord{Index: 1, Record: entities.Record{Question: "x"}}, 3, false, false},
		{"add", AddRecord{}, 4, false, true},
		{"insert", InsertRecordAfter{Index: 2}, 4, false, true},
		{"delete", DeleteRecord{Index: 0}, 2, true, true},
		{"batch", BatchDeleteRecords{Indices: []int{0, 1}}, 1, true, true},
		{"empty batch", BatchDeleteRecords{}, 3, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.m.Apply(start, android)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, next.Len(android))
			assert.Equal(t, tt.destructive, tt.m.Destructive())
			assert.Equal(t, tt.structural, tt.m.Structural())
			assert.Equal(t, tt.destructive, tt.m.ConfirmPrompt() != "")
		})
	}
}

func TestMutation_ConfirmPrompts(t *testing.T) {
	assert.Equal(t, "确定要删除这道题吗？", DeleteRecord{}.ConfirmPrompt())
	assert.Equal(t, "确定要删除选中的 2 道题目吗？", BatchDeleteRecords{Indices: []int{4, 1, 4}}.ConfirmPrompt())
}
