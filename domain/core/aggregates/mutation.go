package aggregates

import (
	"fmt"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

// Mutation names.
const (
	OpUpdate      = "update"
	OpAdd         = "add"
	OpInsertAfter = "insert_after"
	OpDelete      = "delete"
	OpBatchDelete = "batch_delete"
)

// Mutation is one mutation intent against a single category list.
type Mutation interface {
	Name() string
	Apply(s Snapshot, cat valueobjects.CategoryKey) (Snapshot, error)
	// Destructive mutations need an explicit confirmation before Apply.
	Destructive() bool
	// ConfirmPrompt is the question shown to the user for destructive
	// mutations. Empty for the others.
	ConfirmPrompt() string
	// Structural mutations shift the index of other records.
	Structural() bool
}

// UpdateRecord replaces one record wholesale.
type UpdateRecord struct {
	Index  int
	Record entities.Record
}

func (m UpdateRecord) Name() string          { return OpUpdate }
func (m UpdateRecord) Destructive() bool     { return false }
func (m UpdateRecord) ConfirmPrompt() string { return "" }
func (m UpdateRecord) Structural() bool      { return false }

func (m UpdateRecord) Apply(s Snapshot, cat valueobjects.CategoryKey) (Snapshot, error) {
	return s.Update(cat, m.Index, m.Record)
}

// AddRecord prepends the default record.
type AddRecord struct{}

func (AddRecord) Name() string          { return OpAdd }
func (AddRecord) Destructive() bool     { return false }
func (AddRecord) ConfirmPrompt() string { return "" }
func (AddRecord) Structural() bool      { return true }

func (AddRecord) Apply(s Snapshot, cat valueobjects.CategoryKey) (Snapshot, error) {
	return s.Add(cat), nil
}

// InsertRecordAfter inserts the default record after Index.
type InsertRecordAfter struct {
	Index int
}

func (m InsertRecordAfter) Name() string          { return OpInsertAfter }
func (m InsertRecordAfter) Destructive() bool     { return false }
func (m InsertRecordAfter) ConfirmPrompt() string { return "" }
func (m InsertRecordAfter) Structural() bool      { return true }

func (m InsertRecordAfter) Apply(s Snapshot, cat valueobjects.CategoryKey) (Snapshot, error) {
	return s.InsertAfter(cat, m.Index)
}

// DeleteRecord removes one record.
type DeleteRecord struct {
	Index int
}

func (m DeleteRecord) Name() string          { return OpDelete }
func (m DeleteRecord) Destructive() bool     { return true }
func (m DeleteRecord) ConfirmPrompt() string { return "确定要删除这道题吗？" }
func (m DeleteRecord) Structural() bool      { return true }

func (m DeleteRecord) Apply(s Snapshot, cat valueobjects.CategoryKey) (Snapshot, error) {
	return s.Delete(cat, m.Index)
}

// BatchDeleteRecords removes a set of records.
type BatchDeleteRecords struct {
	Indices []int
}

func (m BatchDeleteRecords) Name() string      { return OpBatchDelete }
func (m BatchDeleteRecords) Destructive() bool { return len(m.Indices) > 0 }
func (m BatchDeleteRecords) Structural() bool  { return len(m.Indices) > 0 }

func (m BatchDeleteRecords) ConfirmPrompt() string {
	if len(m.Indices) == 0 {
		return ""
	}
	return fmt.Sprintf("确定要删除选中的 %d 道题目吗？", m.distinct())
}

func (m BatchDeleteRecords) Apply(s Snapshot, cat valueobjects.CategoryKey) (Snapshot, error) {
	return s.BatchDelete(cat, m.Indices)
}

func (m BatchDeleteRecords) distinct() int {
	seen := make(map[int]struct{}, len(m.Indices))
	for _, i := range m.Indices {
		seen[i] = struct{}{}
	}
	return len(seen)
}
