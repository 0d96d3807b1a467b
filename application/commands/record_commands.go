package commands

import (
	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/pkg/utils"
)

// RecordCommand is implemented by every command that mutates one category
// list.
type RecordCommand interface {
	Validate() error
	Target() (services.Target, error)
	Mutation() aggregates.Mutation
	Confirmer() ports.Confirmer
	SetResult(records []entities.Record)
}

// TargetFields addresses the list a command mutates and carries the
// confirmation for destructive commands. Prompt, when set, is asked
// instead of relying on Confirmed.
type TargetFields struct {
	Dataset   string          `json:"dataset" validate:"required,oneof=questions knowledge"`
	Category  string          `json:"category" validate:"required"`
	Confirmed bool            `json:"confirmed"`
	Prompt    ports.Confirmer `json:"-" validate:"-"`

	// Result holds the category list after a successful command.
	Result []entities.Record `json:"-" validate:"-"`
}

// Target resolves the dataset variant.
func (f *TargetFields) Target() (services.Target, error) {
	d, err := valueobjects.ParseDataset(f.Dataset)
	if err != nil {
		return services.Target{}, err
	}
	return services.Target{Dataset: d, Category: valueobjects.CategoryKey(f.Category)}, nil
}

// Confirmer returns the prompt to ask before destructive mutations, or nil
// when the caller neither confirmed nor supplied a prompt.
func (f *TargetFields) Confirmer() ports.Confirmer {
	if f.Prompt != nil {
		return f.Prompt
	}
	if f.Confirmed {
		return ports.Confirmed(true)
	}
	return nil
}

// SetResult stores the resulting list.
func (f *TargetFields) SetResult(records []entities.Record) {
	f.Result = records
}

// UpdateRecordCommand replaces the record at Index.
type UpdateRecordCommand struct {
	TargetFields
	Index    int    `json:"index" validate:"gte=0"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Detail   string `json:"detail"`
}

func (c *UpdateRecordCommand) Validate() error { return utils.ValidateStruct(c) }

func (c *UpdateRecordCommand) Mutation() aggregates.Mutation {
	return aggregates.UpdateRecord{
		Index:  c.Index,
		Record: entities.Record{Question: c.Question, Answer: c.Answer, Detail: c.Detail},
	}
}

// AddRecordCommand prepends the default record.
type AddRecordCommand struct {
	TargetFields
}

func (c *AddRecordCommand) Validate() error               { return utils.ValidateStruct(c) }
func (c *AddRecordCommand) Mutation() aggregates.Mutation { return aggregates.AddRecord{} }

// InsertRecordCommand inserts the default record after Index. -1 inserts
// at the front.
type InsertRecordCommand struct {
	TargetFields
	Index int `json:"index" validate:"gte=-1"`
}

func (c *InsertRecordCommand) Validate() error { return utils.ValidateStruct(c) }

func (c *InsertRecordCommand) Mutation() aggregates.Mutation {
	return aggregates.InsertRecordAfter{Index: c.Index}
}

// DeleteRecordCommand removes the record at Index.
type DeleteRecordCommand struct {
	TargetFields
	Index int `json:"index" validate:"gte=0"`
}

func (c *DeleteRecordCommand) Validate() error { return utils.ValidateStruct(c) }

func (c *DeleteRecordCommand) Mutation() aggregates.Mutation {
	return aggregates.DeleteRecord{Index: c.Index}
}

// BatchDeleteRecordsCommand removes a set of records. An empty set is a
// no-op.
type BatchDeleteRecordsCommand struct {
	TargetFields
	Indices []int `json:"indices" validate:"dive,gte=0"`
}

func (c *BatchDeleteRecordsCommand) Validate() error { return utils.ValidateStruct(c) }

func (c *BatchDeleteRecordsCommand) Mutation() aggregates.Mutation {
	return aggregates.BatchDeleteRecords{Indices: c.Indices}
}
