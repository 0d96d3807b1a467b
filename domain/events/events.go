package events

import (
	"time"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

// Event types published on the event stream.
const (
	TypeRecordsMutated    = "records.mutated"
	TypeDatasetSaved      = "dataset.saved"
	TypeDatasetSaveFailed = "dataset.save_failed"
	TypeDatasetReloaded   = "dataset.reloaded"
	TypeDatasetReplaced   = "dataset.replaced"
)

// DomainEvent is something that has already happened to a dataset.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func base(dataset valueobjects.DatasetName, eventType string, at time.Time) BaseEvent {
	return BaseEvent{AggregateID: string(dataset), EventType: eventType, Timestamp: at}
}

// RecordsMutated is raised after a mutation replaced a category list.
type RecordsMutated struct {
	BaseEvent
	Category valueobjects.CategoryKey `json:"category"`
	Op       string                   `json:"op"`
	Length   int                      `json:"length"`

	// Structural is set when record indices after the change shifted.
	Structural bool `json:"structural"`
}

func NewRecordsMutated(dataset valueobjects.DatasetName, cat valueobjects.CategoryKey, op string, length int, at time.Time) RecordsMutated {
	return RecordsMutated{
		BaseEvent: base(dataset, TypeRecordsMutated, at),
		Category:  cat,
		Op:        op,
		Length:    length,
	}
}

// DatasetSaved is raised when a whole-dataset write reached the store.
type DatasetSaved struct {
	BaseEvent
	Records int `json:"records"`
}

func NewDatasetSaved(dataset valueobjects.DatasetName, records int, at time.Time) DatasetSaved {
	return DatasetSaved{BaseEvent: base(dataset, TypeDatasetSaved, at), Records: records}
}

// DatasetSaveFailed is raised when a write failed. The in-memory edit is kept.
type DatasetSaveFailed struct {
	BaseEvent
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func NewDatasetSaveFailed(dataset valueobjects.DatasetName, message, reason string, at time.Time) DatasetSaveFailed {
	return DatasetSaveFailed{
		BaseEvent: base(dataset, TypeDatasetSaveFailed, at),
		Message:   message,
		Reason:    reason,
	}
}

// DatasetReloaded is raised when a dataset was re-read from its store.
type DatasetReloaded struct {
	BaseEvent
	Source string `json:"source"`
}

func NewDatasetReloaded(dataset valueobjects.DatasetName, source string, at time.Time) DatasetReloaded {
	return DatasetReloaded{BaseEvent: base(dataset, TypeDatasetReloaded, at), Source: source}
}

// DatasetReplaced is raised when the persist endpoint overwrote a dataset.
type DatasetReplaced struct {
	BaseEvent
	Records int `json:"records"`
}

func NewDatasetReplaced(dataset valueobjects.DatasetName, records int, at time.Time) DatasetReplaced {
	return DatasetReplaced{BaseEvent: base(dataset, TypeDatasetReplaced, at), Records: records}
}
