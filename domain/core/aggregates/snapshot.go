package aggregates

import (
	"encoding/json"
	"sort"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// Snapshot is an immutable value of one dataset: category key to ordered
// records. Every operation returns a new Snapshot that replaces only the
// touched category list; the other lists are shared with the receiver.
// Lists handed to a Snapshot must never be written to afterwards.
type Snapshot struct {
	lists map[valueobjects.CategoryKey][]entities.Record
}

// NewSnapshot builds a snapshot from a mapping. The mapping and its lists
// are copied so later writes by the caller cannot leak in.
func NewSnapshot(lists map[valueobjects.CategoryKey][]entities.Record) Snapshot {
	out := make(map[valueobjects.CategoryKey][]entities.Record, len(lists))
	for k, v := range lists {
		out[k] = cloneList(v)
	}
	return Snapshot{lists: out}
}

// EmptySnapshot returns a snapshot without categories.
func EmptySnapshot() Snapshot {
	return Snapshot{lists: map[valueobjects.CategoryKey][]entities.Record{}}
}

// List projects one category. A missing category yields an empty list.
func (s Snapshot) List(cat valueobjects.CategoryKey) []entities.Record {
	return cloneList(s.lists[cat])
}

// Len returns the number of records in a category.
func (s Snapshot) Len(cat valueobjects.CategoryKey) int {
	return len(s.lists[cat])
}

// Has reports whether the category key is present in the mapping.
func (s Snapshot) Has(cat valueobjects.CategoryKey) bool {
	_, ok := s.lists[cat]
	return ok
}

// Categories returns the present category keys in sorted order.
func (s Snapshot) Categories() []valueobjects.CategoryKey {
	keys := make([]valueobjects.CategoryKey, 0, len(s.lists))
	for k := range s.lists {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Count returns the total number of records across categories.
func (s Snapshot) Count() int {
	n := 0
	for _, l := range s.lists {
		n += len(l)
	}
	return n
}

// Update replaces the record at index.
func (s Snapshot) Update(cat valueobjects.CategoryKey, index int, rec entities.Record) (Snapshot, error) {
	cur := s.lists[cat]
	if index < 0 || index >= len(cur) {
		return s, pkgerrors.NewInvalidIndexError("update", index, len(cur))
	}
	next := cloneList(cur)
	next[index] = rec
	return s.with(cat, next), nil
}

// Add prepends the default record.
func (s Snapshot) Add(cat valueobjects.CategoryKey) Snapshot {
	cur := s.lists[cat]
	next := make([]entities.Record, 0, len(cur)+1)
	next = append(next, entities.DefaultRecord())
	next = append(next, cur...)
	return s.with(cat, next)
}

// InsertAfter places the default record at index+1. index -1 inserts at the
// front.
func (s Snapshot) InsertAfter(cat valueobjects.CategoryKey, index int) (Snapshot, error) {
	cur := s.lists[cat]
	if index < -1 || index >= len(cur) {
		return s, pkgerrors.NewInvalidIndexError("insert_after", index, len(cur))
	}
	at := index + 1
	next := make([]entities.Record, 0, len(cur)+1)
	next = append(next, cur[:at]...)
	next = append(next, entities.DefaultRecord())
	next = append(next, cur[at:]...)
	return s.with(cat, next), nil
}

// Delete removes the record at index.
func (s Snapshot) Delete(cat valueobjects.CategoryKey, index int) (Snapshot, error) {
	cur := s.lists[cat]
	if index < 0 || index >= len(cur) {
		return s, pkgerrors.NewInvalidIndexError("delete", index, len(cur))
	}
	next := make([]entities.Record, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	return s.with(cat, next), nil
}

// BatchDelete removes every record whose index is in indices. Duplicates
// are ignored and an empty set returns the receiver unchanged. Any member
// outside the list rejects the whole batch.
func (s Snapshot) BatchDelete(cat valueobjects.CategoryKey, indices []int) (Snapshot, error) {
	if len(indices) == 0 {
		return s, nil
	}
	cur := s.lists[cat]
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(cur) {
			return s, pkgerrors.NewInvalidIndexError("batch_delete", i, len(cur))
		}
		drop[i] = struct{}{}
	}
	next := make([]entities.Record, 0, len(cur)-len(drop))
	for i, rec := range cur {
		if _, gone := drop[i]; !gone {
			next = append(next, rec)
		}
	}
	return s.with(cat, next), nil
}

// Equal compares key sets, list order and field values.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.lists) != len(other.lists) {
		return false
	}
	for k, a := range s.lists {
		b, ok := other.lists[k]
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy that shares nothing with the receiver.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.lists)
}

// Map returns a deep copy of the mapping.
func (s Snapshot) Map() map[valueobjects.CategoryKey][]entities.Record {
	return s.Clone().lists
}

// MarshalJSON writes the mapping as a JSON object. Empty lists are written
// as [] rather than null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[valueobjects.CategoryKey][]entities.Record, len(s.lists))
	for k, v := range s.lists {
		if v == nil {
			v = []entities.Record{}
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a JSON object of category key to record array.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[valueobjects.CategoryKey][]entities.Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		raw = map[valueobjects.CategoryKey][]entities.Record{}
	}
	for k, v := range raw {
		if v == nil {
			raw[k] = []entities.Record{}
		}
	}
	s.lists = raw
	return nil
}

func (s Snapshot) with(cat valueobjects.CategoryKey, list []entities.Record) Snapshot {
	out := make(map[valueobjects.CategoryKey][]entities.Record, len(s.lists)+1)
	for k, v := range s.lists {
		out[k] = v
	}
	out[cat] = list
	return Snapshot{lists: out}
}

func cloneList(l []entities.Record) []entities.Record {
	out := make([]entities.Record, len(l))
	copy(out, l)
	return out
}
