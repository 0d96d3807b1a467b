package editor

import (
	"sort"

	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// Selection is the batch-selection chrome of a list. Membership can only
// change while batch mode is on, and leaving batch mode clears it.
type Selection struct {
	active  bool
	indices map[int]struct{}
}

// NewSelection returns an inactive, empty selection.
func NewSelection() *Selection {
	return &Selection{indices: make(map[int]struct{})}
}

// Active reports whether batch mode is on.
func (s *Selection) Active() bool {
	return s.active
}

// SetActive turns batch mode on or off. Either way the selection starts
// empty.
func (s *Selection) SetActive(on bool) {
	s.active = on
	s.Clear()
}

// ToggleMode flips batch mode.
func (s *Selection) ToggleMode() {
	s.SetActive(!s.active)
}

// Toggle flips membership of index.
func (s *Selection) Toggle(index int) error {
	if !s.active {
		return pkgerrors.NewValidationError("batch mode is off").WithCode("selection_state")
	}
	if index < 0 {
		return pkgerrors.NewInvalidIndexError("select", index, 0)
	}
	if _, ok := s.indices[index]; ok {
		delete(s.indices, index)
	} else {
		s.indices[index] = struct{}{}
	}
	return nil
}

// SelectAll selects every index of a list of length n, or clears the
// selection when all of them are already selected.
func (s *Selection) SelectAll(n int) error {
	if !s.active {
		return pkgerrors.NewValidationError("batch mode is off").WithCode("selection_state")
	}
	if n > 0 && s.allOf(n) {
		s.Clear()
		return nil
	}
	s.Clear()
	for i := 0; i < n; i++ {
		s.indices[i] = struct{}{}
	}
	return nil
}

func (s *Selection) allOf(n int) bool {
	if len(s.indices) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if _, ok := s.indices[i]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether index is selected.
func (s *Selection) Contains(index int) bool {
	_, ok := s.indices[index]
	return ok
}

// Len returns the number of selected indices.
func (s *Selection) Len() int {
	return len(s.indices)
}

// Indices returns the selection in ascending order.
func (s *Selection) Indices() []int {
	out := make([]int, 0, len(s.indices))
	for i := range s.indices {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Clear empties the selection without leaving batch mode.
func (s *Selection) Clear() {
	clear(s.indices)
}
