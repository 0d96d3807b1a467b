// Package editor holds the per-record UI state of the editing session: the
// expand/edit state machine of one item and the batch selection of a list.
package editor

import (
	"fmt"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// Phase is the position of an item in its edit state machine.
type Phase string

const (
	Collapsed Phase = "collapsed"
	Expanded  Phase = "expanded"
	Editing   Phase = "editing"
)

// Item tracks one displayed record. The detail toggle is independent of the
// phase but frozen while editing.
type Item struct {
	phase       Phase
	detailShown bool
	committed   entities.Record
	scratch     entities.Record
}

// NewItem starts a collapsed item showing rec.
func NewItem(rec entities.Record) *Item {
	return &Item{phase: Collapsed, committed: rec, scratch: rec}
}

func (it *Item) Phase() Phase             { return it.phase }
func (it *Item) DetailShown() bool        { return it.detailShown }
func (it *Item) Record() entities.Record  { return it.committed }
func (it *Item) Scratch() entities.Record { return it.scratch }
func (it *Item) Editing() bool            { return it.phase == Editing }

// Dirty reports whether the scratch copy differs from the committed record.
func (it *Item) Dirty() bool {
	return it.Editing() && it.scratch != it.committed
}

func errEditing(op string) error {
	return pkgerrors.NewValidationError(op + ": item is being edited").WithCode("item_state")
}

func errNotEditing(op string) error {
	return pkgerrors.NewValidationError(op + ": item is not being edited").WithCode("item_state")
}

// Toggle flips between Collapsed and Expanded.
func (it *Item) Toggle() error {
	switch it.phase {
	case Editing:
		return errEditing("toggle")
	case Collapsed:
		it.phase = Expanded
	default:
		it.phase = Collapsed
	}
	return nil
}

// ToggleDetail shows or hides the extended explanation.
func (it *Item) ToggleDetail() error {
	if it.Editing() {
		return errEditing("toggle detail")
	}
	it.detailShown = !it.detailShown
	return nil
}

// BeginEdit copies the committed record into the scratch copy and opens the
// item for editing. Beginning again while editing keeps the scratch.
func (it *Item) BeginEdit() {
	if it.Editing() {
		return
	}
	it.scratch = it.committed
	it.phase = Editing
}

// SetField rewrites one field of the scratch copy.
func (it *Item) SetField(field, value string) error {
	if !it.Editing() {
		return errNotEditing("set field")
	}
	next, ok := it.scratch.WithField(field, value)
	if !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown field %q", field))
	}
	it.scratch = next
	return nil
}

// Pending returns the scratch copy that Save would commit.
func (it *Item) Pending() (entities.Record, error) {
	if !it.Editing() {
		return entities.Record{}, errNotEditing("save")
	}
	return it.scratch, nil
}

// Commit ends editing with rec as the new committed record. It is called
// once the update reached the repository.
func (it *Item) Commit(rec entities.Record) {
	it.committed = rec
	it.scratch = rec
	it.phase = Expanded
}

// Cancel discards the scratch copy and reverts to the committed record.
func (it *Item) Cancel() error {
	if !it.Editing() {
		return errNotEditing("cancel")
	}
	it.scratch = it.committed
	it.phase = Expanded
	return nil
}

// Refresh follows a change of the underlying record made elsewhere. An
// open edit keeps its scratch copy.
func (it *Item) Refresh(rec entities.Record) {
	it.committed = rec
	if !it.Editing() {
		it.scratch = rec
	}
}
