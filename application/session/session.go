// Package session owns the state of the single editing session: which list
// is visible and the UI state of its items.
package session

import (
	"fmt"
	"sort"

	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/application/session/editor"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// View modes.
const (
	ModeList    = "list"
	ModeGallery = "gallery"
)

// Session is the projection state: active dataset, active category, item
// state keyed by index and the batch selection. It is not safe for
// concurrent use; Service serializes access.
type Session struct {
	dataset   valueobjects.Dataset
	category  valueobjects.CategoryKey
	items     map[int]*editor.Item
	selection *editor.Selection
}

// New starts on the primary dataset and its default category.
func New() *Session {
	s := &Session{selection: editor.NewSelection()}
	s.SwitchDataset(valueobjects.PrimaryDataset{})
	return s
}

func (s *Session) Dataset() valueobjects.Dataset      { return s.dataset }
func (s *Session) Category() valueobjects.CategoryKey { return s.category }
func (s *Session) Selection() *editor.Selection       { return s.selection }

// Gallery reports whether the active category routes to the demo gallery.
func (s *Session) Gallery() bool {
	return valueobjects.IsGallery(s.dataset, s.category)
}

// Target addresses the visible list in the repository.
func (s *Session) Target() services.Target {
	return services.Target{Dataset: s.dataset, Category: s.category}
}

// SwitchDataset activates d and resets the category to d's default,
// whatever was selected before.
func (s *Session) SwitchDataset(d valueobjects.Dataset) {
	s.dataset = d
	s.category = d.DefaultCategory()
	s.leaveList()
}

// SelectCategory switches the visible list within the active dataset.
func (s *Session) SelectCategory(key valueobjects.CategoryKey) error {
	if !valueobjects.Has(s.dataset, key) {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("category %q in dataset %q", key, s.dataset.Name()))
	}
	s.category = key
	s.leaveList()
	return nil
}

// leaveList drops everything tied to the positions of the current list.
func (s *Session) leaveList() {
	s.items = make(map[int]*editor.Item)
	s.selection.SetActive(false)
}

// Forget drops item state and the selection but stays in batch mode. It is
// used when indices of the visible list shifted.
func (s *Session) Forget() {
	s.items = make(map[int]*editor.Item)
	s.selection.Clear()
}

// Item returns the state of the item at index, creating it on first use.
// rec is the record currently stored at that index.
func (s *Session) Item(index int, rec entities.Record) *editor.Item {
	it, ok := s.items[index]
	if !ok {
		it = editor.NewItem(rec)
		s.items[index] = it
		return it
	}
	it.Refresh(rec)
	return it
}

// Editing returns the indices of items with an open edit.
func (s *Session) Editing() []int {
	var out []int
	for i, it := range s.items {
		if it.Editing() {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// ItemView is one row of the visible list.
type ItemView struct {
	Index       int              `json:"index"`
	Record      entities.Record  `json:"record"`
	Phase       editor.Phase     `json:"phase"`
	DetailShown bool             `json:"detailShown"`
	Selected    bool             `json:"selected"`
	Draft       *entities.Record `json:"draft,omitempty"`
}

// View is what the client renders for the active dataset and category.
type View struct {
	Dataset    valueobjects.DatasetName    `json:"dataset"`
	Category   valueobjects.CategoryKey    `json:"category"`
	Mode       string                      `json:"mode"`
	Categories []valueobjects.Category     `json:"categories"`
	Gallery    []valueobjects.GalleryEntry `json:"gallery,omitempty"`
	Items      []ItemView                  `json:"items"`
	BatchMode  bool                        `json:"batchMode"`
	Selected   []int                       `json:"selected"`
}

// View projects snap through the session state. An absent category yields
// an empty list, and the gallery category yields the demo entries instead.
func (s *Session) View(snap aggregates.Snapshot) View {
	v := View{
		Dataset:    s.dataset.Name(),
		Category:   s.category,
		Mode:       ModeList,
		Categories: s.dataset.Categories(),
		Items:      []ItemView{},
		BatchMode:  s.selection.Active(),
		Selected:   s.selection.Indices(),
	}
	if s.Gallery() {
		v.Mode = ModeGallery
		v.Gallery = valueobjects.Gallery()
		return v
	}

	for i, rec := range snap.List(s.category) {
		row := ItemView{
			Index:    i,
			Record:   rec,
			Phase:    editor.Collapsed,
			Selected: s.selection.Contains(i),
		}
		if it, ok := s.items[i]; ok {
			it.Refresh(rec)
			row.Phase = it.Phase()
			row.DetailShown = it.DetailShown()
			if it.Editing() {
				draft := it.Scratch()
				row.Draft = &draft
			}
		}
		v.Items = append(v.Items, row)
	}
	return v
}
