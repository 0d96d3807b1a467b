package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/application/session/editor"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// ResetScope describes what the fault-boundary reset throws away.
const ResetScope = "Drops the editing session (active list, open edits, batch selection) " +
	"and every in-memory change not yet written, then reloads all datasets from the store."

// State is the compact session summary.
type State struct {
	Dataset   valueobjects.DatasetName `json:"dataset"`
	Category  valueobjects.CategoryKey `json:"category"`
	Mode      string                   `json:"mode"`
	BatchMode bool                     `json:"batchMode"`
	Selected  []int                    `json:"selected"`
	Editing   []int                    `json:"editing,omitempty"`
}

// ResetResult reports a completed reset.
type ResetResult struct {
	Scope   string                           `json:"scope"`
	Records map[valueobjects.DatasetName]int `json:"records"`
	Session State                            `json:"session"`
}

// Tracker queues repository events for the session. It is a separate
// value so that it can be handed to the repository's publisher before the
// session service exists.
type Tracker struct {
	mu      sync.Mutex
	pending []events.DomainEvent
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Publish implements ports.EventPublisher. It never blocks on the session,
// because the repository publishes while a session action may be running.
func (t *Tracker) Publish(_ context.Context, event events.DomainEvent) error {
	switch event.GetEventType() {
	case events.TypeRecordsMutated, events.TypeDatasetReloaded, events.TypeDatasetReplaced:
		t.mu.Lock()
		t.pending = append(t.pending, event)
		t.mu.Unlock()
	}
	return nil
}

func (t *Tracker) drain() []events.DomainEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = nil
	return pending
}

// Service serializes every session action and routes record edits through
// the repository service. Repository changes seen by its Tracker invalidate
// positional item state.
type Service struct {
	mu      sync.Mutex
	session *Session
	repo    *services.RepositoryService
	tracker *Tracker
	logger  *zap.Logger
}

// NewService creates a session service with a fresh session. tracker may be
// nil when nothing else mutates the repository.
func NewService(repo *services.RepositoryService, tracker *Tracker, logger *zap.Logger) *Service {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Service{session: New(), repo: repo, tracker: tracker, logger: logger}
}

// sync applies queued repository events. Callers hold mu.
func (s *Service) sync() {
	active := string(s.session.Dataset().Name())
	for _, event := range s.tracker.drain() {
		if event.GetAggregateID() != active {
			continue
		}
		switch e := event.(type) {
		case events.RecordsMutated:
			if e.Structural && e.Category == s.session.Category() {
				s.session.Forget()
			}
		default:
			s.session.Forget()
		}
	}
}

func (s *Service) snapshot() aggregates.Snapshot {
	return s.repo.Snapshot(s.session.Dataset().Name())
}

func (s *Service) state() State {
	mode := ModeList
	if s.session.Gallery() {
		mode = ModeGallery
	}
	return State{
		Dataset:   s.session.Dataset().Name(),
		Category:  s.session.Category(),
		Mode:      mode,
		BatchMode: s.session.Selection().Active(),
		Selected:  s.session.Selection().Indices(),
		Editing:   s.session.Editing(),
	}
}

// State returns the session summary.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()
	return s.state()
}

// View renders the visible list.
func (s *Service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()
	return s.session.View(s.snapshot())
}

// SwitchDataset activates the named dataset at its default category.
func (s *Service) SwitchDataset(name string) (View, error) {
	d, err := valueobjects.ParseDataset(name)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()
	s.session.SwitchDataset(d)
	s.logger.Debug("Dataset switched",
		zap.String("dataset", string(d.Name())),
		zap.String("category", string(s.session.Category())),
	)
	return s.session.View(s.snapshot()), nil
}

// SelectCategory switches the visible list within the active dataset.
func (s *Service) SelectCategory(key string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()
	if err := s.session.SelectCategory(valueobjects.CategoryKey(key)); err != nil {
		return View{}, err
	}
	return s.session.View(s.snapshot()), nil
}

// item resolves index against the visible list. Callers hold mu.
func (s *Service) item(index int) (*editor.Item, error) {
	if s.session.Gallery() {
		return nil, pkgerrors.NewValidationError("the gallery has no items")
	}
	list := s.snapshot().List(s.session.Category())
	if index < 0 || index >= len(list) {
		return nil, pkgerrors.NewInvalidIndexError("item", index, len(list))
	}
	return s.session.Item(index, list[index]), nil
}

// withItem runs fn on the item at index and returns the resulting view.
func (s *Service) withItem(index int, fn func(*editor.Item) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	it, err := s.item(index)
	if err != nil {
		return View{}, err
	}
	if err := fn(it); err != nil {
		return View{}, err
	}
	return s.session.View(s.snapshot()), nil
}

// ToggleItem expands or collapses an item. It is disabled in batch mode,
// where a click selects instead.
func (s *Service) ToggleItem(index int) (View, error) {
	return s.withItem(index, func(it *editor.Item) error {
		if s.session.Selection().Active() {
			return pkgerrors.NewValidationError("items cannot be opened in batch mode").WithCode("selection_state")
		}
		return it.Toggle()
	})
}

// Click is the primary interaction on an item: it toggles selection in
// batch mode and expands or collapses otherwise.
func (s *Service) Click(index int) (View, error) {
	return s.withItem(index, func(it *editor.Item) error {
		if s.session.Selection().Active() {
			return s.session.Selection().Toggle(index)
		}
		return it.Toggle()
	})
}

// ToggleDetail shows or hides the detail of an item.
func (s *Service) ToggleDetail(index int) (View, error) {
	return s.withItem(index, (*editor.Item).ToggleDetail)
}

// BeginEdit opens an item for editing.
func (s *Service) BeginEdit(index int) (View, error) {
	return s.withItem(index, func(it *editor.Item) error {
		it.BeginEdit()
		return nil
	})
}

// SetField rewrites one field of an item's scratch copy.
func (s *Service) SetField(index int, field, value string) (View, error) {
	return s.withItem(index, func(it *editor.Item) error {
		return it.SetField(field, value)
	})
}

// CancelEdit discards an item's scratch copy.
func (s *Service) CancelEdit(index int) (View, error) {
	return s.withItem(index, (*editor.Item).Cancel)
}

// SaveItem commits an item's scratch copy through the update mutation. A
// failed write is reported by the gateway and does not reopen the edit.
func (s *Service) SaveItem(ctx context.Context, index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	it, err := s.item(index)
	if err != nil {
		return View{}, err
	}
	rec, err := it.Pending()
	if err != nil {
		return View{}, err
	}
	list, err := s.repo.Apply(ctx, s.session.Target(), aggregates.UpdateRecord{Index: index, Record: rec}, nil)
	if err != nil {
		return View{}, err
	}
	it.Commit(list[index])
	return s.session.View(s.snapshot()), nil
}

// ToggleBatchMode enters or leaves batch mode. Either way the selection is
// cleared.
func (s *Service) ToggleBatchMode() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()
	s.session.Selection().ToggleMode()
	return s.state()
}

// ToggleSelected flips selection of the item at index.
func (s *Service) ToggleSelected(index int) (View, error) {
	return s.withItem(index, func(*editor.Item) error {
		return s.session.Selection().Toggle(index)
	})
}

// SelectAll selects every item of the visible list, or clears the selection
// when everything is selected already.
func (s *Service) SelectAll() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	n := s.snapshot().Len(s.session.Category())
	if err := s.session.Selection().SelectAll(n); err != nil {
		return View{}, err
	}
	return s.session.View(s.snapshot()), nil
}

// BatchDelete deletes the selected items after confirmation, then clears
// the selection and leaves batch mode. An empty selection does nothing. A
// declined confirmation keeps the selection so the user can adjust it.
func (s *Service) BatchDelete(ctx context.Context, confirmer ports.Confirmer) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	sel := s.session.Selection()
	if !sel.Active() {
		return View{}, pkgerrors.NewValidationError("batch mode is off").WithCode("selection_state")
	}
	if sel.Len() == 0 {
		return s.session.View(s.snapshot()), nil
	}

	m := aggregates.BatchDeleteRecords{Indices: sel.Indices()}
	if _, err := s.repo.Apply(ctx, s.session.Target(), m, confirmer); err != nil {
		return View{}, err
	}
	s.session.Forget()
	sel.SetActive(false)
	return s.session.View(s.snapshot()), nil
}

// Add prepends a default record to the visible list.
func (s *Service) Add(ctx context.Context) (View, error) {
	return s.mutate(ctx, aggregates.AddRecord{}, nil)
}

// InsertAfter inserts a default record after index of the visible list.
func (s *Service) InsertAfter(ctx context.Context, index int) (View, error) {
	return s.mutate(ctx, aggregates.InsertRecordAfter{Index: index}, nil)
}

// Delete removes one record of the visible list after confirmation.
func (s *Service) Delete(ctx context.Context, index int, confirmer ports.Confirmer) (View, error) {
	return s.mutate(ctx, aggregates.DeleteRecord{Index: index}, confirmer)
}

func (s *Service) mutate(ctx context.Context, m aggregates.Mutation, confirmer ports.Confirmer) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	if _, err := s.repo.Apply(ctx, s.session.Target(), m, confirmer); err != nil {
		return View{}, err
	}
	if m.Structural() {
		s.session.Forget()
	}
	return s.session.View(s.snapshot()), nil
}

// Reset is the fault-boundary recovery action. It reloads every dataset
// from the store and starts a fresh session; see ResetScope.
func (s *Service) Reset(ctx context.Context) (ResetResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := ResetResult{
		Scope:   ResetScope,
		Records: make(map[valueobjects.DatasetName]int),
	}
	for _, d := range valueobjects.Datasets() {
		snap, err := s.repo.Reload(ctx, d.Name())
		if err != nil {
			return ResetResult{}, err
		}
		result.Records[d.Name()] = snap.Count()
	}

	s.session = New()
	s.sync()
	result.Session = s.state()

	s.logger.Warn("Session reset", zap.Any("records", result.Records))
	return result, nil
}
