package layout

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sguter90/switchmaestro/pkg/models"
)

// WidgetStore is the authoritative ordered collection of placed widgets.
// Insertion order is the render and z-order. Callers only ever see copies.
type WidgetStore struct {
	mu      sync.RWMutex
	widgets []models.Widget
	newID   func() string
}

// WidgetStoreOption configures a WidgetStore
type WidgetStoreOption func(*WidgetStore)

// WithIDGenerator overrides how new widget ids are minted
func WithIDGenerator(gen func() string) WidgetStoreOption {
	return func(s *WidgetStore) {
		s.newID = gen
	}
}

// NewWidgetStore creates an empty widget store
func NewWidgetStore(opts ...WidgetStoreOption) *WidgetStore {
	s := &WidgetStore{
		widgets: []models.Widget{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddWidget appends a widget built from spec and returns its new id.
// Geometry is stored as given.
func (s *WidgetStore) AddWidget(spec models.WidgetSpec) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := models.Widget{
		ID:     s.newID(),
		X:      spec.X,
		Y:      spec.Y,
		Width:  spec.Width,
		Height: spec.Height,
		Kind:   spec.Kind,
		Config: spec.Config.Clone(),
	}
	s.widgets = append(s.widgets, w)
	return w.ID
}

// MoveWidget sets the grid position of a widget. Unknown ids are ignored.
func (s *WidgetStore) MoveWidget(id string, x, y int) bool {
	return s.update(id, func(w *models.Widget) {
		w.X = x
		w.Y = y
	})
}

// ResizeWidget sets the spans of a widget. Unknown ids are ignored.
func (s *WidgetStore) ResizeWidget(id string, width, height int) bool {
	return s.update(id, func(w *models.Widget) {
		w.Width = width
		w.Height = height
	})
}

// UpdateWidgetConfig shallow-merges partial into the widget config.
// Unknown ids are ignored.
func (s *WidgetStore) UpdateWidgetConfig(id string, partial models.WidgetConfig) bool {
	incoming := partial.Clone()
	return s.update(id, func(w *models.Widget) {
		if w.Config == nil {
			w.Config = models.WidgetConfig{}
		}
		for k, v := range incoming {
			w.Config[k] = v
		}
	})
}

// RemoveWidget deletes a widget. Unknown ids are ignored.
func (s *WidgetStore) RemoveWidget(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.widgets = append(s.widgets[:idx], s.widgets[idx+1:]...)
	return true
}

// ReorderWidget moves the widget at index from to index to, shifting the
// widgets in between. Out-of-range indexes are ignored.
func (s *WidgetStore) ReorderWidget(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.widgets)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}

	moved := s.widgets[from]
	s.widgets = append(s.widgets[:from], s.widgets[from+1:]...)
	s.widgets = append(s.widgets[:to], append([]models.Widget{moved}, s.widgets[to:]...)...)
	return true
}

// ListWidgets returns a deep copy of the widgets in order
func (s *WidgetStore) ListWidgets() []models.Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Widget, len(s.widgets))
	for i, w := range s.widgets {
		out[i] = w.Clone()
	}
	return out
}

// Widget returns a copy of a single widget
func (s *WidgetStore) Widget(id string) (models.Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Widget{}, false
	}
	return s.widgets[idx].Clone(), true
}

// Len returns the number of placed widgets
func (s *WidgetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.widgets)
}

// Replace swaps the whole collection, keeping ids as given
func (s *WidgetStore) Replace(widgets []models.Widget) {
	next := make([]models.Widget, len(widgets))
	for i, w := range widgets {
		next[i] = w.Clone()
	}

	s.mu.Lock()
	s.widgets = next
	s.mu.Unlock()
}

func (s *WidgetStore) update(id string, fn func(w *models.Widget)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	fn(&s.widgets[idx])
	return true
}

func (s *WidgetStore) indexOf(id string) int {
	for i := range s.widgets {
		if s.widgets[i].ID == id {
			return i
		}
	}
	return -1
}
