package layout

import (
	"math"
	"sync"
)

// Edge names which side of a widget is being dragged
type Edge string

const (
	EdgeRight  Edge = "right"
	EdgeBottom Edge = "bottom"
	EdgeCorner Edge = "corner"
)

// Valid reports whether e is a known edge
func (e Edge) Valid() bool {
	return e == EdgeRight || e == EdgeBottom || e == EdgeCorner
}

func (e Edge) horizontal() bool { return e == EdgeRight || e == EdgeCorner }
func (e Edge) vertical() bool   { return e == EdgeBottom || e == EdgeCorner }

// Size is a widget span in grid cells
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type gesture struct {
	widgetID    string
	edge        Edge
	origin      Point
	container   Rect
	start       Size
	last        Size
	unsubscribe func()
}

// ResizeEngine turns a pointer drag into live, clamped width/height changes.
// It is Idle until Begin succeeds and returns to Idle on pointer release.
type ResizeEngine struct {
	store   *WidgetStore
	surface InputSurface

	mu     sync.Mutex
	active *gesture
}

// NewResizeEngine creates an idle engine that resizes widgets in store
func NewResizeEngine(store *WidgetStore, surface InputSurface) *ResizeEngine {
	return &ResizeEngine{
		store:   store,
		surface: surface,
	}
}

// Begin starts a resize gesture on a widget. An unknown widget leaves the
// engine idle. Starting a second gesture returns ErrGestureInProgress.
func (e *ResizeEngine) Begin(widgetID string, edge Edge, origin Point, container Rect) error {
	if !edge.Valid() {
		return &ValidationError{Field: "edge", Message: "must be one of right, bottom, corner"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return ErrGestureInProgress
	}

	w, ok := e.store.Widget(widgetID)
	if !ok {
		return nil
	}

	start := Size{Width: w.Width, Height: w.Height}
	g := &gesture{
		widgetID:  widgetID,
		edge:      edge,
		origin:    origin,
		container: container,
		start:     start,
		last:      start,
	}
	e.active = g
	if e.surface != nil {
		g.unsubscribe = e.surface.Subscribe(
			func(p Point) { e.Move(p) },
			func(Point) { e.End() },
		)
	}
	return nil
}

// Move recomputes the size for the pointer position and applies it to the
// store immediately. It returns the applied size and false when idle.
func (e *ResizeEngine) Move(p Point) (Size, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.active
	if g == nil {
		return Size{}, false
	}

	next := g.last
	if g.edge.horizontal() {
		change := spanChange(p.X-g.origin.X, g.container.Width)
		next.Width = clampInt(g.start.Width+change, MinSpan, MaxSpan)
	}
	if g.edge.vertical() {
		change := spanChange(p.Y-g.origin.Y, g.container.Height)
		next.Height = clampInt(g.start.Height+change, MinSpan, MaxSpan)
	}

	g.last = next
	e.store.ResizeWidget(g.widgetID, next.Width, next.Height)
	return next, true
}

// End commits the last computed size, detaches the pointer listeners and
// returns the engine to Idle. Calling End while idle does nothing.
func (e *ResizeEngine) End() (Size, bool) {
	e.mu.Lock()
	g := e.active
	e.active = nil
	e.mu.Unlock()

	if g == nil {
		return Size{}, false
	}
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
	return g.last, true
}

// Active reports whether a gesture is in progress
func (e *ResizeEngine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != nil
}

// ActiveWidget returns the id of the widget being resized, if any
func (e *ResizeEngine) ActiveWidget() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return "", false
	}
	return e.active.widgetID, true
}

// spanChange converts a pixel delta into whole grid cells. Half cells round
// away from zero in both directions. The result is bounded so the int
// conversion is always defined.
func spanChange(delta, extent float64) int {
	if extent <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 0
	}
	return clampToInt(math.Round(GridSize*delta/extent), -2*MaxSpan, 2*MaxSpan)
}
