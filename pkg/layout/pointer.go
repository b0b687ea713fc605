package layout

import "sync"

// InputSurface delivers global pointer events for the length of a gesture.
// Subscribe returns the function that detaches both listeners.
type InputSurface interface {
	Subscribe(onMove, onUp func(Point)) (unsubscribe func())
}

type pointerListener struct {
	onMove func(Point)
	onUp   func(Point)
}

// PointerBus is an in-process InputSurface. The presentation layer publishes
// raw pointer events into it and active gestures receive them.
type PointerBus struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]pointerListener
}

// NewPointerBus creates a bus with no listeners
func NewPointerBus() *PointerBus {
	return &PointerBus{
		listeners: make(map[int]pointerListener),
	}
}

// Subscribe attaches a move and an up listener
func (b *PointerBus) Subscribe(onMove, onUp func(Point)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = pointerListener{onMove: onMove, onUp: onUp}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Move publishes a pointer-move event
func (b *PointerBus) Move(p Point) {
	for _, l := range b.snapshot() {
		if l.onMove != nil {
			l.onMove(p)
		}
	}
}

// Up publishes a pointer-release event
func (b *PointerBus) Up(p Point) {
	for _, l := range b.snapshot() {
		if l.onUp != nil {
			l.onUp(p)
		}
	}
}

// Listeners returns the number of attached listener pairs
func (b *PointerBus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// snapshot copies the listeners so callbacks may unsubscribe while running
func (b *PointerBus) snapshot() []pointerListener {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]pointerListener, 0, len(b.listeners))
	for _, l := range b.listeners {
		out = append(out, l)
	}
	return out
}
