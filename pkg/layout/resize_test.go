package layout

import (
	"math"
	"testing"

	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1200px container: one cell is 100px on both axes
var resizeContainer = Rect{Left: 0, Top: 0, Width: 1200, Height: 1200}

func newResizeFixture(t *testing.T, width, height int) (*WidgetStore, *PointerBus, *ResizeEngine) {
	t.Helper()

	store := NewWidgetStore(sequentialIDs())
	store.AddWidget(models.WidgetSpec{X: 0, Y: 0, Width: width, Height: height, Kind: models.WidgetChart})
	bus := NewPointerBus()
	return store, bus, NewResizeEngine(store, bus)
}

func TestResizeEngine_Clamp(t *testing.T) {
	testCases := []struct {
		name     string
		edge     Edge
		to       Point
		expected Size
	}{
		{name: "Grow past the grid", edge: EdgeRight, to: Point{5000, 0}, expected: Size{12, 3}},
		{name: "Shrink past one cell", edge: EdgeRight, to: Point{-5000, 0}, expected: Size{1, 3}},
		{name: "Bottom only", edge: EdgeBottom, to: Point{900, 250}, expected: Size{4, 6}},
		{name: "Corner both axes", edge: EdgeCorner, to: Point{210, -140}, expected: Size{6, 2}},
		{name: "Rounding to nearest", edge: EdgeRight, to: Point{149, 0}, expected: Size{5, 3}},
		{name: "Rounding half away", edge: EdgeRight, to: Point{150, 0}, expected: Size{6, 3}},
		{name: "Negative half shrinks", edge: EdgeRight, to: Point{-50, 0}, expected: Size{3, 3}},
		{name: "Just under negative half", edge: EdgeRight, to: Point{-49, 0}, expected: Size{4, 3}},
		{name: "Huge delta", edge: EdgeCorner, to: Point{1e300, -1e300}, expected: Size{12, 1}},
		{name: "Infinite delta", edge: EdgeCorner, to: Point{math.Inf(1), math.Inf(-1)}, expected: Size{12, 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, _, engine := newResizeFixture(t, 4, 3)

			require.NoError(t, engine.Begin("w1", tc.edge, Point{0, 0}, resizeContainer))
			size, ok := engine.Move(tc.to)
			require.True(t, ok)
			assert.Equal(t, tc.expected, size)

			w, _ := store.Widget("w1")
			assert.Equal(t, tc.expected.Width, w.Width)
			assert.Equal(t, tc.expected.Height, w.Height)
		})
	}
}

func TestResizeEngine_AlwaysWithinBounds(t *testing.T) {
	_, _, engine := newResizeFixture(t, 4, 4)
	require.NoError(t, engine.Begin("w1", EdgeCorner, Point{600, 600}, resizeContainer))

	for d := -3000.0; d <= 3000; d += 17 {
		size, _ := engine.Move(Point{600 + d, 600 - d})
		if size.Width < MinSpan || size.Width > MaxSpan || size.Height < MinSpan || size.Height > MaxSpan {
			t.Fatalf("size %+v out of bounds for delta %v", size, d)
		}
	}
}

func TestResizeEngine_AppliesLive(t *testing.T) {
	store, bus, engine := newResizeFixture(t, 2, 2)
	require.NoError(t, engine.Begin("w1", EdgeRight, Point{100, 100}, resizeContainer))

	bus.Move(Point{300, 100})
	w, _ := store.Widget("w1")
	assert.Equal(t, 4, w.Width, "size must be applied on every move")

	bus.Move(Point{500, 100})
	w, _ = store.Widget("w1")
	assert.Equal(t, 6, w.Width)

	bus.Up(Point{500, 100})
	assert.False(t, engine.Active())
	w, _ = store.Widget("w1")
	assert.Equal(t, 6, w.Width, "release commits the last computed size")
}

func TestResizeEngine_SizeIsRelativeToStart(t *testing.T) {
	store, bus, engine := newResizeFixture(t, 3, 3)
	require.NoError(t, engine.Begin("w1", EdgeRight, Point{0, 0}, resizeContainer))

	bus.Move(Point{200, 0})
	bus.Move(Point{200, 0})
	bus.Move(Point{100, 0})
	bus.Up(Point{100, 0})

	w, _ := store.Widget("w1")
	assert.Equal(t, 4, w.Width)
}

func TestResizeEngine_ListenersDetachedOnce(t *testing.T) {
	_, bus, engine := newResizeFixture(t, 4, 4)

	for i := 0; i < 5; i++ {
		require.NoError(t, engine.Begin("w1", EdgeCorner, Point{0, 0}, resizeContainer))
		assert.Equal(t, 1, bus.Listeners())

		bus.Move(Point{100, 100})
		bus.Up(Point{100, 100})
		assert.Equal(t, 0, bus.Listeners(), "gesture %d leaked a listener", i)

		_, ok := engine.End()
		assert.False(t, ok, "second end must be a no-op")
		assert.Equal(t, 0, bus.Listeners())
	}
}

func TestResizeEngine_IgnoresEventsAfterRelease(t *testing.T) {
	store, bus, engine := newResizeFixture(t, 4, 4)
	require.NoError(t, engine.Begin("w1", EdgeRight, Point{0, 0}, resizeContainer))

	bus.Up(Point{0, 0})
	bus.Move(Point{800, 0})

	w, _ := store.Widget("w1")
	assert.Equal(t, 4, w.Width)

	_, ok := engine.Move(Point{800, 0})
	assert.False(t, ok)
}

func TestResizeEngine_GestureInProgress(t *testing.T) {
	store, bus, engine := newResizeFixture(t, 4, 4)
	store.AddWidget(models.DefaultWidgetSpec(models.WidgetMeter))

	require.NoError(t, engine.Begin("w1", EdgeRight, Point{0, 0}, resizeContainer))
	err := engine.Begin("w2", EdgeRight, Point{0, 0}, resizeContainer)
	assert.ErrorIs(t, err, ErrGestureInProgress)

	id, ok := engine.ActiveWidget()
	require.True(t, ok)
	assert.Equal(t, "w1", id)
	assert.Equal(t, 1, bus.Listeners())

	bus.Up(Point{0, 0})
	assert.NoError(t, engine.Begin("w2", EdgeRight, Point{0, 0}, resizeContainer))
}

func TestResizeEngine_UnknownWidget(t *testing.T) {
	_, bus, engine := newResizeFixture(t, 4, 4)

	err := engine.Begin("missing", EdgeCorner, Point{0, 0}, resizeContainer)

	assert.NoError(t, err)
	assert.False(t, engine.Active())
	assert.Equal(t, 0, bus.Listeners())
}

func TestResizeEngine_InvalidEdge(t *testing.T) {
	_, bus, engine := newResizeFixture(t, 4, 4)

	err := engine.Begin("w1", Edge("left"), Point{0, 0}, resizeContainer)

	assert.True(t, IsValidationError(err))
	assert.False(t, engine.Active())
	assert.Equal(t, 0, bus.Listeners())
}

func TestResizeEngine_ZeroContainer(t *testing.T) {
	store, _, engine := newResizeFixture(t, 4, 4)
	require.NoError(t, engine.Begin("w1", EdgeCorner, Point{0, 0}, Rect{}))

	size, ok := engine.Move(Point{900, 900})

	require.True(t, ok)
	assert.Equal(t, Size{4, 4}, size)
	w, _ := store.Widget("w1")
	assert.Equal(t, 4, w.Width)
}

func TestResizeEngine_WidgetRemovedMidGesture(t *testing.T) {
	store, bus, engine := newResizeFixture(t, 4, 4)
	require.NoError(t, engine.Begin("w1", EdgeRight, Point{0, 0}, resizeContainer))

	store.RemoveWidget("w1")
	bus.Move(Point{300, 0})
	bus.Up(Point{300, 0})

	assert.Equal(t, 0, store.Len())
	assert.False(t, engine.Active())
	assert.Equal(t, 0, bus.Listeners())
}
