package layout

import "math"

const (
	// GridSize is the number of columns and rows of the placement grid
	GridSize = 12
	// MaxCell is the last valid cell index on either axis
	MaxCell = GridSize - 1
	// MinSpan and MaxSpan bound a widget's width and height in cells
	MinSpan = 1
	MaxSpan = GridSize
)

// Point is a pointer position in screen pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the on-screen rectangle of the grid container
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Cell is an integer grid coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// laidOut reports whether the container has a usable size
func (r Rect) laidOut() bool {
	return r.Width > 0 && r.Height > 0 && !math.IsInf(r.Width, 0) && !math.IsInf(r.Height, 0)
}

// ResolveCell maps a pointer position inside the container to a grid cell,
// clamped to [0, MaxCell] on both axes. A container that has not been laid
// out yet resolves everything to the origin cell.
func ResolveCell(p Point, container Rect) Cell {
	if !container.laidOut() {
		return Cell{}
	}

	gx := math.Floor(GridSize * (p.X - container.Left) / container.Width)
	gy := math.Floor(GridSize * (p.Y - container.Top) / container.Height)

	return Cell{
		X: clampToInt(gx, 0, MaxCell),
		Y: clampToInt(gy, 0, MaxCell),
	}
}

// clampToInt clamps in float space first so NaN and ±Inf never reach the
// integer conversion.
func clampToInt(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
