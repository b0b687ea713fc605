package api

import (
	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/sguter90/switchmaestro/pkg/registry"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error    string            `json:"error"`
	Field    string            `json:"field,omitempty"`
	Failures map[string]string `json:"failures,omitempty"`
}

// IDResponse carries the id of a created resource
type IDResponse struct {
	ID string `json:"id"`
}

// PositionRequest moves a widget to a grid cell
type PositionRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SizeRequest sets the spans of a widget
type SizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ReorderRequest moves the widget at index From to index To
type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// DropRequest is a pointer release over the grid container
type DropRequest struct {
	Point     layout.Point `json:"point"`
	Container layout.Rect  `json:"container"`
}

// AddAtRequest adds a widget at the cell under the pointer
type AddAtRequest struct {
	Widget    models.WidgetSpec `json:"widget"`
	Point     layout.Point      `json:"point"`
	Container layout.Rect       `json:"container"`
}

// DropResponse reports where a widget landed
type DropResponse struct {
	ID   string      `json:"id"`
	Cell layout.Cell `json:"cell"`
}

// ResizeRequest starts a resize gesture
type ResizeRequest struct {
	Edge      layout.Edge  `json:"edge"`
	Origin    layout.Point `json:"origin"`
	Container layout.Rect  `json:"container"`
}

// ResizeState reports the engine after a pointer event
type ResizeState struct {
	Active   bool        `json:"active"`
	WidgetID string      `json:"widgetId,omitempty"`
	Size     layout.Size `json:"size"`
}

// PatternRequest creates a pattern bank
type PatternRequest struct {
	Name     string   `json:"name"`
	Switches []string `json:"switches"`
	Color    string   `json:"color,omitempty"`
}

// SaveResponse is returned by a successful layout save
type SaveResponse struct {
	Status string `json:"status"`
}

// LoadResponse reports which keys a layout load restored
type LoadResponse struct {
	Restored []string          `json:"restored"`
	Problems map[string]string `json:"problems,omitempty"`
	Layout   models.Layout     `json:"layout"`
}

// ThemeResponse is the theme with its resolved palette
type ThemeResponse struct {
	Theme   models.ThemeConfig `json:"theme"`
	Palette models.Palette     `json:"palette"`
	Dark    bool               `json:"dark"`
}

// DiagnosticsResponse is the sample history and its summary
type DiagnosticsResponse struct {
	Samples []models.DiagnosticsSample `json:"samples"`
	Summary registry.Summary           `json:"summary"`
}
