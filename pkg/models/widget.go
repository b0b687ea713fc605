package models

import "encoding/json"

// WidgetKind identifies which renderer draws a widget
type WidgetKind string

const (
	WidgetSwitch WidgetKind = "switch"
	WidgetMeter  WidgetKind = "meter"
	WidgetStatus WidgetKind = "status"
	WidgetChart  WidgetKind = "chart"
)

// WidgetKinds lists every supported widget kind in picker order
var WidgetKinds = []WidgetKind{WidgetSwitch, WidgetMeter, WidgetStatus, WidgetChart}

// Valid reports whether k is one of the supported widget kinds
func (k WidgetKind) Valid() bool {
	for _, kind := range WidgetKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// WidgetConfig is the free-form per-widget configuration owned by the renderer
type WidgetConfig map[string]interface{}

// Widget is a single element placed on the dashboard grid
type Widget struct {
	ID     string       `json:"id"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Kind   WidgetKind   `json:"type"`
	Config WidgetConfig `json:"config"`
}

// WidgetSpec holds the caller-supplied fields of a widget that is about to be added
type WidgetSpec struct {
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Kind   WidgetKind   `json:"type"`
	Config WidgetConfig `json:"config,omitempty"`
}

// DefaultWidgetSpec returns the geometry used by the "Add Widget" button
func DefaultWidgetSpec(kind WidgetKind) WidgetSpec {
	return WidgetSpec{
		X:      0,
		Y:      0,
		Width:  1,
		Height: 1,
		Kind:   kind,
		Config: WidgetConfig{},
	}
}

// Clone returns a deep copy of the widget, including nested config values
func (w Widget) Clone() Widget {
	w.Config = w.Config.Clone()
	return w
}

// Clone returns a deep copy of the config bag
func (c WidgetConfig) Clone() WidgetConfig {
	if c == nil {
		return WidgetConfig{}
	}
	out := make(WidgetConfig, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case WidgetConfig:
		return val.Clone()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

// GetString returns a string setting or the default value.
func (c WidgetConfig) GetString(key, defaultValue string) string {
	if c == nil {
		return defaultValue
	}
	if val, ok := c[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetInt returns an int setting or the default value.
func (c WidgetConfig) GetInt(key string, defaultValue int) int {
	if c == nil {
		return defaultValue
	}
	if val, ok := c[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case json.Number:
			if i, err := v.Int64(); err == nil {
				return int(i)
			}
		}
	}
	return defaultValue
}

// GetBool returns a bool setting or the default value.
func (c WidgetConfig) GetBool(key string, defaultValue bool) bool {
	if c == nil {
		return defaultValue
	}
	if val, ok := c[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultValue
}
