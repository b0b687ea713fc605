package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"go.uber.org/zap"
)

// Storage keys, one per customizable collection
const (
	KeyWidgets  = "powerControl_widgets"
	KeyTheme    = "powerControl_theme"
	KeyPatterns = "powerControl_patterns"
)

// Keys lists the storage keys in write order
var Keys = []string{KeyWidgets, KeyTheme, KeyPatterns}

// ErrNotDurable marks a save that reached a store which will not survive a
// restart, such as the in-memory fallback used when the configured backend
// failed to open
var ErrNotDurable = errors.New("storage is not durable")

// PersistenceError reports the keys a Save could not write. Keys not listed
// were written successfully and stay written.
type PersistenceError struct {
	Failures map[string]error
}

func (e *PersistenceError) Error() string {
	keys := e.FailedKeys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, e.Failures[k])
	}
	return "failed to save layout: " + strings.Join(parts, "; ")
}

// FailedKeys returns the failing keys in sorted order
func (e *PersistenceError) FailedKeys() []string {
	keys := make([]string, 0, len(e.Failures))
	for k := range e.Failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unwrap exposes the per-key causes to errors.Is and errors.As
func (e *PersistenceError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, k := range e.FailedKeys() {
		errs = append(errs, e.Failures[k])
	}
	return errs
}

// LoadResult describes where each collection came from after Load
type LoadResult struct {
	Layout models.Layout
	// Restored lists keys decoded from storage; every other key fell back to
	// its default.
	Restored []string
	// Problems holds read and decode failures. They are logged, never fatal.
	Problems map[string]error
}

// Adapter moves the dashboard state in and out of a KV store
type Adapter struct {
	kv        storage.KV
	dashboard *layout.Dashboard
	logger    *zap.Logger
	saveMu    sync.Mutex
	volatile  error
}

// AdapterOption configures an Adapter
type AdapterOption func(*Adapter)

// WithLogger sets the logger used for load warnings
func WithLogger(logger *zap.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithVolatileStore marks the KV as a stand-in for a backend that could not
// be opened. Saves still reach the KV but report every key as failed with
// ErrNotDurable wrapping cause.
func WithVolatileStore(cause error) AdapterOption {
	return func(a *Adapter) {
		if cause == nil {
			cause = errors.New("configured backend unavailable")
		}
		a.volatile = cause
	}
}

// NewAdapter binds a dashboard to a KV store
func NewAdapter(kv storage.KV, dashboard *layout.Dashboard, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		kv:        kv,
		dashboard: dashboard,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save writes each collection under its own key. Calls never overlap; a
// second Save waits for the first to finish.
func (a *Adapter) Save(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	if err := SaveLayout(ctx, a.kv, a.dashboard.Snapshot()); err != nil || a.volatile == nil {
		return err
	}

	failures := make(map[string]error, len(Keys))
	for _, key := range Keys {
		failures[key] = fmt.Errorf("%w: %v", ErrNotDurable, a.volatile)
	}
	return &PersistenceError{Failures: failures}
}

// Durable reports whether saves reach the configured backend
func (a *Adapter) Durable() bool {
	return a.volatile == nil
}

// Load reads every key and replaces the dashboard state. It never fails:
// missing or unreadable keys fall back to defaults.
func (a *Adapter) Load(ctx context.Context) LoadResult {
	result := LoadLayout(ctx, a.kv)
	for _, key := range Keys {
		if err, ok := result.Problems[key]; ok {
			a.logger.Warn("❌ falling back to default layout data",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	a.dashboard.Restore(result.Layout)
	a.logger.Info("✓ layout loaded",
		zap.Strings("restored", result.Restored),
		zap.Int("widgets", len(result.Layout.Widgets)),
		zap.Int("patterns", len(result.Layout.Patterns)))
	return result
}

// SaveLayout encodes and writes the three collections of l independently
func SaveLayout(ctx context.Context, kv storage.KV, l models.Layout) error {
	values := []struct {
		key   string
		value interface{}
	}{
		{KeyWidgets, nonNilWidgets(l.Widgets)},
		{KeyTheme, l.Theme},
		{KeyPatterns, nonNilPatterns(l.Patterns)},
	}

	failures := make(map[string]error)
	for _, v := range values {
		data, err := json.Marshal(v.value)
		if err != nil {
			failures[v.key] = fmt.Errorf("failed to encode: %w", err)
			continue
		}
		if err := kv.Set(ctx, v.key, string(data)); err != nil {
			failures[v.key] = err
		}
	}

	if len(failures) > 0 {
		return &PersistenceError{Failures: failures}
	}
	return nil
}

// LoadLayout reads the three collections, substituting defaults for any key
// that is absent or cannot be decoded
func LoadLayout(ctx context.Context, kv storage.KV) LoadResult {
	result := LoadResult{
		Layout:   models.EmptyLayout(),
		Restored: []string{},
		Problems: map[string]error{},
	}

	if raw, ok := read(ctx, kv, KeyWidgets, &result); ok {
		var widgets []models.Widget
		if err := decodeExact(raw, &widgets); err != nil {
			result.Problems[KeyWidgets] = fmt.Errorf("failed to decode widgets: %w", err)
		} else {
			result.Layout.Widgets = nonNilWidgets(widgets)
			result.Restored = append(result.Restored, KeyWidgets)
		}
	}

	if raw, ok := read(ctx, kv, KeyTheme, &result); ok {
		theme := models.DefaultTheme()
		if err := json.Unmarshal([]byte(raw), &theme); err != nil {
			result.Problems[KeyTheme] = fmt.Errorf("failed to decode theme: %w", err)
		} else {
			result.Layout.Theme = theme
			result.Restored = append(result.Restored, KeyTheme)
		}
	}

	if raw, ok := read(ctx, kv, KeyPatterns, &result); ok {
		var patterns []models.PatternBank
		if err := json.Unmarshal([]byte(raw), &patterns); err != nil {
			result.Problems[KeyPatterns] = fmt.Errorf("failed to decode patterns: %w", err)
		} else {
			result.Layout.Patterns = nonNilPatterns(patterns)
			result.Restored = append(result.Restored, KeyPatterns)
		}
	}

	return result
}

// decodeExact decodes raw into v keeping free-form numbers as json.Number, so
// widget config values such as large integers come back digit for digit
func decodeExact(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

func read(ctx context.Context, kv storage.KV, key string, result *LoadResult) (string, bool) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		result.Problems[key] = err
		return "", false
	}
	return raw, ok
}

func nonNilWidgets(w []models.Widget) []models.Widget {
	if w == nil {
		return []models.Widget{}
	}
	for i := range w {
		if w[i].Config == nil {
			w[i].Config = models.WidgetConfig{}
		}
	}
	return w
}

func nonNilPatterns(p []models.PatternBank) []models.PatternBank {
	if p == nil {
		return []models.PatternBank{}
	}
	return p
}
