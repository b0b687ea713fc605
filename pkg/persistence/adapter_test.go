package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockKV is an in-memory KV that can be told to fail per key
type mockKV struct {
	mu        sync.Mutex
	values    map[string]string
	failSet   map[string]error
	failGet   map[string]error
	setDelay  time.Duration
	inFlight  int32
	overlaps  int32
	setCalled []string
}

func newMockKV() *mockKV {
	return &mockKV{
		values:  map[string]string{},
		failSet: map[string]error{},
		failGet: map[string]error{},
	}
}

func (m *mockKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failGet[key]; ok {
		return "", false, err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockKV) Set(_ context.Context, key, value string) error {
	if atomic.AddInt32(&m.inFlight, 1) > 1 {
		atomic.AddInt32(&m.overlaps, 1)
	}
	defer atomic.AddInt32(&m.inFlight, -1)

	if m.setDelay > 0 {
		time.Sleep(m.setDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled = append(m.setCalled, key)
	if err, ok := m.failSet[key]; ok {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *mockKV) Close() error { return nil }

type noSwitches struct{}

func (noSwitches) ListSwitches() []models.Switch { return nil }
func (noSwitches) ActivateSwitch(string) error   { return nil }

func fixtureDashboard(t *testing.T) *layout.Dashboard {
	t.Helper()

	d := layout.NewDashboard(noSwitches{})
	d.Restore(models.Layout{
		Widgets: []models.Widget{{
			ID: "w1", X: 3, Y: 5, Width: 2, Height: 2,
			Kind:   models.WidgetSwitch,
			Config: models.WidgetConfig{"switchId": "sw4"},
		}},
		Theme: models.ThemeConfig{
			SwitchStyle:     models.SwitchStyleIndustrial,
			ColorScheme:     models.ColorSchemeRed,
			BackgroundColor: "#111827",
		},
		Patterns: []models.PatternBank{},
	})
	_, err := d.Customize.AddPatternBank("Deck Lights", []string{"sw1", "sw3"}, "#3b82f6")
	require.NoError(t, err)
	return d
}

func TestAdapter_RoundTrip(t *testing.T) {
	kv := newMockKV()
	source := fixtureDashboard(t)

	require.NoError(t, NewAdapter(kv, source).Save(context.Background()))

	target := layout.NewDashboard(noSwitches{})
	result := NewAdapter(kv, target).Load(context.Background())

	assert.Empty(t, result.Problems)
	assert.ElementsMatch(t, Keys, result.Restored)
	assert.Equal(t, source.Snapshot(), target.Snapshot(), "ids and field values must survive verbatim")
}

func TestAdapter_RoundTripAllBackends(t *testing.T) {
	memory, err := storage.NewMemoryStore(0)
	require.NoError(t, err)
	sqlite, err := storage.OpenSQLite(t.TempDir() + "/layout.db")
	require.NoError(t, err)
	file, err := storage.OpenFileStore(t.TempDir() + "/layout.json")
	require.NoError(t, err)

	for name, kv := range map[string]storage.KV{"memory": memory, "sqlite": sqlite, "file": file} {
		t.Run(name, func(t *testing.T) {
			defer kv.Close()
			source := fixtureDashboard(t)
			require.NoError(t, NewAdapter(kv, source).Save(context.Background()))

			target := layout.NewDashboard(noSwitches{})
			NewAdapter(kv, target).Load(context.Background())
			assert.Equal(t, source.Snapshot(), target.Snapshot())
		})
	}
}

func TestAdapter_NumericConfigKeepsPrecision(t *testing.T) {
	kv := newMockKV()
	source := layout.NewDashboard(noSwitches{})
	source.Restore(models.Layout{
		Widgets: []models.Widget{{
			ID: "w1", X: 0, Y: 0, Width: 2, Height: 2,
			Kind:   models.WidgetSwitch,
			Config: models.WidgetConfig{"serial": int64(9007199254740993), "max": 40},
		}},
		Theme:    models.DefaultTheme(),
		Patterns: []models.PatternBank{},
	})
	require.NoError(t, NewAdapter(kv, source).Save(context.Background()))
	assert.Contains(t, kv.values[KeyWidgets], `"serial":9007199254740993`)

	target := layout.NewDashboard(noSwitches{})
	result := NewAdapter(kv, target).Load(context.Background())
	require.Empty(t, result.Problems)

	widgets := target.Snapshot().Widgets
	require.Len(t, widgets, 1)
	cfg := widgets[0].Config
	assert.Equal(t, json.Number("9007199254740993"), cfg["serial"])
	assert.Equal(t, 40, cfg.GetInt("max", 0))
	assert.Equal(t, 9007199254740993, cfg.GetInt("serial", 0))

	first := kv.values[KeyWidgets]
	require.NoError(t, NewAdapter(kv, target).Save(context.Background()))
	assert.Equal(t, first, kv.values[KeyWidgets], "a reloaded layout saves byte for byte")
}

func TestAdapter_LoadRejectsTrailingData(t *testing.T) {
	kv := newMockKV()
	kv.values[KeyWidgets] = `[] []`

	result := NewAdapter(kv, layout.NewDashboard(noSwitches{})).Load(context.Background())

	assert.Contains(t, result.Problems, KeyWidgets)
	assert.Empty(t, result.Layout.Widgets)
}

func TestAdapter_WireFormat(t *testing.T) {
	kv := newMockKV()
	require.NoError(t, NewAdapter(kv, fixtureDashboard(t)).Save(context.Background()))

	assert.JSONEq(t,
		`[{"id":"w1","x":3,"y":5,"width":2,"height":2,"type":"switch","config":{"switchId":"sw4"}}]`,
		kv.values[KeyWidgets])
	assert.JSONEq(t,
		`{"switchStyle":"industrial","colorScheme":"red","backgroundColor":"#111827"}`,
		kv.values[KeyTheme])
	assert.Contains(t, kv.values[KeyPatterns], `"name":"Deck Lights"`)
}

func TestAdapter_SaveFailingKeyDoesNotRollBack(t *testing.T) {
	kv := newMockKV()
	kv.failSet[KeyTheme] = storage.ErrQuotaExceeded

	err := NewAdapter(kv, fixtureDashboard(t)).Save(context.Background())

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []string{KeyTheme}, perr.FailedKeys())
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)

	assert.Contains(t, kv.values, KeyWidgets, "keys written before the failure stay written")
	assert.Contains(t, kv.values, KeyPatterns, "keys after the failure are still attempted")
	assert.Equal(t, Keys, kv.setCalled)
}

func TestAdapter_SaveLeavesStateUsable(t *testing.T) {
	kv := newMockKV()
	kv.failSet[KeyWidgets] = errors.New("disk unplugged")
	d := fixtureDashboard(t)
	adapter := NewAdapter(kv, d)

	require.Error(t, adapter.Save(context.Background()))
	assert.True(t, d.Widgets.MoveWidget("w1", 0, 0))

	delete(kv.failSet, KeyWidgets)
	assert.NoError(t, adapter.Save(context.Background()), "a failed save is retryable")
}

func TestAdapter_VolatileStoreFailsEveryKey(t *testing.T) {
	kv := newMockKV()
	adapter := NewAdapter(kv, fixtureDashboard(t),
		WithVolatileStore(errors.New("file store: invalid character")))
	assert.False(t, adapter.Durable())

	err := adapter.Save(context.Background())

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []string{KeyPatterns, KeyTheme, KeyWidgets}, perr.FailedKeys())
	assert.ErrorIs(t, err, ErrNotDurable)
	assert.Contains(t, perr.Failures[KeyWidgets].Error(), "invalid character")
	assert.Equal(t, Keys, kv.setCalled, "the stand-in store still receives the layout")

	assert.True(t, NewAdapter(kv, fixtureDashboard(t)).Durable())
}

func TestAdapter_ConcurrentSavesAreSequenced(t *testing.T) {
	kv := newMockKV()
	kv.setDelay = 2 * time.Millisecond
	adapter := NewAdapter(kv, fixtureDashboard(t))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, adapter.Save(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&kv.overlaps))
	assert.Len(t, kv.setCalled, 12)
	for i := 0; i < len(kv.setCalled); i += 3 {
		assert.Equal(t, Keys, kv.setCalled[i:i+3], "saves must not interleave")
	}
}

func TestAdapter_LoadFreshInstall(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := fixtureDashboard(t)

	result := NewAdapter(newMockKV(), d, WithLogger(zap.New(core))).Load(context.Background())

	assert.Equal(t, models.EmptyLayout(), d.Snapshot())
	assert.Empty(t, result.Restored)
	assert.Empty(t, result.Problems)
	assert.Equal(t, 0, logs.Len(), "absent keys are not worth a warning")
}

func TestAdapter_LoadCorruptKeys(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := newMockKV()
	kv.values[KeyWidgets] = `{not json`
	kv.values[KeyTheme] = `{"switchStyle":"classic"}`
	kv.values[KeyPatterns] = `[{"id":"p1","name":"Dock","switches":["sw2"]}]`
	kv.failGet[KeyPatterns] = errors.New("read failed")

	d := layout.NewDashboard(noSwitches{})
	result := NewAdapter(kv, d, WithLogger(zap.New(core))).Load(context.Background())

	assert.Equal(t, []string{KeyTheme}, result.Restored)
	assert.Contains(t, result.Problems, KeyWidgets)
	assert.Contains(t, result.Problems, KeyPatterns)

	snapshot := d.Snapshot()
	assert.Empty(t, snapshot.Widgets)
	assert.Empty(t, snapshot.Patterns)
	assert.Equal(t, models.SwitchStyleClassic, snapshot.Theme.SwitchStyle)
	assert.Equal(t, models.ColorSchemeBlue, snapshot.Theme.ColorScheme, "missing theme fields keep their defaults")

	warnings := logs.FilterMessage("❌ falling back to default layout data").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, KeyWidgets, warnings[0].ContextMap()["key"])
	assert.Equal(t, KeyPatterns, warnings[1].ContextMap()["key"])
}

func TestAdapter_LoadNullCollections(t *testing.T) {
	kv := newMockKV()
	kv.values[KeyWidgets] = `null`
	kv.values[KeyPatterns] = `null`

	result := LoadLayout(context.Background(), kv)

	assert.NotNil(t, result.Layout.Widgets)
	assert.NotNil(t, result.Layout.Patterns)
}

func TestPersistenceError_Message(t *testing.T) {
	err := &PersistenceError{Failures: map[string]error{
		KeyTheme:   errors.New("b"),
		KeyWidgets: errors.New("a"),
	}}

	assert.Equal(t, "failed to save layout: powerControl_theme: b; powerControl_widgets: a", err.Error())
}
