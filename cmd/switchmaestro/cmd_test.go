package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/sguter90/switchmaestro/pkg/persistence"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		patternName, patternSwitches, patternColor = "", "", ""
		layoutJSON = false
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func useFileStorage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.json")
	t.Setenv("SWITCHMAESTRO_STORAGE_DRIVER", storage.DriverFile)
	t.Setenv("SWITCHMAESTRO_STORAGE_PATH", path)
	t.Setenv("SWITCHMAESTRO_LOG_LEVEL", "error")
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "switchmaestro "+version+"\n", out)
}

func TestPatternCommands(t *testing.T) {
	useFileStorage(t)

	out, err := runCommand(t, "pattern", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No pattern banks saved yet.")

	out, err = runCommand(t, "pattern", "add", "--name", "Deck Lights", "--switches", "sw1,sw3", "--color", "#3b82f6")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Pattern bank created")

	out, err = runCommand(t, "layout", "show", "--json")
	require.NoError(t, err)

	var l models.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	require.Len(t, l.Patterns, 1)
	assert.Equal(t, "Deck Lights", l.Patterns[0].Name)
	assert.Equal(t, []string{"sw1", "sw3"}, l.Patterns[0].Switches)

	_, err = runCommand(t, "pattern", "remove", "missing")
	assert.Error(t, err)

	_, err = runCommand(t, "pattern", "remove", l.Patterns[0].ID)
	require.NoError(t, err)

	out, err = runCommand(t, "pattern", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No pattern banks saved yet.")
}

func TestPatternAdd_Rejected(t *testing.T) {
	useFileStorage(t)

	_, err := runCommand(t, "pattern", "add", "--name", "Empty", "--switches", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "switches")
}

func TestLayoutReset(t *testing.T) {
	useFileStorage(t)

	_, err := runCommand(t, "pattern", "add", "--name", "Deck", "--switches", "sw1")
	require.NoError(t, err)

	out, err := runCommand(t, "layout", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Layout reset to defaults")

	out, err = runCommand(t, "layout", "show", "--json")
	require.NoError(t, err)

	var l models.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Equal(t, models.EmptyLayout(), l)
}

// unreadableKV wraps a KV and fails Get for selected keys
type unreadableKV struct {
	storage.KV
	failGet map[string]error
	sets    []string
}

func (u *unreadableKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err, ok := u.failGet[key]; ok {
		return "", false, err
	}
	return u.KV.Get(ctx, key)
}

func (u *unreadableKV) Set(ctx context.Context, key, value string) error {
	u.sets = append(u.sets, key)
	return u.KV.Set(ctx, key, value)
}

func savedLayoutKV(t *testing.T) storage.KV {
	t.Helper()
	kv, err := storage.NewMemoryStore(0)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	l := models.EmptyLayout()
	l.Widgets = []models.Widget{{ID: "w1", X: 1, Y: 1, Width: 2, Height: 2,
		Kind: models.WidgetSwitch, Config: models.WidgetConfig{"switchId": "sw2"}}}
	require.NoError(t, persistence.SaveLayout(context.Background(), kv, l))
	return kv
}

func TestEditSavedLayout_UnreadableKeyWritesNothing(t *testing.T) {
	base := savedLayoutKV(t)
	before, _, err := base.Get(context.Background(), persistence.KeyWidgets)
	require.NoError(t, err)

	kv := &unreadableKV{KV: base, failGet: map[string]error{persistence.KeyWidgets: errors.New("connection reset")}}
	called := false
	err = editSavedLayout(context.Background(), kv, zaptest.NewLogger(t), func(d *layout.Dashboard) (bool, error) {
		called = true
		_, err := d.Customize.AddPatternBank("Deck", []string{"sw1"}, "")
		return true, err
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), persistence.KeyWidgets)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, called)
	assert.Empty(t, kv.sets)

	after, _, err := base.Get(context.Background(), persistence.KeyWidgets)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditSavedLayout_KeepsOtherCollections(t *testing.T) {
	kv := &unreadableKV{KV: savedLayoutKV(t)}

	err := editSavedLayout(context.Background(), kv, zaptest.NewLogger(t), func(d *layout.Dashboard) (bool, error) {
		_, err := d.Customize.AddPatternBank("Deck", []string{"sw1"}, "")
		return true, err
	})
	require.NoError(t, err)

	result := persistence.LoadLayout(context.Background(), kv)
	require.Len(t, result.Layout.Widgets, 1)
	assert.Equal(t, "w1", result.Layout.Widgets[0].ID)
	require.Len(t, result.Layout.Patterns, 1)
	assert.Equal(t, "Deck", result.Layout.Patterns[0].Name)
}

func TestPatternAdd_CorruptWidgetsKeyIsKept(t *testing.T) {
	path := useFileStorage(t)
	saved := `{"powerControl_widgets":"{oops","powerControl_patterns":"[]"}`
	require.NoError(t, os.WriteFile(path, []byte(saved), 0o600))

	_, err := runCommand(t, "pattern", "add", "--name", "Deck", "--switches", "sw1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing was changed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, saved, string(data))

	out, err := runCommand(t, "pattern", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No pattern banks saved yet.")
}
