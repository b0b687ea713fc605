package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/sguter90/switchmaestro/pkg/persistence"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "8059", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, storage.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 5*1024*1024, cfg.Storage.QuotaBytes)
	assert.Equal(t, 2*time.Second, cfg.Simulator.ConnectDelay)
	assert.Equal(t, 0.7, cfg.Simulator.SuccessRate)
	assert.Equal(t, 2*time.Second, cfg.Diagnostics.Interval)
	assert.Equal(t, 20, cfg.Diagnostics.Samples)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Overrides(t *testing.T) {
	v := newTestViper()
	v.Set("server.allowed_origins", "https://dash.example.com, http://localhost:5173")
	v.Set("storage.driver", "file")
	v.Set("storage.path", "~/layouts/layout.json")
	v.Set("simulator.connect_delay", "500ms")

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://dash.example.com", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, storage.DriverFile, cfg.Storage.Driver)
	assert.False(t, strings.HasPrefix(cfg.Storage.Path, "~"))
	assert.True(t, strings.HasSuffix(cfg.Storage.Path, filepath.Join("layouts", "layout.json")))
	assert.Equal(t, 500*time.Millisecond, cfg.Simulator.ConnectDelay)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "switchmaestro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
storage:
  driver: memory
diagnostics:
  samples: 5
`), 0o644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, storage.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Diagnostics.Samples)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"empty port", "server.port", ""},
		{"success rate above one", "simulator.success_rate", 1.5},
		{"negative success rate", "simulator.success_rate", -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper()
			v.Set(tt.key, tt.val)
			_, err := loadConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " c ", ""}))
	assert.Nil(t, splitList(nil))
}

func TestNewLogger(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)

	logger, err := newLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.Log.Level = "loud"
	_, err = newLogger(cfg)
	assert.Error(t, err)
}

func TestPrintLayout(t *testing.T) {
	l := models.EmptyLayout()
	l.Widgets = []models.Widget{{ID: "w1", X: 3, Y: 5, Width: 2, Height: 2, Kind: models.WidgetSwitch,
		Config: models.WidgetConfig{"switchId": "sw4", "label": "Fog"}}}
	l.Patterns = []models.PatternBank{{ID: "p1", Name: "Deck Lights", Switches: []string{"sw1", "sw3"}, Color: "#3b82f6"}}

	var out bytes.Buffer
	require.NoError(t, printLayout(&out, persistence.LoadResult{Layout: l, Restored: []string{persistence.KeyWidgets}}))

	text := out.String()
	assert.Contains(t, text, "Restored: "+persistence.KeyWidgets)
	assert.Contains(t, text, "label=Fog switchId=sw4")
	assert.Contains(t, text, "3,5")
	assert.Contains(t, text, "2x2")
	assert.Contains(t, text, "Deck Lights")
	assert.Contains(t, text, "sw1, sw3")
}

func TestPrintLayout_NothingSaved(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printLayout(&out, persistence.LoadResult{Layout: models.EmptyLayout()}))
	assert.Contains(t, out.String(), "Nothing saved yet")
	assert.Contains(t, out.String(), "Widgets (0)")
}

func TestConfigSummary(t *testing.T) {
	assert.Equal(t, "-", configSummary(nil))
	assert.Equal(t, "a=1 b=true", configSummary(models.WidgetConfig{"b": true, "a": 1}))
}
