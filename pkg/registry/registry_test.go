package registry

import (
	"context"
	"testing"
	"time"

	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ layout.SwitchRegistry = (*Registry)(nil)

func fixedRandom(v float64) func() float64 {
	return func() float64 { return v }
}

func connectedRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	opts = append([]Option{WithConnectDelay(0), WithSuccessRate(1)}, opts...)
	r := New(opts...)
	require.NoError(t, r.Connect(context.Background()))
	return r
}

func TestNew_DefaultSwitches(t *testing.T) {
	r := New()

	switches := r.ListSwitches()
	require.Len(t, switches, 8)
	assert.Equal(t, "sw1", switches[0].ID)
	assert.Equal(t, "Headlights", switches[0].Name)
	assert.Equal(t, "sw4", switches[3].ID)
	assert.Equal(t, "Winch", switches[3].Name)
	assert.Equal(t, 8, switches[7].Channel)
	for _, sw := range switches {
		assert.Equal(t, "primary", sw.ModuleID)
		assert.False(t, sw.Active)
	}

	status := r.Status()
	assert.False(t, status.Connected)
	assert.True(t, status.SafeState)
	require.Len(t, status.Modules, 1)
	assert.Equal(t, "Main Controller", status.Modules[0].Name)
	assert.Equal(t, 23.0, r.Temperature())
}

func TestConnect_Success(t *testing.T) {
	r := New(WithConnectDelay(0), WithRandom(fixedRandom(0.69)))

	require.NoError(t, r.Connect(context.Background()))

	status := r.Status()
	assert.True(t, status.Connected)
	assert.True(t, status.Modules[0].Connected)
	assert.ErrorIs(t, r.Connect(context.Background()), ErrAlreadyConnected)
}

func TestConnect_FailureRecordsFault(t *testing.T) {
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := New(WithConnectDelay(0), WithRandom(fixedRandom(0.7)), WithClock(func() time.Time { return stamp }))

	err := r.Connect(context.Background())

	assert.ErrorIs(t, err, ErrConnectFailed)
	assert.False(t, r.Connected())
	faults := r.Faults()
	require.Len(t, faults, 1)
	assert.Equal(t, models.FaultConnection, faults[0].Type)
	assert.Nil(t, faults[0].ModuleID)
	assert.Equal(t, stamp, faults[0].Timestamp)
	assert.False(t, faults[0].Resolved)
}

func TestConnect_Canceled(t *testing.T) {
	r := New(WithConnectDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.Connect(ctx), context.Canceled)
	assert.False(t, r.Connecting(), "a canceled attempt must not stay pending")
	assert.Empty(t, r.Faults())
}

func TestConnect_InProgress(t *testing.T) {
	r := New(WithConnectDelay(200*time.Millisecond), WithSuccessRate(1))

	done := make(chan error, 1)
	go func() { done <- r.Connect(context.Background()) }()

	require.Eventually(t, r.Connecting, time.Second, time.Millisecond)
	assert.ErrorIs(t, r.Connect(context.Background()), ErrConnectInProgress)
	assert.NoError(t, <-done)
}

func TestDisconnect(t *testing.T) {
	r := connectedRegistry(t)
	_, err := r.ToggleSwitch("sw1")
	require.NoError(t, err)

	r.Disconnect()

	assert.False(t, r.Connected())
	sw, _ := r.Switch("sw1")
	assert.True(t, sw.Active, "switch state survives a disconnect")
}

func TestToggleSwitch(t *testing.T) {
	r := connectedRegistry(t, WithRandom(fixedRandom(0.5)))

	sw, err := r.ToggleSwitch("sw2")
	require.NoError(t, err)
	assert.True(t, sw.Active)
	assert.Equal(t, 3.0, sw.Current)

	sw, err = r.ToggleSwitch("sw2")
	require.NoError(t, err)
	assert.False(t, sw.Active)
	assert.Equal(t, 0.0, sw.Current)
}

func TestToggleSwitch_CurrentRange(t *testing.T) {
	for _, v := range []float64{0, 0.123, 0.999999} {
		r := connectedRegistry(t, WithRandom(fixedRandom(v)))
		sw, err := r.ToggleSwitch("sw1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sw.Current, 0.5)
		assert.LessOrEqual(t, sw.Current, 5.5)
	}
}

func TestToggleSwitch_Refusals(t *testing.T) {
	disconnected := New()
	_, err := disconnected.ToggleSwitch("sw1")
	assert.ErrorIs(t, err, ErrNotConnected)

	r := connectedRegistry(t)
	_, err = r.ToggleSwitch("sw99")
	assert.ErrorIs(t, err, ErrUnknownSwitch)

	require.True(t, r.SetDisabled("sw3", true))
	_, err = r.ToggleSwitch("sw3")
	assert.ErrorIs(t, err, ErrSwitchDisabled)
	sw, _ := r.Switch("sw3")
	assert.False(t, sw.Active)
}

func TestActivateSwitch(t *testing.T) {
	r := connectedRegistry(t, WithRandom(fixedRandom(0.2)))

	require.NoError(t, r.ActivateSwitch("sw5"))
	sw, _ := r.Switch("sw5")
	assert.True(t, sw.Active)
	assert.Equal(t, 1.5, sw.Current)

	require.NoError(t, r.ActivateSwitch("sw5"), "activating an active switch is a no-op")
	sw, _ = r.Switch("sw5")
	assert.True(t, sw.Active)
}

func TestActivateSwitch_Refusals(t *testing.T) {
	r := connectedRegistry(t)
	r.SetDisabled("sw1", true)
	r.SetFault("sw2", true)

	assert.ErrorIs(t, r.ActivateSwitch("sw1"), ErrSwitchDisabled)
	assert.ErrorIs(t, r.ActivateSwitch("sw2"), ErrSwitchFaulted)
	assert.ErrorIs(t, r.ActivateSwitch("nope"), ErrUnknownSwitch)

	r.Disconnect()
	assert.ErrorIs(t, r.ActivateSwitch("sw3"), ErrNotConnected)
	assert.Equal(t, 0, r.ActiveCount())
}

func TestActivatePatternAgainstRegistry(t *testing.T) {
	r := connectedRegistry(t)
	r.SetDisabled("sw1", true)
	bank := models.PatternBank{Name: "Night Run", Switches: []string{"sw1", "sw3"}}

	result := layout.ActivatePattern(bank, r)

	assert.Equal(t, []string{"sw3"}, result.Requested)
	assert.Equal(t, []string{"sw1"}, result.Skipped)
	assert.Equal(t, 1, r.ActiveCount())
}

func TestSetDisabled_TurnsSwitchOff(t *testing.T) {
	r := connectedRegistry(t)
	_, err := r.ToggleSwitch("sw6")
	require.NoError(t, err)

	r.SetDisabled("sw6", true)

	sw, _ := r.Switch("sw6")
	assert.False(t, sw.Active)
	assert.Equal(t, 0.0, sw.Current)
	assert.False(t, r.SetDisabled("sw99", true))
}

func TestClearFault(t *testing.T) {
	r := New(WithConnectDelay(0), WithSuccessRate(0))
	require.ErrorIs(t, r.Connect(context.Background()), ErrConnectFailed)
	id := r.Faults()[0].ID

	assert.True(t, r.ClearFault(id))
	assert.True(t, r.Faults()[0].Resolved)
	assert.False(t, r.ClearFault("missing"))
}

func TestTotalsAndTemperature(t *testing.T) {
	r := connectedRegistry(t, WithRandom(fixedRandom(0.5)))
	r.ToggleSwitch("sw1")
	r.ToggleSwitch("sw2")

	assert.Equal(t, 2, r.ActiveCount())
	assert.InDelta(t, 6.0, r.TotalCurrent(), 1e-9)

	assert.True(t, r.SetModuleTemperature("primary", 61.5))
	assert.Equal(t, 61.5, r.Temperature())
	assert.False(t, r.SetModuleTemperature("expansion", 40))
}

func TestStatus_IsCopy(t *testing.T) {
	r := New()
	status := r.Status()
	status.Modules[0].Temperature = 99

	assert.Equal(t, 23.0, r.Temperature())
}
