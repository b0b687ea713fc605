package registry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sguter90/switchmaestro/pkg/models"
	"go.uber.org/zap"
)

var (
	ErrNotConnected      = errors.New("not connected to controller")
	ErrUnknownSwitch     = errors.New("unknown switch")
	ErrSwitchDisabled    = errors.New("switch is disabled")
	ErrSwitchFaulted     = errors.New("switch is faulted")
	ErrConnectFailed     = errors.New("failed to establish connection with controller")
	ErrConnectInProgress = errors.New("connection attempt already in progress")
	ErrAlreadyConnected  = errors.New("already connected to controller")
)

const (
	defaultConnectDelay   = 2 * time.Second
	defaultSuccessRate    = 0.7
	primaryModuleID       = "primary"
	primaryModuleChannels = 8
)

var defaultSwitchNames = []string{
	"Headlights",
	"Fog Lights",
	"Light Bar",
	"Winch",
	"Air Compressor",
	"Interior Lights",
	"USB Power",
	"Spare",
}

// Registry is a simulated power distribution controller. It owns the switch
// state that dashboards read and pattern banks activate.
type Registry struct {
	mu         sync.RWMutex
	switches   []models.Switch
	status     models.SystemStatus
	connecting bool

	connectDelay time.Duration
	successRate  float64
	random       func() float64
	now          func() time.Time
	logger       *zap.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithConnectDelay sets how long Connect pretends to negotiate
func WithConnectDelay(d time.Duration) Option {
	return func(r *Registry) {
		if d >= 0 {
			r.connectDelay = d
		}
	}
}

// WithSuccessRate sets the probability that Connect succeeds
func WithSuccessRate(rate float64) Option {
	return func(r *Registry) {
		r.successRate = math.Max(0, math.Min(1, rate))
	}
}

// WithRandom replaces the random source; fn must return values in [0, 1)
func WithRandom(fn func() float64) Option {
	return func(r *Registry) {
		if fn != nil {
			r.random = fn
		}
	}
}

// WithClock replaces time.Now for fault timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the registry logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a disconnected controller with the eight default switches
func New(opts ...Option) *Registry {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var rngMu sync.Mutex

	r := &Registry{
		switches:     defaultSwitches(),
		status:       defaultStatus(),
		connectDelay: defaultConnectDelay,
		successRate:  defaultSuccessRate,
		random: func() float64 {
			rngMu.Lock()
			defer rngMu.Unlock()
			return rng.Float64()
		},
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultSwitches() []models.Switch {
	switches := make([]models.Switch, len(defaultSwitchNames))
	for i, name := range defaultSwitchNames {
		switches[i] = models.Switch{
			ID:       fmt.Sprintf("sw%d", i+1),
			Name:     name,
			ModuleID: primaryModuleID,
			Channel:  i + 1,
		}
	}
	return switches
}

func defaultStatus() models.SystemStatus {
	return models.SystemStatus{
		ControlMode:    "primary",
		SafeState:      true,
		WatchdogActive: true,
		Faults:         []models.SystemFault{},
		Modules: []models.Module{{
			ID:          primaryModuleID,
			Name:        "Main Controller",
			Type:        "primary",
			Temperature: 23,
			Channels:    primaryModuleChannels,
		}},
	}
}

// Connect simulates the wireless handshake. A failed attempt is recorded as
// a connection fault and returns ErrConnectFailed.
func (r *Registry) Connect(ctx context.Context) error {
	r.mu.Lock()
	if r.status.Connected {
		r.mu.Unlock()
		return ErrAlreadyConnected
	}
	if r.connecting {
		r.mu.Unlock()
		return ErrConnectInProgress
	}
	r.connecting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.connecting = false
		r.mu.Unlock()
	}()

	if r.connectDelay > 0 {
		timer := time.NewTimer(r.connectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	success := r.random() < r.successRate

	r.mu.Lock()
	defer r.mu.Unlock()

	if !success {
		r.status.Faults = append(r.status.Faults, models.SystemFault{
			ID:        "fault-" + uuid.NewString(),
			Type:      models.FaultConnection,
			Message:   "Failed to establish connection with controller",
			Timestamp: r.now(),
		})
		r.logger.Warn("❌ controller connection failed")
		return ErrConnectFailed
	}

	r.setConnected(true)
	r.logger.Info("✓ connected to controller")
	return nil
}

// Disconnect drops the connection. Switch state is kept.
func (r *Registry) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status.Connected {
		r.logger.Info("disconnected from controller")
	}
	r.setConnected(false)
}

func (r *Registry) setConnected(connected bool) {
	r.status.Connected = connected
	for i := range r.status.Modules {
		r.status.Modules[i].Connected = connected
	}
}

// Connected reports whether the controller link is up
func (r *Registry) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status.Connected
}

// Connecting reports whether a Connect call is in flight
func (r *Registry) Connecting() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connecting
}

// ListSwitches returns a copy of all switches in channel order
func (r *Registry) ListSwitches() []models.Switch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Switch(nil), r.switches...)
}

// Switch returns a single switch
func (r *Registry) Switch(id string) (models.Switch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.indexOf(id); idx >= 0 {
		return r.switches[idx], true
	}
	return models.Switch{}, false
}

// ToggleSwitch flips a switch. Turning it on draws a random current between
// 0.5 and 5.5 A; turning it off drops the current to zero.
func (r *Registry) ToggleSwitch(id string) (models.Switch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sw, err := r.lookupForChange(id)
	if err != nil {
		return models.Switch{}, err
	}

	if sw.Active {
		sw.Active = false
		sw.Current = 0
	} else {
		sw.Active = true
		sw.Current = r.drawCurrent()
	}

	r.logger.Debug("switch toggled",
		zap.String("switch", sw.ID),
		zap.Bool("active", sw.Active),
		zap.Float64("current", sw.Current))
	return *sw, nil
}

// ActivateSwitch turns a switch on. It refuses disabled or faulted switches
// and does nothing for a switch that is already on.
func (r *Registry) ActivateSwitch(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sw, err := r.lookupForChange(id)
	if err != nil {
		return err
	}
	if sw.Fault {
		return fmt.Errorf("%s: %w", id, ErrSwitchFaulted)
	}
	if sw.Active {
		return nil
	}

	sw.Active = true
	sw.Current = r.drawCurrent()
	return nil
}

// lookupForChange returns the switch to mutate; callers hold r.mu
func (r *Registry) lookupForChange(id string) (*models.Switch, error) {
	if !r.status.Connected {
		return nil, ErrNotConnected
	}
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownSwitch)
	}
	sw := &r.switches[idx]
	if sw.Disabled {
		return nil, fmt.Errorf("%s: %w", id, ErrSwitchDisabled)
	}
	return sw, nil
}

func (r *Registry) drawCurrent() float64 {
	return math.Round((r.random()*5+0.5)*10) / 10
}

// SetDisabled locks a switch against changes. Disabling turns it off.
func (r *Registry) SetDisabled(id string, disabled bool) bool {
	return r.update(id, func(sw *models.Switch) {
		sw.Disabled = disabled
		if disabled {
			sw.Active = false
			sw.Current = 0
		}
	})
}

// SetFault marks a switch as faulted or clears the mark
func (r *Registry) SetFault(id string, fault bool) bool {
	return r.update(id, func(sw *models.Switch) {
		sw.Fault = fault
	})
}

// SetEquipmentType records what is wired to a switch
func (r *Registry) SetEquipmentType(id, equipment string) bool {
	return r.update(id, func(sw *models.Switch) {
		sw.EquipmentType = equipment
	})
}

func (r *Registry) update(id string, fn func(sw *models.Switch)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return false
	}
	fn(&r.switches[idx])
	return true
}

func (r *Registry) indexOf(id string) int {
	for i := range r.switches {
		if r.switches[i].ID == id {
			return i
		}
	}
	return -1
}

// Faults returns every recorded fault, resolved ones included
func (r *Registry) Faults() []models.SystemFault {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyFaults(r.status.Faults)
}

// ClearFault marks a fault resolved. Unknown ids are ignored.
func (r *Registry) ClearFault(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.status.Faults {
		if r.status.Faults[i].ID == id {
			r.status.Faults[i].Resolved = true
			return true
		}
	}
	return false
}

// Status returns a copy of the system status
func (r *Registry) Status() models.SystemStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := r.status
	status.Faults = copyFaults(r.status.Faults)
	status.Modules = append([]models.Module(nil), r.status.Modules...)
	return status
}

// SetModuleTemperature updates the reported temperature of a module
func (r *Registry) SetModuleTemperature(moduleID string, celsius float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.status.Modules {
		if r.status.Modules[i].ID == moduleID {
			r.status.Modules[i].Temperature = celsius
			return true
		}
	}
	return false
}

// TotalCurrent sums the draw of all active switches
func (r *Registry) TotalCurrent() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0.0
	for _, sw := range r.switches {
		if sw.Active {
			total += sw.Current
		}
	}
	return total
}

// ActiveCount returns the number of switches that are on
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sw := range r.switches {
		if sw.Active {
			n++
		}
	}
	return n
}

// Temperature returns the primary module temperature
func (r *Registry) Temperature() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.status.Modules {
		if m.ID == primaryModuleID {
			return m.Temperature
		}
	}
	return 0
}

func copyFaults(faults []models.SystemFault) []models.SystemFault {
	out := make([]models.SystemFault, len(faults))
	for i, f := range faults {
		if f.ModuleID != nil {
			id := *f.ModuleID
			f.ModuleID = &id
		}
		out[i] = f
	}
	return out
}
