package registry

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/sguter90/switchmaestro/pkg/models"
	"go.uber.org/zap"
	tomb "gopkg.in/tomb.v2"
)

// ErrSamplerStarted is returned when Start is called a second time
var ErrSamplerStarted = errors.New("sampler already started")

// Source is what the sampler reads on every tick
type Source interface {
	TotalCurrent() float64
	ActiveCount() int
	Temperature() float64
}

// Summary condenses the sample history into the figures shown on the
// diagnostics page
type Summary struct {
	CurrentTemperature float64 `json:"currentTemperature"`
	CurrentPower       float64 `json:"currentPowerConsumption"`
	TemperatureRate    float64 `json:"temperatureRate"`
	SystemEfficiency   float64 `json:"systemEfficiency"`
	ActiveChannels     int     `json:"activeChannels"`
	Samples            int     `json:"samples"`
}

// Sampler records diagnostics into a bounded ring at a fixed interval
type Sampler struct {
	source   Source
	interval time.Duration
	capacity int
	random   func() float64
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.RWMutex
	ring    []models.DiagnosticsSample
	next    int
	full    bool
	started bool

	t tomb.Tomb
}

// SamplerOption configures a Sampler
type SamplerOption func(*Sampler)

// WithSamplerRandom replaces the noise source; fn must return values in [0, 1)
func WithSamplerRandom(fn func() float64) SamplerOption {
	return func(s *Sampler) {
		if fn != nil {
			s.random = fn
		}
	}
}

// WithSamplerClock replaces time.Now for sample timestamps
func WithSamplerClock(now func() time.Time) SamplerOption {
	return func(s *Sampler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSamplerLogger sets the sampler logger
func WithSamplerLogger(logger *zap.Logger) SamplerOption {
	return func(s *Sampler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSampler creates a stopped sampler keeping at most capacity samples
func NewSampler(source Source, interval time.Duration, capacity int, opts ...SamplerOption) *Sampler {
	if capacity <= 0 {
		capacity = 20
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	s := &Sampler{
		source:   source,
		interval: interval,
		capacity: capacity,
		random:   noNoise,
		now:      time.Now,
		logger:   zap.NewNop(),
		ring:     make([]models.DiagnosticsSample, capacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func noNoise() float64 { return 0.5 }

// Start takes a first sample and begins ticking
func (s *Sampler) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrSamplerStarted
	}
	s.started = true
	s.mu.Unlock()

	s.SampleOnce()
	s.t.Go(s.loop)
	s.logger.Info("✓ diagnostics sampler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the sampler and waits for the loop to exit
func (s *Sampler) Stop() error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil
	}

	s.t.Kill(nil)
	err := s.t.Wait()
	s.logger.Info("✓ diagnostics sampler stopped")
	return err
}

func (s *Sampler) loop() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SampleOnce()
		case <-s.t.Dying():
			return nil
		}
	}
}

// SampleOnce reads the source and appends a sample, with the same small
// fluctuation the live charts show
func (s *Sampler) SampleOnce() models.DiagnosticsSample {
	sample := models.DiagnosticsSample{
		Timestamp:      s.now(),
		TotalCurrent:   math.Max(0, s.source.TotalCurrent()+(s.random()*0.5-0.25)),
		ActiveSwitches: s.source.ActiveCount(),
		Temperature:    s.source.Temperature() + (s.random()*2 - 1),
	}

	s.mu.Lock()
	s.ring[s.next] = sample
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.full = true
	}
	s.mu.Unlock()

	return sample
}

// Samples returns the retained samples, oldest first
func (s *Sampler) Samples() []models.DiagnosticsSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordered()
}

func (s *Sampler) ordered() []models.DiagnosticsSample {
	if !s.full {
		return append([]models.DiagnosticsSample(nil), s.ring[:s.next]...)
	}
	out := make([]models.DiagnosticsSample, 0, s.capacity)
	out = append(out, s.ring[s.next:]...)
	return append(out, s.ring[:s.next]...)
}

// Summary computes the diagnostics figures over the retained samples
func (s *Sampler) Summary() Summary {
	s.mu.RLock()
	samples := s.ordered()
	s.mu.RUnlock()

	if len(samples) == 0 {
		return Summary{SystemEfficiency: 95}
	}

	first := samples[0]
	last := samples[len(samples)-1]

	summary := Summary{
		CurrentTemperature: last.Temperature,
		CurrentPower:       last.TotalCurrent,
		ActiveChannels:     last.ActiveSwitches,
		SystemEfficiency:   math.Max(0, math.Min(100, 95-last.Temperature/2)),
		Samples:            len(samples),
	}
	if len(samples) > 1 {
		summary.TemperatureRate = (last.Temperature - first.Temperature) / float64(len(samples))
	}
	return summary
}
