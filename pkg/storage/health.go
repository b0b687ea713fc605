package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/tomb.v2"
)

// ErrUnhealthy is returned while a monitored connection is down
var ErrUnhealthy = errors.New("storage connection is not healthy")

// Health is a point-in-time view of a monitored connection
type Health struct {
	Healthy   bool      `json:"healthy"`
	LastError string    `json:"lastError,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Monitor pings a SQL connection on an interval. After a failed ping it
// tries to reopen the connection and swaps the new one in.
type Monitor struct {
	reopen   func() (*sql.DB, error)
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	db      *sql.DB
	health  Health
	started bool

	t tomb.Tomb
}

// NewMonitor wraps db. reopen may be nil, in which case a failed ping only
// marks the connection unhealthy.
func NewMonitor(db *sql.DB, reopen func() (*sql.DB, error), interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		reopen:   reopen,
		interval: interval,
		logger:   logger,
		db:       db,
		health:   Health{Healthy: true},
	}
}

// Start runs the ping loop until Stop
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.t.Go(m.loop)
}

func (m *Monitor) loop() error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.t.Dying():
			return nil
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(m.t.Context(nil), 5*time.Second)
			m.Check(ctx)
			cancel()
		}
	}
}

// Stop ends the ping loop. Calling it again, or without Start, is a no-op.
func (m *Monitor) Stop() error {
	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()
	if !started {
		return nil
	}

	m.t.Kill(nil)
	return m.t.Wait()
}

// DB returns the current connection, which changes after a reopen
func (m *Monitor) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Check pings once and reopens the connection if the ping fails. It
// returns the ping error.
func (m *Monitor) Check(ctx context.Context) error {
	err := m.DB().PingContext(ctx)
	if err == nil {
		m.mu.Lock()
		if !m.health.Healthy {
			m.logger.Info("✓ storage connection restored")
		}
		m.health = Health{Healthy: true, CheckedAt: time.Now()}
		m.mu.Unlock()
		return nil
	}

	m.logger.Warn("❌ storage health check failed", zap.Error(err))
	m.markUnhealthy(err)

	if m.reopen == nil {
		return err
	}
	fresh, rerr := m.reopen()
	if rerr != nil {
		m.logger.Error("❌ failed to reopen storage connection", zap.Error(rerr))
		return err
	}

	m.mu.Lock()
	old := m.db
	m.db = fresh
	m.health = Health{Healthy: true, CheckedAt: time.Now()}
	m.mu.Unlock()

	if old != nil {
		old.Close()
	}
	m.logger.Info("✓ storage connection re-established")
	return err
}

func (m *Monitor) markUnhealthy(err error) {
	m.mu.Lock()
	m.health = Health{Healthy: false, LastError: err.Error(), CheckedAt: time.Now()}
	m.mu.Unlock()
}

// Health returns the result of the last check
func (m *Monitor) Health() Health {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.health
}

// Ensure fails fast while the connection is known to be down, otherwise it
// verifies the connection with a short ping
func (m *Monitor) Ensure(ctx context.Context) error {
	m.mu.RLock()
	health := m.health
	db := m.db
	m.mu.RUnlock()

	if !health.Healthy {
		return fmt.Errorf("%w: %s", ErrUnhealthy, health.LastError)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		m.markUnhealthy(err)
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	return nil
}
