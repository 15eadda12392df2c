package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/logging"
)

// Pinger checks a dependency's liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is a snapshot of the monitor's state
type HealthStatus struct {
	Healthy      bool      `json:"healthy"`
	LastCheck    time.Time `json:"last_check"`
	LastError    string    `json:"last_error,omitempty"`
	FailureCount int       `json:"failure_count"`
	Uptime       string    `json:"uptime"`
}

// HealthMonitor periodically checks database connectivity. State
// transitions are logged at error level so the notifier picks them up.
type HealthMonitor struct {
	pinger   Pinger
	interval time.Duration

	mu        sync.RWMutex
	healthy   bool
	lastCheck time.Time
	lastErr   error
	failures  int
	startedAt time.Time

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(pinger Pinger, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &HealthMonitor{
		pinger:   pinger,
		interval: interval,
		healthy:  true,
		stopCh:   make(chan struct{}),
		log:      logging.GetLogger("health"),
	}
}

// Start starts the health monitor
func (m *HealthMonitor) Start() {
	if m.running {
		return
	}
	m.running = true
	m.startedAt = time.Now()
	m.wg.Add(1)
	go m.loop()
	m.log.Info().Dur("interval", m.interval).Msg("health monitor started")
}

// Stop stops the health monitor
func (m *HealthMonitor) Stop() {
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
	m.wg.Wait()
	m.log.Info().Msg("health monitor stopped")
}

func (m *HealthMonitor) loop() {
	defer m.wg.Done()

	m.check()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stopCh:
			return
		}
	}
}

func (m *HealthMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.pinger.Ping(ctx)

	m.mu.Lock()
	m.lastCheck = time.Now()
	m.lastErr = err
	wasHealthy := m.healthy
	if err != nil {
		m.failures++
		m.healthy = false
	} else {
		m.failures = 0
		m.healthy = true
	}
	m.mu.Unlock()

	if err != nil && wasHealthy {
		m.log.Error().Err(err).Msg("health check failed")
	} else if err == nil && !wasHealthy {
		m.log.Info().Msg("health check recovered")
	}
}

// Status returns the current health snapshot
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := HealthStatus{
		Healthy:      m.healthy,
		LastCheck:    m.lastCheck,
		FailureCount: m.failures,
		Uptime:       time.Since(m.startedAt).Round(time.Second).String(),
	}
	if m.lastErr != nil {
		status.LastError = m.lastErr.Error()
	}
	return status
}
