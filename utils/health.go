package utils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency; nil means healthy.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Checks    map[string]string `json:"checks"`
	Healthy   bool              `json:"healthy"`
	CheckedAt time.Time         `json:"checkedAt"`
}

// HealthMonitor runs the registered checks on a cron schedule and keeps the last snapshot.
type HealthMonitor struct {
	checks  map[string]HealthCheck
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.RWMutex
	current HealthStatus
	cron    *cron.Cron
}

func NewHealthMonitor(logger *zap.Logger, timeout time.Duration) *HealthMonitor {
	return &HealthMonitor{
		checks:  make(map[string]HealthCheck),
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a named check. Not safe after Start.
func (m *HealthMonitor) Register(name string, check HealthCheck) {
	m.checks[name] = check
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// RunOnce executes every check and stores the result.
func (m *HealthMonitor) RunOnce(ctx context.Context) HealthStatus {
	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := HealthStatus{Checks: make(map[string]string, len(names)), Healthy: true}
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := m.checks[name](checkCtx)
		cancel()
		if err != nil {
			status.Healthy = false
			status.Checks[name] = err.Error()
			m.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			continue
		}
		status.Checks[name] = "ok"
	}
	status.CheckedAt = time.Now().UTC()

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start runs the checks once, then on the given cron spec (e.g. "@every 1m").
func (m *HealthMonitor) Start(spec string) error {
	m.RunOnce(context.Background())

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { m.RunOnce(context.Background()) }); err != nil {
		return err
	}
	c.Start()
	m.cron = c
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (m *HealthMonitor) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
}
