package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHealthMonitorRunOnce(t *testing.T) {
	m := NewHealthMonitor(zap.NewNop(), time.Second)
	m.Register("redis", func(ctx context.Context) error { return nil })
	m.Register("mongo", func(ctx context.Context) error { return errors.New("connection refused") })

	status := m.RunOnce(context.Background())

	assert.False(t, status.Healthy)
	assert.Equal(t, "ok", status.Checks["redis"])
	assert.Equal(t, "connection refused", status.Checks["mongo"])
	assert.Equal(t, status, m.Status())
}

func TestHealthMonitorRejectsBadSchedule(t *testing.T) {
	m := NewHealthMonitor(zap.NewNop(), time.Second)
	m.Register("noop", func(ctx context.Context) error { return nil })

	assert.Error(t, m.Start("not a schedule"))
	assert.True(t, m.Status().Healthy)
	m.Stop()
}
