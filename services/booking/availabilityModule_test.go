package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"vapicalendar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailabilityNormalizesSlots(t *testing.T) {
	backend := &fakeBackend{slots: []models.RawSlot{
		raw(base, 30, true),
		{StartTime: "2024-03-20 14:30:00+00:00", EndTime: "2024-03-20 15:00:00+00:00", IsAvailable: false},
	}}
	svc := &DefaultAvailabilityService{Backend: backend}

	slots, err := svc.CheckAvailability(context.Background(), base, base.Add(time.Hour), 30, "user-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.True(t, slots[0].Start.Equal(base))
	assert.True(t, slots[0].Available)
	assert.True(t, slots[1].Start.Equal(base.Add(30*time.Minute)))
	assert.False(t, slots[1].Available)

	require.Len(t, backend.queries, 1)
	assert.Equal(t, 30, backend.queries[0].DurationMinutes)
	assert.Equal(t, "user-1", backend.queries[0].UserID)
}

func TestCheckAvailabilityWrapsBackendFailure(t *testing.T) {
	cause := errors.New("rpc timeout")
	svc := &DefaultAvailabilityService{Backend: &fakeBackend{err: cause}}

	_, err := svc.CheckAvailability(context.Background(), base, base.Add(time.Hour), 15, "")

	var failed *AvailabilityQueryFailed
	require.ErrorAs(t, err, &failed)
	assert.ErrorIs(t, err, cause)
}

func TestCheckAvailabilityRejectsBadTimestamp(t *testing.T) {
	svc := &DefaultAvailabilityService{Backend: &fakeBackend{slots: []models.RawSlot{
		{StartTime: "yesterday-ish", EndTime: "later", IsAvailable: true},
	}}}

	_, err := svc.CheckAvailability(context.Background(), base, base.Add(time.Hour), 15, "")

	var failed *AvailabilityQueryFailed
	assert.ErrorAs(t, err, &failed)
}

func TestCheckAvailabilityIsIdempotent(t *testing.T) {
	svc := &DefaultAvailabilityService{Backend: &fakeBackend{slots: []models.RawSlot{
		raw(base, 15, true), raw(base.Add(15*time.Minute), 15, false),
	}}}

	first, err := svc.CheckAvailability(context.Background(), base, base.Add(time.Hour), 15, "")
	require.NoError(t, err)
	second, err := svc.CheckAvailability(context.Background(), base, base.Add(time.Hour), 15, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
