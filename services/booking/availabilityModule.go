package booking

import (
	"context"
	"fmt"
	"time"

	"vapicalendar/models"

	"github.com/araddon/dateparse"
)

// DefaultAvailabilityService adapts an AvailabilityBackend to TimeSlots.
type DefaultAvailabilityService struct {
	Backend AvailabilityBackend
}

// CheckAvailability queries [start, end) at the given granularity. Backend
// errors are returned as *AvailabilityQueryFailed and are not retried.
func (s *DefaultAvailabilityService) CheckAvailability(
	ctx context.Context,
	start, end time.Time,
	durationMinutes int,
	userID string,
) ([]models.TimeSlot, error) {
	raw, err := s.Backend.QuerySlots(ctx, models.AvailabilityQuery{
		Start:           start,
		End:             end,
		DurationMinutes: durationMinutes,
		UserID:          userID,
	})
	if err != nil {
		return nil, &AvailabilityQueryFailed{Cause: err}
	}

	slots := make([]models.TimeSlot, 0, len(raw))
	for i, r := range raw {
		slotStart, err := parseBackendTime(r.StartTime, start.Location())
		if err != nil {
			return nil, &AvailabilityQueryFailed{Cause: fmt.Errorf("slot %d start_time: %w", i, err)}
		}
		slotEnd, err := parseBackendTime(r.EndTime, start.Location())
		if err != nil {
			return nil, &AvailabilityQueryFailed{Cause: fmt.Errorf("slot %d end_time: %w", i, err)}
		}
		slots = append(slots, models.TimeSlot{
			Start:     slotStart,
			End:       slotEnd,
			Available: r.IsAvailable,
		})
	}
	return slots, nil
}

// parseBackendTime accepts RFC 3339 and the looser Postgres timestamptz renderings.
func parseBackendTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return dateparse.ParseIn(s, loc)
}
