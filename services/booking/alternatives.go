package booking

import (
	"context"
	"sort"
	"time"

	"vapicalendar/models"
)

const (
	// SearchHorizon is how far past the preferred instant alternatives are searched.
	SearchHorizon = 7 * 24 * time.Hour

	DefaultAlternativeDuration = 15
	DefaultMaxAlternatives     = 3
)

// DefaultAlternativeFinder searches one horizon-wide window for open slots.
type DefaultAlternativeFinder struct {
	Availability AvailabilityService
}

// FindAlternatives returns at most maxResults available slots starting in
// [preferred, preferred+SearchHorizon), ascending by start. No open slot is
// an empty result, not an error.
func (f *DefaultAlternativeFinder) FindAlternatives(
	ctx context.Context,
	preferred time.Time,
	durationMinutes, maxResults int,
) ([]models.TimeSlot, error) {
	if durationMinutes <= 0 {
		durationMinutes = DefaultAlternativeDuration
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxAlternatives
	}
	windowEnd := preferred.Add(SearchHorizon)

	slots, err := f.Availability.CheckAvailability(ctx, preferred, windowEnd, durationMinutes, "")
	if err != nil {
		return nil, err
	}

	open := make([]models.TimeSlot, 0, maxResults)
	for _, slot := range slots {
		if !slot.Available {
			continue
		}
		if slot.Start.Before(preferred) || !slot.Start.Before(windowEnd) {
			continue
		}
		open = append(open, slot)
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Start.Before(open[j].Start)
	})

	if len(open) > maxResults {
		open = open[:maxResults]
	}
	return open, nil
}
