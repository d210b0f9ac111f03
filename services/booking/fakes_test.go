package booking

import (
	"context"
	"time"

	"vapicalendar/models"
)

type fakeBackend struct {
	slots   []models.RawSlot
	err     error
	queries []models.AvailabilityQuery
}

func (f *fakeBackend) QuerySlots(_ context.Context, q models.AvailabilityQuery) ([]models.RawSlot, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

type fakeCreator struct {
	id    string
	err   error
	calls []models.BookingRequest
}

func (f *fakeCreator) CreateEvent(_ context.Context, req models.BookingRequest) (string, error) {
	f.calls = append(f.calls, req)
	return f.id, f.err
}

func raw(start time.Time, minutes int, available bool) models.RawSlot {
	return models.RawSlot{
		StartTime:   start.Format(time.RFC3339),
		EndTime:     start.Add(time.Duration(minutes) * time.Minute).Format(time.RFC3339),
		IsAvailable: available,
	}
}

var base = time.Date(2024, time.March, 20, 14, 0, 0, 0, time.UTC)
