package booking

import (
	"context"
	"time"

	"vapicalendar/models"
)

// AvailabilityBackend is the external scheduling store queried for raw slots.
type AvailabilityBackend interface {
	QuerySlots(ctx context.Context, q models.AvailabilityQuery) ([]models.RawSlot, error)
}

// EventCreator submits a booking to the external event-creation endpoint and
// returns the backend-assigned id.
type EventCreator interface {
	CreateEvent(ctx context.Context, req models.BookingRequest) (string, error)
}

// AvailabilityService normalizes backend slots for a window.
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, start, end time.Time, durationMinutes int, userID string) ([]models.TimeSlot, error)
}

// AlternativeFinder proposes open slots near a preferred instant.
type AlternativeFinder interface {
	FindAlternatives(ctx context.Context, preferred time.Time, durationMinutes, maxResults int) ([]models.TimeSlot, error)
}

// BookingExecutor race-checks and commits a booking. It never returns an error;
// every failure is folded into the outcome.
type BookingExecutor interface {
	Book(ctx context.Context, req models.BookingRequest) models.BookingOutcome
}
