package booking

import (
	"context"
	"errors"

	"vapicalendar/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	// RaceCheckGranularity is the slot size used when re-verifying a window.
	RaceCheckGranularity = 15

	SlotTakenMessage = "The requested time slot is no longer available"
)

var validate = validator.New()

// ValidateRequest checks the client fields and the window of a booking request.
func ValidateRequest(req models.BookingRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if req.StartTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return errors.New("booking window must end after it starts")
	}
	return nil
}

// DefaultBookingExecutor verifies a slot is still open, then creates the event.
// The check-then-commit pair is a best-effort guard, not a transaction: a
// concurrent booking between the two steps can still win on the backend.
type DefaultBookingExecutor struct {
	Availability AvailabilityService
	Events       EventCreator
	Logger       *zap.Logger
}

func (e *DefaultBookingExecutor) Book(ctx context.Context, req models.BookingRequest) models.BookingOutcome {
	logger := e.logger()

	if err := ValidateRequest(req); err != nil {
		logger.Warn("Book: invalid booking request", zap.Error(err))
		return models.BookingOutcome{Success: false, Error: "invalid booking request: " + err.Error()}
	}

	slots, err := e.Availability.CheckAvailability(ctx, req.StartTime, req.EndTime, RaceCheckGranularity, "")
	if err != nil {
		logger.Error("Book: race-check failed", zap.Error(err))
		return models.BookingOutcome{Success: false, Error: err.Error()}
	}
	if len(slots) == 0 || !slots[0].Available {
		var conflict *models.TimeSlot
		if len(slots) > 0 {
			s := slots[0]
			conflict = &s
		}
		logger.Info("Book: slot no longer available",
			zap.Time("start", req.StartTime), zap.Bool("slotReturned", conflict != nil))
		return models.BookingOutcome{Success: false, Error: SlotTakenMessage, Slot: conflict}
	}
	checked := slots[0]

	id, err := e.Events.CreateEvent(ctx, req)
	if err != nil {
		logger.Error("Book: event creation failed", zap.Error(err))
		return models.BookingOutcome{Success: false, Error: err.Error()}
	}
	if id == "" {
		logger.Error("Book: booking backend returned no id")
		return models.BookingOutcome{Success: false, Error: "booking backend returned no event id"}
	}

	logger.Info("Book: event created", zap.String("eventID", id), zap.Time("start", req.StartTime))
	return models.BookingOutcome{Success: true, ID: id, Slot: &checked}
}

func (e *DefaultBookingExecutor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
