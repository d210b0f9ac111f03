// Package vapi dispatches assistant function calls to the scheduling core and
// renders the outcome as a single spoken sentence.
package vapi

import (
	"context"
	"fmt"
	"time"

	"vapicalendar/models"
	"vapicalendar/services/booking"

	"go.uber.org/zap"
)

const (
	IntentCheckAvailability = "checkAvailability"
	IntentBookAppointment   = "bookAppointment"
)

// Status is the machine-readable result of one dispatch.
type Status string

const (
	StatusAvailable       Status = "available"
	StatusUnavailable     Status = "unavailable"
	StatusUnparseableTime Status = "unparseable_time"
	StatusBooked          Status = "booked"
	StatusBookingFailed   Status = "booking_failed"
	StatusInvalidDetails  Status = "invalid_details"
	StatusUnknownIntent   Status = "unknown_intent"
	StatusBackendError    Status = "backend_error"
)

// Outcome is the structured result of a dispatch, before rendering.
type Outcome struct {
	Intent       string
	Status       Status
	Requested    *models.ResolvedInterval
	Alternatives []models.TimeSlot
	BookingID    string
	ClientEmail  string
	// Detail is the backend error text for booking_failed and backend_error.
	Detail string
	Err    error
}

// TimeResolver is satisfied by *timeparse.Resolver.
type TimeResolver interface {
	Resolve(text string) (time.Time, bool)
}

// Defaults are the named fallbacks applied when the assistant omits a value.
type Defaults struct {
	CheckDurationMinutes   int
	BookingDurationMinutes int
	MaxAlternatives        int
}

// DefaultDefaults matches the stock configuration.
var DefaultDefaults = Defaults{
	CheckDurationMinutes:   15,
	BookingDurationMinutes: 15,
	MaxAlternatives:        booking.DefaultMaxAlternatives,
}

// Dispatcher routes one function call through resolve, check and branch.
// It keeps no per-request state and is safe for concurrent use.
type Dispatcher struct {
	Resolver     TimeResolver
	Availability booking.AvailabilityService
	Alternatives booking.AlternativeFinder
	Booking      booking.BookingExecutor
	Defaults     Defaults
	Logger       *zap.Logger
}

// Dispatch never returns an error. Backend failures and panics surface as
// StatusBackendError.
func (d *Dispatcher) Dispatch(ctx context.Context, call models.FunctionCall) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger().Error("Dispatch: recovered panic", zap.String("intent", call.Name), zap.Any("panic", rec), zap.Stack("stack"))
			out = Outcome{Intent: call.Name, Status: StatusBackendError, Detail: fmt.Sprint(rec), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	switch call.Name {
	case IntentCheckAvailability:
		return d.checkAvailability(ctx, call.Parameters)
	case IntentBookAppointment:
		return d.bookAppointment(ctx, call.Parameters)
	default:
		d.logger().Info("Dispatch: unknown function call", zap.String("intent", call.Name))
		return Outcome{Intent: call.Name, Status: StatusUnknownIntent}
	}
}

func (d *Dispatcher) checkAvailability(ctx context.Context, raw map[string]any) Outcome {
	out := Outcome{Intent: IntentCheckAvailability}
	logger := d.logger().With(zap.String("intent", IntentCheckAvailability))

	var p checkAvailabilityParams
	if err := decodeParams(raw, &p); err != nil {
		logger.Warn("checkAvailability: some parameters ignored", zap.Error(err))
	}

	start, ok := d.Resolver.Resolve(p.DateTime)
	if !ok {
		logger.Info("checkAvailability: unparseable time", zap.String("dateTime", p.DateTime))
		out.Status = StatusUnparseableTime
		return out
	}

	duration := durationOrDefault(p.Duration, d.defaults().CheckDurationMinutes)
	interval := models.NewResolvedInterval(start, duration)
	out.Requested = &interval

	slots, err := d.Availability.CheckAvailability(ctx, interval.StartTime, interval.EndTime, duration, "")
	if err != nil {
		logger.Error("checkAvailability: availability lookup failed", zap.Error(err))
		return backendError(out, err)
	}

	if len(slots) > 0 && slots[0].Available {
		out.Status = StatusAvailable
		return out
	}
	return d.withAlternatives(ctx, out, interval.StartTime, duration, logger)
}

func (d *Dispatcher) bookAppointment(ctx context.Context, raw map[string]any) Outcome {
	out := Outcome{Intent: IntentBookAppointment}
	logger := d.logger().With(zap.String("intent", IntentBookAppointment))

	var p bookAppointmentParams
	if err := decodeParams(raw, &p); err != nil {
		logger.Warn("bookAppointment: some parameters ignored", zap.Error(err))
	}

	start, ok := d.Resolver.Resolve(p.PreferredTime)
	if !ok {
		logger.Info("bookAppointment: unparseable time", zap.String("preferredTime", p.PreferredTime))
		out.Status = StatusUnparseableTime
		return out
	}

	duration := durationOrDefault(p.Duration, d.defaults().BookingDurationMinutes)
	interval := models.NewResolvedInterval(start, duration)
	out.Requested = &interval
	out.ClientEmail = p.Email

	req := models.BookingRequest{
		Title:       "Appointment for " + p.Name,
		StartTime:   interval.StartTime,
		EndTime:     interval.EndTime,
		Description: "Phone: " + p.Phone,
		ClientName:  p.Name,
		ClientEmail: p.Email,
		ClientPhone: p.Phone,
	}
	if err := booking.ValidateRequest(req); err != nil {
		logger.Info("bookAppointment: invalid client details", zap.Error(err))
		out.Status = StatusInvalidDetails
		out.Detail = err.Error()
		return out
	}

	result := d.Booking.Book(ctx, req)
	switch {
	case result.Success:
		out.Status = StatusBooked
		out.BookingID = result.ID
		logger.Info("bookAppointment: booked", zap.String("bookingId", result.ID))
		return out
	case result.Slot != nil:
		return d.withAlternatives(ctx, out, interval.StartTime, duration, logger)
	default:
		out.Status = StatusBookingFailed
		out.Detail = result.Error
		return out
	}
}

func (d *Dispatcher) withAlternatives(ctx context.Context, out Outcome, preferred time.Time, duration int, logger *zap.Logger) Outcome {
	alts, err := d.Alternatives.FindAlternatives(ctx, preferred, duration, d.defaults().MaxAlternatives)
	if err != nil {
		logger.Error("alternative search failed", zap.Error(err))
		return backendError(out, err)
	}
	out.Status = StatusUnavailable
	out.Alternatives = alts
	return out
}

func backendError(out Outcome, err error) Outcome {
	out.Status = StatusBackendError
	out.Detail = err.Error()
	out.Err = err
	return out
}

func (d *Dispatcher) defaults() Defaults {
	def := d.Defaults
	if def.CheckDurationMinutes <= 0 {
		def.CheckDurationMinutes = DefaultDefaults.CheckDurationMinutes
	}
	if def.BookingDurationMinutes <= 0 {
		def.BookingDurationMinutes = DefaultDefaults.BookingDurationMinutes
	}
	if def.MaxAlternatives <= 0 {
		def.MaxAlternatives = DefaultDefaults.MaxAlternatives
	}
	return def
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
