package models

import "time"

// BookingRequest is the event submitted to the booking backend.
type BookingRequest struct {
	Title       string    `json:"title" validate:"required"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Description string    `json:"description,omitempty"`
	ClientName  string    `json:"clientName" validate:"required"`
	ClientEmail string    `json:"clientEmail" validate:"required,email"`
	ClientPhone string    `json:"clientPhone" validate:"required"`
}

// BookingOutcome is the result of a booking attempt. Success implies a non-empty ID.
// On failure Slot carries the conflicting slot when the race-check found one.
type BookingOutcome struct {
	Success bool      `json:"success"`
	ID      string    `json:"id,omitempty"`
	Error   string    `json:"error,omitempty"`
	Slot    *TimeSlot `json:"slot,omitempty"`
}

// CreatedEvent is the booking backend's reply to an event creation.
type CreatedEvent struct {
	ID any `json:"id"` // string or numeric depending on the backend
}
