package booking

import "fmt"

// AvailabilityQueryFailed wraps any failure of the availability backend.
type AvailabilityQueryFailed struct {
	Cause error
}

func (e *AvailabilityQueryFailed) Error() string {
	return fmt.Sprintf("availability lookup failed: %v", e.Cause)
}

func (e *AvailabilityQueryFailed) Unwrap() error {
	return e.Cause
}

// EventCreationError is returned by the HTTP event creator on a non-2xx reply.
type EventCreationError struct {
	StatusCode int
	Status     string
}

func (e *EventCreationError) Error() string {
	return fmt.Sprintf("failed to create event: %s", e.Status)
}
