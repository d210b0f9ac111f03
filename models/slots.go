package models

import "time"

// TimeSlot is a bookable window as reported by the scheduling backend.
type TimeSlot struct {
	Start     time.Time `json:"start"`     // slot start (inclusive)
	End       time.Time `json:"end"`       // slot end (exclusive)
	Available bool      `json:"available"` // false when the backend already holds a booking here
}

// RawSlot is the record shape returned by the availability RPC.
type RawSlot struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// AvailabilityQuery is the window handed to an availability backend.
type AvailabilityQuery struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	UserID          string // optional; empty means the default calendar
}

// ResolvedInterval is the concrete window derived from a time expression.
type ResolvedInterval struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// NewResolvedInterval returns [start, start+durationMinutes).
func NewResolvedInterval(start time.Time, durationMinutes int) ResolvedInterval {
	return ResolvedInterval{
		StartTime: start,
		EndTime:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}
