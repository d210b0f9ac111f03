package vapi

import (
	"fmt"
	"strings"
	"time"

	"vapicalendar/models"
)

// SpokenTimeLayout renders instants the way the assistant reads them aloud.
const SpokenTimeLayout = "Monday, January 2, 2006 at 3:04 PM"

const (
	GuidanceMessage       = "I couldn't understand that date format. Please provide a date like 'tomorrow at 2pm' or '2024-03-20 14:00'."
	NoAlternativesMessage = "Sorry, no alternative time slots are available in the next 7 days."
	InvalidDetailsMessage = "To book the appointment I need your name, a valid email address, and a phone number."
	UnknownIntentMessage  = "Unknown function call"
)

// Renderer turns an Outcome into the one sentence returned to the caller.
type Renderer struct {
	Location *time.Location
}

func NewRenderer(loc *time.Location) Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return Renderer{Location: loc}
}

func (r Renderer) FormatTime(t time.Time) string {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(SpokenTimeLayout)
}

func (r Renderer) Render(o Outcome) string {
	switch o.Status {
	case StatusUnparseableTime:
		return GuidanceMessage
	case StatusAvailable:
		return fmt.Sprintf("Yes, that time slot is available! The appointment can be scheduled for %s.", r.requested(o))
	case StatusUnavailable:
		if len(o.Alternatives) == 0 {
			return NoAlternativesMessage
		}
		times := make([]string, 0, len(o.Alternatives))
		for _, slot := range o.Alternatives {
			times = append(times, r.FormatTime(slot.Start))
		}
		return "The requested time is not available. Here are some alternative times: " + strings.Join(times, ", ")
	case StatusBooked:
		return fmt.Sprintf("Great! I've booked your appointment for %s. You'll receive a confirmation email at %s.", r.requested(o), o.ClientEmail)
	case StatusBookingFailed:
		return "Sorry, I couldn't book the appointment: " + o.Detail
	case StatusInvalidDetails:
		return InvalidDetailsMessage
	case StatusUnknownIntent:
		return UnknownIntentMessage
	default:
		return models.GenericFailureResult
	}
}

func (r Renderer) requested(o Outcome) string {
	if o.Requested == nil {
		return ""
	}
	return r.FormatTime(o.Requested.StartTime)
}
