package audit

import (
	"context"

	"vapicalendar/models"
)

// Recorder persists one interaction per dispatched function call. Callers
// log a Capture error and carry on; it never changes the webhook response.
type Recorder interface {
	Capture(ctx context.Context, interaction models.Interaction) error
}

// NoopRecorder discards interactions.
type NoopRecorder struct{}

func (NoopRecorder) Capture(context.Context, models.Interaction) error { return nil }
