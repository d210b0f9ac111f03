package audit

import (
	"context"
	"fmt"

	"vapicalendar/models"
	"vapicalendar/services/tasks"

	"github.com/hibiken/asynq"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueRecorder hands interactions to the audit worker instead of writing
// them on the request path.
type QueueRecorder struct {
	Client Enqueuer
}

func (r *QueueRecorder) Capture(ctx context.Context, interaction models.Interaction) error {
	task, opts, err := tasks.NewCaptureTask(interaction)
	if err != nil {
		return fmt.Errorf("failed to build capture task: %w", err)
	}
	if _, err := r.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue interaction %s: %w", interaction.RequestID, err)
	}
	return nil
}
