package tasks

import (
	"encoding/json"
	"fmt"

	"vapicalendar/models"

	"github.com/hibiken/asynq"
)

const (
	TypeCaptureInteraction = "interaction:capture"
	AuditQueue             = "audit"
)

func NewCaptureTask(interaction models.Interaction) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(interaction)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCaptureInteraction, b)
	opts := []asynq.Option{asynq.Queue(AuditQueue), asynq.MaxRetry(5)}

	return task, opts, nil
}

// ParseCaptureTask decodes the interaction carried by a capture task.
func ParseCaptureTask(task *asynq.Task) (models.Interaction, error) {
	var interaction models.Interaction
	if err := json.Unmarshal(task.Payload(), &interaction); err != nil {
		return models.Interaction{}, fmt.Errorf("invalid capture payload: %w", err)
	}
	return interaction, nil
}
