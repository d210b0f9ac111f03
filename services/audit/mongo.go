package audit

import (
	"context"
	"fmt"

	interactionsRepo "vapicalendar/database/repository/interactions"
	"vapicalendar/models"
)

// MongoRecorder stores interactions in the interactions collection.
type MongoRecorder struct {
	Repo interactionsRepo.InteractionRepository
}

func (r *MongoRecorder) Capture(ctx context.Context, interaction models.Interaction) error {
	if _, err := r.Repo.Create(ctx, interaction); err != nil {
		return fmt.Errorf("failed to store interaction %s: %w", interaction.RequestID, err)
	}
	return nil
}
