// File: database/repository/interactions/interface.go
package interactionsRepo

import (
	"context"

	"vapicalendar/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName holds one document per dispatched function call.
const CollectionName = "vapi_interactions"

type InteractionRepository interface {
	Create(ctx context.Context, interaction models.Interaction) (string, error)
	GetByRequestID(ctx context.Context, requestID string) (*models.Interaction, error)
	ListRecent(ctx context.Context, limit int64) ([]models.Interaction, error)
	EnsureIndexes() error
}

type mongoInteractionRepo struct {
	coll *mongo.Collection
}

// NewMongoInteractionRepo returns an InteractionRepository backed by db.
func NewMongoInteractionRepo(db *mongo.Database) InteractionRepository {
	return &mongoInteractionRepo{
		coll: db.Collection(CollectionName),
	}
}
