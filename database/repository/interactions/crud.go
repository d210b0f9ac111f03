package interactionsRepo

import (
	"context"
	"errors"
	"time"

	"vapicalendar/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrInteractionNotFound = errors.New("interaction not found")

// Create inserts an interaction and returns its ID.
func (r *mongoInteractionRepo) Create(ctx context.Context, interaction models.Interaction) (string, error) {
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, interaction); err != nil {
		return "", err
	}
	return interaction.ID, nil
}

// GetByRequestID returns the interaction captured for a request.
func (r *mongoInteractionRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Interaction, error) {
	var interaction models.Interaction
	err := r.coll.FindOne(ctx, bson.M{"requestId": requestID}).Decode(&interaction)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInteractionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

// ListRecent returns the newest interactions first.
func (r *mongoInteractionRepo) ListRecent(ctx context.Context, limit int64) ([]models.Interaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var interactions []models.Interaction
	if err := cursor.All(ctx, &interactions); err != nil {
		return nil, err
	}
	return interactions, nil
}
