package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

// AnswerRepository implements repositories.AnswerRepository using MongoDB
type AnswerRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ repositories.AnswerRepository = (*AnswerRepository)(nil)

// NewAnswerRepository creates a new MongoDB answer repository
func NewAnswerRepository(db *mongo.Database, logger *zap.Logger) *AnswerRepository {
	collection := db.Collection("user_answers")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mockIndex := mongo.IndexModel{
			Keys: bson.D{
				{Key: "mock_id_ref", Value: 1},
				{Key: "created_at", Value: 1},
			},
		}

		if _, err := collection.Indexes().CreateOne(ctx, mockIndex); err != nil {
			logger.Error("Failed to create answer indexes", zap.Error(err))
		} else {
			logger.Info("Answer indexes created successfully")
		}
	}()

	return &AnswerRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create implements repositories.AnswerRepository
func (r *AnswerRepository) Create(ctx context.Context, answer *entities.UserAnswer) error {
	if answer == nil {
		return errors.New("answer cannot be nil")
	}
	if err := answer.Validate(); err != nil {
		return err
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, answer); err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

// ListByMockID implements repositories.AnswerRepository
func (r *AnswerRepository) ListByMockID(ctx context.Context, mockID string) ([]*entities.UserAnswer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"mock_id_ref": mockID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer cursor.Close(ctx)

	var answers []*entities.UserAnswer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	return answers, nil
}

// DeleteByMockID implements repositories.AnswerRepository
func (r *AnswerRepository) DeleteByMockID(ctx context.Context, mockID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"mock_id_ref": mockID}); err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}
	return nil
}
