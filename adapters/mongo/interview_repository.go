package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

// InterviewRepository implements repositories.InterviewRepository using MongoDB.
// The interview's MockID is stored as the document _id.
type InterviewRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ repositories.InterviewRepository = (*InterviewRepository)(nil)

// NewInterviewRepository creates a new MongoDB interview repository
func NewInterviewRepository(db *mongo.Database, logger *zap.Logger) *InterviewRepository {
	collection := db.Collection("mock_interviews")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Listing is always scoped to an owner and sorted by recency
		ownerIndex := mongo.IndexModel{
			Keys: bson.D{
				{Key: "created_by", Value: 1},
				{Key: "created_at", Value: -1},
			},
		}

		if _, err := collection.Indexes().CreateOne(ctx, ownerIndex); err != nil {
			logger.Error("Failed to create interview indexes", zap.Error(err))
		} else {
			logger.Info("Interview indexes created successfully")
		}
	}()

	return &InterviewRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create implements repositories.InterviewRepository
func (r *InterviewRepository) Create(ctx context.Context, interview *entities.Interview) error {
	if interview == nil {
		return errors.New("interview cannot be nil")
	}
	if err := interview.Validate(); err != nil {
		return err
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, interview); err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// GetByMockID implements repositories.InterviewRepository
func (r *InterviewRepository) GetByMockID(ctx context.Context, mockID string) (*entities.Interview, error) {
	if mockID == "" {
		return nil, errors.New("mock ID cannot be empty")
	}

	var interview entities.Interview
	err := r.collection.FindOne(ctx, bson.M{"_id": mockID}).Decode(&interview)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get interview %s: %w", mockID, err)
	}
	return &interview, nil
}

// ListByOwner implements repositories.InterviewRepository
func (r *InterviewRepository) ListByOwner(ctx context.Context, createdBy string, filter entities.InterviewFilter) ([]*entities.Interview, error) {
	query := interviewQuery(createdBy, filter)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer cursor.Close(ctx)

	var interviews []*entities.Interview
	if err := cursor.All(ctx, &interviews); err != nil {
		return nil, fmt.Errorf("failed to decode interviews: %w", err)
	}
	return interviews, nil
}

// Delete implements repositories.InterviewRepository
func (r *InterviewRepository) Delete(ctx context.Context, mockID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": mockID})
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func interviewQuery(createdBy string, filter entities.InterviewFilter) bson.M {
	query := bson.M{"created_by": createdBy}
	if filter.InterviewType != "" {
		query["interview_type"] = filter.InterviewType
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Language != "" {
		query["language"] = filter.Language
	}
	if filter.Search != "" {
		query["job_position"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.Search),
			Options: "i",
		}
	}
	return query
}
