package gormstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

// AnswerRepository implements repositories.AnswerRepository on top of gorm
type AnswerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ repositories.AnswerRepository = (*AnswerRepository)(nil)

// NewAnswerRepository creates a new gorm-backed answer repository
func NewAnswerRepository(db *gorm.DB, logger *zap.Logger) *AnswerRepository {
	return &AnswerRepository{db: db, logger: logger}
}

// Create implements repositories.AnswerRepository
func (r *AnswerRepository) Create(ctx context.Context, answer *entities.UserAnswer) error {
	if answer == nil {
		return errors.New("answer cannot be nil")
	}
	if err := answer.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		return fmt.Errorf("failed to create answer for %s: %w", answer.MockIDRef, err)
	}

	r.logger.Debug("Saved answer",
		zap.String("mockID", answer.MockIDRef),
		zap.String("rating", answer.Rating))
	return nil
}

// ListByMockID implements repositories.AnswerRepository
func (r *AnswerRepository) ListByMockID(ctx context.Context, mockID string) ([]*entities.UserAnswer, error) {
	var answers []*entities.UserAnswer
	err := r.db.WithContext(ctx).
		Where("mock_id_ref = ?", mockID).
		Order("id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list answers for %s: %w", mockID, err)
	}
	return answers, nil
}

// DeleteByMockID implements repositories.AnswerRepository
func (r *AnswerRepository) DeleteByMockID(ctx context.Context, mockID string) error {
	if err := r.db.WithContext(ctx).Where("mock_id_ref = ?", mockID).Delete(&entities.UserAnswer{}).Error; err != nil {
		return fmt.Errorf("failed to delete answers for %s: %w", mockID, err)
	}
	return nil
}
