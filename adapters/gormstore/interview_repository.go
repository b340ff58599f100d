package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

// InterviewRepository implements repositories.InterviewRepository on top of gorm
type InterviewRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ repositories.InterviewRepository = (*InterviewRepository)(nil)

// NewInterviewRepository creates a new gorm-backed interview repository
func NewInterviewRepository(db *gorm.DB, logger *zap.Logger) *InterviewRepository {
	return &InterviewRepository{db: db, logger: logger}
}

// Create implements repositories.InterviewRepository
func (r *InterviewRepository) Create(ctx context.Context, interview *entities.Interview) error {
	if interview == nil {
		return errors.New("interview cannot be nil")
	}
	if err := interview.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview %s: %w", interview.MockID, err)
	}

	r.logger.Debug("Saved interview",
		zap.String("mockID", interview.MockID),
		zap.String("createdBy", interview.CreatedBy))
	return nil
}

// GetByMockID implements repositories.InterviewRepository
func (r *InterviewRepository) GetByMockID(ctx context.Context, mockID string) (*entities.Interview, error) {
	var interview entities.Interview
	err := r.db.WithContext(ctx).Where("mock_id = ?", mockID).First(&interview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get interview %s: %w", mockID, err)
	}
	return &interview, nil
}

// likeEscaper makes user input match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListByOwner implements repositories.InterviewRepository
func (r *InterviewRepository) ListByOwner(ctx context.Context, createdBy string, filter entities.InterviewFilter) ([]*entities.Interview, error) {
	query := r.db.WithContext(ctx).Where("created_by = ?", createdBy)
	if filter.InterviewType != "" {
		query = query.Where("interview_type = ?", filter.InterviewType)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.Search != "" {
		query = query.Where(`LOWER(job_position) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(filter.Search))+"%")
	}

	var interviews []*entities.Interview
	if err := query.Order("created_at DESC").Order("id DESC").Find(&interviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// Delete implements repositories.InterviewRepository
func (r *InterviewRepository) Delete(ctx context.Context, mockID string) error {
	result := r.db.WithContext(ctx).Where("mock_id = ?", mockID).Delete(&entities.Interview{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete interview %s: %w", mockID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
