package repositories

import (
	"context"
	"errors"

	"github.com/satriahrh/mockview/domain/entities"
)

// ErrNotFound is returned by repositories when the requested record does not exist
var ErrNotFound = errors.New("record not found")

// InterviewRepository defines data access methods for interviews
type InterviewRepository interface {
	Create(ctx context.Context, interview *entities.Interview) error
	GetByMockID(ctx context.Context, mockID string) (*entities.Interview, error)
	ListByOwner(ctx context.Context, createdBy string, filter entities.InterviewFilter) ([]*entities.Interview, error)
	Delete(ctx context.Context, mockID string) error
}

// AnswerRepository defines data access methods for scored answers
type AnswerRepository interface {
	Create(ctx context.Context, answer *entities.UserAnswer) error
	ListByMockID(ctx context.Context, mockID string) ([]*entities.UserAnswer, error)
	DeleteByMockID(ctx context.Context, mockID string) error
}

// UploadOptions controls how an object is written
type UploadOptions struct {
	ContentType string
	Upsert      bool
}

// ObjectStorage abstracts a bucket-based blob store with public URLs
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error
	// PublicURL returns the unauthenticated URL of an object; it does not check existence
	PublicURL(bucket, path string) string
}
