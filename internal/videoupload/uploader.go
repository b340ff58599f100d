package videoupload

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

const (
	// MaxSize is the largest blob accepted for upload
	MaxSize = 50 * 1024 * 1024
	// DefaultBucket holds answer recordings. Objects in it are publicly readable;
	// access control is the bucket policy's job.
	DefaultBucket = "interview-videos"
)

// Uploader stores answer recordings and resolves their public URLs
type Uploader struct {
	storage repositories.ObjectStorage
	bucket  string
	logger  *zap.Logger
}

// NewUploader creates an uploader writing to bucket (DefaultBucket when empty)
func NewUploader(storage repositories.ObjectStorage, bucket string, logger *zap.Logger) *Uploader {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Uploader{storage: storage, bucket: bucket, logger: logger}
}

// ObjectPath is the storage key of an answer recording
func ObjectPath(sessionID string, answerOrdinal int) string {
	return fmt.Sprintf("%s/%d.webm", sessionID, answerOrdinal)
}

// Upload stores blob under the session and ordinal, overwriting any previous
// recording, and returns its public URL. Every failure is logged and yields "".
func (u *Uploader) Upload(ctx context.Context, blob *entities.Blob, sessionID string, answerOrdinal int) string {
	if blob == nil {
		return ""
	}

	if blob.Size() > MaxSize {
		u.logger.Warn("Video too large, skipping upload",
			zap.String("sessionID", sessionID),
			zap.Int("answerOrdinal", answerOrdinal),
			zap.Int("size", blob.Size()),
			zap.Int("maxSize", MaxSize))
		return ""
	}

	contentType := blob.MimeType
	if contentType == "" {
		contentType = entities.DefaultVideoMimeType
	}

	path := ObjectPath(sessionID, answerOrdinal)
	err := u.storage.Upload(ctx, u.bucket, path, blob.Data, repositories.UploadOptions{
		ContentType: contentType,
		Upsert:      true,
	})
	if err != nil {
		u.logger.Error("Video upload failed",
			zap.String("bucket", u.bucket),
			zap.String("path", path),
			zap.Error(err))
		return ""
	}

	return u.storage.PublicURL(u.bucket, path)
}
