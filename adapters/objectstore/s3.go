package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/repositories"
)

const defaultS3Region = "us-east-1"

// ErrObjectExists is returned when a non-upsert upload targets an existing key
var ErrObjectExists = errors.New("object already exists")

// S3Config holds configuration for the S3 adapter.
// Endpoint is optional and enables S3-compatible stores (path-style addressing).
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Storage implements ObjectStorage on Amazon S3 or an S3-compatible service
type S3Storage struct {
	client   *s3.S3
	region   string
	endpoint string
	logger   *zap.Logger
}

var _ repositories.ObjectStorage = (*S3Storage)(nil)

// ValidateS3Config validates the S3Config
func ValidateS3Config(config S3Config) error {
	if (config.AccessKeyID == "") != (config.SecretAccessKey == "") {
		return fmt.Errorf("access key ID and secret access key must be set together")
	}
	return nil
}

// NewS3Storage creates a new S3 client
func NewS3Storage(config S3Config, logger *zap.Logger) (*S3Storage, error) {
	if err := ValidateS3Config(config); err != nil {
		return nil, err
	}

	region := config.Region
	if region == "" {
		region = defaultS3Region
		logger.Info("Using default S3 region", zap.String("region", region))
	}

	awsConfig := &aws.Config{Region: aws.String(region)}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if config.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKeyID, config.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Storage{
		client:   s3.New(sess),
		region:   region,
		endpoint: strings.TrimRight(config.Endpoint, "/"),
		logger:   logger,
	}, nil
}

// Upload implements repositories.ObjectStorage
func (s *S3Storage) Upload(ctx context.Context, bucket, path string, data []byte, opts repositories.UploadOptions) error {
	if !opts.Upsert {
		exists, err := s.exists(ctx, bucket, path)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s/%s: %w", bucket, path, ErrObjectExists)
		}
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(opts.ContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", bucket, path, err)
	}

	s.logger.Debug("Uploaded object",
		zap.String("bucket", bucket),
		zap.String("path", path),
		zap.Int("size", len(data)))
	return nil
}

// PublicURL implements repositories.ObjectStorage
func (s *S3Storage) PublicURL(bucket, path string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, bucket, escapePath(path))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, escapePath(path))
}

func (s *S3Storage) exists(ctx context.Context, bucket, path string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err == nil {
		return true, nil
	}

	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("failed to check %s/%s: %w", bucket, path, err)
}
