package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/repositories"
)

const defaultSupabaseTimeout = 60 * time.Second

// SupabaseConfig holds configuration for the Supabase Storage adapter
// Required fields:
// - URL: the project URL, e.g. https://xyz.supabase.co
// - ServiceKey: a key allowed to write to the bucket
// Optional fields with defaults:
// - Timeout: request timeout (default: 60s)
type SupabaseConfig struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

// SupabaseStorage implements ObjectStorage against the Supabase Storage REST API
type SupabaseStorage struct {
	client  *resty.Client
	baseURL string
	logger  *zap.Logger
}

var _ repositories.ObjectStorage = (*SupabaseStorage)(nil)

// ValidateSupabaseConfig validates the SupabaseConfig
func ValidateSupabaseConfig(config SupabaseConfig) error {
	if config.URL == "" {
		return fmt.Errorf("supabase URL is required")
	}
	if _, err := url.ParseRequestURI(config.URL); err != nil {
		return fmt.Errorf("invalid supabase URL: %w", err)
	}
	if config.ServiceKey == "" {
		return fmt.Errorf("supabase service key is required")
	}
	return nil
}

// NewSupabaseStorage creates a new Supabase Storage client
func NewSupabaseStorage(config SupabaseConfig, logger *zap.Logger) (*SupabaseStorage, error) {
	if err := ValidateSupabaseConfig(config); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultSupabaseTimeout
		logger.Info("Using default storage timeout", zap.Duration("timeout", timeout))
	}

	baseURL := strings.TrimRight(config.URL, "/") + "/storage/v1"
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(config.ServiceKey).
		SetHeader("apikey", config.ServiceKey)

	return &SupabaseStorage{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// Upload implements repositories.ObjectStorage
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path string, data []byte, opts repositories.UploadOptions) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", opts.ContentType).
		SetHeader("x-upsert", strconv.FormatBool(opts.Upsert)).
		SetBody(data).
		SetPathParams(map[string]string{"bucket": bucket}).
		Post("/object/{bucket}/" + escapePath(path))
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("storage returned %d for %s/%s: %s", resp.StatusCode(), bucket, path, resp.String())
	}

	s.logger.Debug("Uploaded object",
		zap.String("bucket", bucket),
		zap.String("path", path),
		zap.Int("size", len(data)))
	return nil
}

// PublicURL implements repositories.ObjectStorage
func (s *SupabaseStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, url.PathEscape(bucket), escapePath(path))
}

// escapePath escapes each segment of an object path, keeping the separators
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
