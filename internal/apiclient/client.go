// Package apiclient talks to the mockview server on behalf of the answer-capture client
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/internal/playback"
	"github.com/satriahrh/mockview/internal/videoupload"
	"github.com/satriahrh/mockview/internal/whisper"
	"github.com/satriahrh/mockview/usecase"
)

const defaultTimeout = 30 * time.Second

// Config holds configuration for the API client
// Required fields:
// - BaseURL: the server origin, e.g. http://localhost:8080
// Optional fields with defaults:
// - Token: bearer token sent on every request
// - Timeout: request timeout (default: 30s)
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// ValidateConfig validates the Config
func ValidateConfig(config Config) error {
	if config.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	return nil
}

// Client calls the transcription, speech and answer endpoints
type Client struct {
	client *resty.Client
	logger *zap.Logger
}

var (
	_ whisper.Transcriber  = (*Client)(nil)
	_ playback.Synthesizer = (*Client)(nil)
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewClient creates a new API client
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default API timeout", zap.Duration("timeout", timeout))
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetTimeout(timeout).
		SetError(&errorBody{})
	if config.Token != "" {
		client.SetAuthToken(config.Token)
	}

	return &Client{client: client, logger: logger}, nil
}

// Transcribe implements whisper.Transcriber by posting the clip as multipart form data
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	var result struct {
		Text string `json:"text"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("audio", filename, bytes.NewReader(audio)).
		SetFormData(map[string]string{"language": language}).
		SetResult(&result).
		Post("/api/transcribe")
	if err != nil {
		return "", fmt.Errorf("transcribe request failed: %w", err)
	}
	if resp.IsError() {
		return "", responseError("transcribe", resp)
	}
	return result.Text, nil
}

// Synthesize implements playback.Synthesizer and returns the mp3 bytes
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text, "voice": voice}).
		Post("/api/tts")
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("tts", resp)
	}

	c.logger.Debug("Synthesized speech", zap.String("voice", voice), zap.Int("size", len(resp.Body())))
	return resp.Body(), nil
}

// SubmitAnswer sends an answer for scoring
func (c *Client) SubmitAnswer(ctx context.Context, input usecase.SubmitAnswerInput) (*usecase.SubmitAnswerResult, error) {
	var result usecase.SubmitAnswerResult

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", input.MockID).
		SetBody(input).
		SetResult(&result).
		Post("/api/v1/interviews/{id}/answers")
	if err != nil {
		return nil, fmt.Errorf("submit answer request failed: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("submit answer", resp)
	}
	return &result, nil
}

// Interview is an interview as served by the API
type Interview struct {
	MockID      string                    `json:"mock_id"`
	JobPosition string                    `json:"job_position"`
	Language    string                    `json:"language"`
	Questions   []entities.QuestionAnswer `json:"questions"`
}

// GetInterview fetches one of the caller's interviews with its questions
func (c *Client) GetInterview(ctx context.Context, mockID string) (*Interview, error) {
	var result Interview

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", mockID).
		SetResult(&result).
		Get("/api/v1/interviews/{id}")
	if err != nil {
		return nil, fmt.Errorf("get interview request failed: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("get interview", resp)
	}
	return &result, nil
}

// Upload sends an answer recording through the server and returns its public URL.
// Oversized or empty blobs are skipped and every failure yields "".
func (c *Client) Upload(ctx context.Context, blob *entities.Blob, sessionID string, answerOrdinal int) string {
	if blob.Size() == 0 {
		return ""
	}
	if blob.Size() > videoupload.MaxSize {
		c.logger.Warn("Video too large, skipping upload",
			zap.String("sessionID", sessionID),
			zap.Int("size", blob.Size()))
		return ""
	}

	contentType := blob.MimeType
	if contentType == "" {
		contentType = entities.DefaultVideoMimeType
	}

	var result struct {
		URL string `json:"url"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"id":      sessionID,
			"ordinal": strconv.Itoa(answerOrdinal),
		}).
		SetHeader("Content-Type", contentType).
		SetBody(blob.Data).
		SetResult(&result).
		Put("/api/v1/interviews/{id}/videos/{ordinal}")
	if err != nil {
		c.logger.Error("Video upload request failed", zap.String("sessionID", sessionID), zap.Error(err))
		return ""
	}
	if resp.IsError() {
		c.logger.Error("Video upload rejected", zap.String("sessionID", sessionID), zap.Error(responseError("upload video", resp)))
		return ""
	}
	return result.URL
}

func responseError(op string, resp *resty.Response) error {
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		if body.Message != "" {
			return fmt.Errorf("%s: %s (%d): %s", op, body.Error, resp.StatusCode(), body.Message)
		}
		return fmt.Errorf("%s: %s (%d)", op, body.Error, resp.StatusCode())
	}
	return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode())
}
