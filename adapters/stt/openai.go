package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

const (
	defaultWhisperModel   = string(openai.AudioModelWhisper1)
	defaultTimeoutSeconds = 120
	defaultFilename       = "recording.webm"
)

// OpenAIConfig holds configuration for the Whisper transcription adapter
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// WhisperSpeechToText implements SpeechToText with the OpenAI transcription API
type WhisperSpeechToText struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*WhisperSpeechToText)(nil)

// ValidateOpenAIConfig validates the OpenAIConfig
func ValidateOpenAIConfig(config OpenAIConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required")
	}
	return nil
}

// NewOpenAIConfigFromEnv reads the Whisper configuration from environment variables
func NewOpenAIConfigFromEnv() OpenAIConfig {
	return OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_TRANSCRIPTION_MODEL"),
	}
}

// NewWhisperSpeechToText creates a new Whisper transcription adapter
func NewWhisperSpeechToText(config OpenAIConfig, logger *zap.Logger) (*WhisperSpeechToText, error) {
	if err := ValidateOpenAIConfig(config); err != nil {
		return nil, err
	}

	model := config.Model
	if model == "" {
		model = defaultWhisperModel
		logger.Info("Using default transcription model", zap.String("model", model))
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithRequestTimeout(time.Duration(timeoutSeconds) * time.Second),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &WhisperSpeechToText{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}, nil
}

// TranscribeAudio implements repositories.SpeechToText
func (w *WhisperSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", fmt.Errorf("no audio data received")
	}

	filename := config.Filename
	if filename == "" {
		filename = defaultFilename
	}
	contentType := config.MimeType
	if contentType == "" {
		contentType = entities.DefaultAudioMimeType
	}

	transcription, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audioData), filename, contentType),
		Model:          openai.AudioModel(w.model),
		Language:       openai.String(entities.NormalizeLanguage(config.Language)),
		ResponseFormat: openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	text := strings.TrimSpace(transcription.Text)
	w.logger.Debug("Transcribed audio",
		zap.String("filename", filename),
		zap.Int("bytes", len(audioData)),
		zap.Int("length", len(text)))
	return text, nil
}
