package tts

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/repositories"
)

const defaultOpenAISpeechModel = string(openai.SpeechModelTTS1)

// OpenAIConfig holds configuration for the OpenAI speech adapter
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAITTS implements TextToSpeech with the OpenAI speech endpoint
type OpenAITTS struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

var _ repositories.TextToSpeech = (*OpenAITTS)(nil)

// NewOpenAIConfigFromEnv reads the speech configuration from environment variables
func NewOpenAIConfigFromEnv() OpenAIConfig {
	return OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_SPEECH_MODEL"),
	}
}

// NewOpenAITTS creates a new OpenAI speech adapter
func NewOpenAITTS(config OpenAIConfig, logger *zap.Logger) (*OpenAITTS, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultOpenAISpeechModel
		logger.Info("Using default speech model", zap.String("model", model))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithRequestTimeout(defaultTimeout),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAITTS{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}, nil
}

// Synthesize implements repositories.TextToSpeech
func (o *OpenAITTS) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if voice == "" {
		voice = FemaleVoice
	}

	start := time.Now()
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	o.logger.Debug("Synthesized speech",
		zap.String("voice", voice),
		zap.Int("bytes", len(audio)),
		zap.Duration("took", time.Since(start)))
	return audio, nil
}
