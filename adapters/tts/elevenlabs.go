package tts

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/repositories"
)

const (
	defaultAPIBaseURL    = "https://api.elevenlabs.io/v1"
	defaultFemaleVoiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel
	defaultMaleVoiceID   = "pNInz6obpgDQGcFmaJgB" // Adam
	defaultOutputFormat  = "mp3_44100_128"
	defaultModelID       = "eleven_multilingual_v2"
	defaultStability     = 0.5
	defaultClarity       = 0.75
	defaultTimeout       = 60 * time.Second

	// MaleVoice is the provider-neutral name of the male interviewer voice
	MaleVoice = "onyx"
	// FemaleVoice is the provider-neutral name of the female interviewer voice
	FemaleVoice = "nova"
)

// ElevenLabsConfig holds configuration for the ElevenLabsTTS adapter
// Required fields:
// - APIKey: Your Eleven Labs API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Eleven Labs API (default: "https://api.elevenlabs.io/v1")
// - FemaleVoiceID: voice used for "nova" (default: Rachel)
// - MaleVoiceID: voice used for "onyx" (default: Adam)
// - ModelID: The model ID to use (default: "eleven_multilingual_v2")
// - OutputFormat: The output format (default: "mp3_44100_128")
// - Stability: Voice stability value between 0 and 1 (default: 0.5)
// - Clarity: Voice clarity/similarity boost value between 0 and 1 (default: 0.75)
type ElevenLabsConfig struct {
	APIKey        string
	APIBaseURL    string
	FemaleVoiceID string
	MaleVoiceID   string
	ModelID       string
	OutputFormat  string
	Stability     float64
	Clarity       float64
}

// ElevenLabsTTS implements TextToSpeech over the Eleven Labs REST API
type ElevenLabsTTS struct {
	client        *resty.Client
	apiKey        string
	femaleVoiceID string
	maleVoiceID   string
	modelID       string
	outputFormat  string
	stability     float64
	clarity       float64
	logger        *zap.Logger
}

var _ repositories.TextToSpeech = (*ElevenLabsTTS)(nil)

// ElevenLabsVoiceSettings represents voice settings for Eleven Labs API
type ElevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

// ElevenLabsRequest represents the request payload for Eleven Labs TTS API
type ElevenLabsRequest struct {
	Text                   string                  `json:"text"`
	ModelID                string                  `json:"model_id"`
	VoiceSettings          ElevenLabsVoiceSettings `json:"voice_settings"`
	ApplyTextNormalization string                  `json:"apply_text_normalization,omitempty"`
}

// ValidateElevenLabsConfig validates the ElevenLabsConfig
func ValidateElevenLabsConfig(config ElevenLabsConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("eleven labs API key is required")
	}

	if config.Stability != 0 && (config.Stability < 0 || config.Stability > 1) {
		return fmt.Errorf("stability must be between 0 and 1, got %f", config.Stability)
	}

	if config.Clarity != 0 && (config.Clarity < 0 || config.Clarity > 1) {
		return fmt.Errorf("clarity must be between 0 and 1, got %f", config.Clarity)
	}

	if config.OutputFormat != "" && !strings.HasPrefix(config.OutputFormat, "mp3") {
		return fmt.Errorf("output format must be an mp3 format, got %s", config.OutputFormat)
	}

	return nil
}

// NewElevenLabsTTS creates a new Eleven Labs TTS instance
func NewElevenLabsTTS(config ElevenLabsConfig, logger *zap.Logger) (*ElevenLabsTTS, error) {
	if err := ValidateElevenLabsConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	femaleVoiceID := config.FemaleVoiceID
	if femaleVoiceID == "" {
		femaleVoiceID = defaultFemaleVoiceID
		logger.Info("Using default female voice ID", zap.String("voiceID", femaleVoiceID))
	}

	maleVoiceID := config.MaleVoiceID
	if maleVoiceID == "" {
		maleVoiceID = defaultMaleVoiceID
		logger.Info("Using default male voice ID", zap.String("voiceID", maleVoiceID))
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = defaultModelID
		logger.Info("Using default model ID", zap.String("modelID", modelID))
	}

	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat
		logger.Info("Using default output format", zap.String("outputFormat", outputFormat))
	}

	stability := config.Stability
	if stability == 0 {
		stability = defaultStability
		logger.Info("Using default stability", zap.Float64("stability", stability))
	}

	clarity := config.Clarity
	if clarity == 0 {
		clarity = defaultClarity
		logger.Info("Using default clarity", zap.Float64("clarity", clarity))
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(apiBaseURL, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("xi-api-key", config.APIKey)

	return &ElevenLabsTTS{
		client:        client,
		apiKey:        config.APIKey,
		femaleVoiceID: femaleVoiceID,
		maleVoiceID:   maleVoiceID,
		modelID:       modelID,
		outputFormat:  outputFormat,
		stability:     stability,
		clarity:       clarity,
		logger:        logger,
	}, nil
}

// Synthesize implements repositories.TextToSpeech
func (e *ElevenLabsTTS) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	voiceID := e.voiceID(voice)
	e.logger.Debug("Converting text to speech",
		zap.Int("length", len(text)),
		zap.String("voice", voice),
		zap.String("voiceID", voiceID),
		zap.String("modelID", e.modelID))

	request := ElevenLabsRequest{
		Text:                   text,
		ModelID:                e.modelID,
		ApplyTextNormalization: "auto",
		VoiceSettings: ElevenLabsVoiceSettings{
			Stability:       e.stability,
			SimilarityBoost: e.clarity,
			UseSpeakerBoost: true,
		},
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/mpeg").
		SetPathParam("voiceID", voiceID).
		SetQueryParams(map[string]string{
			"output_format":  e.outputFormat,
			"enable_logging": "false",
		}).
		SetBody(request).
		Post("/text-to-speech/{voiceID}")
	if err != nil {
		return nil, fmt.Errorf("eleven labs request failed: %w", err)
	}
	if resp.IsError() {
		e.logger.Error("Eleven Labs API returned error",
			zap.Int("statusCode", resp.StatusCode()),
			zap.String("response", resp.String()))
		return nil, fmt.Errorf("API returned error %d", resp.StatusCode())
	}

	e.logger.Debug("Received speech from Eleven Labs",
		zap.String("contentType", resp.Header().Get("Content-Type")),
		zap.Int("bytes", len(resp.Body())))
	return resp.Body(), nil
}

func (e *ElevenLabsTTS) voiceID(voice string) string {
	if voice == MaleVoice {
		return e.maleVoiceID
	}
	return e.femaleVoiceID
}

// NewElevenLabsConfigFromEnv creates a new ElevenLabsConfig from environment variables
func NewElevenLabsConfigFromEnv() ElevenLabsConfig {
	config := ElevenLabsConfig{
		APIKey:        os.Getenv("ELEVEN_LABS_API_KEY"),
		APIBaseURL:    os.Getenv("ELEVEN_LABS_API_BASE_URL"),
		FemaleVoiceID: os.Getenv("ELEVEN_LABS_FEMALE_VOICE_ID"),
		MaleVoiceID:   os.Getenv("ELEVEN_LABS_MALE_VOICE_ID"),
		ModelID:       os.Getenv("ELEVEN_LABS_MODEL_ID"),
		OutputFormat:  os.Getenv("ELEVEN_LABS_OUTPUT_FORMAT"),
	}

	if stabilityStr := os.Getenv("ELEVEN_LABS_STABILITY"); stabilityStr != "" {
		if stability, err := strconv.ParseFloat(stabilityStr, 64); err == nil && stability >= 0 && stability <= 1 {
			config.Stability = stability
		}
	}

	if clarityStr := os.Getenv("ELEVEN_LABS_CLARITY"); clarityStr != "" {
		if clarity, err := strconv.ParseFloat(clarityStr, 64); err == nil && clarity >= 0 && clarity <= 1 {
			config.Clarity = clarity
		}
	}

	return config
}
