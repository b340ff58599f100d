package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

const defaultOpusSampleRate = 48000

// GoogleSpeechToText implements SpeechToText for Google Cloud.
// Credentials come from Application Default Credentials.
type GoogleSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a new Google Cloud recognizer
func NewGoogleSpeechToText(logger *zap.Logger) *GoogleSpeechToText {
	return &GoogleSpeechToText{logger: logger}
}

// TranscribeAudio converts a complete clip to text with a synchronous Recognize call
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	encoding, err := getAudioEncoding(config.MimeType)
	if err != nil {
		return "", err
	}

	sampleRate := config.SampleRate
	if sampleRate == 0 && (encoding == speechpb.RecognitionConfig_WEBM_OPUS || encoding == speechpb.RecognitionConfig_OGG_OPUS) {
		sampleRate = defaultOpusSampleRate
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(sampleRate),
			LanguageCode:    languageCode(config.Language),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to recognize audio: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}

	transcript := strings.TrimSpace(strings.Join(parts, " "))
	g.logger.Debug("Recognized audio",
		zap.Int("results", len(resp.Results)),
		zap.Int("length", len(transcript)))
	return transcript, nil
}

// getAudioEncoding maps a container mime type to the Google Speech API enum
func getAudioEncoding(mimeType string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	switch base {
	case "audio/webm", "video/webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	case "audio/ogg":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "audio/wav", "audio/x-wav", "audio/l16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "audio/flac":
		return speechpb.RecognitionConfig_FLAC, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", mimeType)
	}
}

func languageCode(lang string) string {
	if entities.NormalizeLanguage(lang) == entities.LanguageKorean {
		return "ko-KR"
	}
	return "en-US"
}
