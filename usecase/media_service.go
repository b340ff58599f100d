package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

// DefaultVoice is the synthesis voice used when a request names none
const DefaultVoice = "nova"

// MediaService wraps the speech providers behind the transcription and speech endpoints
type MediaService struct {
	stt    repositories.SpeechToText
	tts    repositories.TextToSpeech
	logger *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(stt repositories.SpeechToText, tts repositories.TextToSpeech, logger *zap.Logger) *MediaService {
	return &MediaService{stt: stt, tts: tts, logger: logger}
}

// TranscribeRequest is a complete recorded clip
type TranscribeRequest struct {
	Audio    []byte
	Filename string
	MimeType string
	Language string
}

// Transcribe converts a recorded clip to text. Any language other than Korean is treated as English.
func (s *MediaService) Transcribe(ctx context.Context, req TranscribeRequest) (string, error) {
	if len(req.Audio) == 0 {
		return "", fmt.Errorf("%w: audio is empty", ErrInvalidInput)
	}

	config := repositories.AudioConfig{
		Filename: req.Filename,
		MimeType: req.MimeType,
		Language: entities.NormalizeLanguage(req.Language),
	}
	if config.MimeType == "" {
		config.MimeType = mimeTypeFromFilename(req.Filename)
	}
	if config.Filename == "" {
		config.Filename = "recording.webm"
	}

	text, err := s.stt.TranscribeAudio(ctx, req.Audio, config)
	if err != nil {
		s.logger.Error("Transcription failed",
			zap.String("filename", config.Filename),
			zap.Int("size", len(req.Audio)),
			zap.Error(err))
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	s.logger.Info("Transcription completed",
		zap.String("language", config.Language),
		zap.Int("chars", len(text)))
	return text, nil
}

// Synthesize renders text as mp3 audio in the requested voice
func (s *MediaService) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	if voice == "" {
		voice = DefaultVoice
	}

	audio, err := s.tts.Synthesize(ctx, text, voice)
	if err != nil {
		s.logger.Error("Speech synthesis failed", zap.String("voice", voice), zap.Error(err))
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	return audio, nil
}

func mimeTypeFromFilename(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".mp4", ".m4a":
		return "audio/mp4"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	default:
		return entities.DefaultAudioMimeType
	}
}
