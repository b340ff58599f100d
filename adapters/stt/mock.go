package stt

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/repositories"
)

// MockSpeechToText returns a fixed transcript and records what it was asked to transcribe
type MockSpeechToText struct {
	logger     *zap.Logger
	transcript string
	err        error

	mu      sync.Mutex
	configs []repositories.AudioConfig
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a mock that always answers with transcript
func NewMockSpeechToText(transcript string, logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{transcript: transcript, logger: logger}
}

// FailWith makes every following call return err
func (m *MockSpeechToText) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// TranscribeAudio implements repositories.SpeechToText
func (m *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	m.logger.Info("Processing mock transcription",
		zap.Int("size", len(audioData)),
		zap.String("mimeType", config.MimeType),
		zap.String("language", config.Language))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = append(m.configs, config)
	if m.err != nil {
		return "", m.err
	}
	return m.transcript, nil
}

// Calls returns the configs of every transcription request received
func (m *MockSpeechToText) Calls() []repositories.AudioConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repositories.AudioConfig(nil), m.configs...)
}
