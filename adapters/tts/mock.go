package tts

import (
	"context"
	"fmt"
	"sync"

	"github.com/satriahrh/mockview/domain/repositories"
)

// MockTextToSpeech returns a fixed audio payload and records requested voices
type MockTextToSpeech struct {
	audio []byte

	mu     sync.Mutex
	voices []string
}

var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a mock that answers every request with audio
func NewMockTextToSpeech(audio []byte) *MockTextToSpeech {
	return &MockTextToSpeech{audio: audio}
}

// Synthesize implements repositories.TextToSpeech
func (m *MockTextToSpeech) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = append(m.voices, voice)
	return m.audio, nil
}

// Voices returns every voice requested so far
func (m *MockTextToSpeech) Voices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.voices...)
}
