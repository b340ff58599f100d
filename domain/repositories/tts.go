package repositories

import "context"

// TextToSpeech abstracts speech synthesis services
type TextToSpeech interface {
	// Synthesize renders text in the given voice and returns encoded audio (mp3)
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
