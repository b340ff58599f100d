package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeAudio converts a complete recorded clip to text
	TranscribeAudio(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
}

// AudioConfig describes a recorded clip handed to a recognizer
type AudioConfig struct {
	// Filename carries the container extension, e.g. recording.webm
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	SampleRate int    `json:"sample_rate"`
	Language   string `json:"language"`
}
