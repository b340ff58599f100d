package entities

import "strings"

// DefaultVideoMimeType is used when a recorder does not report its negotiated type
const DefaultVideoMimeType = "video/webm"

// DefaultAudioMimeType is used when an audio recorder does not report its negotiated type
const DefaultAudioMimeType = "audio/webm"

// Blob is an in-memory binary media object tagged with its media type
type Blob struct {
	Data     []byte
	MimeType string
}

// Size returns the number of bytes in the blob
func (b *Blob) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Data)
}

// ClipFilename names an uploaded recording after its container: mp4, wav for
// raw PCM captures, and webm for everything else including ogg
func ClipFilename(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "mp4"):
		return "recording.mp4"
	case strings.Contains(mimeType, "wav"):
		return "recording.wav"
	default:
		return "recording.webm"
	}
}
