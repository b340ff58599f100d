package capture

// TrackKind distinguishes audio from video device tracks
type TrackKind string

const (
	KindAudio TrackKind = "audio"
	KindVideo TrackKind = "video"
)

// Track is one live device track (camera or microphone).
// Tracks are owned by whoever opened the device; recorders only read from them.
type Track interface {
	Kind() TrackKind
	ID() string
	// Stop releases the underlying device
	Stop()
}

// RecorderState mirrors the lifecycle of a platform recorder
type RecorderState string

const (
	StateInactive  RecorderState = "inactive"
	StateRecording RecorderState = "recording"
)

// Recorder encodes tracks into container chunks
type Recorder interface {
	// Start begins encoding. onData receives every chunk produced, possibly from another goroutine.
	Start(onData func([]byte)) error
	// Stop requests finalization. Remaining data is flushed through onData before Stopped closes.
	Stop() error
	// Stopped closes once the recorder has finalized
	Stopped() <-chan struct{}
	State() RecorderState
	// MimeType is the negotiated container type, empty if the platform did not report one
	MimeType() string
}

// Backend is the platform's recording facility
type Backend interface {
	// IsTypeSupported is the capability probe used for mime negotiation
	IsTypeSupported(mimeType string) bool
	// NewRecorder creates a recorder over tracks. An empty mimeType lets the platform choose.
	NewRecorder(tracks []Track, mimeType string) (Recorder, error)
}
