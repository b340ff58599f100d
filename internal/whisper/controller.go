package whisper

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/internal/capture"
)

// State is the controller's position in the fallback state machine
type State string

const (
	StateIdle         State = "idle"
	StateWhisperMode  State = "whisper_mode"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
)

var (
	ErrRecordingInProgress = errors.New("whisper: recording already in progress")

	// ErrRecognitionDenied reports that the user refused microphone access to on-device recognition
	ErrRecognitionDenied = errors.New("whisper: on-device recognition denied")
	// ErrRecognitionUnavailable reports that the platform has no on-device recognition
	ErrRecognitionUnavailable = errors.New("whisper: on-device recognition unavailable")
)

// Recognizer is the on-device speech recognition facility
type Recognizer interface {
	Available() bool
}

// Transcriber uploads a recorded clip to the server-side transcription endpoint
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error)
}

// ControllerConfig wires a Controller
type ControllerConfig struct {
	Language    string
	Backend     capture.Backend
	Transcriber Transcriber
	// StopTimeout bounds recorder finalization (default 5s)
	StopTimeout time.Duration
	// OnTranscript receives every successful transcript
	OnTranscript func(text string)
	// OnTranscribing is set while the upload is in flight
	OnTranscribing func(busy bool)
}

// Controller produces transcripts through server-side speech-to-text when
// on-device recognition cannot be used
type Controller struct {
	config ControllerConfig
	logger *zap.Logger

	mu          sync.Mutex
	whisperMode bool
	state       State
	session     *capture.Session
	generation  uint64
}

// NewController creates a controller in the Idle state
func NewController(config ControllerConfig, logger *zap.Logger) *Controller {
	if config.StopTimeout <= 0 {
		config.StopTimeout = capture.DefaultStopTimeout
	}
	if config.OnTranscript == nil {
		config.OnTranscript = func(string) {}
	}
	if config.OnTranscribing == nil {
		config.OnTranscribing = func(bool) {}
	}
	return &Controller{
		config: config,
		logger: logger,
		state:  StateIdle,
	}
}

// Probe switches to whisper mode when r is missing or reports itself unavailable.
// It returns whether whisper mode is active afterwards.
func (c *Controller) Probe(r Recognizer) bool {
	if r == nil || !r.Available() {
		c.ActivateWhisperMode()
	}
	return c.IsWhisperMode()
}

// RecognitionFailed switches to whisper mode when on-device recognition
// was denied or is unavailable. Other recognition errors are transient.
func (c *Controller) RecognitionFailed(err error) {
	if errors.Is(err, ErrRecognitionDenied) || errors.Is(err, ErrRecognitionUnavailable) {
		c.logger.Info("On-device recognition unusable, switching to whisper mode", zap.Error(err))
		c.ActivateWhisperMode()
	}
}

// ActivateWhisperMode is a one-way switch for the lifetime of the controller
func (c *Controller) ActivateWhisperMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.whisperMode {
		return
	}
	c.whisperMode = true
	if c.state == StateIdle {
		c.state = StateWhisperMode
	}
}

// IsWhisperMode reports whether the fallback path is active
func (c *Controller) IsWhisperMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.whisperMode
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartRecording opens an audio-only recording on track. A nil track is ignored.
func (c *Controller) StartRecording(track capture.Track) error {
	if track == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrRecordingInProgress
	}

	config := capture.AudioSessionConfig()
	config.StopTimeout = c.config.StopTimeout
	session := capture.NewSession(c.config.Backend, []capture.Track{track}, config, c.logger)
	if err := session.Start(); err != nil {
		return err
	}

	c.generation++
	c.session = session
	c.state = StateRecording
	return nil
}

// StopRecording finalizes the recording and returns its transcript.
// It returns "" without error when nothing is recording, when the clip is
// empty, or when transcription fails. A device that does not finalize in
// time yields capture.ErrStopTimeout.
func (c *Controller) StopRecording(ctx context.Context) (string, error) {
	c.mu.Lock()
	session, generation := c.session, c.generation
	if session == nil || c.state != StateRecording {
		c.mu.Unlock()
		return "", nil
	}
	c.state = StateTranscribing
	c.mu.Unlock()

	defer c.finish(generation)

	blob, err := session.Stop(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrNotActive) {
			return "", nil
		}
		return "", err
	}

	if blob.Size() == 0 {
		return "", nil
	}
	if !c.current(generation) {
		return "", nil
	}

	c.config.OnTranscribing(true)
	defer c.config.OnTranscribing(false)

	text, err := c.config.Transcriber.Transcribe(ctx, blob.Data, entities.ClipFilename(blob.MimeType), c.config.Language)
	if err != nil {
		c.logger.Error("Whisper transcription failed", zap.Error(err))
		return "", nil
	}

	if !c.current(generation) {
		return "", nil
	}
	c.config.OnTranscript(text)
	return text, nil
}

// CancelRecording stops any recorder and discards its data without delivering a transcript.
// It is safe to call at any time.
func (c *Controller) CancelRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Cleanup()
	}
	c.generation++
	c.session = nil
	c.state = c.restingState()
}

func (c *Controller) current(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == generation
}

func (c *Controller) finish(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return
	}
	c.session = nil
	c.state = c.restingState()
}

func (c *Controller) restingState() State {
	if c.whisperMode {
		return StateWhisperMode
	}
	return StateIdle
}
