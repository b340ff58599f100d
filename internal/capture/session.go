package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
)

// DefaultStopTimeout bounds how long Stop waits for the device to finalize
const DefaultStopTimeout = 5 * time.Second

var (
	ErrSessionActive = errors.New("capture: recording session already active")
	ErrNotActive     = errors.New("capture: recorder not active")
	ErrStopTimeout   = errors.New("capture: recorder stop timed out")
	ErrNoTracks      = errors.New("capture: no tracks to record")
)

// SessionConfig tunes a Session. Zero values select the video defaults.
type SessionConfig struct {
	MimeCandidates  []string
	DefaultMimeType string
	StopTimeout     time.Duration
}

// VideoSessionConfig records camera and microphone together
func VideoSessionConfig() SessionConfig {
	return SessionConfig{
		MimeCandidates:  VideoMimeTypes,
		DefaultMimeType: entities.DefaultVideoMimeType,
		StopTimeout:     DefaultStopTimeout,
	}
}

// AudioSessionConfig records the microphone only
func AudioSessionConfig() SessionConfig {
	return SessionConfig{
		MimeCandidates:  AudioMimeTypes,
		DefaultMimeType: entities.DefaultAudioMimeType,
		StopTimeout:     DefaultStopTimeout,
	}
}

// Session buffers one recording at a time from a fixed set of tracks.
// A Session can be started again after Stop or Cleanup.
type Session struct {
	backend Backend
	tracks  []Track
	config  SessionConfig
	logger  *zap.Logger

	mu       sync.Mutex
	recorder Recorder
	buffer   *chunkBuffer
	active   bool
}

// NewSession creates a session over tracks, typically one video and one audio track
func NewSession(backend Backend, tracks []Track, config SessionConfig, logger *zap.Logger) *Session {
	if len(config.MimeCandidates) == 0 {
		config.MimeCandidates = VideoMimeTypes
	}
	if config.DefaultMimeType == "" {
		config.DefaultMimeType = entities.DefaultVideoMimeType
	}
	if config.StopTimeout <= 0 {
		config.StopTimeout = DefaultStopTimeout
	}

	return &Session{
		backend: backend,
		tracks:  tracks,
		config:  config,
		logger:  logger,
	}
}

// Start begins buffering media with the best supported container type
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrSessionActive
	}
	if len(s.tracks) == 0 {
		return ErrNoTracks
	}

	mimeType := SelectMimeType(s.backend, s.config.MimeCandidates)
	recorder, err := s.backend.NewRecorder(s.tracks, mimeType)
	if err != nil {
		return fmt.Errorf("create recorder: %w", err)
	}

	buffer := &chunkBuffer{}
	if err := recorder.Start(buffer.append); err != nil {
		return fmt.Errorf("start recorder: %w", err)
	}

	s.recorder = recorder
	s.buffer = buffer
	s.active = true

	s.logger.Debug("Recording started",
		zap.String("mimeType", mimeType),
		zap.Int("tracks", len(s.tracks)))
	return nil
}

// Stop finalizes the recording and returns the assembled blob.
// State is reset whether or not finalization succeeds.
func (s *Session) Stop(ctx context.Context) (*entities.Blob, error) {
	s.mu.Lock()
	recorder, buffer := s.recorder, s.buffer
	if !s.active || recorder == nil || recorder.State() == StateInactive {
		s.resetLocked()
		s.mu.Unlock()
		return nil, ErrNotActive
	}
	s.mu.Unlock()

	if err := recorder.Stop(); err != nil {
		s.reset(recorder)
		return nil, fmt.Errorf("stop recorder: %w", err)
	}

	timer := time.NewTimer(s.config.StopTimeout)
	defer timer.Stop()

	select {
	case <-recorder.Stopped():
	case <-timer.C:
		s.reset(recorder)
		s.logger.Warn("Recorder did not finalize in time", zap.Duration("timeout", s.config.StopTimeout))
		return nil, ErrStopTimeout
	case <-ctx.Done():
		s.reset(recorder)
		return nil, fmt.Errorf("stop recorder: %w", ctx.Err())
	}

	mimeType := recorder.MimeType()
	if mimeType == "" {
		mimeType = s.config.DefaultMimeType
	}
	blob := &entities.Blob{Data: buffer.bytes(), MimeType: mimeType}
	s.reset(recorder)

	s.logger.Debug("Recording finalized",
		zap.String("mimeType", mimeType),
		zap.Int("size", blob.Size()))
	return blob, nil
}

// Cleanup force-stops any active recording and drops its data
func (s *Session) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recorder != nil && s.recorder.State() != StateInactive {
		if err := s.recorder.Stop(); err != nil {
			s.logger.Debug("Ignoring recorder stop error during cleanup", zap.Error(err))
		}
	}
	s.resetLocked()
}

// IsActive reports whether a recording is in progress
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// reset clears state only if it still belongs to recorder, so a
// session restarted by another caller is left alone
func (s *Session) reset(recorder Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorder == recorder {
		s.resetLocked()
	}
}

func (s *Session) resetLocked() {
	if s.buffer != nil {
		s.buffer.discard()
	}
	s.recorder = nil
	s.buffer = nil
	s.active = false
}

// chunkBuffer collects non-empty chunks for one recording
type chunkBuffer struct {
	mu        sync.Mutex
	chunks    [][]byte
	discarded bool
}

func (b *chunkBuffer) append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.discarded {
		return
	}
	b.chunks = append(b.chunks, append([]byte(nil), chunk...))
}

func (b *chunkBuffer) bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Join(b.chunks, nil)
}

func (b *chunkBuffer) discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = nil
	b.discarded = true
}
