//go:build cgo

package capture

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"
)

const (
	defaultMalgoSampleRate = 16000
	defaultMalgoChannels   = 1
)

// MalgoBackend records the default microphone through miniaudio.
// It only produces audio/wav, so it serves audio-only sessions.
type MalgoBackend struct {
	ctx        *malgo.AllocatedContext
	sampleRate uint32
	channels   uint32
	logger     *zap.Logger
}

var _ Backend = (*MalgoBackend)(nil)

// NewMalgoBackend initializes the audio context
func NewMalgoBackend(logger *zap.Logger) (*MalgoBackend, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo init context: %w", err)
	}
	return &MalgoBackend{
		ctx:        ctx,
		sampleRate: defaultMalgoSampleRate,
		channels:   defaultMalgoChannels,
		logger:     logger,
	}, nil
}

// Microphone returns a track for the default capture device
func (b *MalgoBackend) Microphone() Track {
	return &malgoTrack{}
}

// IsTypeSupported implements Backend
func (b *MalgoBackend) IsTypeSupported(mimeType string) bool {
	return mimeType == WAVMimeType
}

// NewRecorder implements Backend
func (b *MalgoBackend) NewRecorder(tracks []Track, mimeType string) (Recorder, error) {
	if mimeType != "" && mimeType != WAVMimeType {
		return nil, fmt.Errorf("malgo backend cannot record %s", mimeType)
	}
	hasAudio := false
	for _, track := range tracks {
		if track.Kind() == KindAudio {
			hasAudio = true
		}
	}
	if !hasAudio {
		return nil, ErrNoTracks
	}

	return &malgoRecorder{
		backend: b,
		state:   StateInactive,
		stopped: make(chan struct{}),
	}, nil
}

// Close releases the audio context
func (b *MalgoBackend) Close() {
	b.ctx.Uninit()
	b.ctx.Free()
}

type malgoTrack struct{}

func (t *malgoTrack) Kind() TrackKind { return KindAudio }
func (t *malgoTrack) ID() string      { return "default" }
func (t *malgoTrack) Stop()           {}

type malgoRecorder struct {
	backend *MalgoBackend

	mu      sync.Mutex
	device  *malgo.Device
	pcm     []byte
	onData  func([]byte)
	state   RecorderState
	stopped chan struct{}
}

func (r *malgoRecorder) Start(onData func([]byte)) error {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = r.backend.channels
	deviceConfig.SampleRate = r.backend.sampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, data []byte, _ uint32) {
			r.mu.Lock()
			r.pcm = append(r.pcm, data...)
			r.mu.Unlock()
		},
	}

	dev, err := malgo.InitDevice(r.backend.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("malgo init device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		return fmt.Errorf("malgo start device: %w", err)
	}

	r.mu.Lock()
	r.device = dev
	r.onData = onData
	r.state = StateRecording
	r.mu.Unlock()
	return nil
}

func (r *malgoRecorder) Stop() error {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return ErrNotActive
	}
	dev := r.device
	r.device = nil
	r.state = StateInactive
	r.mu.Unlock()

	// Stop blocks until the callback has returned, so pcm is complete afterwards
	err := dev.Stop()
	dev.Uninit()

	r.mu.Lock()
	pcm := r.pcm
	r.pcm = nil
	onData := r.onData
	r.mu.Unlock()

	onData(EncodeWAV(pcm, r.backend.sampleRate, r.backend.channels))
	close(r.stopped)

	r.backend.logger.Debug("Microphone capture stopped", zap.Int("pcmBytes", len(pcm)))
	return err
}

func (r *malgoRecorder) Stopped() <-chan struct{} { return r.stopped }

func (r *malgoRecorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *malgoRecorder) MimeType() string { return WAVMimeType }
