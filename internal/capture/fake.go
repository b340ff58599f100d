package capture

import (
	"errors"
	"sync"
)

// FakeTrack is an in-memory device track
type FakeTrack struct {
	kind TrackKind
	id   string

	mu      sync.Mutex
	stopped bool
}

// NewFakeTrack creates a live fake track
func NewFakeTrack(kind TrackKind, id string) *FakeTrack {
	return &FakeTrack{kind: kind, id: id}
}

func (t *FakeTrack) Kind() TrackKind { return t.kind }
func (t *FakeTrack) ID() string      { return t.id }

func (t *FakeTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Stopped reports whether Stop was called
func (t *FakeTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// FakeBackend is a scripted Backend for tests and headless runs.
// Every recorder it creates replays Chunks: all but the last on Start,
// the last one as the final flush on Stop.
type FakeBackend struct {
	Supported map[string]bool
	// Chunks is the data each recorder emits
	Chunks [][]byte
	// ReportedMimeType overrides what recorders report; nil echoes the requested type
	ReportedMimeType *string
	// NeverFinalize makes Stop hang until the caller gives up
	NeverFinalize bool
	StopErr       error
	CreateErr     error

	mu        sync.Mutex
	recorders []*FakeRecorder
}

// NewFakeBackend creates a backend supporting the given types
func NewFakeBackend(supported ...string) *FakeBackend {
	set := make(map[string]bool, len(supported))
	for _, mimeType := range supported {
		set[mimeType] = true
	}
	return &FakeBackend{Supported: set}
}

// IsTypeSupported implements Backend
func (b *FakeBackend) IsTypeSupported(mimeType string) bool {
	return b.Supported[mimeType]
}

// NewRecorder implements Backend
func (b *FakeBackend) NewRecorder(tracks []Track, mimeType string) (Recorder, error) {
	if b.CreateErr != nil {
		return nil, b.CreateErr
	}

	reported := mimeType
	if b.ReportedMimeType != nil {
		reported = *b.ReportedMimeType
	}

	recorder := &FakeRecorder{
		tracks:        tracks,
		mimeType:      reported,
		chunks:        b.Chunks,
		neverFinalize: b.NeverFinalize,
		stopErr:       b.StopErr,
		state:         StateInactive,
		stopped:       make(chan struct{}),
	}

	b.mu.Lock()
	b.recorders = append(b.recorders, recorder)
	b.mu.Unlock()
	return recorder, nil
}

// Recorders returns every recorder created so far
func (b *FakeBackend) Recorders() []*FakeRecorder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*FakeRecorder(nil), b.recorders...)
}

// FakeRecorder is the Recorder produced by FakeBackend
type FakeRecorder struct {
	tracks        []Track
	mimeType      string
	chunks        [][]byte
	neverFinalize bool
	stopErr       error

	mu        sync.Mutex
	state     RecorderState
	onData    func([]byte)
	stopCalls int
	stopped   chan struct{}
	closeOnce sync.Once
}

// Start implements Recorder
func (r *FakeRecorder) Start(onData func([]byte)) error {
	r.mu.Lock()
	if r.state == StateRecording {
		r.mu.Unlock()
		return errors.New("fake recorder already started")
	}
	r.state = StateRecording
	r.onData = onData
	r.mu.Unlock()

	if len(r.chunks) > 1 {
		for _, chunk := range r.chunks[:len(r.chunks)-1] {
			onData(chunk)
		}
	}
	return nil
}

// Emit pushes an extra chunk as if the device produced it
func (r *FakeRecorder) Emit(chunk []byte) {
	r.mu.Lock()
	onData := r.onData
	recording := r.state == StateRecording
	r.mu.Unlock()
	if recording && onData != nil {
		onData(chunk)
	}
}

// Stop implements Recorder
func (r *FakeRecorder) Stop() error {
	r.mu.Lock()
	r.stopCalls++
	if r.stopErr != nil {
		r.mu.Unlock()
		return r.stopErr
	}
	if r.state != StateRecording {
		r.mu.Unlock()
		return errors.New("fake recorder not recording")
	}
	r.state = StateInactive
	onData := r.onData
	r.mu.Unlock()

	if r.neverFinalize {
		return nil
	}

	if len(r.chunks) > 0 && onData != nil {
		onData(r.chunks[len(r.chunks)-1])
	}
	r.closeOnce.Do(func() { close(r.stopped) })
	return nil
}

// Stopped implements Recorder
func (r *FakeRecorder) Stopped() <-chan struct{} { return r.stopped }

// State implements Recorder
func (r *FakeRecorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// MimeType implements Recorder
func (r *FakeRecorder) MimeType() string { return r.mimeType }

// Tracks returns the tracks the recorder was created over
func (r *FakeRecorder) Tracks() []Track { return r.tracks }

// StopCalls reports how many times Stop was invoked
func (r *FakeRecorder) StopCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopCalls
}
