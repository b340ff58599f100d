package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newVideoSession(t *testing.T, backend *FakeBackend) (*Session, []*FakeTrack) {
	t.Helper()
	video := NewFakeTrack(KindVideo, "camera")
	audio := NewFakeTrack(KindAudio, "mic")
	session := NewSession(backend, []Track{video, audio}, VideoSessionConfig(), zaptest.NewLogger(t))
	return session, []*FakeTrack{video, audio}
}

func TestSelectMimeType(t *testing.T) {
	tests := []struct {
		name       string
		supported  []string
		candidates []string
		want       string
	}{
		{"prefers first supported video type", []string{"video/webm", "video/webm;codecs=vp8,opus"}, VideoMimeTypes, "video/webm;codecs=vp8,opus"},
		{"falls back to mp4", []string{"video/mp4"}, VideoMimeTypes, "video/mp4"},
		{"nothing supported", nil, VideoMimeTypes, ""},
		{"audio list", []string{"audio/ogg;codecs=opus", "audio/mp4"}, AudioMimeTypes, "audio/ogg;codecs=opus"},
		{"all supported picks first", AudioMimeTypes, AudioMimeTypes, "audio/webm;codecs=opus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMimeType(NewFakeBackend(tt.supported...), tt.candidates))
		})
	}

	assert.Equal(t, "", SelectMimeType(nil, VideoMimeTypes))
}

func TestSession_StartStop(t *testing.T) {
	backend := NewFakeBackend("video/webm;codecs=vp9,opus")
	backend.Chunks = [][]byte{[]byte("ab"), {}, []byte("cd"), []byte("ef")}
	session, _ := newVideoSession(t, backend)

	require.NoError(t, session.Start())
	assert.True(t, session.IsActive())

	recorders := backend.Recorders()
	require.Len(t, recorders, 1)
	assert.Len(t, recorders[0].Tracks(), 2)

	blob, err := session.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), blob.Data)
	assert.Equal(t, "video/webm;codecs=vp9,opus", blob.MimeType)
	assert.False(t, session.IsActive())

	// a stopped session can be started again
	require.NoError(t, session.Start())
	session.Cleanup()
}

func TestSession_DefaultMimeType(t *testing.T) {
	backend := NewFakeBackend()
	backend.Chunks = [][]byte{[]byte("x")}
	session, _ := newVideoSession(t, backend)

	require.NoError(t, session.Start())
	blob, err := session.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "video/webm", blob.MimeType)
}

func TestSession_StartWhileActive(t *testing.T) {
	session, _ := newVideoSession(t, NewFakeBackend("video/webm"))

	require.NoError(t, session.Start())
	assert.ErrorIs(t, session.Start(), ErrSessionActive)
	session.Cleanup()
}

func TestSession_StopWithoutStart(t *testing.T) {
	backend := NewFakeBackend("video/webm")
	session, _ := newVideoSession(t, backend)

	blob, err := session.Stop(context.Background())
	assert.Nil(t, blob)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.Empty(t, backend.Recorders())
}

func TestSession_StopTimeout(t *testing.T) {
	backend := NewFakeBackend("video/webm")
	backend.NeverFinalize = true
	backend.Chunks = [][]byte{[]byte("lost"), []byte("never")}

	config := VideoSessionConfig()
	config.StopTimeout = 20 * time.Millisecond
	session := NewSession(backend, []Track{NewFakeTrack(KindVideo, "v"), NewFakeTrack(KindAudio, "a")}, config, zaptest.NewLogger(t))

	require.NoError(t, session.Start())
	_, err := session.Stop(context.Background())
	assert.ErrorIs(t, err, ErrStopTimeout)
	assert.False(t, session.IsActive())

	// state was reset, so a new recording may start
	backend.NeverFinalize = false
	backend.Chunks = [][]byte{[]byte("fresh")}
	require.NoError(t, session.Start())
	blob, err := session.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), blob.Data)
}

func TestSession_StopContextCancelled(t *testing.T) {
	backend := NewFakeBackend("video/webm")
	backend.NeverFinalize = true
	session, _ := newVideoSession(t, backend)

	require.NoError(t, session.Start())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Stop(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, session.IsActive())
}

func TestSession_StopError(t *testing.T) {
	backend := NewFakeBackend("video/webm")
	backend.StopErr = errors.New("device gone")
	session, _ := newVideoSession(t, backend)

	require.NoError(t, session.Start())
	_, err := session.Stop(context.Background())
	assert.ErrorContains(t, err, "device gone")
	assert.False(t, session.IsActive())
}

func TestSession_Cleanup(t *testing.T) {
	backend := NewFakeBackend("video/webm")
	backend.StopErr = errors.New("already stopped")
	session, tracks := newVideoSession(t, backend)

	// no-op when idle
	session.Cleanup()

	require.NoError(t, session.Start())
	session.Cleanup()
	session.Cleanup()

	assert.False(t, session.IsActive())
	assert.Equal(t, 1, backend.Recorders()[0].StopCalls())
	for _, track := range tracks {
		assert.False(t, track.Stopped(), "tracks stay owned by the caller")
	}

	_, err := session.Stop(context.Background())
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestSession_NoTracks(t *testing.T) {
	session := NewSession(NewFakeBackend(), nil, AudioSessionConfig(), zaptest.NewLogger(t))
	assert.ErrorIs(t, session.Start(), ErrNoTracks)
}

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	wav := EncodeWAV(pcm, 16000, 1)

	require.Len(t, wav, wavHeaderSize+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, pcm, wav[wavHeaderSize:])
}
