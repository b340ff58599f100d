package playback

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Voice identifiers understood by the speech endpoint
const (
	VoiceMale   = "onyx"
	VoiceFemale = "nova"

	GenderMale = "male"
)

// ErrAutoplayBlocked is returned by a Player when the platform refuses to start audio
var ErrAutoplayBlocked = errors.New("playback: autoplay blocked")

// Synthesizer fetches synthesized speech as encoded audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Player is the audio output device
type Player interface {
	// Play blocks until the audio finishes, fails, or ctx is done
	Play(ctx context.Context, audio []byte) error
	Pause()
	// Rewind moves the playhead back to the start
	Rewind()
}

// VoiceFor maps an interviewer gender to a voice
func VoiceFor(gender string) string {
	if gender == GenderMale {
		return VoiceMale
	}
	return VoiceFemale
}

// Speaker reads interview questions aloud
type Speaker struct {
	synthesizer Synthesizer
	player      Player
	logger      *zap.Logger
}

// NewSpeaker creates a speaker
func NewSpeaker(synthesizer Synthesizer, player Player, logger *zap.Logger) *Speaker {
	return &Speaker{
		synthesizer: synthesizer,
		player:      player,
		logger:      logger,
	}
}

// Speak fetches audio for text and starts playing it in the background.
// A failed fetch yields a handle that ends on its own, like a blocked autoplay.
func (s *Speaker) Speak(ctx context.Context, text, gender string) *Handle {
	playCtx, cancel := context.WithCancel(ctx)
	handle := &Handle{
		done:   make(chan struct{}),
		cancel: cancel,
		player: s.player,
	}

	voice := VoiceFor(gender)
	go func() {
		defer cancel()
		defer handle.end()

		audio, err := s.synthesizer.Synthesize(playCtx, text, voice)
		if err != nil {
			s.logger.Warn("Speech synthesis failed, ending playback", zap.String("voice", voice), zap.Error(err))
			return
		}

		err = s.player.Play(playCtx, audio)
		switch {
		case err == nil:
		case errors.Is(err, ErrAutoplayBlocked):
			s.logger.Info("Autoplay blocked, ending playback immediately")
		case playCtx.Err() != nil:
		default:
			s.logger.Warn("Playback failed", zap.Error(err))
		}
	}()

	return handle
}

// Handle is one in-flight playback. Done closes exactly once, whether the audio
// finished, failed, was blocked, or was cancelled. OnEnded is skipped on cancel.
type Handle struct {
	done   chan struct{}
	once   sync.Once
	cancel context.CancelFunc
	player Player

	mu        sync.Mutex
	ended     bool
	cancelled bool
	onEnded   func()
}

// Done closes when playback has ended
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// OnEnded sets the callback run when playback ends, replacing any previous one.
// The callback always runs on its own goroutine, including when the handle
// has already ended.
func (h *Handle) OnEnded(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEnded = fn
	if h.ended && !h.cancelled && fn != nil {
		go fn()
	}
}

// Cancel pauses and rewinds the player. The handle ends without running OnEnded.
func (h *Handle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()

	h.player.Pause()
	h.player.Rewind()
	h.cancel()
	h.end()
}

func (h *Handle) end() {
	h.once.Do(func() {
		h.mu.Lock()
		h.ended = true
		fn := h.onEnded
		if h.cancelled {
			fn = nil
		}
		h.mu.Unlock()

		close(h.done)
		if fn != nil {
			go fn()
		}
	})
}
